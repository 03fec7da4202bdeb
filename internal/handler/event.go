package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// EventHandler handles event endpoints
type EventHandler struct {
	registry *service.RegistryService
}

// NewEventHandler creates a new event handler
func NewEventHandler(registry *service.RegistryService) *EventHandler {
	return &EventHandler{
		registry: registry,
	}
}

// CreateEvent handles POST /v1/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	var fieldErrors []model.FieldError
	if req.Title == "" {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if req.StartTime.IsZero() {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "start_time",
			Message: "start_time is required",
		})
	}
	if req.MaxAttendees < model.MinAttendees {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   "max_attendees",
			Message: "max_attendees must be at least 1",
		})
	}
	if len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	event, err := h.registry.CreateEvent(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, event, map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// ListEvents handles GET /v1/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filters, pd := parseEventFilters(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	events, err := h.registry.ListEvents(r.Context(), filters)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, events, len(events), map[string]string{
		"self": "/v1/events",
	})
}

// GetEvent handles GET /v1/events/{eventId}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	event, err := h.registry.GetEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event, map[string]string{
		"self": "/v1/events/" + eventID,
	})
}

// UpdateEvent handles PATCH /v1/events/{eventId}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	var req model.UpdateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	event, err := h.registry.UpdateEvent(r.Context(), userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event, map[string]string{
		"self": "/v1/events/" + eventID,
	})
}

// DeleteEvent handles DELETE /v1/events/{eventId}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	if err := h.registry.DeleteEvent(r.Context(), userID, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Register handles POST /v1/events/{eventId}/register
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.registrationAction(w, r, h.registry.Register)
}

// Unregister handles POST /v1/events/{eventId}/unregister
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	h.registrationAction(w, r, h.registry.Unregister)
}

// ConfirmRSVP handles POST /v1/events/{eventId}/rsvp
func (h *EventHandler) ConfirmRSVP(w http.ResponseWriter, r *http.Request) {
	h.registrationAction(w, r, h.registry.ConfirmRSVP)
}

// CancelRSVP handles DELETE /v1/events/{eventId}/rsvp
func (h *EventHandler) CancelRSVP(w http.ResponseWriter, r *http.Request) {
	h.registrationAction(w, r, h.registry.CancelRSVP)
}

// ToggleBookmark handles POST /v1/events/{eventId}/bookmark
func (h *EventHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	h.registrationAction(w, r, h.registry.ToggleBookmark)
}

// RegistrationState handles GET /v1/events/{eventId}/registration
func (h *EventHandler) RegistrationState(w http.ResponseWriter, r *http.Request) {
	h.registrationAction(w, r, h.registry.GetRegistrationState)
}

// registrationAction runs a per-user registration operation and writes the
// resulting registration state
func (h *EventHandler) registrationAction(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, eventID string) (*service.RegistrationState, error),
) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	state, err := op(r.Context(), userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, state, map[string]string{
		"event": "/v1/events/" + eventID,
	})
}

func parseEventFilters(r *http.Request) (model.EventFilters, *model.ProblemDetails) {
	var filters model.EventFilters
	q := r.URL.Query()

	if v := q.Get("category"); v != "" {
		filters.Category = &v
	}
	if v := q.Get("department"); v != "" {
		filters.Department = &v
	}
	if v := q.Get("created_by"); v != "" {
		filters.CreatedBy = &v
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, model.NewBadRequestError("invalid 'from' timestamp, expected RFC 3339")
		}
		filters.StartAfter = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, model.NewBadRequestError("invalid 'to' timestamp, expected RFC 3339")
		}
		filters.StartBefore = &t
	}

	return filters, nil
}
