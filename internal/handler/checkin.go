package handler

import (
	"html/template"
	"net/http"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// CheckInHandler handles attendance check-in endpoints, including the
// QR-code deep link page scanned at the venue
type CheckInHandler struct {
	registry     *service.RegistryService
	reminders    *service.ReminderService
	publicOrigin string
}

// NewCheckInHandler creates a new check-in handler. publicOrigin is the
// externally reachable base URL used when emitting check-in page links.
func NewCheckInHandler(registry *service.RegistryService, reminders *service.ReminderService, publicOrigin string) *CheckInHandler {
	return &CheckInHandler{
		registry:     registry,
		reminders:    reminders,
		publicOrigin: publicOrigin,
	}
}

// CheckIn handles POST /v1/events/{eventId}/checkin
func (h *CheckInHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.registry.CheckIn(r.Context(), userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if result.Outcome == model.CheckInOutcomeNotFound {
		WriteError(w, model.NewNotFoundError("event"))
		return
	}

	WriteData(w, http.StatusOK, result, map[string]string{
		"event": "/v1/events/" + eventID,
		"page":  h.publicOrigin + "/event/" + eventID + "/checkin",
	})
}

var checkinPageTemplate = template.Must(template.New("checkin").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Check In · CampusHub</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 28rem; margin: 4rem auto; padding: 0 1rem; text-align: center; }
    h1 { font-size: 1.4rem; }
    .event { color: #444; margin: 1rem 0 2rem; }
    a.button { display: inline-block; padding: 0.75rem 2rem; background: #2563eb; color: #fff; border-radius: 0.5rem; text-decoration: none; }
  </style>
</head>
<body>
  <h1>Event Check-In</h1>
  <p class="event">{{.Title}}<br>{{.When}} · {{.Location}}</p>
  {{if .Message}}
  <p class="status">{{.Message}}</p>
  {{else}}
  <a class="button" href="campushub://event/{{.EventID}}/checkin">Open in CampusHub</a>
  <p>Scan complete. Open the app to confirm your attendance.</p>
  {{end}}
</body>
</html>
`))

// checkinPageMessages maps a check-in outcome to the page copy shown to
// an authenticated visitor.
var checkinPageMessages = map[string]string{
	model.CheckInOutcomeSuccess:       "You're checked in. Enjoy the event!",
	model.CheckInOutcomeAlready:       "You're already checked in.",
	model.CheckInOutcomeNotRegistered: "You're not registered for this event.",
	model.CheckInOutcomeNotFound:      "This event is no longer available.",
}

// CheckInPage handles GET /event/{eventId}/checkin.
// This is the page behind the QR code printed at the venue. An
// authenticated visit checks the visitor in directly and shows the
// outcome; an anonymous visit deep links into the app, which performs
// the authenticated check-in call.
func (h *CheckInHandler) CheckInPage(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		http.NotFound(w, r)
		return
	}

	event, err := h.registry.GetEvent(r.Context(), eventID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data := map[string]string{
		"EventID":  event.ID,
		"Title":    event.Title,
		"When":     event.StartTime.Format("Jan 2, 3:04 PM"),
		"Location": event.Location,
	}

	if userID := middleware.GetUserID(r.Context()); userID != "" {
		result, err := h.registry.CheckIn(r.Context(), userID, eventID)
		if err != nil {
			WriteError(w, MapServiceError(err))
			return
		}
		data["Message"] = checkinPageMessages[result.Outcome]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = checkinPageTemplate.Execute(w, data)
}

// ScanReminders handles POST /v1/reminders/scan.
// It triggers an immediate reminder sweep in addition to the background job.
func (h *CheckInHandler) ScanReminders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	sent, err := h.reminders.ScanUser(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, map[string]int{"sent": sent}, nil)
}
