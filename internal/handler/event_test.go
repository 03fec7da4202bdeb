package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) service.RegistrationState {
	t.Helper()
	var resp struct {
		Data service.RegistrationState `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.Data
}

// ============================================================================
// CreateEvent Tests
// ============================================================================

func TestCreateEvent_Unauthenticated_Returns401(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()

	env.eventHandler.CreateEvent(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestCreateEvent_MissingFields_Returns422(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	body := bytes.NewReader([]byte(`{"description":"no title or time"}`))
	req := httptest.NewRequest(http.MethodPost, "/v1/events", body)
	req = req.WithContext(authContext(req, "user:creator"))
	rr := httptest.NewRecorder()

	env.eventHandler.CreateEvent(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("title")) {
		t.Error("expected a title field error in response")
	}
}

func TestCreateEvent_Valid_Returns201(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	payload := map[string]interface{}{
		"title":         "Career Fair",
		"start_time":    "2026-10-01T14:00:00Z",
		"location":      "Student Union",
		"max_attendees": 100,
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(raw))
	req = req.WithContext(authContext(req, "user:creator"))
	rr := httptest.NewRecorder()

	env.eventHandler.CreateEvent(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var resp struct {
		Data model.Event `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Title != "Career Fair" {
		t.Errorf("expected title 'Career Fair', got %q", resp.Data.Title)
	}
	if resp.Data.ID == "" {
		t.Error("expected an event ID")
	}
}

// ============================================================================
// GetEvent Tests
// ============================================================================

func TestGetEvent_Missing_Returns404(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	req := authedRequest(http.MethodGet, "/v1/events/event:ghost", "", "event:ghost")
	rr := httptest.NewRecorder()

	env.eventHandler.GetEvent(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestGetEvent_Exists_ReturnsEvent(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(10)

	req := authedRequest(http.MethodGet, "/v1/events/"+event.ID, "", event.ID)
	rr := httptest.NewRecorder()

	env.eventHandler.GetEvent(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("Robotics Workshop")) {
		t.Error("expected event title in response")
	}
}

// ============================================================================
// Register / Unregister Tests
// ============================================================================

func TestRegister_WithCapacity_ReturnsRegistered(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(10)

	req := authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/register", "user:1", event.ID)
	rr := httptest.NewRecorder()

	env.eventHandler.Register(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	state := decodeState(t, rr)
	if state.Status != model.RegistrationStatusRegistered {
		t.Errorf("expected status 'registered', got %q", state.Status)
	}
	if state.Position != model.WaitlistPositionNone {
		t.Errorf("expected no waitlist position, got %d", state.Position)
	}
}

func TestRegister_FullEvent_ReturnsWaitlisted(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(1)

	first := authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/register", "user:1", event.ID)
	env.eventHandler.Register(httptest.NewRecorder(), first)

	second := authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/register", "user:2", event.ID)
	rr := httptest.NewRecorder()
	env.eventHandler.Register(rr, second)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	state := decodeState(t, rr)
	if state.Status != model.RegistrationStatusWaitlisted {
		t.Errorf("expected status 'waitlisted', got %q", state.Status)
	}
	if state.Position != 1 {
		t.Errorf("expected waitlist position 1, got %d", state.Position)
	}
}

func TestRegister_MissingEvent_Returns404(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	req := authedRequest(http.MethodPost, "/v1/events/event:ghost/register", "user:1", "event:ghost")
	rr := httptest.NewRecorder()

	env.eventHandler.Register(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestUnregister_PromotesWaitlistHead(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(1)

	env.eventHandler.Register(httptest.NewRecorder(),
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/register", "user:1", event.ID))
	env.eventHandler.Register(httptest.NewRecorder(),
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/register", "user:2", event.ID))

	rr := httptest.NewRecorder()
	env.eventHandler.Unregister(rr,
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/unregister", "user:1", event.ID))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	// The waitlisted user now holds the freed spot
	stateRR := httptest.NewRecorder()
	env.eventHandler.RegistrationState(stateRR,
		authedRequest(http.MethodGet, "/v1/events/"+event.ID+"/registration", "user:2", event.ID))
	state := decodeState(t, stateRR)
	if state.Status != model.RegistrationStatusRegistered {
		t.Errorf("expected promoted user to be registered, got %q", state.Status)
	}
}

// ============================================================================
// RegistrationState Tests
// ============================================================================

func TestRegistrationState_MissingEvent_ReturnsClosed(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	req := authedRequest(http.MethodGet, "/v1/events/event:ghost/registration", "user:1", "event:ghost")
	rr := httptest.NewRecorder()

	env.eventHandler.RegistrationState(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	state := decodeState(t, rr)
	if state.Status != model.RegistrationStatusClosed {
		t.Errorf("expected status 'closed' for missing event, got %q", state.Status)
	}
	if state.Position != model.WaitlistPositionNone {
		t.Errorf("expected sentinel position, got %d", state.Position)
	}
}

func TestRegistrationState_FullEventOutsider_ReturnsClosed(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(1)

	env.eventHandler.Register(httptest.NewRecorder(),
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/register", "user:1", event.ID))

	rr := httptest.NewRecorder()
	env.eventHandler.RegistrationState(rr,
		authedRequest(http.MethodGet, "/v1/events/"+event.ID+"/registration", "user:99", event.ID))

	state := decodeState(t, rr)
	if state.Status != model.RegistrationStatusClosed {
		t.Errorf("expected status 'closed' for outsider on full event, got %q", state.Status)
	}
}

// ============================================================================
// RSVP / Bookmark Tests
// ============================================================================

func TestConfirmRSVP_NotRegistered_IsNoOp(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(10)

	rr := httptest.NewRecorder()
	env.eventHandler.ConfirmRSVP(rr,
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/rsvp", "user:1", event.ID))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if state := decodeState(t, rr); state.RSVP {
		t.Error("non-registered user must not gain an RSVP")
	}
}

func TestConfirmRSVP_Registered_SetsFlag(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(10)

	env.eventHandler.Register(httptest.NewRecorder(),
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/register", "user:1", event.ID))

	rr := httptest.NewRecorder()
	env.eventHandler.ConfirmRSVP(rr,
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/rsvp", "user:1", event.ID))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	state := decodeState(t, rr)
	if !state.RSVP {
		t.Error("expected rsvp_confirmed true")
	}
}

func TestToggleBookmark_TogglesOnAndOff(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(10)

	rr := httptest.NewRecorder()
	env.eventHandler.ToggleBookmark(rr,
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/bookmark", "user:1", event.ID))
	if state := decodeState(t, rr); !state.Bookmarked {
		t.Error("expected bookmarked true after first toggle")
	}

	rr = httptest.NewRecorder()
	env.eventHandler.ToggleBookmark(rr,
		authedRequest(http.MethodPost, "/v1/events/"+event.ID+"/bookmark", "user:1", event.ID))
	if state := decodeState(t, rr); state.Bookmarked {
		t.Error("expected bookmarked false after second toggle")
	}
}

// ============================================================================
// Delete Tests
// ============================================================================

func TestDeleteEvent_NotCreator_Returns403(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(10)

	rr := httptest.NewRecorder()
	env.eventHandler.DeleteEvent(rr,
		authedRequest(http.MethodDelete, "/v1/events/"+event.ID, "user:intruder", event.ID))

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestDeleteEvent_Creator_Returns204(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	event := env.seedEvent(10)

	rr := httptest.NewRecorder()
	env.eventHandler.DeleteEvent(rr,
		authedRequest(http.MethodDelete, "/v1/events/"+event.ID, "user:creator", event.ID))

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func authContext(r *http.Request, userID string) context.Context {
	return context.WithValue(r.Context(), middleware.UserIDKey, userID)
}
