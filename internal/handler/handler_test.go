package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// ============================================================================
// In-Memory Repositories
// ============================================================================

// memEventRepo is an in-memory event store with the same version semantics
// as the real repository
type memEventRepo struct {
	mu     sync.Mutex
	events map[string]*model.Event
	nextID int
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]*model.Event)}
}

func cloneEvent(e *model.Event) *model.Event {
	clone := *e
	clone.RegisteredUsers = append([]model.Attendee(nil), e.RegisteredUsers...)
	clone.Waitlist = append([]model.Attendee(nil), e.Waitlist...)
	clone.RSVPConfirmed = append([]string(nil), e.RSVPConfirmed...)
	clone.CheckedIn = append([]string(nil), e.CheckedIn...)
	clone.Bookmarks = append([]string(nil), e.Bookmarks...)
	clone.Tags = append([]string(nil), e.Tags...)
	return &clone
}

func (r *memEventRepo) Create(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == "" {
		r.nextID++
		event.ID = "event:" + time.Now().Format("150405") + string(rune('a'+r.nextID))
	}
	event.EnsureState()
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *memEventRepo) GetByID(ctx context.Context, eventID string) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	return cloneEvent(e), nil
}

func (r *memEventRepo) List(ctx context.Context, filters model.EventFilters) ([]*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Event
	for _, e := range r.events {
		if filters.Category != nil && e.Category != *filters.Category {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (r *memEventRepo) UpdateDetails(ctx context.Context, eventID string, updates map[string]interface{}) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	if v, ok := updates["title"].(string); ok {
		e.Title = v
	}
	if v, ok := updates["max_attendees"].(int); ok {
		e.MaxAttendees = v
	}
	return cloneEvent(e), nil
}

func (r *memEventRepo) UpdateRegistrationState(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.events[event.ID]
	if !ok || current.Version != event.Version {
		return database.ErrConflict
	}
	event.Version++
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *memEventRepo) Delete(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, eventID)
	return nil
}

// memUserReader resolves every user ID to a synthetic user
type memUserReader struct{}

func (memUserReader) GetByID(ctx context.Context, id string) (*model.User, error) {
	return &model.User{
		ID:    id,
		Email: id + "@campus.edu",
		Name:  "User " + id,
		Role:  model.UserRoleStudent,
	}, nil
}

// memNotificationRepo stores notifications in memory
type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*model.Notification
	nextID        int
}

func (r *memNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = "notification:" + string(rune('a'+r.nextID))
	n.Timestamp = time.Now()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *memNotificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].UserID == userID {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, notificationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *memNotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) ClearByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

// ============================================================================
// Test Environment
// ============================================================================

type testEnv struct {
	eventRepo        *memEventRepo
	notificationRepo *memNotificationRepo
	registry         *service.RegistryService
	notifications    *service.NotificationService
	eventHandler     *EventHandler
	notifHandler     *NotificationHandler
}

func newTestEnv() *testEnv {
	eventRepo := newMemEventRepo()
	notificationRepo := &memNotificationRepo{}
	notifications := service.NewNotificationService(service.NotificationServiceConfig{
		NotificationRepo: notificationRepo,
	})
	registry := service.NewRegistryService(service.RegistryServiceConfig{
		EventRepo: eventRepo,
		UserRepo:  memUserReader{},
		Notifier:  notifications,
	})
	return &testEnv{
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		registry:         registry,
		notifications:    notifications,
		eventHandler:     NewEventHandler(registry),
		notifHandler:     NewNotificationHandler(notifications),
	}
}

// seedEvent creates an event through the service so state is consistent
func (env *testEnv) seedEvent(capacity int) *model.Event {
	event, err := env.registry.CreateEvent(context.Background(), "user:creator", &model.CreateEventRequest{
		Title:        "Robotics Workshop",
		Description:  "Hands-on intro session",
		StartTime:    time.Now().Add(48 * time.Hour),
		Location:     "Engineering Hall 2",
		Category:     "workshop",
		Department:   "Engineering",
		Organizer:    "Robotics Club",
		MaxAttendees: capacity,
	})
	if err != nil {
		panic(err)
	}
	return event
}

// authedRequest builds a request carrying the given user identity,
// with the path value already bound
func authedRequest(method, target, userID, eventID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	if eventID != "" {
		req.SetPathValue("eventId", eventID)
	}
	return req
}
