package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// registrationRetries bounds the version-conflict retry loop. The
// per-event lock already serializes writers inside one process, so
// retries only fire when another process raced us.
const registrationRetries = 3

// EventRepositoryInterface defines the repository interface
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, eventID string) (*model.Event, error)
	List(ctx context.Context, filters model.EventFilters) ([]*model.Event, error)
	UpdateDetails(ctx context.Context, eventID string, updates map[string]interface{}) (*model.Event, error)
	UpdateRegistrationState(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, eventID string) error
}

// UserReaderForRegistry resolves attendee identity at registration time
type UserReaderForRegistry interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// NotificationPublisherForRegistry delivers feed notifications
type NotificationPublisherForRegistry interface {
	Publish(ctx context.Context, userID, eventID, message string) error
}

// RegistryService owns event lifecycle and the registration state machine.
// Capacity check plus append, and promotion pop plus append, each run as
// one critical section per event under the keyed lock; the repository's
// version check backstops writers in other processes.
type RegistryService struct {
	repo     EventRepositoryInterface
	users    UserReaderForRegistry
	notifier NotificationPublisherForRegistry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// RegistryServiceConfig holds registry service dependencies
type RegistryServiceConfig struct {
	EventRepo EventRepositoryInterface
	UserRepo  UserReaderForRegistry
	Notifier  NotificationPublisherForRegistry
}

// NewRegistryService creates a new registry service
func NewRegistryService(cfg RegistryServiceConfig) *RegistryService {
	return &RegistryService{
		repo:     cfg.EventRepo,
		users:    cfg.UserRepo,
		notifier: cfg.Notifier,
		locks:    make(map[string]*sync.Mutex),
	}
}

// eventLock returns the mutex guarding one event's registration state
func (s *RegistryService) eventLock(eventID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[eventID] = lock
	}
	return lock
}

// releaseLock drops a deleted event's mutex so the lock map does not
// grow without bound. A racing writer holding the old mutex is harmless:
// the event row is gone and its version check fails the write.
func (s *RegistryService) releaseLock(eventID string) {
	s.mu.Lock()
	delete(s.locks, eventID)
	s.mu.Unlock()
}

// CreateEvent creates a new event with empty registration state
func (s *RegistryService) CreateEvent(ctx context.Context, userID string, req *model.CreateEventRequest) (*model.Event, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.StartTime.IsZero() {
		return nil, ErrStartTimeRequired
	}
	if req.MaxAttendees < model.MinAttendees {
		return nil, ErrInvalidCapacity
	}

	event := &model.Event{
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		Location:     req.Location,
		Category:     req.Category,
		Department:   req.Department,
		Organizer:    req.Organizer,
		MaxAttendees: req.MaxAttendees,
		Image:        req.Image,
		Tags:         req.Tags,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *RegistryService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents retrieves events matching the filters
func (s *RegistryService) ListEvents(ctx context.Context, filters model.EventFilters) ([]*model.Event, error) {
	return s.repo.List(ctx, filters)
}

// UpdateEvent applies a partial update to an event's descriptive fields.
// Only the creator may edit. Shrinking capacity never evicts anyone
// already registered; the event simply stays over capacity until
// attrition catches up.
func (s *RegistryService) UpdateEvent(ctx context.Context, userID, eventID string, req *model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != userID {
		return nil, ErrNotEventCreator
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		if *req.Title == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Organizer != nil {
		updates["organizer"] = *req.Organizer
	}
	if req.MaxAttendees != nil {
		if *req.MaxAttendees < model.MinAttendees {
			return nil, ErrInvalidCapacity
		}
		updates["max_attendees"] = *req.MaxAttendees
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}

	if len(updates) == 0 {
		return event, nil
	}

	updated, err := s.repo.UpdateDetails(ctx, eventID, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrEventNotFound
	}
	return updated, nil
}

// DeleteEvent removes an event and all registration state with it.
// Notifications referencing the event are left in place.
func (s *RegistryService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatedBy != userID {
		return ErrNotEventCreator
	}
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}
	s.releaseLock(eventID)
	return nil
}

// RegistrationState is the user-facing view of their standing on an event
type RegistrationState struct {
	EventID    string `json:"event_id"`
	Status     string `json:"status"`
	Position   int    `json:"waitlist_position"`
	RSVP       bool   `json:"rsvp_confirmed"`
	CheckedIn  bool   `json:"checked_in"`
	Bookmarked bool   `json:"bookmarked"`
}

func stateFor(event *model.Event, userID string) *RegistrationState {
	return &RegistrationState{
		EventID:    event.ID,
		Status:     event.RegistrationStatus(userID),
		Position:   event.WaitlistPosition(userID),
		RSVP:       event.HasRSVP(userID),
		CheckedIn:  event.IsCheckedIn(userID),
		Bookmarked: event.IsBookmarked(userID),
	}
}

// mutate runs fn against a fresh copy of the event inside the per-event
// critical section and persists the result with a version check.
// fn returns false to skip the write (idempotent repeats).
func (s *RegistryService) mutate(ctx context.Context, eventID string, fn func(*model.Event) (bool, error)) (*model.Event, error) {
	lock := s.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	var lastErr error
	for attempt := 0; attempt < registrationRetries; attempt++ {
		event, err := s.repo.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, ErrEventNotFound
		}

		write, err := fn(event)
		if err != nil {
			return nil, err
		}
		if !write {
			return event, nil
		}

		err = s.repo.UpdateRegistrationState(ctx, event)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrRegistrationRetry, lastErr)
}

// Register places the user on the event, registered when capacity allows,
// otherwise at the waitlist tail. Repeat calls are no-ops that report the
// current standing without a second notification.
func (s *RegistryService) Register(ctx context.Context, userID, eventID string) (*RegistrationState, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var result model.RegisterResult
	event, err := s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		result = e.Register(model.Attendee{
			UserID:       userID,
			UserName:     user.Name,
			UserEmail:    user.Email,
			RegisteredAt: time.Now().UTC(),
		})
		return result.Changed, nil
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		switch result.Outcome {
		case model.RegisterOutcomeRegistered:
			s.notify(ctx, userID, event.ID, fmt.Sprintf(
				"You registered for %q on %s", event.Title, event.StartTime.Format("Jan 2")))
		case model.RegisterOutcomeWaitlisted:
			s.notify(ctx, userID, event.ID, fmt.Sprintf(
				"You joined the waitlist (#%d) for %q", result.Position, event.Title))
		}
	}

	return stateFor(event, userID), nil
}

// Unregister removes the user from the event. Freeing a registered spot
// promotes the waitlist head in the same critical section, and the
// promoted user gets a notification. Unknown users are a no-op.
func (s *RegistryService) Unregister(ctx context.Context, userID, eventID string) (*RegistrationState, error) {
	var result model.UnregisterResult
	event, err := s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		result = e.Unregister(userID)
		return result.Removed, nil
	})
	if err != nil {
		return nil, err
	}

	if result.Promoted != nil {
		s.notify(ctx, result.Promoted.UserID, event.ID, fmt.Sprintf(
			"A spot opened up! You've been promoted from the waitlist for %q", event.Title))
	}

	return stateFor(event, userID), nil
}

// GetRegistrationState reports the user's standing on an event. A missing
// event reads as closed rather than an error.
func (s *RegistryService) GetRegistrationState(ctx context.Context, userID, eventID string) (*RegistrationState, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return &RegistrationState{
			EventID:  eventID,
			Status:   model.RegistrationStatusClosed,
			Position: model.WaitlistPositionNone,
		}, nil
	}
	return stateFor(event, userID), nil
}

// ConfirmRSVP records an RSVP confirmation for a registered user.
// Anyone not in the registered list is a silent no-op, like a repeat
// confirmation.
func (s *RegistryService) ConfirmRSVP(ctx context.Context, userID, eventID string) (*RegistrationState, error) {
	var confirmed bool
	event, err := s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		confirmed = e.ConfirmRSVP(userID)
		return confirmed, nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed {
		s.notify(ctx, userID, event.ID, fmt.Sprintf(
			"You confirmed your RSVP for %q", event.Title))
	}

	return stateFor(event, userID), nil
}

// CancelRSVP withdraws an RSVP confirmation. Always succeeds.
func (s *RegistryService) CancelRSVP(ctx context.Context, userID, eventID string) (*RegistrationState, error) {
	event, err := s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		return e.CancelRSVP(userID), nil
	})
	if err != nil {
		return nil, err
	}
	return stateFor(event, userID), nil
}

// CheckInResult reports a check-in attempt
type CheckInResult struct {
	Outcome string             `json:"outcome"`
	State   *RegistrationState `json:"state,omitempty"`
}

// CheckIn records attendance for a registered user. Outcome precedence is
// not-found, then not-registered, then already, then success.
func (s *RegistryService) CheckIn(ctx context.Context, userID, eventID string) (*CheckInResult, error) {
	var outcome string
	event, err := s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		outcome = e.CheckIn(userID)
		return outcome == model.CheckInOutcomeSuccess, nil
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return &CheckInResult{Outcome: model.CheckInOutcomeNotFound}, nil
		}
		return nil, err
	}

	return &CheckInResult{
		Outcome: outcome,
		State:   stateFor(event, userID),
	}, nil
}

// ToggleBookmark flips the user's bookmark on an event
func (s *RegistryService) ToggleBookmark(ctx context.Context, userID, eventID string) (*RegistrationState, error) {
	event, err := s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		e.ToggleBookmark(userID)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return stateFor(event, userID), nil
}

// notify delivers a feed notification. Delivery failures never fail the
// registration mutation that triggered them.
func (s *RegistryService) notify(ctx context.Context, userID, eventID, message string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Publish(ctx, userID, eventID, message)
}
