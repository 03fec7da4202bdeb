package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/api/internal/model"
)

// DefaultReminderLookahead is the window ahead of now that a reminder
// covers. Events starting later than this are left for a future scan.
const DefaultReminderLookahead = 24 * time.Hour

// EventListerForReminders narrows the event repository to window scans
type EventListerForReminders interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error)
}

// ReminderRepositoryInterface defines the sent-reminder ledger
type ReminderRepositoryInterface interface {
	WasSent(ctx context.Context, userID, eventID string) (bool, error)
	MarkSent(ctx context.Context, userID, eventID string) error
}

// ReminderService emits at most one reminder per (user, event) pair for
// events starting strictly in the future within the lookahead window.
type ReminderService struct {
	events    EventListerForReminders
	reminders ReminderRepositoryInterface
	notifier  NotificationPublisherForRegistry
	lookahead time.Duration

	// now is swappable in tests
	now func() time.Time
}

// ReminderServiceConfig holds reminder service dependencies
type ReminderServiceConfig struct {
	EventRepo    EventListerForReminders
	ReminderRepo ReminderRepositoryInterface
	Notifier     NotificationPublisherForRegistry
	Lookahead    time.Duration
}

// NewReminderService creates a new reminder service
func NewReminderService(cfg ReminderServiceConfig) *ReminderService {
	lookahead := cfg.Lookahead
	if lookahead <= 0 {
		lookahead = DefaultReminderLookahead
	}
	return &ReminderService{
		events:    cfg.EventRepo,
		reminders: cfg.ReminderRepo,
		notifier:  cfg.Notifier,
		lookahead: lookahead,
		now:       time.Now,
	}
}

// Scan walks every event starting inside the lookahead window and
// reminds each registered attendee who has not been reminded before.
// Returns the number of reminders delivered. Safe to call repeatedly;
// the sent ledger makes every emission at-most-once.
func (s *ReminderService) Scan(ctx context.Context) (int, error) {
	now := s.now().UTC()
	events, err := s.events.ListStartingBetween(ctx, now, now.Add(s.lookahead))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range events {
		// The window query is inclusive at the far edge; the near edge
		// must stay strictly future so in-progress events never remind.
		if !event.StartTime.After(now) {
			continue
		}
		for _, attendee := range event.RegisteredUsers {
			delivered, err := s.remind(ctx, attendee.UserID, event)
			if err != nil {
				return sent, err
			}
			if delivered {
				sent++
			}
		}
	}
	return sent, nil
}

// ScanUser reminds a single user across all their upcoming registrations
func (s *ReminderService) ScanUser(ctx context.Context, userID string) (int, error) {
	now := s.now().UTC()
	events, err := s.events.ListStartingBetween(ctx, now, now.Add(s.lookahead))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range events {
		if !event.StartTime.After(now) {
			continue
		}
		if !event.IsRegistered(userID) {
			continue
		}
		delivered, err := s.remind(ctx, userID, event)
		if err != nil {
			return sent, err
		}
		if delivered {
			sent++
		}
	}
	return sent, nil
}

// remind delivers one reminder unless the (user, event) pair is already
// in the sent ledger. The ledger write happens before delivery so a
// crash can drop a reminder but never duplicate one.
func (s *ReminderService) remind(ctx context.Context, userID string, event *model.Event) (bool, error) {
	already, err := s.reminders.WasSent(ctx, userID, event.ID)
	if err != nil {
		return false, err
	}
	if already {
		return false, nil
	}

	if err := s.reminders.MarkSent(ctx, userID, event.ID); err != nil {
		return false, err
	}

	message := fmt.Sprintf("⏰ Reminder: %q is tomorrow at %s! Don't forget to attend.",
		event.Title, event.StartTime.Format("3:04 PM"))
	if err := s.notifier.Publish(ctx, userID, event.ID, message); err != nil {
		return false, err
	}
	return true, nil
}
