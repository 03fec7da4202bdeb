// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	event := f.CreateEvent(t, user)
//	f.RegisterAttendee(t, event, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email      string
	Name       string
	Password   string
	Role       model.UserRole
	Department string
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:      fmt.Sprintf("user_%s@test.local", randomID()),
		Name:       fmt.Sprintf("User %s", randomID()),
		Password:   "testpass123",
		Role:       model.UserRoleStudent,
		Department: "Computer Science",
	}
	for _, fn := range opts {
		fn(o)
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			name: $name,
			hash: $hash,
			role: $role,
			department: $department,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":      o.Email,
		"name":       o.Name,
		"hash":       string(hash),
		"role":       string(o.Role),
		"department": o.Department,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	user := parseUserResult(t, results)
	user.Hash = nil // Don't expose hash in fixture
	return user
}

// CreateOrganizer creates an organizer user
func (f *Factory) CreateOrganizer(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleOrganizer
	})
}

// ============================================================================
// Event Fixtures
// ============================================================================

// EventOpts customizes event creation
type EventOpts struct {
	Title        string
	Description  string
	StartTime    time.Time
	Location     string
	Category     string
	Department   string
	Organizer    string
	MaxAttendees int
}

// WithCapacity sets the event capacity
func WithCapacity(n int) func(*EventOpts) {
	return func(o *EventOpts) {
		o.MaxAttendees = n
	}
}

// WithStartTime sets the event start time
func WithStartTime(at time.Time) func(*EventOpts) {
	return func(o *EventOpts) {
		o.StartTime = at
	}
}

// CreateEvent creates an event owned by the given creator
func (f *Factory) CreateEvent(t *testing.T, creator *model.User, opts ...func(*EventOpts)) *model.Event {
	t.Helper()

	o := &EventOpts{
		Title:        fmt.Sprintf("Event %s", randomID()),
		Description:  "Test event description",
		StartTime:    time.Now().Add(48 * time.Hour),
		Location:     "Main Hall",
		Category:     "workshop",
		Department:   "Computer Science",
		Organizer:    creator.Name,
		MaxAttendees: 50,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE event CONTENT {
			title: $title,
			description: $description,
			start_time: <datetime> $start_time,
			location: $location,
			category: $category,
			department: $department,
			organizer: $organizer,
			max_attendees: $max_attendees,
			tags: [],
			registered_users: [],
			waitlist: [],
			rsvp_confirmed: [],
			checked_in: [],
			bookmarks: [],
			version: 0,
			created_by: $created_by,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"title":         o.Title,
		"description":   o.Description,
		"start_time":    o.StartTime.UTC().Format(time.RFC3339),
		"location":      o.Location,
		"category":      o.Category,
		"department":    o.Department,
		"organizer":     o.Organizer,
		"max_attendees": o.MaxAttendees,
		"created_by":    creator.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}

	return parseEventResult(t, results)
}

// RegisterAttendee appends a user to the event's registered list directly,
// bypassing the service layer. Use when a test only needs a pre-registered
// state, not the registration flow itself.
func (f *Factory) RegisterAttendee(t *testing.T, event *model.Event, user *model.User) {
	t.Helper()

	query := `
		UPDATE type::record($event_id) SET
			registered_users += {
				user_id: $user_id,
				user_name: $user_name,
				user_email: $user_email,
				registered_at: time::now()
			},
			version += 1,
			updated_on = time::now()
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"event_id":   event.ID,
		"user_id":    user.ID,
		"user_name":  user.Name,
		"user_email": user.Email,
	}); err != nil {
		t.Fatalf("fixtures: failed to register attendee: %v", err)
	}
}

// WaitlistAttendee appends a user to the event's waitlist directly.
func (f *Factory) WaitlistAttendee(t *testing.T, event *model.Event, user *model.User) {
	t.Helper()

	query := `
		UPDATE type::record($event_id) SET
			waitlist += {
				user_id: $user_id,
				user_name: $user_name,
				user_email: $user_email,
				registered_at: time::now()
			},
			version += 1,
			updated_on = time::now()
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"event_id":   event.ID,
		"user_id":    user.ID,
		"user_name":  user.Name,
		"user_email": user.Email,
	}); err != nil {
		t.Fatalf("fixtures: failed to waitlist attendee: %v", err)
	}
}

// ============================================================================
// Notification Fixtures
// ============================================================================

// CreateNotification creates a notification in a user's feed
func (f *Factory) CreateNotification(t *testing.T, user *model.User, event *model.Event, message string) *model.Notification {
	t.Helper()

	query := `
		CREATE notification CONTENT {
			user_id: $user_id,
			event_id: $event_id,
			message: $message,
			read: false,
			timestamp: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"user_id":  user.ID,
		"event_id": event.ID,
		"message":  message,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create notification: %v", err)
	}

	return parseNotificationResult(t, results)
}

// MarkReminderSent records a sent reminder for a (user, event) pair
func (f *Factory) MarkReminderSent(t *testing.T, user *model.User, event *model.Event) {
	t.Helper()

	query := `
		CREATE sent_reminder CONTENT {
			user_id: $user_id,
			event_id: $event_id,
			sent_on: time::now()
		}
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"user_id":  user.ID,
		"event_id": event.ID,
	}); err != nil {
		t.Fatalf("fixtures: failed to record sent reminder: %v", err)
	}
}

// ============================================================================
// Result Parsing Helpers
// ============================================================================

func parseUserResult(t *testing.T, results []interface{}) *model.User {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.User{
		ID:         getString(data, "id"),
		Email:      getString(data, "email"),
		Name:       getString(data, "name"),
		Role:       model.UserRole(getString(data, "role")),
		Department: getStringPtr(data, "department"),
		CreatedOn:  getTime(data, "created_on"),
		UpdatedOn:  getTime(data, "updated_on"),
	}
}

func parseEventResult(t *testing.T, results []interface{}) *model.Event {
	t.Helper()
	data := extractFirstResult(t, results)
	event := &model.Event{
		ID:           getString(data, "id"),
		Title:        getString(data, "title"),
		Description:  getString(data, "description"),
		StartTime:    getTime(data, "start_time"),
		Location:     getString(data, "location"),
		Category:     getString(data, "category"),
		Department:   getString(data, "department"),
		Organizer:    getString(data, "organizer"),
		MaxAttendees: getInt(data, "max_attendees"),
		Version:      getInt(data, "version"),
		CreatedBy:    getString(data, "created_by"),
		CreatedOn:    getTime(data, "created_on"),
		UpdatedOn:    getTime(data, "updated_on"),
	}
	event.EnsureState()
	return event
}

func parseNotificationResult(t *testing.T, results []interface{}) *model.Notification {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Notification{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user_id"),
		EventID:   getString(data, "event_id"),
		Message:   getString(data, "message"),
		Read:      getBool(data, "read"),
		Timestamp: getTime(data, "timestamp"),
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB record ID type - could be a struct or map
	if v := data[key]; v != nil {
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getStringPtr(data map[string]interface{}, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	switch v := data[key].(type) {
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	case time.Time:
		return v
	}
	return time.Time{}
}
