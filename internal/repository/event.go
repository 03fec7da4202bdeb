package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// EventRepository handles event data access, including the full
// registration state of each event.
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event with empty registration state
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
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
			image: IF $image IS NOT NULL THEN $image ELSE NONE END,
			tags: $tags,
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

	tags := event.Tags
	if tags == nil {
		tags = []string{}
	}

	vars := map[string]interface{}{
		"title":         event.Title,
		"description":   event.Description,
		"start_time":    event.StartTime.UTC().Format(time.RFC3339),
		"location":      event.Location,
		"category":      event.Category,
		"department":    event.Department,
		"organizer":     event.Organizer,
		"max_attendees": event.MaxAttendees,
		"image":         ptrToNone(event.Image),
		"tags":          tags,
		"created_by":    event.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	event.ID = created.ID
	event.Version = 0
	event.CreatedOn = created.CreatedOn
	event.UpdatedOn = created.UpdatedOn
	event.EnsureState()
	return nil
}

// GetByID retrieves an event by ID. Returns (nil, nil) when the event
// does not exist.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	event, err := parseEventResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// List retrieves events matching the given filters, soonest first
func (r *EventRepository) List(ctx context.Context, filters model.EventFilters) ([]*model.Event, error) {
	query := `SELECT * FROM event`
	vars := map[string]interface{}{}

	conditions := ""
	addCondition := func(clause string) {
		if conditions == "" {
			conditions = " WHERE " + clause
		} else {
			conditions += " AND " + clause
		}
	}

	if filters.Category != nil {
		addCondition("category = $category")
		vars["category"] = *filters.Category
	}
	if filters.Department != nil {
		addCondition("department = $department")
		vars["department"] = *filters.Department
	}
	if filters.StartAfter != nil {
		addCondition("start_time > <datetime> $start_after")
		vars["start_after"] = filters.StartAfter.UTC().Format(time.RFC3339)
	}
	if filters.StartBefore != nil {
		addCondition("start_time < <datetime> $start_before")
		vars["start_before"] = filters.StartBefore.UTC().Format(time.RFC3339)
	}
	if filters.CreatedBy != nil {
		addCondition("created_by = $created_by")
		vars["created_by"] = *filters.CreatedBy
	}

	query += conditions + ` ORDER BY start_time ASC`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEventList(result)
}

// ListStartingBetween retrieves events whose start time falls inside the
// half-open window (from, to]. Used by the reminder scanner.
func (r *EventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE start_time > <datetime> $from AND start_time <= <datetime> $to
		ORDER BY start_time ASC
	`
	vars := map[string]interface{}{
		"from": from.UTC().Format(time.RFC3339),
		"to":   to.UTC().Format(time.RFC3339),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEventList(result)
}

// UpdateDetails applies a partial update to an event's descriptive fields.
// Registration state goes through UpdateRegistrationState only.
func (r *EventRepository) UpdateDetails(ctx context.Context, id string, updates map[string]interface{}) (*model.Event, error) {
	query := `UPDATE type::record($id) SET updated_on = time::now()`
	vars := map[string]interface{}{"id": id}

	for key, value := range updates {
		if key == "start_time" {
			query += ", start_time = <datetime> $start_time"
			if t, ok := value.(time.Time); ok {
				vars["start_time"] = t.UTC().Format(time.RFC3339)
			} else {
				vars["start_time"] = value
			}
			continue
		}
		query += fmt.Sprintf(", %s = $%s", key, key)
		vars[key] = value
	}
	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseEventResult(result)
}

// UpdateRegistrationState persists the event's registration slices with a
// version check. The write matches only when the stored version still
// equals event.Version; a concurrent writer makes the update match
// nothing, which surfaces as database.ErrConflict.
func (r *EventRepository) UpdateRegistrationState(ctx context.Context, event *model.Event) error {
	event.EnsureState()

	query := `
		UPDATE type::record($id) SET
			registered_users = $registered_users,
			waitlist = $waitlist,
			rsvp_confirmed = $rsvp_confirmed,
			checked_in = $checked_in,
			bookmarks = $bookmarks,
			version = $next_version,
			updated_on = time::now()
		WHERE version = $expected_version
		RETURN AFTER
	`

	vars := map[string]interface{}{
		"id":               event.ID,
		"registered_users": attendeesToVars(event.RegisteredUsers),
		"waitlist":         attendeesToVars(event.Waitlist),
		"rsvp_confirmed":   event.RSVPConfirmed,
		"checked_in":       event.CheckedIn,
		"bookmarks":        event.Bookmarks,
		"next_version":     event.Version + 1,
		"expected_version": event.Version,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	rows, ok := extractQueryResults(result)
	if !ok || len(rows) == 0 {
		return database.ErrConflict
	}

	event.Version++
	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// attendeesToVars converts attendee entries to plain maps with RFC3339
// timestamps for use as query variables.
func attendeesToVars(attendees []model.Attendee) []interface{} {
	out := make([]interface{}, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, map[string]interface{}{
			"user_id":       a.UserID,
			"user_name":     a.UserName,
			"user_email":    a.UserEmail,
			"registered_at": a.RegisteredAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}

func parseEventList(result []interface{}) ([]*model.Event, error) {
	events := make([]*model.Event, 0)
	for _, res := range result {
		resp, ok := res.(map[string]interface{})
		if !ok {
			continue
		}
		rows, ok := resp["result"].([]interface{})
		if !ok {
			continue
		}
		for _, row := range rows {
			event, err := parseEventResult(row)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
		}
	}
	return events, nil
}

func parseEventResult(result interface{}) (*model.Event, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	// Navigate through SurrealDB response structure
	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}
	normalizeTimeFields(data, "start_time", "created_on", "updated_on")
	normalizeAttendeeTimes(data, "registered_users")
	normalizeAttendeeTimes(data, "waitlist")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal(jsonBytes, &event); err != nil {
		return nil, err
	}

	event.EnsureState()
	return &event, nil
}

// normalizeAttendeeTimes rewrites registered_at values inside an attendee
// list so the whole map survives a JSON round-trip.
func normalizeAttendeeTimes(data map[string]interface{}, key string) {
	list, ok := data[key].([]interface{})
	if !ok {
		return
	}
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		normalizeTimeFields(entry, "registered_at")
	}
}
