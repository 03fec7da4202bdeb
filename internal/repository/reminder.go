package repository

import (
	"context"
	"errors"

	"github.com/campushub/api/internal/database"
)

// ReminderRepository tracks sent event reminders. Rows are written once
// per (user, event) pair and never deleted, so a reminder can fire at
// most once no matter how many scanner runs see the event.
type ReminderRepository struct {
	db database.Database
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db database.Database) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// WasSent reports whether a reminder was already delivered for the pair
func (r *ReminderRepository) WasSent(ctx context.Context, userID, eventID string) (bool, error) {
	query := `
		SELECT count() as count FROM sent_reminder
		WHERE user_id = $user_id AND event_id = $event_id
		GROUP ALL
	`
	vars := map[string]interface{}{
		"user_id":  userID,
		"event_id": eventID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count") > 0, nil
	}
	return extractCount(result) > 0, nil
}

// MarkSent records that a reminder was delivered for the pair.
// The unique index on (user_id, event_id) makes concurrent marks
// collapse into one row; a duplicate write is not an error.
func (r *ReminderRepository) MarkSent(ctx context.Context, userID, eventID string) error {
	query := `
		CREATE sent_reminder CONTENT {
			user_id: $user_id,
			event_id: $event_id,
			sent_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":  userID,
		"event_id": eventID,
	}

	err := r.db.Execute(ctx, query, vars)
	if err != nil && isUniqueConstraintError(err) {
		return nil
	}
	return err
}
