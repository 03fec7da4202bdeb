package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// NotificationRepository handles notification feed data access
type NotificationRepository struct {
	db database.Database
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		CREATE notification CONTENT {
			user_id: $user_id,
			event_id: $event_id,
			message: $message,
			timestamp: time::now(),
			read: false
		}
	`

	vars := map[string]interface{}{
		"user_id":  n.UserID,
		"event_id": n.EventID,
		"message":  n.Message,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	rows, ok := extractQueryResults(result)
	if !ok || len(rows) == 0 {
		return errors.New("no result returned")
	}
	if data, ok := rows[0].(map[string]interface{}); ok {
		n.ID = convertSurrealID(data["id"])
		if ts := getTime(data, "timestamp"); ts != nil {
			n.Timestamp = *ts
		}
	}
	n.Read = false
	return nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	query := `SELECT * FROM notification WHERE user_id = $user_id ORDER BY timestamp DESC`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	notifications := make([]*model.Notification, 0)
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
			n, err := parseNotificationResult(row)
			if err != nil {
				return nil, err
			}
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

// MarkRead marks a notification as read. The user_id condition keeps one
// user from touching another's feed; no match means not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	query := `
		UPDATE type::record($id) SET read = true
		WHERE user_id = $user_id
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":      notificationID,
		"user_id": userID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	rows, ok := extractQueryResults(result)
	if !ok || len(rows) == 0 {
		return database.ErrNotFound
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT count() as count FROM notification WHERE user_id = $user_id AND read = false GROUP ALL`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count"), nil
	}
	return extractCount(result), nil
}

// ClearByUser deletes all of a user's notifications
func (r *NotificationRepository) ClearByUser(ctx context.Context, userID string) error {
	query := `DELETE notification WHERE user_id = $user_id`
	vars := map[string]interface{}{"user_id": userID}

	return r.db.Execute(ctx, query, vars)
}

func parseNotificationResult(result interface{}) (*model.Notification, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}
	normalizeTimeFields(data, "timestamp")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var n model.Notification
	if err := json.Unmarshal(jsonBytes, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
