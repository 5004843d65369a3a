package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a new notification.
func (r *notificationRepository) Create(ctx context.Context, userID, actorID int64, notifType string, targetKind model.TargetKind, targetID int64) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, target_kind, target_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, userID, actorID, notifType, targetKind, targetID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the user's most recent notifications with actor info,
// plus the unread count for the badge.
func (r *notificationRepository) List(ctx context.Context, userID int64, limit int) ([]model.Notification, int, error) {
	query := `
		SELECT n.id, n.user_id, n.actor_id, n.type, n.target_kind, n.target_id, n.is_read, n.created_at,
		       u.id AS "actor.id", u.username AS "actor.username",
		       u.display_name AS "actor.display_name", u.avatar_url AS "actor.avatar_url"
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2
	`

	type notifRow struct {
		ID             int64            `db:"id"`
		UserID         int64            `db:"user_id"`
		ActorID        int64            `db:"actor_id"`
		Type           string           `db:"type"`
		TargetKind     model.TargetKind `db:"target_kind"`
		TargetID       int64            `db:"target_id"`
		IsRead         bool             `db:"is_read"`
		CreatedAt      time.Time        `db:"created_at"`
		ActorIDJoined  int64            `db:"actor.id"`
		ActorUsername  string           `db:"actor.username"`
		ActorDisplay   *string          `db:"actor.display_name"`
		ActorAvatarURL *string          `db:"actor.avatar_url"`
	}

	var rows []notifRow
	err := r.db.SelectContext(ctx, &rows, query, userID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = model.Notification{
			ID:         row.ID,
			UserID:     row.UserID,
			ActorID:    row.ActorID,
			Type:       row.Type,
			TargetKind: row.TargetKind,
			TargetID:   row.TargetID,
			IsRead:     row.IsRead,
			CreatedAt:  row.CreatedAt,
			Actor: &model.UserSummary{
				ID:          row.ActorIDJoined,
				Username:    row.ActorUsername,
				DisplayName: row.ActorDisplay,
				AvatarURL:   row.ActorAvatarURL,
			},
		}
	}

	var unread int
	err = r.db.GetContext(ctx, &unread, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return notifications, unread, nil
}

// MarkAllAsRead marks all notifications for a user as read.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
