package model

import (
	"time"
)

// Notification types
const (
	NotificationTypeReaction = "reaction"
	NotificationTypeComment  = "comment"
)

// Notification is a persisted activity notification: someone reacted to
// or commented on content you authored. Written by the worker pool from
// queued activity events; read over HTTP.
type Notification struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"-"`         // Recipient
	ActorID    int64      `db:"actor_id" json:"actor_id"` // Who triggered it
	Type       string     `db:"type" json:"type"`         // reaction, comment
	TargetKind TargetKind `db:"target_kind" json:"target_kind"`
	TargetID   int64      `db:"target_id" json:"target_id"`
	IsRead     bool       `db:"is_read" json:"is_read"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`

	// Joined field for display
	Actor *UserSummary `json:"actor,omitempty"`
}

// NotificationListResponse is the notification list response.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
