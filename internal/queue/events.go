package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"cinegram/internal/model"
)

// Event types for the activity stream
const (
	EventReactionAdded  = "reaction_added"
	EventCommentCreated = "comment_created"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotifications = "notification_workers"
)

// ActivityEvent is published after a reaction or comment commit. The
// worker pool turns it into a notification row for the content's author.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	ActorID  int64 `json:"actor_id"`  // who reacted/commented
	AuthorID int64 `json:"author_id"` // who owns the target content

	TargetKind model.TargetKind `json:"target_kind"`
	TargetID   int64            `json:"target_id"`

	// Comment event only
	CommentID int64 `json:"comment_id,omitempty"`
}

// NewReactionAddedEvent creates an event for a new or switched reaction.
func NewReactionAddedEvent(actorID, authorID int64, kind model.TargetKind, targetID int64) ActivityEvent {
	return ActivityEvent{
		Type:       EventReactionAdded,
		Timestamp:  time.Now().Unix(),
		ActorID:    actorID,
		AuthorID:   authorID,
		TargetKind: kind,
		TargetID:   targetID,
	}
}

// NewCommentCreatedEvent creates an event for a new comment on a thread.
// kind/targetID describe the thread the comment was left on.
func NewCommentCreatedEvent(actorID, authorID int64, kind model.TargetKind, targetID, commentID int64) ActivityEvent {
	return ActivityEvent{
		Type:       EventCommentCreated,
		Timestamp:  time.Now().Unix(),
		ActorID:    actorID,
		AuthorID:   authorID,
		TargetKind: kind,
		TargetID:   targetID,
		CommentID:  commentID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
