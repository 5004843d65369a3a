package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinegram/internal/model"
	"cinegram/internal/queue"
)

// NotificationCreator defines the interface for creating notifications.
// This allows the worker to persist notifications without depending on
// the service package directly.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, userID, actorID int64, notifType string, targetKind model.TargetKind, targetID int64) error
}

// Handler processes activity events from the queue and turns them into
// notification rows for the content's author.
type Handler struct {
	notifCreator NotificationCreator
}

// NewHandler creates a new event handler.
func NewHandler(notifCreator NotificationCreator) *Handler {
	return &Handler{notifCreator: notifCreator}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventReactionAdded:
		err = h.handleReactionAdded(ctx, event)
	case queue.EventCommentCreated:
		err = h.handleCommentCreated(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleReactionAdded notifies the target's author of a new reaction.
func (h *Handler) handleReactionAdded(ctx context.Context, event queue.ActivityEvent) error {
	// Self-reactions are filtered at publish time, but keep the guard here
	// since the stream is an at-least-once transport.
	if event.ActorID == event.AuthorID {
		return nil
	}

	err := h.notifCreator.CreateNotification(ctx, event.AuthorID, event.ActorID,
		model.NotificationTypeReaction, event.TargetKind, event.TargetID)
	if err != nil {
		return fmt.Errorf("create reaction notification: %w", err)
	}
	return nil
}

// handleCommentCreated notifies the thread's author of a new comment.
func (h *Handler) handleCommentCreated(ctx context.Context, event queue.ActivityEvent) error {
	if event.ActorID == event.AuthorID {
		return nil
	}

	err := h.notifCreator.CreateNotification(ctx, event.AuthorID, event.ActorID,
		model.NotificationTypeComment, event.TargetKind, event.TargetID)
	if err != nil {
		return fmt.Errorf("create comment notification: %w", err)
	}
	return nil
}
