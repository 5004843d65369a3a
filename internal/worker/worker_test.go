package worker_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"cinegram/internal/model"
	"cinegram/internal/queue"
	"cinegram/internal/worker"
)

// =============================================================================
// Mock Implementations
// =============================================================================

// createdNotification records one persisted notification for assertions.
type createdNotification struct {
	UserID     int64
	ActorID    int64
	Type       string
	TargetKind model.TargetKind
	TargetID   int64
}

// MockNotificationCreator simulates the notification service.
type MockNotificationCreator struct {
	created []createdNotification
	failErr error
}

func (m *MockNotificationCreator) CreateNotification(ctx context.Context, userID, actorID int64, notifType string, targetKind model.TargetKind, targetID int64) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.created = append(m.created, createdNotification{
		UserID:     userID,
		ActorID:    actorID,
		Type:       notifType,
		TargetKind: targetKind,
		TargetID:   targetID,
	})
	return nil
}

// =============================================================================
// Handler Unit Tests
// =============================================================================

func TestHandleEvent_ReactionAdded(t *testing.T) {
	creator := &MockNotificationCreator{}
	handler := worker.NewHandler(creator)

	event := queue.NewReactionAddedEvent(2, 1, model.TargetReview, 55)
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	got := creator.created[0]
	if got.UserID != 1 || got.ActorID != 2 {
		t.Errorf("notification routed to user %d from actor %d, want user 1 from actor 2", got.UserID, got.ActorID)
	}
	if got.Type != model.NotificationTypeReaction {
		t.Errorf("notification type = %q, want %q", got.Type, model.NotificationTypeReaction)
	}
	if got.TargetKind != model.TargetReview || got.TargetID != 55 {
		t.Errorf("notification target = %s/%d, want review/55", got.TargetKind, got.TargetID)
	}
}

func TestHandleEvent_CommentCreated(t *testing.T) {
	creator := &MockNotificationCreator{}
	handler := worker.NewHandler(creator)

	event := queue.NewCommentCreatedEvent(3, 1, model.TargetPost, 10, 200)
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	if creator.created[0].Type != model.NotificationTypeComment {
		t.Errorf("notification type = %q, want %q", creator.created[0].Type, model.NotificationTypeComment)
	}
}

func TestHandleEvent_SelfActionSkipped(t *testing.T) {
	creator := &MockNotificationCreator{}
	handler := worker.NewHandler(creator)

	// Actor and author are the same user
	reaction := queue.NewReactionAddedEvent(1, 1, model.TargetComment, 55)
	comment := queue.NewCommentCreatedEvent(1, 1, model.TargetReview, 10, 200)

	if err := handler.HandleEvent(context.Background(), reaction); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}
	if err := handler.HandleEvent(context.Background(), comment); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(creator.created) != 0 {
		t.Errorf("created %d notifications, want 0 for self-actions", len(creator.created))
	}
}

func TestHandleEvent_UnknownType(t *testing.T) {
	handler := worker.NewHandler(&MockNotificationCreator{})

	err := handler.HandleEvent(context.Background(), queue.ActivityEvent{Type: "mystery"})
	if err == nil {
		t.Error("expected error for unknown event type")
	}
}

func TestHandleEvent_CreateError(t *testing.T) {
	dbError := errors.New("insert failed")
	creator := &MockNotificationCreator{failErr: dbError}
	handler := worker.NewHandler(creator)

	event := queue.NewReactionAddedEvent(2, 1, model.TargetPost, 55)
	err := handler.HandleEvent(context.Background(), event)
	if !errors.Is(err, dbError) {
		t.Errorf("error should wrap create error, got %v", err)
	}
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	// Connect to local Redis (adjust URL if needed)
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

// =============================================================================
// Stream + Worker Integration Test
// =============================================================================

// TestStreamToWorkerIntegration tests the complete flow:
// Publisher -> Stream -> Consumer -> Handler -> NotificationCreator
func TestStreamToWorkerIntegration(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()

	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)
	creator := &MockNotificationCreator{}
	handler := worker.NewHandler(creator)

	// Ensure consumer group exists
	err := consumer.EnsureGroup(ctx, queue.StreamActivity, queue.ConsumerGroupNotifications)
	if err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}

	// User 2 reacts to user 1's review
	event := queue.NewReactionAddedEvent(2, 1, model.TargetReview, 55)
	msgID, err := publisher.Publish(ctx, queue.StreamActivity, event)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	t.Logf("Published message: %s", msgID)

	// Consume the message
	messages, err := consumer.Read(ctx, queue.StreamActivity, queue.ConsumerGroupNotifications, "test-worker", 10, time.Second)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}

	// Process and acknowledge
	msg := messages[0]
	if err := handler.HandleEvent(ctx, msg.Event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}
	if err := consumer.Ack(ctx, queue.StreamActivity, queue.ConsumerGroupNotifications, msg.ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	// Verify: notification persisted for the review's author
	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	if creator.created[0].UserID != 1 {
		t.Errorf("notification recipient = %d, want 1", creator.created[0].UserID)
	}

	// Verify: no pending messages
	pending, _ := consumer.Pending(ctx, queue.StreamActivity, queue.ConsumerGroupNotifications)
	if pending != 0 {
		t.Errorf("Expected 0 pending messages, got %d", pending)
	}

	t.Log("✓ Stream to worker integration test passed")
}
