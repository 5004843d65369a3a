package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
	"cinegram/internal/queue"
	"cinegram/internal/repository"
)

// ReactionService is the entry point for all reaction commands. It
// validates the target, then runs the record mutation and the counter
// adjustment as one transaction.
type ReactionService struct {
	reactions repository.ReactionRepository
	counters  *CounterMaintainer
	comments  repository.CommentRepository
	posts     repository.PostRepository
	reviews   repository.ReviewRepository
	db        *sqlx.DB
	publisher queue.Publisher
}

func NewReactionService(
	reactions repository.ReactionRepository,
	counters *CounterMaintainer,
	comments repository.CommentRepository,
	posts repository.PostRepository,
	reviews repository.ReviewRepository,
	db *sqlx.DB,
	publisher queue.Publisher,
) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		counters:  counters,
		comments:  comments,
		posts:     posts,
		reviews:   reviews,
		db:        db,
		publisher: publisher,
	}
}

// targetExists dispatches the existence check to the subsystem owning
// the target kind.
func (s *ReactionService) targetExists(ctx context.Context, kind model.TargetKind, targetID int64) (bool, error) {
	switch kind {
	case model.TargetComment, model.TargetPostComment:
		return s.comments.Exists(ctx, targetID)
	case model.TargetPost:
		return s.posts.Exists(ctx, targetID)
	case model.TargetReview:
		return s.reviews.Exists(ctx, targetID)
	default:
		return false, model.ErrInvalidTargetKind
	}
}

// targetAuthorID returns the user who owns the target content, for
// notification routing.
func (s *ReactionService) targetAuthorID(ctx context.Context, kind model.TargetKind, targetID int64) (int64, error) {
	switch kind {
	case model.TargetComment, model.TargetPostComment:
		return s.comments.GetAuthorID(ctx, targetID)
	case model.TargetPost:
		return s.posts.GetAuthorID(ctx, targetID)
	case model.TargetReview:
		return s.reviews.GetAuthorID(ctx, targetID)
	default:
		return 0, model.ErrInvalidTargetKind
	}
}

// React records the user's stance on a target: first reaction creates a
// record, a different type switches it in place, the same type fails
// with ErrDuplicateReaction. The record mutation and the counter
// adjustment commit atomically.
func (s *ReactionService) React(ctx context.Context, userID int64, kind model.TargetKind, targetID int64, rtype model.ReactionType) (*model.ReactResponse, error) {
	if !model.ValidTargetKind(kind) {
		return nil, model.ErrInvalidTargetKind
	}
	if !model.ValidReactionType(kind, rtype) {
		return nil, model.ErrInvalidReactionType
	}

	exists, err := s.targetExists(ctx, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("check target exists: %w", err)
	}
	if !exists {
		return nil, model.ErrTargetNotFound
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, wasCreated, prevType, err := s.reactions.Upsert(ctx, tx, userID, kind, targetID, rtype)
	if err != nil {
		return nil, err
	}

	if wasCreated {
		err = s.counters.OnCreate(ctx, tx, kind, targetID, rtype)
	} else {
		err = s.counters.OnSwitch(ctx, tx, kind, targetID, prevType, rtype)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[ReactionService] User %d reacted %s on %s %d (created=%v)", userID, rtype, kind, targetID, wasCreated)

	// Publish notification event (after commit, best-effort)
	if s.publisher != nil && wasCreated {
		authorID, err := s.targetAuthorID(ctx, kind, targetID)
		if err == nil && authorID != userID {
			event := queue.NewReactionAddedEvent(userID, authorID, kind, targetID)
			if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
				log.Printf("[ReactionService] Failed to publish ReactionAdded event: %v", err)
			}
		}
	}

	return &model.ReactResponse{Reaction: rec, WasCreated: wasCreated}, nil
}

// Unreact removes the user's reaction from a target and decrements the
// counter matching its prior type in the same transaction.
func (s *ReactionService) Unreact(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) error {
	if !model.ValidTargetKind(kind) {
		return model.ErrInvalidTargetKind
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rtype, err := s.reactions.Remove(ctx, tx, userID, kind, targetID)
	if err != nil {
		return err
	}

	if err := s.counters.OnRemove(ctx, tx, kind, targetID, rtype); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[ReactionService] User %d removed %s reaction on %s %d", userID, rtype, kind, targetID)
	return nil
}

// Stats returns the aggregate reaction counts for a target. Likes count
// as upvotes and dislikes as downvotes so one shape serves every kind.
func (s *ReactionService) Stats(ctx context.Context, kind model.TargetKind, targetID int64) (*model.ReactionStats, error) {
	if !model.ValidTargetKind(kind) {
		return nil, model.ErrInvalidTargetKind
	}

	counts, err := s.reactions.CountsByTarget(ctx, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("get reaction counts: %w", err)
	}

	stats := &model.ReactionStats{TargetKind: kind, TargetID: targetID}
	for rtype, count := range counts {
		if rtype.IsPositive() {
			stats.Upvotes += count
		} else {
			stats.Downvotes += count
		}
		stats.Total += count
	}
	return stats, nil
}

// GetUserReaction returns the user's reaction on a target, if any.
func (s *ReactionService) GetUserReaction(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) (*model.ReactionRecord, error) {
	if !model.ValidTargetKind(kind) {
		return nil, model.ErrInvalidTargetKind
	}
	return s.reactions.FindByUser(ctx, userID, kind, targetID)
}
