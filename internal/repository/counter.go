package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
)

// counterTarget maps a target kind onto the parent table carrying its
// denormalized counters. Table and column names come from this fixed map
// only, never from request input.
type counterTarget struct {
	table    string
	posCol   string // column for the positive type (upvote/like)
	negCol   string // column for the negative type (downvote/dislike)
	notFound error
}

var counterTargets = map[model.TargetKind]counterTarget{
	model.TargetComment:     {table: "comments", posCol: "upvote_count", negCol: "downvote_count", notFound: model.ErrCommentNotFound},
	model.TargetPostComment: {table: "comments", posCol: "upvote_count", negCol: "downvote_count", notFound: model.ErrCommentNotFound},
	model.TargetPost:        {table: "posts", posCol: "upvote_count", negCol: "downvote_count", notFound: model.ErrPostNotFound},
	model.TargetReview:      {table: "reviews", posCol: "like_count", negCol: "dislike_count", notFound: model.ErrReviewNotFound},
}

type counterRepository struct {
	db *sqlx.DB
}

func NewCounterRepository(db *sqlx.DB) CounterRepository {
	return &counterRepository{db: db}
}

// Apply atomically adds delta to the counter matching rtype on the
// target's parent row, inside the caller's transaction.
func (r *counterRepository) Apply(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetID int64, rtype model.ReactionType, delta int) error {
	target, ok := counterTargets[kind]
	if !ok {
		return model.ErrInvalidTargetKind
	}

	col := target.negCol
	if rtype.IsPositive() {
		col = target.posCol
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = %s + $1 WHERE id = $2`, target.table, col, col)
	result, err := tx.ExecContext(ctx, query, delta, targetID)
	if err != nil {
		return fmt.Errorf("update %s.%s: %w", target.table, col, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return target.notFound
	}
	return nil
}
