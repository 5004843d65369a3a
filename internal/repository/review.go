package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
)

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Exists checks if a review exists.
func (r *reviewRepository) Exists(ctx context.Context, reviewID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, reviewID)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

// GetAuthorID returns the review author's user id.
func (r *reviewRepository) GetAuthorID(ctx context.Context, reviewID int64) (int64, error) {
	var authorID int64
	err := r.db.GetContext(ctx, &authorID, `SELECT user_id FROM reviews WHERE id = $1`, reviewID)
	if err == sql.ErrNoRows {
		return 0, model.ErrReviewNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get review author: %w", err)
	}
	return authorID, nil
}

// IncrementCommentCount atomically updates the comment_count on a review.
func (r *reviewRepository) IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, reviewID int64, delta int) error {
	result, err := tx.ExecContext(ctx, `UPDATE reviews SET comment_count = comment_count + $1 WHERE id = $2`, delta, reviewID)
	if err != nil {
		return fmt.Errorf("update comment count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}
