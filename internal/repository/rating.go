package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
)

type ratingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert creates or overwrites the user's rating for a movie in one
// statement, so two concurrent ratings from the same user can never
// produce two rows. xmax = 0 only for freshly inserted tuples, which is
// how we report create-vs-update to the caller.
func (r *ratingRepository) Upsert(ctx context.Context, userID, movieID int64, score int) (*model.RatingRecord, bool, error) {
	type upsertRow struct {
		model.RatingRecord
		WasCreated bool `db:"was_created"`
	}
	var row upsertRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO ratings (user_id, movie_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			score = EXCLUDED.score,
			updated_at = NOW()
		RETURNING id, user_id, movie_id, score, created_at, updated_at, (xmax = 0) AS was_created
	`, userID, movieID, score)
	if err != nil {
		return nil, false, fmt.Errorf("upsert rating: %w", err)
	}
	return &row.RatingRecord, row.WasCreated, nil
}

// Remove deletes the user's rating for a movie.
func (r *ratingRepository) Remove(ctx context.Context, userID, movieID int64) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM ratings WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrRatingNotFound
	}
	return nil
}

// FindByUser returns the user's rating for a movie, if any.
func (r *ratingRepository) FindByUser(ctx context.Context, userID, movieID int64) (*model.RatingRecord, error) {
	var rec model.RatingRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT id, user_id, movie_id, score, created_at, updated_at
		FROM ratings
		WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err == sql.ErrNoRows {
		return nil, model.ErrRatingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return &rec, nil
}

// ScoreCounts returns score -> count for all rating records of a movie.
// The aggregator recomputes average and distribution from this on every
// read; no running sum is maintained.
func (r *ratingRepository) ScoreCounts(ctx context.Context, movieID int64) (map[int]int, error) {
	type countRow struct {
		Score int `db:"score"`
		Count int `db:"count"`
	}
	var rows []countRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT score, COUNT(*) AS count
		FROM ratings
		WHERE movie_id = $1
		GROUP BY score
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Score] = row.Count
	}
	return counts, nil
}
