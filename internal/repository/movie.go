package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
)

type movieRepository struct {
	db *sqlx.DB
}

func NewMovieRepository(db *sqlx.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Exists checks if a movie exists in the catalog.
func (r *movieRepository) Exists(ctx context.Context, movieID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM movies WHERE id = $1)`, movieID)
	if err != nil {
		return false, fmt.Errorf("check movie exists: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a movie. The stored vote_average/vote_count columns
// are catalog snapshots; live values come from the rating aggregator.
func (r *movieRepository) GetByID(ctx context.Context, movieID int64) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.GetContext(ctx, &movie, `
		SELECT id, title, release_year, vote_average, vote_count, created_at
		FROM movies
		WHERE id = $1
	`, movieID)
	if err == sql.ErrNoRows {
		return nil, model.ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return &movie, nil
}
