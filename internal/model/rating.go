package model

import (
	"errors"
	"time"
)

// Rating score bounds (inclusive).
const (
	MinRatingScore = 1
	MaxRatingScore = 10
)

// RatingRecord is a movie score by a user. At most one record exists per
// (user, movie); re-rating overwrites the score in place.
type RatingRecord struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	MovieID   int64      `db:"movie_id" json:"movie_id"`
	Score     int        `db:"score" json:"score"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// RateMovieRequest is the request body for rating a movie.
type RateMovieRequest struct {
	Score int `json:"score"`
}

// RateMovieResponse is returned from a successful rate call.
type RateMovieResponse struct {
	Rating     *RatingRecord `json:"rating"`
	WasCreated bool          `json:"was_created"`
}

// MovieRatingStats is the aggregate rating view of a movie, recomputed
// from the rating records on every read.
type MovieRatingStats struct {
	MovieID      int64   `json:"movie_id"`
	Average      float64 `json:"average"` // 0 when there are no ratings
	TotalRatings int     `json:"total_ratings"`
	// Distribution[k-1] is the number of ratings with score k, for k in 1..10.
	Distribution [MaxRatingScore]int `json:"distribution"`
}

// Rating errors
var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrInvalidScore   = errors.New("score must be between 1 and 10")
)
