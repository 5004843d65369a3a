package model

import (
	"errors"
	"time"
)

// Movie is a catalog entry owned by the (external) catalog subsystem.
// This core only reads it for existence checks and rating aggregation;
// VoteAverage/VoteCount are recomputed from rating records on read, never
// incremented in place.
type Movie struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	ReleaseYear *int      `db:"release_year" json:"release_year,omitempty"`
	VoteAverage float64   `db:"vote_average" json:"vote_average"`
	VoteCount   int       `db:"vote_count" json:"vote_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

var ErrMovieNotFound = errors.New("movie not found")
