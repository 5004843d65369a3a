package model

import (
	"errors"
	"time"
)

// Review is a user's movie review. This core owns only its denormalized
// like/dislike and comment counters; review authoring lives in the
// (external) reviews subsystem.
type Review struct {
	ID           int64     `db:"id" json:"id"`
	MovieID      int64     `db:"movie_id" json:"movie_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Content      string    `db:"content" json:"content"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	DislikeCount int       `db:"dislike_count" json:"dislike_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

var ErrReviewNotFound = errors.New("review not found")
