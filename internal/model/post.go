package model

import (
	"errors"
	"time"
)

// Post is a group/feed post. This core owns only its denormalized
// reaction and comment counters; authoring and group moderation live in
// the (external) posts subsystem.
type Post struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Content       string    `db:"content" json:"content"`
	UpvoteCount   int       `db:"upvote_count" json:"upvote_count"`
	DownvoteCount int       `db:"downvote_count" json:"downvote_count"`
	CommentCount  int       `db:"comment_count" json:"comment_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

var ErrPostNotFound = errors.New("post not found")
