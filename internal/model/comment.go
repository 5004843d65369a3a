package model

import (
	"errors"
	"time"
)

// ThreadKind identifies the entity a comment thread hangs off.
type ThreadKind string

const (
	ThreadReview ThreadKind = "review"
	ThreadPost   ThreadKind = "post"
)

// ValidThreadKind reports whether kind is a supported thread kind.
func ValidThreadKind(kind ThreadKind) bool {
	return kind == ThreadReview || kind == ThreadPost
}

// Comment is a node in a two-level comment tree. Roots have a nil
// ParentCommentID; replies reference a root in the same thread. The
// upvote/downvote counters are denormalized and maintained in the same
// transaction as the reaction records they summarize.
type Comment struct {
	ID              int64      `db:"id" json:"id"`
	ThreadKind      ThreadKind `db:"thread_kind" json:"thread_kind"`
	ThreadID        int64      `db:"thread_id" json:"thread_id"`
	UserID          int64      `db:"user_id" json:"user_id"`
	Content         string     `db:"content" json:"content"`
	ParentCommentID *int64     `db:"parent_comment_id" json:"parent_comment_id,omitempty"`
	UpvoteCount     int        `db:"upvote_count" json:"upvote_count"`
	DownvoteCount   int        `db:"downvote_count" json:"downvote_count"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`

	// Joined fields
	Author *UserSummary `json:"author,omitempty"`
	// Replies is populated only for root comments in thread listings;
	// a reply's own replies are presented empty (flattened tree).
	Replies []Comment `json:"replies"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest is the request body for updating a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// Comment sort keys accepted by thread listings.
const (
	CommentSortCreatedAt = "createdAt"
	CommentSortUpvotes   = "upvotes"
	CommentSortUpdatedAt = "updatedAt"
)

// CommentPage is one page of root comments with their replies attached.
// Pagination counts roots only; replies never affect the totals.
type CommentPage struct {
	Items      []Comment `json:"items"`
	TotalCount int       `json:"total_count"`
	TotalPages int       `json:"total_pages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

// Comment constraints
const (
	MinCommentLength = 2
	MaxCommentLength = 1000
	MaxCommentPage   = 50 // page size clamp
)

// Comment errors
var (
	ErrCommentNotFound      = errors.New("comment not found")
	ErrThreadNotFound       = errors.New("thread not found")
	ErrNotCommentOwner      = errors.New("not the owner of this comment")
	ErrContentTooShort      = errors.New("comment content too short")
	ErrContentTooLong       = errors.New("comment content too long")
	ErrParentNotFound       = errors.New("parent comment not found")
	ErrParentThreadMismatch = errors.New("parent comment belongs to a different thread")
	ErrInvalidSort          = errors.New("invalid sort parameter")
)
