package model

import (
	"errors"
	"time"
)

// TargetKind identifies what kind of entity a reaction is attached to.
type TargetKind string

const (
	TargetComment     TargetKind = "comment"      // comment under a review thread
	TargetPost        TargetKind = "post"         // group/feed post
	TargetReview      TargetKind = "review"       // movie review
	TargetPostComment TargetKind = "post_comment" // comment under a post thread
)

// ReactionType is the user's stance on a target.
// Comments and posts use upvote/downvote; reviews use like/dislike.
type ReactionType string

const (
	ReactionUpvote   ReactionType = "upvote"
	ReactionDownvote ReactionType = "downvote"
	ReactionLike     ReactionType = "like"
	ReactionDislike  ReactionType = "dislike"
)

// reactionTypesByKind lists the allowed types for each target kind.
var reactionTypesByKind = map[TargetKind][]ReactionType{
	TargetComment:     {ReactionUpvote, ReactionDownvote},
	TargetPostComment: {ReactionUpvote, ReactionDownvote},
	TargetPost:        {ReactionUpvote, ReactionDownvote},
	TargetReview:      {ReactionLike, ReactionDislike},
}

// ValidTargetKind reports whether kind is one of the supported target kinds.
func ValidTargetKind(kind TargetKind) bool {
	_, ok := reactionTypesByKind[kind]
	return ok
}

// ValidReactionType reports whether rtype is allowed for the given kind.
func ValidReactionType(kind TargetKind, rtype ReactionType) bool {
	for _, t := range reactionTypesByKind[kind] {
		if t == rtype {
			return true
		}
	}
	return false
}

// IsPositive reports whether the type maps to the target's positive counter.
func (t ReactionType) IsPositive() bool {
	return t == ReactionUpvote || t == ReactionLike
}

// ReactionRecord is one user's stance on one target. At most one record
// exists per (user, target kind, target id), enforced by a storage-level
// unique constraint; switching type mutates the record in place.
type ReactionRecord struct {
	ID         int64        `db:"id" json:"id"`
	UserID     int64        `db:"user_id" json:"user_id"`
	TargetKind TargetKind   `db:"target_kind" json:"target_kind"`
	TargetID   int64        `db:"target_id" json:"target_id"`
	Type       ReactionType `db:"reaction_type" json:"type"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time   `db:"updated_at" json:"updated_at,omitempty"` // set on first type switch
}

// ReactRequest is the request body for creating or switching a reaction.
type ReactRequest struct {
	TargetKind TargetKind   `json:"target_kind"`
	TargetID   int64        `json:"target_id"`
	Type       ReactionType `json:"type"`
}

// RemoveReactionRequest is the request body for removing a reaction.
type RemoveReactionRequest struct {
	TargetKind TargetKind `json:"target_kind"`
	TargetID   int64      `json:"target_id"`
}

// ReactResponse is returned from a successful react call.
type ReactResponse struct {
	Reaction   *ReactionRecord `json:"reaction"`
	WasCreated bool            `json:"was_created"`
}

// ReactionStats is the aggregate view of a target's reactions.
// Likes count toward Upvotes and dislikes toward Downvotes so the same
// shape serves every target kind.
type ReactionStats struct {
	TargetKind TargetKind `json:"target_kind"`
	TargetID   int64      `json:"target_id"`
	Upvotes    int        `json:"upvotes"`
	Downvotes  int        `json:"downvotes"`
	Total      int        `json:"total"`
}

// Reaction errors
var (
	ErrTargetNotFound      = errors.New("reaction target not found")
	ErrReactionNotFound    = errors.New("reaction not found")
	ErrDuplicateReaction   = errors.New("reaction of this type already exists")
	ErrInvalidTargetKind   = errors.New("invalid target kind")
	ErrInvalidReactionType = errors.New("invalid reaction type for target kind")
)
