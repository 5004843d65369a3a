package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
)

// ReactionRepository is the durable per-user-per-target reaction store.
// Uniqueness over (user_id, target_kind, target_id) is enforced by the
// storage layer; mutating methods run on the caller's transaction so the
// counter adjustment shares the same atomic unit.
type ReactionRepository interface {
	// Upsert creates the record, or switches its type in place.
	// wasCreated reports create-vs-switch; prevType is the overwritten
	// type on a switch. Re-submitting the same type fails with
	// model.ErrDuplicateReaction.
	Upsert(ctx context.Context, tx *sqlx.Tx, userID int64, kind model.TargetKind, targetID int64, rtype model.ReactionType) (rec *model.ReactionRecord, wasCreated bool, prevType model.ReactionType, err error)
	// Remove deletes the record and returns its type for the counter
	// decrement. Fails with model.ErrReactionNotFound if absent.
	Remove(ctx context.Context, tx *sqlx.Tx, userID int64, kind model.TargetKind, targetID int64) (model.ReactionType, error)
	FindByUser(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) (*model.ReactionRecord, error)
	CountsByTarget(ctx context.Context, kind model.TargetKind, targetID int64) (map[model.ReactionType]int, error)
}

// CounterRepository applies a ±delta to the denormalized counter on a
// reaction target's parent row, inside the caller's transaction.
type CounterRepository interface {
	Apply(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetID int64, rtype model.ReactionType, delta int) error
}

type RatingRepository interface {
	// Upsert creates or overwrites the user's rating for a movie.
	Upsert(ctx context.Context, userID, movieID int64, score int) (rec *model.RatingRecord, wasCreated bool, err error)
	// Remove deletes the rating. Fails with model.ErrRatingNotFound if absent.
	Remove(ctx context.Context, userID, movieID int64) error
	FindByUser(ctx context.Context, userID, movieID int64) (*model.RatingRecord, error)
	// ScoreCounts returns score -> count for the movie's rating records.
	ScoreCounts(ctx context.Context, movieID int64) (map[int]int, error)
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, kind model.ThreadKind, threadID, userID int64, content string, parentID *int64) (*model.Comment, error)
	Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error)
	// Delete removes the comment row only; replies are not cascaded.
	// Returns the thread the comment belonged to for counter upkeep.
	Delete(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) (model.ThreadKind, int64, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	CountRoots(ctx context.Context, kind model.ThreadKind, threadID int64) (int, error)
	// ListRoots returns one page of root comments with author info.
	// sortBy must be one of the model.CommentSort* keys.
	ListRoots(ctx context.Context, kind model.ThreadKind, threadID int64, offset, limit int, sortBy, sortOrder string) ([]model.Comment, error)
	// ListReplies returns all direct replies of the given parents,
	// sorted by created_at ascending.
	ListReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error)
	Exists(ctx context.Context, commentID int64) (bool, error)
	GetAuthorID(ctx context.Context, commentID int64) (int64, error)
}

type MovieRepository interface {
	Exists(ctx context.Context, movieID int64) (bool, error)
	GetByID(ctx context.Context, movieID int64) (*model.Movie, error)
}

type PostRepository interface {
	Exists(ctx context.Context, postID int64) (bool, error)
	GetAuthorID(ctx context.Context, postID int64) (int64, error)
	IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error
}

type ReviewRepository interface {
	Exists(ctx context.Context, reviewID int64) (bool, error)
	GetAuthorID(ctx context.Context, reviewID int64) (int64, error)
	IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, reviewID int64, delta int) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, userID, actorID int64, notifType string, targetKind model.TargetKind, targetID int64) error
	// List returns recent notifications with actor info plus the unread count.
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, int, error)
	MarkAllAsRead(ctx context.Context, userID int64) error
}
