package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"cinegram/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// commentSortColumns whitelists the sortable columns. Keys are the API
// sort names; values are the actual column expressions.
var commentSortColumns = map[string]string{
	model.CommentSortCreatedAt: "c.created_at",
	model.CommentSortUpvotes:   "c.upvote_count",
	model.CommentSortUpdatedAt: "c.updated_at",
}

// Create inserts a new comment. Runs on the caller's transaction so the
// thread's comment counter updates atomically with the insert.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, kind model.ThreadKind, threadID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (thread_kind, thread_id, user_id, content, parent_comment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, thread_kind, thread_id, user_id, content, parent_comment_id,
		          upvote_count, downvote_count, created_at, updated_at
	`
	var comment model.Comment
	err := tx.GetContext(ctx, &comment, query, kind, threadID, userID, content, parentID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// Update updates a comment's content and stamps updated_at. Only the
// owner can update; a non-owner hit is distinguished from a missing
// comment with a follow-up existence check.
func (r *commentRepository) Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, thread_kind, thread_id, user_id, content, parent_comment_id,
		          upvote_count, downvote_count, created_at, updated_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, content, commentID, userID)
	if err == sql.ErrNoRows {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, commentID)
		if exists {
			return nil, model.ErrNotCommentOwner
		}
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

// Delete removes the comment row. Replies are intentionally left in
// place keyed to the missing parent; root listings simply stop finding
// them. Only the owner can delete.
func (r *commentRepository) Delete(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) (model.ThreadKind, int64, error) {
	var comment struct {
		ThreadKind model.ThreadKind `db:"thread_kind"`
		ThreadID   int64            `db:"thread_id"`
		UserID     int64            `db:"user_id"`
	}
	err := tx.GetContext(ctx, &comment, `
		SELECT thread_kind, thread_id, user_id FROM comments WHERE id = $1 FOR UPDATE
	`, commentID)
	if err == sql.ErrNoRows {
		return "", 0, model.ErrCommentNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("get comment: %w", err)
	}

	if comment.UserID != userID {
		return "", 0, model.ErrNotCommentOwner
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return "", 0, fmt.Errorf("delete comment: %w", err)
	}

	return comment.ThreadKind, comment.ThreadID, nil
}

// GetByID retrieves a single comment without replies.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, thread_kind, thread_id, user_id, content, parent_comment_id,
		       upvote_count, downvote_count, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// CountRoots counts the root comments of a thread. Replies never count
// toward pagination.
func (r *commentRepository) CountRoots(ctx context.Context, kind model.ThreadKind, threadID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM comments
		WHERE thread_kind = $1 AND thread_id = $2 AND parent_comment_id IS NULL
	`, kind, threadID)
	if err != nil {
		return 0, fmt.Errorf("count root comments: %w", err)
	}
	return count, nil
}

// commentRow scans a comment joined with its author.
type commentRow struct {
	ID              int64            `db:"id"`
	ThreadKind      model.ThreadKind `db:"thread_kind"`
	ThreadID        int64            `db:"thread_id"`
	UserID          int64            `db:"user_id"`
	Content         string           `db:"content"`
	ParentCommentID *int64           `db:"parent_comment_id"`
	UpvoteCount     int              `db:"upvote_count"`
	DownvoteCount   int              `db:"downvote_count"`
	CreatedAt       time.Time        `db:"created_at"`
	UpdatedAt       *time.Time       `db:"updated_at"`
	AuthorID        int64            `db:"author.id"`
	AuthorUsername  string           `db:"author.username"`
	AuthorDisplay   *string          `db:"author.display_name"`
	AuthorAvatar    *string          `db:"author.avatar_url"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:              row.ID,
		ThreadKind:      row.ThreadKind,
		ThreadID:        row.ThreadID,
		UserID:          row.UserID,
		Content:         row.Content,
		ParentCommentID: row.ParentCommentID,
		UpvoteCount:     row.UpvoteCount,
		DownvoteCount:   row.DownvoteCount,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Author: &model.UserSummary{
			ID:          row.AuthorID,
			Username:    row.AuthorUsername,
			DisplayName: row.AuthorDisplay,
			AvatarURL:   row.AuthorAvatar,
		},
		Replies: []model.Comment{},
	}
}

const commentSelectColumns = `
	c.id, c.thread_kind, c.thread_id, c.user_id, c.content, c.parent_comment_id,
	c.upvote_count, c.downvote_count, c.created_at, c.updated_at,
	u.id AS "author.id", u.username AS "author.username",
	u.display_name AS "author.display_name", u.avatar_url AS "author.avatar_url"
`

// ListRoots returns one page of root comments in the requested order.
// The ORDER BY is built from whitelisted column names only; id breaks
// ties so pages are stable.
func (r *commentRepository) ListRoots(ctx context.Context, kind model.ThreadKind, threadID int64, offset, limit int, sortBy, sortOrder string) ([]model.Comment, error) {
	column, ok := commentSortColumns[sortBy]
	if !ok {
		return nil, model.ErrInvalidSort
	}
	order := "ASC"
	if sortOrder == "desc" {
		order = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.thread_kind = $1 AND c.thread_id = $2 AND c.parent_comment_id IS NULL
		ORDER BY %s %s NULLS LAST, c.id %s
		OFFSET $3 LIMIT $4
	`, commentSelectColumns, column, order, order)

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, kind, threadID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list root comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

// ListReplies returns all direct replies of the given parents, oldest
// first regardless of the outer sort order. Replies are never paginated.
func (r *commentRepository) ListReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_comment_id = ANY($1)
		ORDER BY c.created_at ASC, c.id ASC
	`, commentSelectColumns)

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(parentIDs))
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

// Exists checks if a comment exists.
func (r *commentRepository) Exists(ctx context.Context, commentID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, commentID)
	if err != nil {
		return false, fmt.Errorf("check comment exists: %w", err)
	}
	return exists, nil
}

// GetAuthorID returns the comment author's user id.
func (r *commentRepository) GetAuthorID(ctx context.Context, commentID int64) (int64, error) {
	var authorID int64
	err := r.db.GetContext(ctx, &authorID, `SELECT user_id FROM comments WHERE id = $1`, commentID)
	if err == sql.ErrNoRows {
		return 0, model.ErrCommentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get comment author: %w", err)
	}
	return authorID, nil
}
