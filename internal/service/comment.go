package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
	"cinegram/internal/queue"
	"cinegram/internal/repository"
)

// Comment listing defaults.
const defaultCommentPageSize = 20

// CommentService owns the comment commands and the thread tree
// assembly: pages of root comments with their direct replies attached.
type CommentService struct {
	comments  repository.CommentRepository
	posts     repository.PostRepository
	reviews   repository.ReviewRepository
	users     repository.UserRepository
	db        *sqlx.DB
	publisher queue.Publisher

	// nestedReplies lifts the flattened two-level presentation: when
	// set, thread listings also load replies of replies. Off by default
	// for compatibility with the original presentation.
	nestedReplies bool
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	db *sqlx.DB,
	publisher queue.Publisher,
	nestedReplies bool,
) *CommentService {
	return &CommentService{
		comments:      comments,
		posts:         posts,
		reviews:       reviews,
		users:         users,
		db:            db,
		publisher:     publisher,
		nestedReplies: nestedReplies,
	}
}

func validateCommentContent(content string) error {
	if len(content) < model.MinCommentLength {
		return model.ErrContentTooShort
	}
	if len(content) > model.MaxCommentLength {
		return model.ErrContentTooLong
	}
	return nil
}

func (s *CommentService) threadExists(ctx context.Context, kind model.ThreadKind, threadID int64) (bool, error) {
	switch kind {
	case model.ThreadReview:
		return s.reviews.Exists(ctx, threadID)
	case model.ThreadPost:
		return s.posts.Exists(ctx, threadID)
	default:
		return false, fmt.Errorf("unknown thread kind %q", kind)
	}
}

func (s *CommentService) threadAuthorID(ctx context.Context, kind model.ThreadKind, threadID int64) (int64, error) {
	switch kind {
	case model.ThreadReview:
		return s.reviews.GetAuthorID(ctx, threadID)
	case model.ThreadPost:
		return s.posts.GetAuthorID(ctx, threadID)
	default:
		return 0, fmt.Errorf("unknown thread kind %q", kind)
	}
}

// adjustCommentCount keeps the thread's denormalized comment counter in
// the same transaction as the comment row mutation.
func (s *CommentService) adjustCommentCount(ctx context.Context, tx *sqlx.Tx, kind model.ThreadKind, threadID int64, delta int) error {
	switch kind {
	case model.ThreadReview:
		return s.reviews.IncrementCommentCount(ctx, tx, threadID, delta)
	case model.ThreadPost:
		return s.posts.IncrementCommentCount(ctx, tx, threadID, delta)
	default:
		return fmt.Errorf("unknown thread kind %q", kind)
	}
}

// Create adds a comment to a thread. A parent, if given, must exist and
// belong to the same thread. Insert and counter update share one
// transaction.
func (s *CommentService) Create(ctx context.Context, userID int64, kind model.ThreadKind, threadID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	if err := validateCommentContent(req.Content); err != nil {
		return nil, err
	}

	exists, err := s.threadExists(ctx, kind, threadID)
	if err != nil {
		return nil, fmt.Errorf("check thread exists: %w", err)
	}
	if !exists {
		return nil, model.ErrThreadNotFound
	}

	if req.ParentCommentID != nil {
		parent, err := s.comments.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			if err == model.ErrCommentNotFound {
				return nil, model.ErrParentNotFound
			}
			return nil, err
		}
		if parent.ThreadKind != kind || parent.ThreadID != threadID {
			return nil, model.ErrParentThreadMismatch
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	comment, err := s.comments.Create(ctx, tx, kind, threadID, userID, req.Content, req.ParentCommentID)
	if err != nil {
		return nil, err
	}

	if err := s.adjustCommentCount(ctx, tx, kind, threadID, 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.attachAuthor(ctx, comment)
	comment.Replies = []model.Comment{}

	log.Printf("[CommentService] User %d commented on %s %d", userID, kind, threadID)

	// Publish notification event (after commit, best-effort)
	if s.publisher != nil {
		authorID, err := s.threadAuthorID(ctx, kind, threadID)
		if err == nil && authorID != userID {
			event := queue.NewCommentCreatedEvent(userID, authorID, model.TargetKind(kind), threadID, comment.ID)
			if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
				log.Printf("[CommentService] Failed to publish CommentCreated event: %v", err)
			}
		}
	}

	return comment, nil
}

// Update edits a comment's content. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, commentID, userID int64, req model.UpdateCommentRequest) (*model.Comment, error) {
	if err := validateCommentContent(req.Content); err != nil {
		return nil, err
	}

	comment, err := s.comments.Update(ctx, commentID, userID, req.Content)
	if err != nil {
		return nil, err
	}

	s.attachAuthor(ctx, comment)
	comment.Replies = []model.Comment{}

	log.Printf("[CommentService] User %d updated comment %d", userID, commentID)
	return comment, nil
}

// Delete removes a comment. Only the author may delete. Replies of a
// deleted root are left in place; they simply stop being reachable
// through thread listings.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	kind, threadID, err := s.comments.Delete(ctx, tx, commentID, userID)
	if err != nil {
		return err
	}

	if err := s.adjustCommentCount(ctx, tx, kind, threadID, -1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[CommentService] User %d deleted comment %d from %s %d", userID, commentID, kind, threadID)
	return nil
}

// GetThreadComments returns one page of a thread's root comments with
// their direct replies eagerly attached. Pagination and totals count
// roots only; replies are returned whole, oldest first, and present
// empty reply lists themselves. An unknown thread yields an empty page.
func (s *CommentService) GetThreadComments(ctx context.Context, kind model.ThreadKind, threadID int64, page, pageSize int, sortBy, sortOrder string) (*model.CommentPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultCommentPageSize
	}
	if pageSize > model.MaxCommentPage {
		pageSize = model.MaxCommentPage
	}
	if sortBy == "" {
		sortBy = model.CommentSortCreatedAt
	}
	switch sortBy {
	case model.CommentSortCreatedAt, model.CommentSortUpvotes, model.CommentSortUpdatedAt:
	default:
		return nil, model.ErrInvalidSort
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	totalCount, err := s.comments.CountRoots(ctx, kind, threadID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	result := &model.CommentPage{
		Items:      []model.Comment{},
		TotalCount: totalCount,
		TotalPages: (totalCount + pageSize - 1) / pageSize,
		Page:       page,
		PageSize:   pageSize,
	}
	if totalCount == 0 {
		return result, nil
	}

	roots, err := s.comments.ListRoots(ctx, kind, threadID, (page-1)*pageSize, pageSize, sortBy, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	if err := s.attachReplies(ctx, roots); err != nil {
		return nil, err
	}

	result.Items = roots
	return result, nil
}

// attachReplies loads the direct replies of the given comments and
// groups them under their parents. With nestedReplies enabled it keeps
// descending level by level; otherwise replies present empty reply
// lists regardless of deeper records.
func (s *CommentService) attachReplies(ctx context.Context, parents []model.Comment) error {
	if len(parents) == 0 {
		return nil
	}

	parentIDs := make([]int64, len(parents))
	index := make(map[int64]*model.Comment, len(parents))
	for i := range parents {
		parentIDs[i] = parents[i].ID
		parents[i].Replies = []model.Comment{}
		index[parents[i].ID] = &parents[i]
	}

	replies, err := s.comments.ListReplies(ctx, parentIDs)
	if err != nil {
		return fmt.Errorf("list replies: %w", err)
	}
	if len(replies) == 0 {
		return nil
	}

	if s.nestedReplies {
		if err := s.attachReplies(ctx, replies); err != nil {
			return err
		}
	}

	for _, reply := range replies {
		if reply.Replies == nil {
			reply.Replies = []model.Comment{}
		}
		parent := index[*reply.ParentCommentID]
		parent.Replies = append(parent.Replies, reply)
	}
	return nil
}

// GetByID returns a single comment. Its replies list is always empty,
// matching the flattened presentation rule.
func (s *CommentService) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	s.attachAuthor(ctx, comment)
	comment.Replies = []model.Comment{}
	return comment, nil
}

// attachAuthor joins the author summary onto a comment, best-effort.
func (s *CommentService) attachAuthor(ctx context.Context, comment *model.Comment) {
	author, err := s.users.GetByID(ctx, comment.UserID)
	if err != nil {
		return
	}
	comment.Author = &model.UserSummary{
		ID:          author.ID,
		Username:    author.Username,
		DisplayName: author.DisplayName,
		AvatarURL:   author.AvatarURL,
	}
}
