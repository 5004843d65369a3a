package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
)

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func newTestCommentService(t *testing.T, comments *mockCommentRepository, nestedReplies bool) *CommentService {
	t.Helper()

	posts := &mockPostRepository{
		existsFn:      func(ctx context.Context, postID int64) (bool, error) { return true, nil },
		getAuthorIDFn: func(ctx context.Context, postID int64) (int64, error) { return 99, nil },
	}
	reviews := &mockReviewRepository{
		existsFn:      func(ctx context.Context, reviewID int64) (bool, error) { return true, nil },
		getAuthorIDFn: func(ctx context.Context, reviewID int64) (int64, error) { return 99, nil },
	}
	users := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "someone"}, nil
		},
	}

	return NewCommentService(comments, posts, reviews, users, newTestDB(t), nil, nestedReplies)
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestCommentService_Create_Success(t *testing.T) {
	var countDelta int
	comments := &mockCommentRepository{
		createFn: func(ctx context.Context, tx *sqlx.Tx, kind model.ThreadKind, threadID, userID int64, content string, parentID *int64) (*model.Comment, error) {
			return &model.Comment{ID: 10, ThreadKind: kind, ThreadID: threadID, UserID: userID, Content: content}, nil
		},
	}
	svc := newTestCommentService(t, comments, false)
	svc.reviews = &mockReviewRepository{
		existsFn: func(ctx context.Context, reviewID int64) (bool, error) { return true, nil },
		incrementCommentCountFn: func(ctx context.Context, tx *sqlx.Tx, reviewID int64, delta int) error {
			countDelta += delta
			return nil
		},
		getAuthorIDFn: func(ctx context.Context, reviewID int64) (int64, error) { return 99, nil },
	}

	comment, err := svc.Create(context.Background(), 7, model.ThreadReview, 5, model.CreateCommentRequest{Content: "great movie"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if comment.ID != 10 {
		t.Errorf("comment ID = %d, want 10", comment.ID)
	}
	if comment.Replies == nil || len(comment.Replies) != 0 {
		t.Error("new comment should carry an empty replies list")
	}
	if countDelta != 1 {
		t.Errorf("comment count delta = %d, want 1", countDelta)
	}
}

func TestCommentService_Create_ContentValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "too short", content: "a", wantErr: model.ErrContentTooShort},
		{name: "empty", content: "", wantErr: model.ErrContentTooShort},
		{name: "too long", content: strings.Repeat("x", model.MaxCommentLength+1), wantErr: model.ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestCommentService(t, &mockCommentRepository{}, false)

			_, err := svc.Create(context.Background(), 7, model.ThreadReview, 5, model.CreateCommentRequest{Content: tt.content})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommentService_Create_ThreadNotFound(t *testing.T) {
	svc := newTestCommentService(t, &mockCommentRepository{}, false)
	svc.reviews = &mockReviewRepository{
		existsFn: func(ctx context.Context, reviewID int64) (bool, error) { return false, nil },
	}

	_, err := svc.Create(context.Background(), 7, model.ThreadReview, 5, model.CreateCommentRequest{Content: "great movie"})
	if !errors.Is(err, model.ErrThreadNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrThreadNotFound)
	}
}

func TestCommentService_Create_ParentChecks(t *testing.T) {
	parentID := int64(3)

	tests := []struct {
		name    string
		getByID func(ctx context.Context, commentID int64) (*model.Comment, error)
		wantErr error
	}{
		{
			name: "parent missing",
			getByID: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return nil, model.ErrCommentNotFound
			},
			wantErr: model.ErrParentNotFound,
		},
		{
			name: "parent in another thread",
			getByID: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return &model.Comment{ID: commentID, ThreadKind: model.ThreadReview, ThreadID: 999}, nil
			},
			wantErr: model.ErrParentThreadMismatch,
		},
		{
			name: "parent under a post thread",
			getByID: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return &model.Comment{ID: commentID, ThreadKind: model.ThreadPost, ThreadID: 5}, nil
			},
			wantErr: model.ErrParentThreadMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := &mockCommentRepository{getByIDFn: tt.getByID}
			svc := newTestCommentService(t, comments, false)

			req := model.CreateCommentRequest{Content: "a reply", ParentCommentID: &parentID}
			_, err := svc.Create(context.Background(), 7, model.ThreadReview, 5, req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// UPDATE / DELETE TESTS
// =============================================================================

func TestCommentService_Update_OwnershipForbidden(t *testing.T) {
	comments := &mockCommentRepository{
		updateFn: func(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
			return nil, model.ErrNotCommentOwner
		},
	}
	svc := newTestCommentService(t, comments, false)

	_, err := svc.Update(context.Background(), 10, 7, model.UpdateCommentRequest{Content: "edited text"})
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentOwner)
	}
}

func TestCommentService_Delete_DecrementsThreadCount(t *testing.T) {
	var countDelta int
	comments := &mockCommentRepository{
		deleteFn: func(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) (model.ThreadKind, int64, error) {
			return model.ThreadPost, 5, nil
		},
	}
	svc := newTestCommentService(t, comments, false)
	svc.posts = &mockPostRepository{
		incrementCommentCountFn: func(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error {
			countDelta += delta
			return nil
		},
	}

	if err := svc.Delete(context.Background(), 10, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the deleted row counts; orphaned replies stay in place
	if countDelta != -1 {
		t.Errorf("comment count delta = %d, want -1", countDelta)
	}
}

// =============================================================================
// THREAD LISTING TESTS
// =============================================================================

func TestCommentService_GetThreadComments_PaginationMath(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		pageSize       int
		totalCount     int
		wantPage       int
		wantPageSize   int
		wantTotalPages int
		wantOffset     int
	}{
		{name: "first page defaults", page: 0, pageSize: 0, totalCount: 45, wantPage: 1, wantPageSize: 20, wantTotalPages: 3, wantOffset: 0},
		{name: "middle page", page: 2, pageSize: 10, totalCount: 45, wantPage: 2, wantPageSize: 10, wantTotalPages: 5, wantOffset: 10},
		{name: "exact fit", page: 1, pageSize: 15, totalCount: 45, wantPage: 1, wantPageSize: 15, wantTotalPages: 3, wantOffset: 0},
		{name: "page size clamped", page: 1, pageSize: 500, totalCount: 45, wantPage: 1, wantPageSize: model.MaxCommentPage, wantTotalPages: 1, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotOffset, gotLimit int
			comments := &mockCommentRepository{
				countRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64) (int, error) {
					return tt.totalCount, nil
				},
				listRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64, offset, limit int, sortBy, sortOrder string) ([]model.Comment, error) {
					gotOffset, gotLimit = offset, limit
					return []model.Comment{}, nil
				},
			}
			svc := newTestCommentService(t, comments, false)

			page, err := svc.GetThreadComments(context.Background(), model.ThreadReview, 5, tt.page, tt.pageSize, "", "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if page.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", page.Page, tt.wantPage)
			}
			if page.PageSize != tt.wantPageSize {
				t.Errorf("page size = %d, want %d", page.PageSize, tt.wantPageSize)
			}
			if page.TotalPages != tt.wantTotalPages {
				t.Errorf("total pages = %d, want %d", page.TotalPages, tt.wantTotalPages)
			}
			if page.TotalCount != tt.totalCount {
				t.Errorf("total count = %d, want %d", page.TotalCount, tt.totalCount)
			}
			if gotOffset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", gotOffset, tt.wantOffset)
			}
			if gotLimit != tt.wantPageSize {
				t.Errorf("limit = %d, want %d", gotLimit, tt.wantPageSize)
			}
		})
	}
}

func TestCommentService_GetThreadComments_EmptyThread(t *testing.T) {
	listCalled := false
	comments := &mockCommentRepository{
		countRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64) (int, error) {
			return 0, nil
		},
		listRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64, offset, limit int, sortBy, sortOrder string) ([]model.Comment, error) {
			listCalled = true
			return nil, nil
		},
	}
	svc := newTestCommentService(t, comments, false)

	page, err := svc.GetThreadComments(context.Background(), model.ThreadReview, 5, 1, 10, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Items) != 0 || page.TotalCount != 0 || page.TotalPages != 0 {
		t.Errorf("empty thread page = %+v, want zero items and totals", page)
	}
	if listCalled {
		t.Error("listing should be skipped when the thread has no roots")
	}
}

func TestCommentService_GetThreadComments_InvalidSort(t *testing.T) {
	svc := newTestCommentService(t, &mockCommentRepository{}, false)

	_, err := svc.GetThreadComments(context.Background(), model.ThreadReview, 5, 1, 10, "popularity", "")
	if !errors.Is(err, model.ErrInvalidSort) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidSort)
	}
}

func TestCommentService_GetThreadComments_FlattenedReplies(t *testing.T) {
	root1, root2 := int64(1), int64(2)
	reply1, reply2 := int64(11), int64(12)

	comments := &mockCommentRepository{
		countRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64) (int, error) {
			return 2, nil
		},
		listRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64, offset, limit int, sortBy, sortOrder string) ([]model.Comment, error) {
			return []model.Comment{
				{ID: root1, ThreadKind: kind, ThreadID: threadID},
				{ID: root2, ThreadKind: kind, ThreadID: threadID},
			}, nil
		},
		listRepliesFn: func(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
			// First call asks for the roots' replies; deeper levels are
			// never requested in flattened mode.
			if len(parentIDs) == 2 {
				return []model.Comment{
					{ID: reply1, ParentCommentID: &root1},
					{ID: reply2, ParentCommentID: &root1},
				}, nil
			}
			t.Errorf("unexpected ListReplies call for parents %v", parentIDs)
			return nil, nil
		},
	}
	svc := newTestCommentService(t, comments, false)

	page, err := svc.GetThreadComments(context.Background(), model.ThreadReview, 5, 1, 10, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}

	first := page.Items[0]
	if len(first.Replies) != 2 {
		t.Fatalf("first root replies = %d, want 2", len(first.Replies))
	}
	if first.Replies[0].ID != reply1 || first.Replies[1].ID != reply2 {
		t.Errorf("replies grouped wrong: %+v", first.Replies)
	}

	// Replies present empty reply lists in the flattened tree
	for _, reply := range first.Replies {
		if reply.Replies == nil || len(reply.Replies) != 0 {
			t.Errorf("reply %d should present an empty replies list", reply.ID)
		}
	}

	second := page.Items[1]
	if len(second.Replies) != 0 {
		t.Errorf("second root replies = %d, want 0", len(second.Replies))
	}
}

func TestCommentService_GetThreadComments_NestedReplies(t *testing.T) {
	root := int64(1)
	reply := int64(11)
	nested := int64(111)

	comments := &mockCommentRepository{
		countRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64) (int, error) {
			return 1, nil
		},
		listRootsFn: func(ctx context.Context, kind model.ThreadKind, threadID int64, offset, limit int, sortBy, sortOrder string) ([]model.Comment, error) {
			return []model.Comment{{ID: root, ThreadKind: kind, ThreadID: threadID}}, nil
		},
		listRepliesFn: func(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
			switch parentIDs[0] {
			case root:
				return []model.Comment{{ID: reply, ParentCommentID: &root}}, nil
			case reply:
				return []model.Comment{{ID: nested, ParentCommentID: &reply}}, nil
			default:
				return nil, nil
			}
		},
	}
	svc := newTestCommentService(t, comments, true)

	page, err := svc.GetThreadComments(context.Background(), model.ThreadReview, 5, 1, 10, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Items) != 1 || len(page.Items[0].Replies) != 1 {
		t.Fatalf("unexpected tree shape: %+v", page.Items)
	}
	deep := page.Items[0].Replies[0]
	if len(deep.Replies) != 1 || deep.Replies[0].ID != nested {
		t.Errorf("nested reply not attached: %+v", deep.Replies)
	}
}

func TestCommentService_GetByID_RepliesAlwaysEmpty(t *testing.T) {
	comments := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, UserID: 7, Content: "hello there"}, nil
		},
	}
	svc := newTestCommentService(t, comments, false)

	comment, err := svc.GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if comment.Replies == nil || len(comment.Replies) != 0 {
		t.Error("single-comment reads should present an empty replies list")
	}
	if comment.Author == nil || comment.Author.Username != "someone" {
		t.Errorf("author not attached: %+v", comment.Author)
	}
}
