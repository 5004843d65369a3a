package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cinegram/internal/httputil"
	"cinegram/internal/model"
	"cinegram/internal/service"
	"cinegram/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// CreateOnReview handles POST /reviews/{id}/comments
func (h *CommentHandler) CreateOnReview(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, model.ThreadReview)
}

// CreateOnPost handles POST /posts/{id}/comments
func (h *CommentHandler) CreateOnPost(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, model.ThreadPost)
}

func (h *CommentHandler) create(w http.ResponseWriter, r *http.Request, kind model.ThreadKind) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	threadID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid thread ID")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, kind, threadID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrThreadNotFound):
			httputil.WriteNotFound(w, "Thread not found")
		case errors.Is(err, model.ErrParentNotFound):
			httputil.WriteNotFound(w, "Parent comment not found")
		case errors.Is(err, model.ErrParentThreadMismatch):
			httputil.WriteBadRequest(w, "Parent comment belongs to a different thread")
		case errors.Is(err, model.ErrContentTooShort):
			httputil.WriteBadRequest(w, "Comment content too short")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment content too long")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d %s=%d err=%v", userID, kind, threadID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// ListOnReview handles GET /reviews/{id}/comments
func (h *CommentHandler) ListOnReview(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ThreadReview)
}

// ListOnPost handles GET /posts/{id}/comments
func (h *CommentHandler) ListOnPost(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ThreadPost)
}

func (h *CommentHandler) list(w http.ResponseWriter, r *http.Request, kind model.ThreadKind) {
	threadID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid thread ID")
		return
	}

	// Parse query params
	query := r.URL.Query()

	page := 1
	if p := query.Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid page parameter")
			return
		}
		page = parsed
	}

	pageSize := 0 // service default
	if ps := query.Get("page_size"); ps != "" {
		parsed, err := strconv.Atoi(ps)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid page_size parameter")
			return
		}
		pageSize = parsed
	}

	sortBy := query.Get("sort_by")
	sortOrder := query.Get("sort_order")

	comments, err := h.commentService.GetThreadComments(r.Context(), kind, threadID, page, pageSize, sortBy, sortOrder)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSort) {
			httputil.WriteBadRequest(w, "Invalid sort parameter")
			return
		}
		log.Printf("[ERROR] List comments handler: %s=%d err=%v", kind, threadID, err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetByID handles GET /comments/{id}
func (h *CommentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	comment, err := h.commentService.GetByID(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			httputil.WriteNotFound(w, "Comment not found")
			return
		}
		log.Printf("[ERROR] Get comment handler: comment=%d err=%v", commentID, err)
		httputil.WriteInternalError(w, "Failed to get comment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Update handles PATCH /comments/{id}
// Updates a comment's content (only owner can update).
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	var req model.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(r.Context(), commentID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only edit your own comments")
		case errors.Is(err, model.ErrContentTooShort):
			httputil.WriteBadRequest(w, "Comment content too short")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment content too long")
		default:
			log.Printf("[ERROR] Update comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to update comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /comments/{id}
// Deletes a comment (only owner can delete).
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	err = h.commentService.Delete(r.Context(), commentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only delete your own comments")
		default:
			log.Printf("[ERROR] Delete comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	})
}
