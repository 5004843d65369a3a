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

type ReactionHandler struct {
	reactionService *service.ReactionService
}

func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
	}
}

// React handles POST /reactions
// Creates a reaction on a target, or switches an existing one to the
// requested type. Returns 201 for a new reaction, 200 for a switch.
func (h *ReactionHandler) React(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.reactionService.React(r.Context(), userID, req.TargetKind, req.TargetID, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTargetKind):
			httputil.WriteBadRequest(w, "Invalid target kind")
		case errors.Is(err, model.ErrInvalidReactionType):
			httputil.WriteBadRequest(w, "Invalid reaction type for this target")
		case errors.Is(err, model.ErrTargetNotFound):
			httputil.WriteNotFound(w, "Target not found")
		case errors.Is(err, model.ErrDuplicateReaction):
			httputil.WriteConflict(w, "Reaction of this type already exists")
		default:
			log.Printf("[ERROR] React handler: user=%d kind=%s target=%d err=%v", userID, req.TargetKind, req.TargetID, err)
			httputil.WriteInternalError(w, "Failed to react")
		}
		return
	}

	status := http.StatusOK
	if resp.WasCreated {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, resp)
}

// Unreact handles DELETE /reactions
// Removes the caller's reaction from a target.
func (h *ReactionHandler) Unreact(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.RemoveReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	err := h.reactionService.Unreact(r.Context(), userID, req.TargetKind, req.TargetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTargetKind):
			httputil.WriteBadRequest(w, "Invalid target kind")
		case errors.Is(err, model.ErrReactionNotFound):
			httputil.WriteNotFound(w, "Reaction not found")
		default:
			log.Printf("[ERROR] Unreact handler: user=%d kind=%s target=%d err=%v", userID, req.TargetKind, req.TargetID, err)
			httputil.WriteInternalError(w, "Failed to remove reaction")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Reaction removed successfully",
	})
}

// Stats handles GET /reactions/{kind}/{id}/stats
// Returns aggregate reaction counts for a target.
func (h *ReactionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	kind := model.TargetKind(chi.URLParam(r, "kind"))

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid target ID")
		return
	}

	stats, err := h.reactionService.Stats(r.Context(), kind, targetID)
	if err != nil {
		if errors.Is(err, model.ErrInvalidTargetKind) {
			httputil.WriteBadRequest(w, "Invalid target kind")
			return
		}
		log.Printf("[ERROR] Reaction stats handler: kind=%s target=%d err=%v", kind, targetID, err)
		httputil.WriteInternalError(w, "Failed to get reaction stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// GetMine handles GET /reactions/{kind}/{id}
// Returns the caller's reaction on a target, if any.
func (h *ReactionHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	kind := model.TargetKind(chi.URLParam(r, "kind"))

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid target ID")
		return
	}

	reaction, err := h.reactionService.GetUserReaction(r.Context(), userID, kind, targetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTargetKind):
			httputil.WriteBadRequest(w, "Invalid target kind")
		case errors.Is(err, model.ErrReactionNotFound):
			httputil.WriteNotFound(w, "Reaction not found")
		default:
			log.Printf("[ERROR] Get reaction handler: user=%d kind=%s target=%d err=%v", userID, kind, targetID, err)
			httputil.WriteInternalError(w, "Failed to get reaction")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reaction)
}
