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

type RatingHandler struct {
	ratingService *service.RatingService
}

func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// Rate handles PUT /movies/{id}/rating
// Creates or overwrites the caller's rating for a movie.
// Returns 201 for a first rating, 200 for an overwrite.
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	movieID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid movie ID")
		return
	}

	var req model.RateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.ratingService.Rate(r.Context(), userID, movieID, req.Score)
	if err != nil {
		if errors.Is(err, model.ErrInvalidScore) {
			httputil.WriteBadRequest(w, "Score must be between 1 and 10")
			return
		}
		log.Printf("[ERROR] Rate handler: user=%d movie=%d err=%v", userID, movieID, err)
		httputil.WriteInternalError(w, "Failed to rate movie")
		return
	}

	status := http.StatusOK
	if resp.WasCreated {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, resp)
}

// Remove handles DELETE /movies/{id}/rating
// Removes the caller's rating for a movie.
func (h *RatingHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	movieID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid movie ID")
		return
	}

	err = h.ratingService.Remove(r.Context(), userID, movieID)
	if err != nil {
		if errors.Is(err, model.ErrRatingNotFound) {
			httputil.WriteNotFound(w, "Rating not found")
			return
		}
		log.Printf("[ERROR] Remove rating handler: user=%d movie=%d err=%v", userID, movieID, err)
		httputil.WriteInternalError(w, "Failed to remove rating")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Rating removed successfully",
	})
}

// Stats handles GET /movies/{id}/rating-stats
// Returns the average, total and score distribution for a movie,
// recomputed from the rating records.
func (h *RatingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid movie ID")
		return
	}

	stats, err := h.ratingService.GetMovieStats(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			httputil.WriteNotFound(w, "Movie not found")
			return
		}
		log.Printf("[ERROR] Rating stats handler: movie=%d err=%v", movieID, err)
		httputil.WriteInternalError(w, "Failed to get rating stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// GetMine handles GET /movies/{id}/rating
// Returns the caller's rating for a movie, if any.
func (h *RatingHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	movieID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid movie ID")
		return
	}

	rating, err := h.ratingService.GetUserRating(r.Context(), userID, movieID)
	if err != nil {
		if errors.Is(err, model.ErrRatingNotFound) {
			httputil.WriteNotFound(w, "Rating not found")
			return
		}
		log.Printf("[ERROR] Get rating handler: user=%d movie=%d err=%v", userID, movieID, err)
		httputil.WriteInternalError(w, "Failed to get rating")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rating)
}
