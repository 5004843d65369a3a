package service

import (
	"context"
	"fmt"
	"log"

	"cinegram/internal/model"
	"cinegram/internal/repository"
)

// RatingService owns movie rating commands and the rating aggregation
// read path. Unlike reaction counters there is no incremental upkeep:
// the average and distribution are recomputed from the rating records on
// every read, so they can never drift from ground truth.
type RatingService struct {
	ratings repository.RatingRepository
	movies  repository.MovieRepository
}

func NewRatingService(ratings repository.RatingRepository, movies repository.MovieRepository) *RatingService {
	return &RatingService{ratings: ratings, movies: movies}
}

// Rate records or overwrites the user's score for a movie. Rating the
// same movie twice leaves exactly one record holding the latest score.
func (s *RatingService) Rate(ctx context.Context, userID, movieID int64, score int) (*model.RateMovieResponse, error) {
	if score < model.MinRatingScore || score > model.MaxRatingScore {
		return nil, model.ErrInvalidScore
	}

	rec, wasCreated, err := s.ratings.Upsert(ctx, userID, movieID, score)
	if err != nil {
		return nil, err
	}

	log.Printf("[RatingService] User %d rated movie %d with %d (created=%v)", userID, movieID, score, wasCreated)
	return &model.RateMovieResponse{Rating: rec, WasCreated: wasCreated}, nil
}

// Remove deletes the user's rating for a movie.
func (s *RatingService) Remove(ctx context.Context, userID, movieID int64) error {
	if err := s.ratings.Remove(ctx, userID, movieID); err != nil {
		return err
	}
	log.Printf("[RatingService] User %d removed rating for movie %d", userID, movieID)
	return nil
}

// GetMovieStats computes the movie's rating aggregate freshly from its
// rating records: arithmetic mean (0 when unrated, not an error), total,
// and per-score distribution including zero entries.
func (s *RatingService) GetMovieStats(ctx context.Context, movieID int64) (*model.MovieRatingStats, error) {
	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("check movie exists: %w", err)
	}
	if !exists {
		return nil, model.ErrMovieNotFound
	}

	counts, err := s.ratings.ScoreCounts(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get score counts: %w", err)
	}

	stats := &model.MovieRatingStats{MovieID: movieID}
	sum := 0
	for score, count := range counts {
		if score < model.MinRatingScore || score > model.MaxRatingScore {
			continue
		}
		stats.Distribution[score-1] = count
		stats.TotalRatings += count
		sum += score * count
	}
	if stats.TotalRatings > 0 {
		stats.Average = float64(sum) / float64(stats.TotalRatings)
	}
	return stats, nil
}

// GetUserRating returns the user's rating for a movie, if any.
func (s *RatingService) GetUserRating(ctx context.Context, userID, movieID int64) (*model.RatingRecord, error) {
	return s.ratings.FindByUser(ctx, userID, movieID)
}
