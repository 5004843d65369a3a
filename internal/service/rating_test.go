package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"cinegram/internal/model"
)

type mockRatingRepository struct {
	upsertFn      func(ctx context.Context, userID, movieID int64, score int) (*model.RatingRecord, bool, error)
	removeFn      func(ctx context.Context, userID, movieID int64) error
	findByUserFn  func(ctx context.Context, userID, movieID int64) (*model.RatingRecord, error)
	scoreCountsFn func(ctx context.Context, movieID int64) (map[int]int, error)

	upsertCalls int
}

func (m *mockRatingRepository) Upsert(ctx context.Context, userID, movieID int64, score int) (*model.RatingRecord, bool, error) {
	m.upsertCalls++
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, movieID, score)
	}
	return nil, false, errors.New("not implemented")
}

func (m *mockRatingRepository) Remove(ctx context.Context, userID, movieID int64) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, userID, movieID)
	}
	return model.ErrRatingNotFound
}

func (m *mockRatingRepository) FindByUser(ctx context.Context, userID, movieID int64) (*model.RatingRecord, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID, movieID)
	}
	return nil, model.ErrRatingNotFound
}

func (m *mockRatingRepository) ScoreCounts(ctx context.Context, movieID int64) (map[int]int, error) {
	if m.scoreCountsFn != nil {
		return m.scoreCountsFn(ctx, movieID)
	}
	return map[int]int{}, nil
}

type mockMovieRepository struct {
	existsFn  func(ctx context.Context, movieID int64) (bool, error)
	getByIDFn func(ctx context.Context, movieID int64) (*model.Movie, error)
}

func (m *mockMovieRepository) Exists(ctx context.Context, movieID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, movieID)
	}
	return true, nil
}

func (m *mockMovieRepository) GetByID(ctx context.Context, movieID int64) (*model.Movie, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, movieID)
	}
	return nil, model.ErrMovieNotFound
}

// =============================================================================
// RATE TESTS
// =============================================================================

func TestRatingService_Rate_ScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		wantErr error
	}{
		{name: "below minimum", score: 0, wantErr: model.ErrInvalidScore},
		{name: "negative", score: -3, wantErr: model.ErrInvalidScore},
		{name: "above maximum", score: 11, wantErr: model.ErrInvalidScore},
		{name: "minimum accepted", score: 1, wantErr: nil},
		{name: "maximum accepted", score: 10, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings := &mockRatingRepository{
				upsertFn: func(ctx context.Context, userID, movieID int64, score int) (*model.RatingRecord, bool, error) {
					return &model.RatingRecord{ID: 1, UserID: userID, MovieID: movieID, Score: score, CreatedAt: time.Now()}, true, nil
				},
			}
			svc := NewRatingService(ratings, &mockMovieRepository{})

			resp, err := svc.Rate(context.Background(), 7, 42, tt.score)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if ratings.upsertCalls != 0 {
					t.Error("Upsert should not be called for an out-of-range score")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Rating.Score != tt.score {
				t.Errorf("score = %d, want %d", resp.Rating.Score, tt.score)
			}
		})
	}
}

func TestRatingService_Rate_OverwriteReportsNotCreated(t *testing.T) {
	updated := time.Now()
	ratings := &mockRatingRepository{
		upsertFn: func(ctx context.Context, userID, movieID int64, score int) (*model.RatingRecord, bool, error) {
			return &model.RatingRecord{ID: 1, UserID: userID, MovieID: movieID, Score: score, UpdatedAt: &updated}, false, nil
		},
	}
	svc := NewRatingService(ratings, &mockMovieRepository{})

	resp, err := svc.Rate(context.Background(), 7, 42, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.WasCreated {
		t.Error("overwriting an existing rating should report WasCreated=false")
	}
	if resp.Rating.Score != 8 {
		t.Errorf("score = %d, want 8", resp.Rating.Score)
	}
}

// =============================================================================
// REMOVE TESTS
// =============================================================================

func TestRatingService_Remove(t *testing.T) {
	tests := []struct {
		name     string
		removeFn func(ctx context.Context, userID, movieID int64) error
		wantErr  error
	}{
		{
			name:     "removed",
			removeFn: func(ctx context.Context, userID, movieID int64) error { return nil },
			wantErr:  nil,
		},
		{
			name:     "no rating to remove",
			removeFn: func(ctx context.Context, userID, movieID int64) error { return model.ErrRatingNotFound },
			wantErr:  model.ErrRatingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRatingService(&mockRatingRepository{removeFn: tt.removeFn}, &mockMovieRepository{})

			err := svc.Remove(context.Background(), 7, 42)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// =============================================================================
// STATS TESTS
// =============================================================================

func TestRatingService_GetMovieStats(t *testing.T) {
	ratings := &mockRatingRepository{
		scoreCountsFn: func(ctx context.Context, movieID int64) (map[int]int, error) {
			// Two 10s, one 7, one 4
			return map[int]int{10: 2, 7: 1, 4: 1}, nil
		},
	}
	svc := NewRatingService(ratings, &mockMovieRepository{})

	stats, err := svc.GetMovieStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalRatings != 4 {
		t.Errorf("total = %d, want 4", stats.TotalRatings)
	}

	wantAvg := 31.0 / 4.0
	if math.Abs(stats.Average-wantAvg) > 1e-9 {
		t.Errorf("average = %v, want %v", stats.Average, wantAvg)
	}

	wantDist := [model.MaxRatingScore]int{}
	wantDist[10-1] = 2
	wantDist[7-1] = 1
	wantDist[4-1] = 1
	if stats.Distribution != wantDist {
		t.Errorf("distribution = %v, want %v", stats.Distribution, wantDist)
	}
}

func TestRatingService_GetMovieStats_NoRatings(t *testing.T) {
	svc := NewRatingService(&mockRatingRepository{}, &mockMovieRepository{})

	stats, err := svc.GetMovieStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Average != 0 {
		t.Errorf("average = %v, want 0 for an unrated movie", stats.Average)
	}
	if stats.TotalRatings != 0 {
		t.Errorf("total = %d, want 0", stats.TotalRatings)
	}
	for i, c := range stats.Distribution {
		if c != 0 {
			t.Errorf("distribution[%d] = %d, want 0", i, c)
		}
	}
}

func TestRatingService_GetMovieStats_MovieNotFound(t *testing.T) {
	movies := &mockMovieRepository{
		existsFn: func(ctx context.Context, movieID int64) (bool, error) { return false, nil },
	}
	svc := NewRatingService(&mockRatingRepository{}, movies)

	_, err := svc.GetMovieStats(context.Background(), 42)
	if !errors.Is(err, model.ErrMovieNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrMovieNotFound)
	}
}

func TestRatingService_GetMovieStats_IgnoresOutOfRangeRows(t *testing.T) {
	ratings := &mockRatingRepository{
		scoreCountsFn: func(ctx context.Context, movieID int64) (map[int]int, error) {
			return map[int]int{5: 2, 0: 7, 99: 3}, nil
		},
	}
	svc := NewRatingService(ratings, &mockMovieRepository{})

	stats, err := svc.GetMovieStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalRatings != 2 {
		t.Errorf("total = %d, want 2 (out-of-range rows ignored)", stats.TotalRatings)
	}
	if stats.Average != 5 {
		t.Errorf("average = %v, want 5", stats.Average)
	}
}
