package reviews

import (
	"cmp"
	"context"
	"log/slog"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/services/session"
	"slices"
)

type ReviewAPI interface {
	MovieReviews(ctx context.Context, movieID string) ([]models.Review, error)
	UserReviews(ctx context.Context, userID string) ([]models.Review, error)
	CreateReview(ctx context.Context, creds api.Credentials, params api.ReviewParams) (*models.Review, error)
}

type ReviewService struct {
	log *slog.Logger
	api ReviewAPI
}

func New(log *slog.Logger, reviewAPI ReviewAPI) *ReviewService {
	return &ReviewService{
		log: log,
		api: reviewAPI,
	}
}

// newestFirst orders reviews by creation time, most recent first.
func newestFirst(reviews []models.Review) []models.Review {
	slices.SortStableFunc(reviews, func(a, b models.Review) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return reviews
}

func (s *ReviewService) ForMovie(ctx context.Context, movieID string) ([]models.Review, error) {
	const op = "reviews.ReviewService.ForMovie"
	log := s.log.With("op", op, "movie_id", movieID)
	reviews, err := s.api.MovieReviews(ctx, movieID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return newestFirst(reviews), nil
}

func (s *ReviewService) ForUser(ctx context.Context, userID string) ([]models.Review, error) {
	const op = "reviews.ReviewService.ForUser"
	log := s.log.With("op", op, "user_id", userID)
	reviews, err := s.api.UserReviews(ctx, userID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return newestFirst(reviews), nil
}

type Draft struct {
	Movie    models.Movie
	MovieID  string
	Rating   int
	Title    string
	Content  string
	Spoilers bool
}

// Submit posts a review on behalf of sess. Only reviewers may submit.
func (s *ReviewService) Submit(ctx context.Context, sess session.Session, creds api.Credentials, d Draft) (*models.Review, error) {
	const op = "reviews.ReviewService.Submit"
	log := s.log.With("op", op, "movie_id", d.MovieID, "user_id", sess.UserID())
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if !sess.CanReview() {
		log.Warn("review rejected for non reviewer")
		return nil, ErrNotReviewer
	}
	review, err := s.api.CreateReview(ctx, creds, api.ReviewParams{
		MovieID:     d.MovieID,
		MovieTitle:  d.Movie.Title,
		MoviePoster: d.Movie.PosterPath,
		Rating:      d.Rating,
		Title:       d.Title,
		Content:     d.Content,
		Spoilers:    d.Spoilers,
	})
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Info("review posted", "review_id", review.ID)
	return review, nil
}
