package favorites

import (
	"context"
	"log/slog"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/services/session"
	"strconv"
)

type FavoriteAPI interface {
	UserFavorites(ctx context.Context, creds api.Credentials, userID string) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, creds api.Credentials, params api.FavoriteParams) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, creds api.Credentials, favoriteID string) error
}

type FavoriteService struct {
	log *slog.Logger
	api FavoriteAPI
}

func New(log *slog.Logger, favoriteAPI FavoriteAPI) *FavoriteService {
	return &FavoriteService{
		log: log,
		api: favoriteAPI,
	}
}

// Find scans favs for movieID.
func Find(favs []models.Favorite, movieID string) *models.Favorite {
	for i := range favs {
		if favs[i].MovieID.String() == movieID {
			return &favs[i]
		}
	}
	return nil
}

func (s *FavoriteService) ForUser(ctx context.Context, creds api.Credentials, userID string) ([]models.Favorite, error) {
	const op = "favorites.FavoriteService.ForUser"
	log := s.log.With("op", op, "user_id", userID)
	favs, err := s.api.UserFavorites(ctx, creds, userID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return favs, nil
}

// Lookup returns the session user's favorite for movieID, or nil.
func (s *FavoriteService) Lookup(ctx context.Context, sess session.Session, creds api.Credentials, movieID string) (*models.Favorite, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	favs, err := s.ForUser(ctx, creds, sess.UserID())
	if err != nil {
		return nil, err
	}
	return Find(favs, movieID), nil
}

// Toggle flips the membership of movie in the session user's favorites and
// reports whether it is a favorite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, sess session.Session, creds api.Credentials, movie models.Movie) (bool, error) {
	const op = "favorites.FavoriteService.Toggle"
	movieID := strconv.Itoa(movie.ID)
	log := s.log.With("op", op, "movie_id", movieID, "user_id", sess.UserID())
	existing, err := s.Lookup(ctx, sess, creds, movieID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.api.RemoveFavorite(ctx, creds, existing.ID); err != nil {
			log.Error(err.Error())
			return true, err
		}
		log.Info("favorite removed")
		return false, nil
	}
	_, err = s.api.AddFavorite(ctx, creds, api.FavoriteParams{
		MovieID:     movieID,
		MovieTitle:  movie.Title,
		MoviePoster: movie.PosterPath,
	})
	if err != nil {
		log.Error(err.Error())
		return false, err
	}
	log.Info("favorite added")
	return true, nil
}
