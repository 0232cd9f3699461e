package services

import (
	"log/slog"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/config"
	"moviesocial/proj/internal/services/favorites"
	"moviesocial/proj/internal/services/movies"
	"moviesocial/proj/internal/services/reviews"
	"moviesocial/proj/internal/services/search"
	"moviesocial/proj/internal/services/users"
)

type Services struct {
	Movies    *movies.MovieService
	Search    *search.SearchService
	Reviews   *reviews.ReviewService
	Favorites *favorites.FavoriteService
	Users     *users.UserService
}

func New(log *slog.Logger, cfg *config.Config, client *api.Client, cache search.Cache, taskExecutor search.TaskExecutor) *Services {
	moviesService := movies.New(log, client, cfg.API.PopularQuery, cfg.API.PopularLimit)
	return &Services{
		Movies:    moviesService,
		Search:    search.New(log, moviesService, cache, taskExecutor, cfg.Storage.Retention),
		Reviews:   reviews.New(log, client),
		Favorites: favorites.New(log, client),
		Users:     users.New(log, client),
	}
}
