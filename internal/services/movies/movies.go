package movies

import (
	"context"
	"errors"
	"log/slog"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/domain/models"
	"strings"
)

type Catalog interface {
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)
	GetMovie(ctx context.Context, id string) (*models.Movie, error)
}

type MovieService struct {
	log          *slog.Logger
	catalog      Catalog
	popularQuery string
	popularLimit int
}

func New(log *slog.Logger, catalog Catalog, popularQuery string, popularLimit int) *MovieService {
	return &MovieService{
		log:          log,
		catalog:      catalog,
		popularQuery: popularQuery,
		popularLimit: popularLimit,
	}
}

// Popular returns the home page selection: the first results of a fixed query.
func (s *MovieService) Popular(ctx context.Context) ([]models.Movie, error) {
	const op = "movies.MovieService.Popular"
	log := s.log.With("op", op, "query", s.popularQuery)
	movies, err := s.catalog.SearchMovies(ctx, s.popularQuery)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if s.popularLimit > 0 && len(movies) > s.popularLimit {
		movies = movies[:s.popularLimit]
	}
	return movies, nil
}

func (s *MovieService) Search(ctx context.Context, query string) ([]models.Movie, error) {
	const op = "movies.MovieService.Search"
	query = strings.TrimSpace(query)
	log := s.log.With("op", op, "query", query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	movies, err := s.catalog.SearchMovies(ctx, query)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movies, nil
}

func (s *MovieService) Get(ctx context.Context, id string) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.catalog.GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}
