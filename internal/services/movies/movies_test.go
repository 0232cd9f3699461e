package movies

import (
	"context"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/lib/fakeapi"
	"moviesocial/proj/internal/lib/logger"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, limit int) (*MovieService, *fakeapi.API) {
	t.Helper()
	fake := fakeapi.New()
	srv := fake.Start()
	t.Cleanup(srv.Close)
	client := api.New(logger.Discard(), srv.URL, 0, nil)
	return New(logger.Discard(), client, "marvel", limit), fake
}

func TestPopular(t *testing.T) {
	t.Run("limited", func(t *testing.T) {
		svc, _ := newTestService(t, 2)
		movies, err := svc.Popular(context.Background())
		require.NoError(t, err)
		assert.Len(t, movies, 2)
	})
	t.Run("failure", func(t *testing.T) {
		svc, fake := newTestService(t, 12)
		fake.Fail(http.MethodGet, "/api/movies/search", http.StatusInternalServerError)
		_, err := svc.Popular(context.Background())
		assert.Error(t, err)
	})
}

func TestSearch(t *testing.T) {
	svc, fake := newTestService(t, 12)
	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, fake.TotalCalls())

	movies, err := svc.Search(context.Background(), " inception ")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 27205, movies[0].ID)
}

func TestGet(t *testing.T) {
	svc, _ := newTestService(t, 12)
	movie, err := svc.Get(context.Background(), "27205")
	require.NoError(t, err)
	assert.Equal(t, "2010", movie.Year())

	_, err = svc.Get(context.Background(), "42")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}
