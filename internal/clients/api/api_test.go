package api

import (
	"context"
	"errors"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/lib/fakeapi"
	"moviesocial/proj/internal/lib/logger"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func newTestClient(t *testing.T) (*Client, *fakeapi.API) {
	t.Helper()
	fake := fakeapi.New()
	srv := fake.Start()
	t.Cleanup(srv.Close)
	return New(logger.Discard(), srv.URL+"/", 0, nil), fake
}

func TestNew(t *testing.T) {
	custom := &http.Client{}
	c := New(logger.Discard(), "http://example.com/", 0, custom)
	assert.Equal(t, "http://example.com", c.baseURL)
	assert.Same(t, custom, c.http)
}

func TestLoginAndCurrentUser(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddUser(models.User{Username: "neo", Email: "neo@zion.io", Role: models.RoleReviewer}, "secret1")
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user, creds, err := client.Login(ctx, LoginParams{Username: "neo", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "neo", user.Username)
		require.Contains(t, creds, fakeapi.SessionCookie)

		current, err := client.CurrentUser(ctx, creds)
		require.NoError(t, err)
		assert.Equal(t, user.ID, current.ID)
	})
	t.Run("invalid credentials", func(t *testing.T) {
		_, _, err := client.Login(ctx, LoginParams{Username: "neo", Password: "nope"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Invalid username or password", Message(err, "fallback"))
	})
	t.Run("no session", func(t *testing.T) {
		_, err := client.CurrentUser(ctx, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestTransportFailure(t *testing.T) {
	c := New(logger.Discard(), "http://example.com", 0, &http.Client{Transport: failingTransport{}})
	_, err := c.SearchMovies(context.Background(), "marvel")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestMalformedPayload(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}))
		defer srv.Close()
		_, err := New(logger.Discard(), srv.URL, 0, nil).CurrentUser(context.Background(), nil)
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
	t.Run("missing user", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true}`))
		}))
		defer srv.Close()
		_, err := New(logger.Discard(), srv.URL, 0, nil).CurrentUser(context.Background(), nil)
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
	t.Run("success false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"nope"}`))
		}))
		defer srv.Close()
		_, err := New(logger.Discard(), srv.URL, 0, nil).SearchMovies(context.Background(), "x")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "nope", apiErr.Message)
	})
}

func TestCatalog(t *testing.T) {
	client, fake := newTestClient(t)
	ctx := context.Background()

	results, err := client.SearchMovies(ctx, "marvel")
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 1, fake.Calls(http.MethodGet, "/api/movies/search"))

	empty, err := client.SearchMovies(ctx, "zzzz")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	movie, err := client.GetMovie(ctx, "27205")
	require.NoError(t, err)
	assert.Equal(t, "Inception", movie.Title)
	assert.Equal(t, "$160,000,000", movie.Budget.String())
	require.Len(t, movie.Genres, 2)

	_, err = client.GetMovie(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoritesAndReviews(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddUser(models.User{Username: "trinity", Role: models.RoleReviewer}, "secret1")
	ctx := context.Background()
	user, creds, err := client.Login(ctx, LoginParams{Username: "trinity", Password: "secret1"})
	require.NoError(t, err)

	fav, err := client.AddFavorite(ctx, creds, FavoriteParams{MovieID: "27205", MovieTitle: "Inception"})
	require.NoError(t, err)
	favs, err := client.UserFavorites(ctx, creds, user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "27205", favs[0].MovieID.String())

	require.NoError(t, client.RemoveFavorite(ctx, creds, fav.ID))
	favs, err = client.UserFavorites(ctx, creds, user.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)

	review, err := client.CreateReview(ctx, creds, ReviewParams{
		MovieID: "27205", MovieTitle: "Inception", Rating: 8, Title: "Great", Content: "Loved it",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, review.Author.ID)

	byMovie, err := client.MovieReviews(ctx, "27205")
	require.NoError(t, err)
	require.Len(t, byMovie, 1)
	byUser, err := client.UserReviews(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	require.NoError(t, client.Logout(ctx, creds))
	_, err = client.CurrentUser(ctx, creds)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateUser(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddUser(models.User{Username: "morpheus", Role: models.RoleCasual}, "secret1")
	ctx := context.Background()
	user, creds, err := client.Login(ctx, LoginParams{Username: "morpheus", Password: "secret1"})
	require.NoError(t, err)

	genre := "Drama"
	updated, err := client.UpdateUser(ctx, creds, user.ID, UpdateUserParams{FavoriteGenre: &genre, EmailPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "Drama", updated.FavoriteGenre)
	assert.True(t, updated.EmailPublic)

	got, err := client.GetUser(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drama", got.FavoriteGenre)

	_, err = client.UpdateUser(ctx, nil, user.ID, UpdateUserParams{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
