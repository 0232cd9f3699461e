package users

import (
	"context"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/lib/fakeapi"
	"moviesocial/proj/internal/lib/logger"
	"moviesocial/proj/internal/services/session"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*UserService, *fakeapi.API) {
	t.Helper()
	fake := fakeapi.New()
	srv := fake.Start()
	t.Cleanup(srv.Close)
	return New(logger.Discard(), api.New(logger.Discard(), srv.URL, 0, nil)), fake
}

func TestRegisterSendsRoleSpecificFields(t *testing.T) {
	svc, fake := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, Registration{
		Username: "neo", Email: "neo@zion.io", Password: "secret1",
		Role: models.RoleReviewer, Bio: "hi", FavoriteGenre: "Drama",
	}))
	neo, ok := fake.User("neo")
	require.True(t, ok)
	assert.Equal(t, models.RoleReviewer, neo.Role)
	assert.Equal(t, "hi", neo.Bio)
	assert.Empty(t, neo.FavoriteGenre)

	require.NoError(t, svc.Register(ctx, Registration{
		Username: "tank", Password: "secret1", Role: models.RoleCasual, Bio: "ignored", FavoriteGenre: "Drama",
	}))
	tank, ok := fake.User("tank")
	require.True(t, ok)
	assert.Equal(t, "Drama", tank.FavoriteGenre)
	assert.Empty(t, tank.Bio)

	err := svc.Register(ctx, Registration{Username: "neo", Password: "secret1", Role: models.RoleCasual})
	require.Error(t, err)
	assert.Equal(t, "Username already exists", api.Message(err, ""))
}

func TestGet(t *testing.T) {
	svc, fake := setup(t)
	u := fake.AddUser(models.User{Username: "tank"}, "secret1")
	got, err := svc.Get(context.Background(), nil, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "tank", got.Username)

	_, err = svc.Get(context.Background(), nil, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, fake := setup(t)
	casual := fake.AddUser(models.User{Username: "tank", Role: models.RoleCasual}, "secret1")
	other := fake.AddUser(models.User{Username: "dozer", Role: models.RoleCasual}, "secret1")
	creds := api.Credentials{fakeapi.SessionCookie: fake.SessionFor("tank")}

	t.Run("own profile", func(t *testing.T) {
		updated, err := svc.Update(ctx, session.Authenticated(casual), creds, casual.ID, ProfileEdit{
			Bio: "ignored for casual users", FavoriteGenre: "Horror", EmailPublic: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Horror", updated.FavoriteGenre)
		assert.Empty(t, updated.Bio)
		assert.True(t, updated.EmailPublic)
	})

	t.Run("someone else", func(t *testing.T) {
		_, err := svc.Update(ctx, session.Authenticated(casual), creds, other.ID, ProfileEdit{})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Update(ctx, session.Anonymous(), nil, casual.ID, ProfileEdit{})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
