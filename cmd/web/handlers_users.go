package main

import (
	"errors"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/lib/validator"
	"moviesocial/proj/internal/services/users"
	"moviesocial/proj/internal/views"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func (app *Application) showProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := app.Http.setupLogPerReq(r)
	sess := currentSession(r)
	creds := sessionStoreFrom(r).Credentials()
	data := views.ProfileData{IsOwn: sess.IsOwnProfile(id)}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		user, err := app.services.Users.Get(ctx, creds, id)
		data.User = user
		return err
	})
	g.Go(func() error {
		list, err := app.services.Reviews.ForUser(ctx, id)
		if err != nil {
			log.Warn("failed to load profile reviews", "errMsg", err.Error())
			data.ReviewsError = "Failed to load reviews"
			return nil
		}
		data.Reviews = list
		return nil
	})
	g.Go(func() error {
		favs, err := app.services.Favorites.ForUser(ctx, creds, id)
		if err != nil {
			log.Warn("failed to load profile favorites", "errMsg", err.Error())
			data.FavoritesError = "Failed to load favorites"
			return nil
		}
		data.Favorites = favs
		return nil
	})
	if err := g.Wait(); err != nil {
		status := http.StatusBadGateway
		switch {
		case clientGone(r, err):
			return
		case errors.Is(err, users.ErrUserNotFound):
			status = http.StatusNotFound
			data.Error = "User not found"
		default:
			data.Error = "Failed to load profile"
		}
		app.Http.Render(w, r, status, "profile", app.page(w, r, "Profile", views.ProfileData{Error: data.Error}))
		return
	}
	data.ShowEmail = data.IsOwn || data.User.EmailPublic
	app.Http.Render(w, r, http.StatusOK, "profile", app.page(w, r, data.User.Username, data))
}

func profileFormFor(user *models.User) views.ProfileForm {
	return views.ProfileForm{
		Bio:           user.Bio,
		FavoriteGenre: user.FavoriteGenre,
		EmailPublic:   user.EmailPublic,
	}
}

func (app *Application) editProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := app.services.Users.Get(r.Context(), sessionStoreFrom(r).Credentials(), id)
	if err != nil {
		switch {
		case clientGone(r, err):
		case errors.Is(err, users.ErrUserNotFound):
			app.Http.NotFound(w, r, "User not found")
		default:
			app.Http.ServerError(w, r, err, "Failed to load profile")
		}
		return
	}
	app.Http.Render(w, r, http.StatusOK, "profile_edit", app.page(w, r, "Edit Profile", views.ProfileEditData{
		User:   user,
		Form:   profileFormFor(user),
		Genres: models.Genres,
	}))
}

func (app *Application) updateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	store := sessionStoreFrom(r)
	sess := store.Snapshot()
	me, _ := sess.User()

	var form views.ProfileForm
	if err := app.decoder.DecodeForm(r, &form); err != nil {
		app.Http.BadRequest(w, r, "Invalid profile form")
		return
	}
	data := views.ProfileEditData{User: &me, Form: form, Genres: models.Genres}
	if errs := validator.ValidateStruct(app.validator, form); errs != nil {
		data.Error = firstError(errs, "favoriteGenre", "bio")
		app.Http.Render(w, r, http.StatusUnprocessableEntity, "profile_edit", app.page(w, r, "Edit Profile", data))
		return
	}
	_, err := app.services.Users.Update(r.Context(), sess, store.Credentials(), id, users.ProfileEdit{
		Bio:           form.Bio,
		FavoriteGenre: form.FavoriteGenre,
		EmailPublic:   form.EmailPublic,
	})
	if err != nil {
		if errors.Is(err, users.ErrForbidden) {
			app.Http.Forbidden(w, r, "You can only edit your own profile.")
			return
		}
		data.Error = "Failed to update profile"
		app.Http.Render(w, r, http.StatusBadGateway, "profile_edit", app.page(w, r, "Edit Profile", data))
		return
	}
	app.redirect(w, r, "/profile/"+id)
}
