package main

import (
	"context"
	"errors"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/lib/validator"
	"moviesocial/proj/internal/services/movies"
	"moviesocial/proj/internal/services/reviews"
	"moviesocial/proj/internal/views"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// loadMovie fetches the movie, its reviews and, for a signed-in browser, its
// favorite state concurrently. Only the movie itself is required.
func (app *Application) loadMovie(ctx context.Context, r *http.Request, movieID string) (*views.MovieData, error) {
	log := app.Http.setupLogPerReq(r)
	sess := currentSession(r)
	creds := sessionStoreFrom(r).Credentials()
	data := &views.MovieData{
		CanFavorite: sess.CanFavorite(),
		CanReview:   sess.CanReview(),
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movie, err := app.services.Movies.Get(ctx, movieID)
		data.Movie = movie
		return err
	})
	g.Go(func() error {
		list, err := app.services.Reviews.ForMovie(ctx, movieID)
		if err != nil {
			data.ReviewsError = "Failed to load reviews"
			return nil
		}
		data.Reviews = list
		return nil
	})
	if sess.IsAuthenticated() {
		g.Go(func() error {
			fav, err := app.services.Favorites.Lookup(ctx, sess, creds, movieID)
			if err != nil {
				log.Warn("failed to load favorite state", "errMsg", err.Error())
				return nil
			}
			data.IsFavorite = fav != nil
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (app *Application) showMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	data, err := app.loadMovie(r.Context(), r, strconv.Itoa(id))
	if err != nil {
		switch {
		case clientGone(r, err):
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, "Movie not found")
		default:
			app.Http.Render(w, r, http.StatusBadGateway, "movie", app.page(w, r, "Movie", views.MovieData{
				Error: "Failed to load movie details",
			}))
		}
		return
	}
	app.Http.Render(w, r, http.StatusOK, "movie", app.page(w, r, data.Movie.Title, data))
}

func (app *Application) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	movieID := strconv.Itoa(id)
	back := "/movie/" + movieID
	store := sessionStoreFrom(r)

	movie, err := app.services.Movies.Get(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, "Movie not found")
			return
		}
		app.setFlash(w, "Failed to update favorites")
		app.redirect(w, r, back)
		return
	}
	if _, err := app.services.Favorites.Toggle(r.Context(), store.Snapshot(), store.Credentials(), *movie); err != nil {
		app.setFlash(w, "Failed to update favorites")
	}
	app.redirect(w, r, back)
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	movieID := strconv.Itoa(id)
	back := "/movie/" + movieID
	store := sessionStoreFrom(r)

	var form views.ReviewForm
	if err := app.decoder.DecodeForm(r, &form); err != nil {
		app.setFlash(w, "Invalid review form")
		app.redirect(w, r, back)
		return
	}
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	if errs := validator.ValidateStruct(app.validator, form); errs != nil {
		app.setFlash(w, firstError(errs, "rating", "title", "content"))
		app.redirect(w, r, back)
		return
	}

	movie, err := app.services.Movies.Get(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, "Movie not found")
			return
		}
		app.setFlash(w, "Failed to post review")
		app.redirect(w, r, back)
		return
	}
	_, err = app.services.Reviews.Submit(r.Context(), store.Snapshot(), store.Credentials(), reviews.Draft{
		Movie:    *movie,
		MovieID:  movieID,
		Rating:   form.Rating,
		Title:    form.Title,
		Content:  form.Content,
		Spoilers: form.Spoilers,
	})
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotReviewer), errors.Is(err, api.ErrForbidden):
			app.Http.Forbidden(w, r, "Only reviewers can write reviews.")
			return
		default:
			app.setFlash(w, api.Message(err, "Failed to post review"))
		}
	}
	app.redirect(w, r, back)
}
