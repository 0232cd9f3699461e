package main

import (
	"errors"
	"moviesocial/proj/internal/services/movies"
	"moviesocial/proj/internal/views"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, struct {
		Status  string `json:"status"`
		Debug   bool   `json:"debug"`
		Version string `json:"version"`
	}{
		Status:  "available",
		Debug:   app.cfg.Debug,
		Version: version,
	})
}

func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	data := views.HomeData{}
	popular, err := app.services.Movies.Popular(r.Context())
	if err != nil {
		if clientGone(r, err) {
			return
		}
		status = http.StatusBadGateway
		data.Error = "Failed to load movies."
	}
	data.Movies = popular
	app.Http.Render(w, r, status, "home", app.page(w, r, "Home", data))
}

func (app *Application) about(w http.ResponseWriter, r *http.Request) {
	app.Http.Render(w, r, http.StatusOK, "about", app.page(w, r, "About", nil))
}

// search restores the browser's last search unless a new non-blank query is submitted.
func (app *Application) search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	browserID := browserFrom(r).ID
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	status := http.StatusOK
	data := views.SearchData{}

	if query != "" {
		result, err := app.services.Search.Search(ctx, browserID, query)
		switch {
		case err == nil:
			data.Result = result
		case clientGone(r, err):
			return
		case errors.Is(err, movies.ErrEmptyQuery):
		default:
			status = http.StatusBadGateway
			data.Query = query
			data.Error = "Search failed. Please try again."
		}
	}
	if data.Result == nil && data.Error == "" {
		cached, err := app.services.Search.Restore(ctx, browserID)
		if err != nil {
			app.Http.setupLogPerReq(r).Warn("failed to restore search", "errMsg", err.Error())
		}
		data.Result = cached
	}
	if data.Result != nil {
		data.Query = data.Result.Query
	}
	app.Http.Render(w, r, status, "search", app.page(w, r, "Search", data))
}
