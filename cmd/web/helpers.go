package main

import (
	"context"
	"errors"
	"moviesocial/proj/internal/views"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request) (id int, extracted bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		app.Http.BadRequest(w, r, "invalid movie ID")
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, "id must be greater than zero")
		return 0, false
	}
	return id, true
}

// page fills the parts of a page every handler shares.
func (app *Application) page(w http.ResponseWriter, r *http.Request, title string, data any) views.Page {
	return views.Page{
		Title: title,
		Flash: app.popFlash(w, r),
		Data:  data,
	}
}

func (app *Application) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// clientGone reports whether the browser abandoned the request, in which case nothing is rendered.
func clientGone(r *http.Request, err error) bool {
	return r.Context().Err() != nil && errors.Is(err, context.Canceled)
}

// firstError picks the message of the first failing field in order.
func firstError(errs map[string]string, order ...string) string {
	for _, field := range order {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return ""
}
