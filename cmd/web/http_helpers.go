package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"moviesocial/proj/internal/config"
	"moviesocial/proj/internal/views"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Http struct {
	log   *slog.Logger
	cfg   *config.Config
	views *views.Views
}

func processMsg(status int, msg string) string {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}

func (h *Http) setupLogPerReq(r *http.Request) *slog.Logger {
	return h.log.With(
		"request_id",
		middleware.GetReqID(r.Context()),
		"method",
		r.Method,
		"path",
		r.URL.Path,
	)
}

// Render executes the page into a buffer first so a template failure never sends half a page.
func (h *Http) Render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	page.Session = currentSession(r)
	var buf bytes.Buffer
	if err := h.views.Render(&buf, name, page); err != nil {
		h.ServerError(w, r, fmt.Errorf("render %s: %w", name, err), "")
		return
	}
	render.Status(r, status)
	render.HTML(w, r, buf.String())
}

func (h *Http) ErrorPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	msg = processMsg(status, msg)
	h.Render(w, r, status, "error", views.Page{
		Title: http.StatusText(status),
		Data:  views.ErrorData{Status: status, Message: msg},
	})
}

func (h *Http) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.ErrorPage(w, r, http.StatusBadRequest, msg)
}

func (h *Http) Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	h.ErrorPage(w, r, http.StatusUnauthorized, msg)
}

func (h *Http) Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	h.ErrorPage(w, r, http.StatusForbidden, msg)
}

func (h *Http) NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.ErrorPage(w, r, http.StatusNotFound, msg)
}

func (h *Http) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	h.ErrorPage(w, r, http.StatusTooManyRequests, "Too many requests, slow down.")
}

func (h *Http) ServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	defaultErrMsg := "Sorry! Can't process your request. Please try again later."
	log := h.setupLogPerReq(r)
	if err != nil {
		log.Error(err.Error())
	}
	if msg == "" {
		msg = defaultErrMsg
	}
	if h.cfg.Debug && err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(err.Error() + "\n" + string(debug.Stack())))
		return
	}
	var buf bytes.Buffer
	page := views.Page{Session: currentSession(r), Data: views.ErrorData{Status: status, Message: msg}}
	if renderErr := h.views.Render(&buf, "error", page); renderErr != nil {
		log.Error("failed to render error page", "errMsg", renderErr.Error())
		http.Error(w, msg, status)
		return
	}
	render.Status(r, status)
	render.HTML(w, r, buf.String())
}
