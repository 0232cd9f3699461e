package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(app.metrics.Middleware)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  app.logAdapter(),
		NoColor: !app.cfg.Debug,
	}))
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Get("/healthcheck", app.healthcheck)
	router.Handle("/metrics", app.metrics.Handler())
	router.Group(func(r chi.Router) {
		r.Use(app.Browser)
		r.Use(app.Authenticate)
		r.Get("/", app.home)
		r.Get("/search", app.search)
		r.Get("/about", app.about)
		r.Route("/movie/{id}", func(r chi.Router) {
			r.Get("/", app.showMovie)
			r.With(app.requireAuthenticatedUser).Post("/favorite", app.toggleFavorite)
			r.With(app.requireReviewer).Post("/reviews", app.createReview)
		})
		r.Route("/profile/{id}", func(r chi.Router) {
			r.Get("/", app.showProfile)
			r.With(app.requireProfileOwner).Get("/edit", app.editProfile)
			r.With(app.requireProfileOwner).Post("/", app.updateProfile)
		})
		r.Get("/register", app.showRegister)
		r.Post("/register", app.register)
		r.Get("/login", app.showLogin)
		r.Post("/login", app.login)
		r.Post("/logout", app.logout)
	})
	return router
}
