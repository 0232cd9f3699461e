package main

import (
	"context"
	"fmt"
	"maps"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/services/session"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil && rec != http.ErrAbortHandler {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				app.Http.ServerError(w, r, err, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	if !app.cfg.Limiter.Enabled {
		return next
	}
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	clients := make(map[string]*client)
	var mu sync.Mutex
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 5*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			app.Http.ServerError(w, r, err, "")
			return
		}
		mu.Lock()
		c, ok := clients[ip]
		if !ok {
			c = &client{limiter: rate.NewLimiter(rate.Limit(app.cfg.Limiter.Rps), app.cfg.Limiter.Burst)}
			clients[ip] = c
		}
		c.lastSeen = time.Now()
		allowed := c.limiter.Allow()
		mu.Unlock()
		if !allowed {
			log.Warn("rate limit exceeded", "ip", ip)
			app.Http.TooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type CtxKey string

const (
	CtxKeyBrowser CtxKey = "browser"
	CtxKeySession CtxKey = "session"
)

// browserState is what the browser cookie resolved to for the current request.
type browserState struct {
	ID    string
	Creds api.Credentials
}

func browserFrom(r *http.Request) *browserState {
	if b, ok := r.Context().Value(CtxKeyBrowser).(*browserState); ok {
		return b
	}
	return &browserState{}
}

func sessionStoreFrom(r *http.Request) *session.Store {
	store, _ := r.Context().Value(CtxKeySession).(*session.Store)
	return store
}

// currentSession returns the request's session snapshot, anonymous when none was resolved.
func currentSession(r *http.Request) session.Session {
	if store := sessionStoreFrom(r); store != nil {
		return store.Snapshot()
	}
	return session.Anonymous()
}

// Browser resolves the signed browser cookie, issuing a fresh browser id when it is missing or invalid.
func (app *Application) Browser(next http.Handler) http.Handler {
	const op = "middlewares.Browser"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := app.Http.setupLogPerReq(r).With("op", op)
		state := &browserState{}
		if ck, err := r.Cookie(browserCookie); err == nil {
			claims, err := app.parseBrowser(ck.Value)
			if err != nil {
				log.Debug("discarding browser cookie", "errMsg", err.Error())
			} else {
				state.ID = claims.BrowserID
				state.Creds = claims.Credentials
			}
		}
		if state.ID == "" {
			state.ID = uuid.NewString()
			if err := app.writeBrowserCookie(w, state.ID, nil); err != nil {
				app.Http.ServerError(w, r, err, "")
				return
			}
		}
		r = r.WithContext(context.WithValue(r.Context(), CtxKeyBrowser, state))
		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the session of the browser once per request and keeps the
// browser cookie in sync with every later session transition.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	const op = "middlewares.Authenticate"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLog := app.Http.setupLogPerReq(r)
		log := reqLog.With("op", op)
		browser := browserFrom(r)
		store := session.New(reqLog, app.api, browser.Creds)
		store.Subscribe(func(c session.Change) {
			if maps.Equal(c.Credentials, browser.Creds) {
				return
			}
			browser.Creds = c.Credentials
			if err := app.writeBrowserCookie(w, browser.ID, c.Credentials); err != nil {
				log.Error("failed to persist credentials", "errMsg", err.Error())
			}
		})
		store.Initialize(r.Context())
		r = r.WithContext(context.WithValue(r.Context(), CtxKeySession, store))
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentSession(r).IsAuthenticated() {
			app.Http.Unauthorized(w, r, "You must be logged in to do that.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireReviewer(next http.Handler) http.Handler {
	return app.requireAuthenticatedUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentSession(r).CanReview() {
			app.Http.Forbidden(w, r, "Only reviewers can write reviews.")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (app *Application) requireProfileOwner(next http.Handler) http.Handler {
	return app.requireAuthenticatedUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentSession(r).IsOwnProfile(chi.URLParam(r, "id")) {
			app.Http.Forbidden(w, r, "You can only edit your own profile.")
			return
		}
		next.ServeHTTP(w, r)
	}))
}
