// Package session holds the signed-in state of one browser.
//
// A Session is either anonymous or authenticated with a user. Views only ever
// see Session values; the Store owned by the shell is the only thing that
// replaces one, through Initialize, Login and Logout.
package session

import (
	"context"
	"errors"
	"log/slog"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/domain/models"
	"sync"
)

// Session is a read-only snapshot of the browser's authentication state.
type Session struct {
	user *models.User
}

func Anonymous() Session {
	return Session{}
}

func Authenticated(user models.User) Session {
	return Session{user: &user}
}

// User returns a copy of the signed-in user.
func (s Session) User() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s Session) IsAuthenticated() bool {
	return s.user != nil
}

func (s Session) UserID() string {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s Session) Username() string {
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

// CanReview reports whether the session may author reviews.
func (s Session) CanReview() bool {
	return s.user != nil && s.user.Role == models.RoleReviewer
}

func (s Session) CanFavorite() bool {
	return s.IsAuthenticated()
}

func (s Session) IsOwnProfile(userID string) bool {
	return s.user != nil && userID != "" && s.user.ID == userID
}

type Provider interface {
	CurrentUser(ctx context.Context, creds api.Credentials) (*models.User, error)
	Login(ctx context.Context, params api.LoginParams) (*models.User, api.Credentials, error)
	Logout(ctx context.Context, creds api.Credentials) error
}

// Change is published to subscribers after every transition.
type Change struct {
	Session     Session
	Credentials api.Credentials
}

type Store struct {
	log      *slog.Logger
	provider Provider

	mu          sync.Mutex
	state       Session
	creds       api.Credentials
	initialized bool
	subscribers []func(Change)
}

// New creates a store in the loading phase holding the credentials the browser sent.
func New(log *slog.Logger, provider Provider, creds api.Credentials) *Store {
	return &Store{
		log:      log,
		provider: provider,
		creds:    creds,
	}
}

func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Credentials() api.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// Loading reports whether Initialize has not finished yet. Handlers only see
// stores after Initialize returned, so it is true only for a store observed
// before that, as in tests.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.initialized
}

// transition must be called with s.mu held. Subscribers run after unlock.
func (s *Store) transition(state Session, creds api.Credentials) []func() {
	s.state = state
	s.creds = creds
	change := Change{Session: state, Credentials: creds}
	calls := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fn := fn
		calls = append(calls, func() { fn(change) })
	}
	return calls
}

func notify(calls []func()) {
	for _, call := range calls {
		call()
	}
}

// Initialize resolves the session once. Any failure leaves the browser
// anonymous. Later calls do nothing.
func (s *Store) Initialize(ctx context.Context) {
	const op = "session.Store.Initialize"
	log := s.log.With("op", op)

	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	creds := s.creds
	s.mu.Unlock()

	var user *models.User
	var err error
	if !creds.Empty() {
		user, err = s.provider.CurrentUser(ctx, creds)
	}

	s.mu.Lock()
	s.initialized = true
	var calls []func()
	switch {
	case creds.Empty():
		calls = s.transition(Anonymous(), creds)
	case err != nil:
		if errors.Is(err, api.ErrUnauthorized) {
			log.Debug("stored credentials rejected")
			creds = nil
		} else {
			log.Warn("failed to resolve current session", "errMsg", err.Error())
		}
		calls = s.transition(Anonymous(), creds)
	default:
		calls = s.transition(Authenticated(*user), creds)
	}
	s.mu.Unlock()
	notify(calls)
}

// Login replaces the session on success. On failure the session is untouched
// and the error is returned to the caller.
func (s *Store) Login(ctx context.Context, username, password string) (models.User, error) {
	const op = "session.Store.Login"
	log := s.log.With("op", op, "username", username)

	user, creds, err := s.provider.Login(ctx, api.LoginParams{Username: username, Password: password})
	if err != nil {
		log.Info("login rejected", "errMsg", err.Error())
		return models.User{}, err
	}
	s.mu.Lock()
	s.initialized = true
	calls := s.transition(Authenticated(*user), creds)
	s.mu.Unlock()
	notify(calls)
	log.Info("user logged in", "user_id", user.ID)
	return *user, nil
}

// Logout always ends the local session, even when the remote call fails.
// The remote error is still returned so callers can report it.
func (s *Store) Logout(ctx context.Context) error {
	const op = "session.Store.Logout"
	log := s.log.With("op", op)

	creds := s.Credentials()
	err := s.provider.Logout(ctx, creds)
	if err != nil {
		log.Warn("remote logout failed, clearing local session anyway", "errMsg", err.Error())
	}
	s.mu.Lock()
	s.initialized = true
	calls := s.transition(Anonymous(), nil)
	s.mu.Unlock()
	notify(calls)
	return err
}
