package users

import (
	"context"
	"errors"
	"log/slog"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/services/session"
)

type UserAPI interface {
	GetUser(ctx context.Context, creds api.Credentials, id string) (*models.User, error)
	UpdateUser(ctx context.Context, creds api.Credentials, id string, params api.UpdateUserParams) (*models.User, error)
	Register(ctx context.Context, params api.RegisterParams) error
}

type UserService struct {
	log *slog.Logger
	api UserAPI
}

func New(log *slog.Logger, userAPI UserAPI) *UserService {
	return &UserService{
		log: log,
		api: userAPI,
	}
}

func (s *UserService) Get(ctx context.Context, creds api.Credentials, id string) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "id", id)
	user, err := s.api.GetUser(ctx, creds, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

type Registration struct {
	Username      string
	Email         string
	Password      string
	Role          models.Role
	Bio           string
	FavoriteGenre string
}

// Register creates the account. Reviewers send a bio, casual users a favorite genre.
func (s *UserService) Register(ctx context.Context, reg Registration) error {
	const op = "users.UserService.Register"
	log := s.log.With("op", op, "username", reg.Username, "role", reg.Role)
	params := api.RegisterParams{
		Username: reg.Username,
		Email:    reg.Email,
		Password: reg.Password,
		Role:     reg.Role,
	}
	if reg.Role == models.RoleReviewer {
		params.Bio = reg.Bio
	} else {
		params.FavoriteGenre = reg.FavoriteGenre
	}
	if err := s.api.Register(ctx, params); err != nil {
		log.Error(err.Error())
		return err
	}
	log.Info("user registered")
	return nil
}

type ProfileEdit struct {
	Bio           string
	FavoriteGenre string
	EmailPublic   bool
}

// Update saves the profile of the session's own user and returns the stored copy.
func (s *UserService) Update(ctx context.Context, sess session.Session, creds api.Credentials, id string, edit ProfileEdit) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "id", id)
	me, ok := sess.User()
	if !ok || !sess.IsOwnProfile(id) {
		return nil, ErrForbidden
	}
	params := api.UpdateUserParams{EmailPublic: edit.EmailPublic}
	if me.Role == models.RoleReviewer {
		params.Bio = &edit.Bio
	} else {
		params.FavoriteGenre = &edit.FavoriteGenre
	}
	user, err := s.api.UpdateUser(ctx, creds, id, params)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}
