package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"moviesocial/proj/internal/domain/models"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxBodyBytes = 4 << 20

// Credentials are the remote session cookies relayed on behalf of one browser,
// keyed by cookie name.
type Credentials map[string]string

func (c Credentials) Empty() bool {
	return len(c) == 0
}

func credentialsFrom(cookies []*http.Cookie) Credentials {
	creds := make(Credentials, len(cookies))
	for _, ck := range cookies {
		if ck.Name == "" || ck.MaxAge < 0 {
			continue
		}
		creds[ck.Name] = ck.Value
	}
	return creds
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New creates a client for the movie social network API rooted at baseURL.
// A zero timeout keeps the transport defaults. A nil httpClient gets a fresh one.
func New(log *slog.Logger, baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e envelope) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// do sends one request and decodes the envelope into dst. It returns the
// cookies the service set so login can hand them back to the browser.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	creds Credentials,
	body any,
	dst any,
) ([]*http.Cookie, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range creds {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.text()}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, decodeErr)
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.text()}
	}
	if dst != nil {
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
	}
	return resp.Cookies(), nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

type userPayload struct {
	User *models.User `json:"user"`
}

func (p userPayload) get() (*models.User, error) {
	if p.User == nil || p.User.ID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrMalformedPayload)
	}
	return p.User, nil
}

// CurrentUser asks the service who owns creds.
func (c *Client) CurrentUser(ctx context.Context, creds Credentials) (*models.User, error) {
	const op = "api.Client.CurrentUser"
	log := c.log.With("op", op)
	var payload userPayload
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/current", creds, nil, &payload); err != nil {
		log.Debug("no current user", "errMsg", err.Error())
		return nil, err
	}
	return payload.get()
}

type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login returns the logged in user together with the session credentials the
// service issued for it.
func (c *Client) Login(ctx context.Context, params LoginParams) (*models.User, Credentials, error) {
	const op = "api.Client.Login"
	log := c.log.With("op", op, "username", params.Username)
	var payload userPayload
	cookies, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, params, &payload)
	if err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, nil, err
	}
	user, err := payload.get()
	if err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, nil, err
	}
	return user, credentialsFrom(cookies), nil
}

func (c *Client) Logout(ctx context.Context, creds Credentials) error {
	const op = "api.Client.Logout"
	log := c.log.With("op", op)
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/logout", creds, nil, nil); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return err
	}
	return nil
}

type RegisterParams struct {
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	Role          models.Role `json:"role"`
	Bio           string      `json:"bio,omitempty"`
	FavoriteGenre string      `json:"favoriteGenre,omitempty"`
}

func (c *Client) Register(ctx context.Context, params RegisterParams) error {
	const op = "api.Client.Register"
	log := c.log.With("op", op, "username", params.Username, "role", params.Role)
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, params, nil); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return err
	}
	return nil
}

func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	const op = "api.Client.SearchMovies"
	log := c.log.With("op", op, "query", query)
	var payload struct {
		Results []models.Movie `json:"results"`
	}
	path := "/api/movies/search?" + url.Values{"query": {query}}.Encode()
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	if payload.Results == nil {
		payload.Results = []models.Movie{}
	}
	return payload.Results, nil
}

func (c *Client) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	const op = "api.Client.GetMovie"
	log := c.log.With("op", op, "id", id)
	var payload struct {
		Movie *models.Movie `json:"movie"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/movies/"+escape(id), nil, nil, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	if payload.Movie == nil {
		return nil, fmt.Errorf("%w: missing movie", ErrMalformedPayload)
	}
	return payload.Movie, nil
}

type reviewsPayload struct {
	Reviews []models.Review `json:"reviews"`
}

func (c *Client) MovieReviews(ctx context.Context, movieID string) ([]models.Review, error) {
	const op = "api.Client.MovieReviews"
	log := c.log.With("op", op, "movie_id", movieID)
	var payload reviewsPayload
	if _, err := c.do(ctx, http.MethodGet, "/api/reviews/movie/"+escape(movieID), nil, nil, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	return payload.Reviews, nil
}

func (c *Client) UserReviews(ctx context.Context, userID string) ([]models.Review, error) {
	const op = "api.Client.UserReviews"
	log := c.log.With("op", op, "user_id", userID)
	var payload reviewsPayload
	if _, err := c.do(ctx, http.MethodGet, "/api/reviews/user/"+escape(userID), nil, nil, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	return payload.Reviews, nil
}

type ReviewParams struct {
	MovieID     string `json:"movieId"`
	MovieTitle  string `json:"movieTitle"`
	MoviePoster string `json:"moviePoster"`
	Rating      int    `json:"rating"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Spoilers    bool   `json:"spoilers"`
}

func (c *Client) CreateReview(ctx context.Context, creds Credentials, params ReviewParams) (*models.Review, error) {
	const op = "api.Client.CreateReview"
	log := c.log.With("op", op, "movie_id", params.MovieID)
	var payload struct {
		Review *models.Review `json:"review"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/reviews", creds, params, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	if payload.Review == nil {
		return nil, fmt.Errorf("%w: missing review", ErrMalformedPayload)
	}
	return payload.Review, nil
}

func (c *Client) UserFavorites(ctx context.Context, creds Credentials, userID string) ([]models.Favorite, error) {
	const op = "api.Client.UserFavorites"
	log := c.log.With("op", op, "user_id", userID)
	var payload struct {
		Favorites []models.Favorite `json:"favorites"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/favorites/user/"+escape(userID), creds, nil, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	return payload.Favorites, nil
}

type FavoriteParams struct {
	MovieID     string `json:"movieId"`
	MovieTitle  string `json:"movieTitle"`
	MoviePoster string `json:"moviePoster"`
}

func (c *Client) AddFavorite(ctx context.Context, creds Credentials, params FavoriteParams) (*models.Favorite, error) {
	const op = "api.Client.AddFavorite"
	log := c.log.With("op", op, "movie_id", params.MovieID)
	var payload struct {
		Favorite *models.Favorite `json:"favorite"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/favorites", creds, params, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	if payload.Favorite == nil {
		return nil, fmt.Errorf("%w: missing favorite", ErrMalformedPayload)
	}
	return payload.Favorite, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, creds Credentials, favoriteID string) error {
	const op = "api.Client.RemoveFavorite"
	log := c.log.With("op", op, "favorite_id", favoriteID)
	if _, err := c.do(ctx, http.MethodDelete, "/api/favorites/"+escape(favoriteID), creds, nil, nil); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return err
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, creds Credentials, id string) (*models.User, error) {
	const op = "api.Client.GetUser"
	log := c.log.With("op", op, "id", id)
	var payload userPayload
	if _, err := c.do(ctx, http.MethodGet, "/api/users/"+escape(id), creds, nil, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	return payload.get()
}

type UpdateUserParams struct {
	Bio           *string `json:"bio,omitempty"`
	FavoriteGenre *string `json:"favoriteGenre,omitempty"`
	EmailPublic   bool    `json:"emailPublic"`
}

func (c *Client) UpdateUser(ctx context.Context, creds Credentials, id string, params UpdateUserParams) (*models.User, error) {
	const op = "api.Client.UpdateUser"
	log := c.log.With("op", op, "id", id)
	var payload userPayload
	if _, err := c.do(ctx, http.MethodPut, "/api/users/"+escape(id), creds, params, &payload); err != nil {
		log.Error("Error", "errMsg", err.Error())
		return nil, err
	}
	return payload.get()
}
