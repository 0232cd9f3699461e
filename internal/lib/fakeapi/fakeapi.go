// Package fakeapi is an in-memory stand-in for the movie social network API.
// Tests point the real API client at it through httptest.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"moviesocial/proj/internal/domain/fields"
	"moviesocial/proj/internal/domain/models"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const SessionCookie = "connect.sid"

type envelop map[string]any

type account struct {
	user     models.User
	password string
}

type API struct {
	mu        sync.Mutex
	accounts  map[string]*account // by username
	sessions  map[string]string   // session id -> user id
	movies    map[string]models.Movie
	keywords  map[string]string
	reviews   []models.Review
	favorites []models.Favorite
	failures  map[string]int
	calls     map[string]int
	clock     time.Time
	router    chi.Router
}

func New() *API {
	a := &API{
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
		movies:   make(map[string]models.Movie),
		keywords: make(map[string]string),
		failures: make(map[string]int),
		calls:    make(map[string]int),
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	a.seed()
	a.router = a.routes()
	return a
}

// Start serves the fake over HTTP until the returned server is closed.
func (a *API) Start() *httptest.Server {
	return httptest.NewServer(a)
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	a.mu.Lock()
	a.calls[key]++
	status, failing := a.failures[key]
	a.mu.Unlock()
	if failing {
		fail(w, r, status, "injected failure")
		return
	}
	a.router.ServeHTTP(w, r)
}

// Fail makes every request for method and path answer with status.
func (a *API) Fail(method, path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method+" "+path] = status
}

func (a *API) Recover(method, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.failures, method+" "+path)
}

// Calls reports how many requests reached method and path.
func (a *API) Calls(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[method+" "+path]
}

// TotalCalls reports the number of requests of any kind.
func (a *API) TotalCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, n := range a.calls {
		total += n
	}
	return total
}

// AddUser registers an account directly and returns it.
func (a *API) AddUser(user models.User, password string) models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addUserLocked(user, password)
}

// SessionFor opens a session for username and returns its cookie value.
func (a *API) SessionFor(username string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[username]
	if !ok {
		panic("fakeapi: unknown user " + username)
	}
	sid := uuid.NewString()
	a.sessions[sid] = acc.user.ID
	return sid
}

// User looks up a stored account by username.
func (a *API) User(username string) (models.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[username]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

func (a *API) addUserLocked(user models.User, password string) models.User {
	if user.ID == "" {
		user.ID = strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	}
	if user.JoinedDate.IsZero() {
		user.JoinedDate = a.tick()
	}
	a.accounts[user.Username] = &account{user: user, password: password}
	return user
}

func (a *API) tick() time.Time {
	a.clock = a.clock.Add(time.Minute)
	return a.clock
}

func (a *API) seed() {
	add := func(m models.Movie, keywords string) {
		a.movies[strconv.Itoa(m.ID)] = m
		a.keywords[strconv.Itoa(m.ID)] = strings.ToLower(m.Title + " " + keywords)
	}
	add(models.Movie{
		ID: 27205, Title: "Inception", Overview: "A thief who steals corporate secrets through dream-sharing.",
		PosterPath: "/inception.jpg", ReleaseDate: "2010-07-15", Runtime: 148, VoteAverage: 8.4,
		Genres: []models.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		Budget: 160000000, Revenue: 825532764,
	}, "dream heist")
	add(models.Movie{
		ID: 24428, Title: "The Avengers", Overview: "Earth's mightiest heroes.",
		PosterPath: "/avengers.jpg", ReleaseDate: "2012-04-25", Runtime: 143, VoteAverage: 7.7,
		Genres: []models.Genre{{ID: 28, Name: "Action"}}, Budget: 220000000, Revenue: 1518815515,
	}, "marvel superhero")
	add(models.Movie{
		ID: 1726, Title: "Iron Man", Overview: "A billionaire builds a suit of armor.",
		PosterPath: "/ironman.jpg", ReleaseDate: "2008-04-30", Runtime: 126, VoteAverage: 7.6,
	}, "marvel superhero")
	add(models.Movie{
		ID: 299536, Title: "Avengers: Infinity War", Overview: "Thanos arrives.",
		ReleaseDate: "2018-04-25", Runtime: 149, VoteAverage: 8.2,
	}, "marvel superhero")
}

func (a *API) routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/current", a.current)
			r.Post("/login", a.login)
			r.Post("/logout", a.logout)
			r.Post("/register", a.register)
		})
		r.Get("/movies/search", a.search)
		r.Get("/movies/{id}", a.movie)
		r.Get("/reviews/movie/{id}", a.movieReviews)
		r.Get("/reviews/user/{id}", a.userReviews)
		r.Post("/reviews", a.createReview)
		r.Get("/favorites/user/{id}", a.userFavorites)
		r.Post("/favorites", a.addFavorite)
		r.Delete("/favorites/{id}", a.removeFavorite)
		r.Get("/users/{id}", a.getUser)
		r.Put("/users/{id}", a.updateUser)
	})
	return r
}

func ok(w http.ResponseWriter, r *http.Request, status int, data envelop) {
	if data == nil {
		data = envelop{}
	}
	data["success"] = true
	render.Status(r, status)
	render.JSON(w, r, data)
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, envelop{"success": false, "error": msg})
}

// sessionUser must be called with a.mu held.
func (a *API) sessionUser(r *http.Request) (*account, bool) {
	ck, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	userID, found := a.sessions[ck.Value]
	if !found {
		return nil, false
	}
	for _, acc := range a.accounts {
		if acc.user.ID == userID {
			return acc, true
		}
	}
	return nil, false
}

func (a *API) userByID(id string) (*account, bool) {
	for _, acc := range a.accounts {
		if acc.user.ID == id {
			return acc, true
		}
	}
	return nil, false
}

func (a *API) current(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, found := a.sessionUser(r)
	if !found {
		fail(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ok(w, r, http.StatusOK, envelop{"user": acc.user})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, found := a.accounts[body.Username]
	if !found || acc.password != body.Password {
		fail(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	sid := uuid.NewString()
	a.sessions[sid] = acc.user.ID
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sid, Path: "/", HttpOnly: true})
	ok(w, r, http.StatusOK, envelop{"user": acc.user})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ck, err := r.Cookie(SessionCookie); err == nil {
		delete(a.sessions, ck.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	ok(w, r, http.StatusOK, envelop{"message": "Logged out"})
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username      string      `json:"username"`
		Email         string      `json:"email"`
		Password      string      `json:"password"`
		Role          models.Role `json:"role"`
		Bio           string      `json:"bio"`
		FavoriteGenre string      `json:"favoriteGenre"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, taken := a.accounts[body.Username]; taken {
		fail(w, r, http.StatusBadRequest, "Username already exists")
		return
	}
	user := a.addUserLocked(models.User{
		Username:      body.Username,
		Email:         body.Email,
		Role:          body.Role,
		Bio:           body.Bio,
		FavoriteGenre: body.FavoriteGenre,
	}, body.Password)
	ok(w, r, http.StatusCreated, envelop{"user": user})
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	a.mu.Lock()
	defer a.mu.Unlock()
	results := []models.Movie{}
	for _, id := range []string{"24428", "1726", "299536", "27205"} {
		if query != "" && strings.Contains(a.keywords[id], query) {
			m := a.movies[id]
			m.Genres, m.Budget, m.Revenue = nil, 0, 0
			results = append(results, m)
		}
	}
	ok(w, r, http.StatusOK, envelop{"results": results})
}

func (a *API) movie(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, found := a.movies[chi.URLParam(r, "id")]
	if !found {
		fail(w, r, http.StatusNotFound, "Movie not found")
		return
	}
	ok(w, r, http.StatusOK, envelop{"movie": m})
}

func (a *API) movieReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.Review{}
	for _, rv := range a.reviews {
		if rv.MovieID.String() == id {
			out = append(out, rv)
		}
	}
	ok(w, r, http.StatusOK, envelop{"reviews": out})
}

func (a *API) userReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.Review{}
	for _, rv := range a.reviews {
		if rv.Author.ID == id {
			out = append(out, rv)
		}
	}
	ok(w, r, http.StatusOK, envelop{"reviews": out})
}

func (a *API) createReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MovieID     fields.ID `json:"movieId"`
		MovieTitle  string    `json:"movieTitle"`
		MoviePoster string    `json:"moviePoster"`
		Rating      int       `json:"rating"`
		Title       string    `json:"title"`
		Content     string    `json:"content"`
		Spoilers    bool      `json:"spoilers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, found := a.sessionUser(r)
	if !found {
		fail(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if acc.user.Role != models.RoleReviewer {
		fail(w, r, http.StatusForbidden, "Only reviewers can write reviews")
		return
	}
	if body.Rating < 1 || body.Rating > 10 {
		fail(w, r, http.StatusBadRequest, "Rating must be between 1 and 10")
		return
	}
	review := models.Review{
		ID:          uuid.NewString(),
		MovieID:     body.MovieID,
		MovieTitle:  body.MovieTitle,
		MoviePoster: body.MoviePoster,
		Author:      fields.Author{ID: acc.user.ID, Username: acc.user.Username},
		Rating:      body.Rating,
		Title:       body.Title,
		Content:     body.Content,
		Spoilers:    body.Spoilers,
		CreatedAt:   a.tick(),
	}
	a.reviews = append(a.reviews, review)
	ok(w, r, http.StatusCreated, envelop{"review": review})
}

// AddReview stores a review as if an earlier session had posted it.
func (a *API) AddReview(review models.Review) models.Review {
	a.mu.Lock()
	defer a.mu.Unlock()
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = a.tick()
	}
	a.reviews = append(a.reviews, review)
	return review
}

func (a *API) userFavorites(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.Favorite{}
	for _, f := range a.favorites {
		if f.UserID.String() == id {
			out = append(out, f)
		}
	}
	ok(w, r, http.StatusOK, envelop{"favorites": out})
}

func (a *API) addFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MovieID     fields.ID `json:"movieId"`
		MovieTitle  string    `json:"movieTitle"`
		MoviePoster string    `json:"moviePoster"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, found := a.sessionUser(r)
	if !found {
		fail(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	for _, f := range a.favorites {
		if f.UserID.String() == acc.user.ID && f.MovieID == body.MovieID {
			fail(w, r, http.StatusBadRequest, "Movie already in favorites")
			return
		}
	}
	fav := models.Favorite{
		ID:          uuid.NewString(),
		UserID:      fields.ID(acc.user.ID),
		MovieID:     body.MovieID,
		MovieTitle:  body.MovieTitle,
		MoviePoster: body.MoviePoster,
	}
	a.favorites = append(a.favorites, fav)
	ok(w, r, http.StatusCreated, envelop{"favorite": fav})
}

func (a *API) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, found := a.sessionUser(r)
	if !found {
		fail(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	for i, f := range a.favorites {
		if f.ID == id {
			if f.UserID.String() != acc.user.ID {
				fail(w, r, http.StatusForbidden, "Not your favorite")
				return
			}
			a.favorites = append(a.favorites[:i], a.favorites[i+1:]...)
			ok(w, r, http.StatusOK, envelop{"message": "Removed"})
			return
		}
	}
	fail(w, r, http.StatusNotFound, "Favorite not found")
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, found := a.userByID(chi.URLParam(r, "id"))
	if !found {
		fail(w, r, http.StatusNotFound, "User not found")
		return
	}
	ok(w, r, http.StatusOK, envelop{"user": acc.user})
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Bio           *string `json:"bio"`
		FavoriteGenre *string `json:"favoriteGenre"`
		EmailPublic   *bool   `json:"emailPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	me, found := a.sessionUser(r)
	if !found {
		fail(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id := chi.URLParam(r, "id")
	if me.user.ID != id {
		fail(w, r, http.StatusForbidden, fmt.Sprintf("cannot edit user %s", id))
		return
	}
	if body.Bio != nil {
		me.user.Bio = *body.Bio
	}
	if body.FavoriteGenre != nil {
		me.user.FavoriteGenre = *body.FavoriteGenre
	}
	if body.EmailPublic != nil {
		me.user.EmailPublic = *body.EmailPublic
	}
	ok(w, r, http.StatusOK, envelop{"user": me.user})
}
