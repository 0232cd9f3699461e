package models

import (
	"moviesocial/proj/internal/domain/fields"
	"strings"
	"time"
)

type Role string

const (
	RoleCasual   Role = "casual"
	RoleReviewer Role = "reviewer"
)

// Genres offered to casual users as their favorite genre.
var Genres = []string{"Action", "Comedy", "Drama", "Horror", "Sci-Fi", "Romance", "Thriller"}

type User struct {
	ID            string    `json:"_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	Bio           string    `json:"bio,omitempty"`
	FavoriteGenre string    `json:"favoriteGenre,omitempty"`
	EmailPublic   bool      `json:"emailPublic"`
	JoinedDate    time.Time `json:"joinedDate"`
}

func (u *User) IsReviewer() bool {
	return u != nil && u.Role == RoleReviewer
}

// Initial is the avatar letter shown on the profile page.
func (u *User) Initial() string {
	if u == nil || u.Username == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(u.Username)[0]))
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	ID          int                 `json:"id"`
	Title       string              `json:"title"`
	Overview    string              `json:"overview"`
	PosterPath  string              `json:"poster_path"`
	ReleaseDate string              `json:"release_date"`
	Runtime     fields.MovieRuntime `json:"runtime"`
	VoteAverage float64             `json:"vote_average"`
	Genres      []Genre             `json:"genres,omitempty"`
	Budget      fields.Money        `json:"budget"`
	Revenue     fields.Money        `json:"revenue"`
}

// Year returns the release year or "N/A" when the catalog has no date.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return "N/A"
	}
	return m.ReleaseDate[:4]
}

type Review struct {
	ID          string        `json:"_id"`
	MovieID     fields.ID     `json:"movieId"`
	MovieTitle  string        `json:"movieTitle"`
	MoviePoster string        `json:"moviePoster"`
	Author      fields.Author `json:"userId"`
	Rating      int           `json:"rating"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Spoilers    bool          `json:"spoilers"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Excerpt returns at most n runes of the review content.
func (r Review) Excerpt(n int) string {
	runes := []rune(r.Content)
	if len(runes) <= n {
		return r.Content
	}
	return string(runes[:n]) + "..."
}

type Favorite struct {
	ID          string    `json:"_id"`
	UserID      fields.ID `json:"userId"`
	MovieID     fields.ID `json:"movieId"`
	MovieTitle  string    `json:"movieTitle"`
	MoviePoster string    `json:"moviePoster"`
}

// SearchResult is the last search a browser submitted.
type SearchResult struct {
	Query     string    `json:"query"`
	Results   []Movie   `json:"results"`
	UpdatedAt time.Time `json:"updatedAt"`
}
