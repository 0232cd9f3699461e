package views

import (
	"bytes"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/services/session"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, v *Views, name string, page Page) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf, name, page))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestPosterURL(t *testing.T) {
	v, err := New("https://image.tmdb.org/t/p/")
	require.NoError(t, err)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/x.jpg", v.posterURL("/x.jpg", "w500"))
	assert.Equal(t, placeholderPoster, v.posterURL("", "w500"))
}

func TestRenderUnknownPage(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)
	assert.Error(t, v.Render(&bytes.Buffer{}, "missing", Page{}))
}

func TestNavigation(t *testing.T) {
	v, err := New("https://image.tmdb.org/t/p")
	require.NoError(t, err)

	t.Run("anonymous", func(t *testing.T) {
		doc := render(t, v, "about", Page{Session: session.Anonymous(), Data: nil})
		assert.Equal(t, 1, doc.Find("#nav-login").Length())
		assert.Equal(t, 1, doc.Find("#nav-register").Length())
		assert.Zero(t, doc.Find("#nav-profile").Length())
		assert.Zero(t, doc.Find("#nav-logout").Length())
	})

	t.Run("authenticated", func(t *testing.T) {
		sess := session.Authenticated(models.User{ID: "u1", Username: "neo"})
		doc := render(t, v, "about", Page{Session: sess, Flash: "Failed to update favorites"})
		assert.Equal(t, "neo", doc.Find("#nav-profile").Text())
		href, _ := doc.Find("#nav-profile").Attr("href")
		assert.Equal(t, "/profile/u1", href)
		assert.Equal(t, 1, doc.Find("#nav-logout").Length())
		assert.Zero(t, doc.Find("#nav-login").Length())
		assert.Equal(t, "Failed to update favorites", doc.Find("#flash").Text())
	})
}

func TestSearchHeading(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)

	doc := render(t, v, "search", Page{Data: SearchData{
		Query:  "marvel",
		Result: &models.SearchResult{Query: "marvel", Results: []models.Movie{{ID: 1, Title: "Iron Man"}, {ID: 2}}},
	}})
	assert.Equal(t, `Found 2 results for "marvel"`, strings.TrimSpace(doc.Find("#results-heading").Text()))
	assert.Equal(t, 2, doc.Find("a.movie-link").Length())
	src, _ := doc.Find("a.movie-link img.movie-poster").Last().Attr("src")
	assert.Equal(t, placeholderPoster, src)

	doc = render(t, v, "search", Page{Data: SearchData{
		Query:  "zzz",
		Result: &models.SearchResult{Query: "zzz", Results: []models.Movie{}},
	}})
	assert.Equal(t, `No results found for "zzz"`, strings.TrimSpace(doc.Find("#results-heading").Text()))

	doc = render(t, v, "search", Page{Data: SearchData{}})
	assert.Zero(t, doc.Find("#results-heading").Length())
}

func TestHomePage(t *testing.T) {
	v, err := New("https://image.tmdb.org/t/p")
	require.NoError(t, err)

	doc := render(t, v, "home", Page{Data: HomeData{
		Movies: []models.Movie{{ID: 1, Title: "Iron Man", PosterPath: "/iron.jpg"}},
	}})
	href, _ := doc.Find("#start-searching").Attr("href")
	assert.Equal(t, "/search", href)
	assert.Equal(t, "Popular Movies", doc.Find("#popular-heading").Text())
	src, _ := doc.Find("a.movie-link img.movie-poster").Attr("src")
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/iron.jpg", src)

	doc = render(t, v, "home", Page{Data: HomeData{Error: "Failed to load movies."}})
	assert.Equal(t, "Failed to load movies.", doc.Find("#error").Text())
	assert.Zero(t, doc.Find("a.movie-link").Length())
}

func TestProfileSectionErrors(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)
	doc := render(t, v, "profile", Page{Data: ProfileData{
		User:           &models.User{ID: "u1", Username: "neo", Role: models.RoleCasual},
		ReviewsError:   "Failed to load reviews",
		FavoritesError: "Failed to load favorites",
	}})
	assert.Equal(t, "Failed to load reviews", doc.Find("#profile-reviews-error").Text())
	assert.Equal(t, "Failed to load favorites", doc.Find("#profile-favorites-error").Text())
	assert.NotContains(t, doc.Find("#profile-reviews").Text(), "No reviews yet")
	assert.NotContains(t, doc.Find("#profile-favorites").Text(), "No favorites yet")
}

func TestProfileTruncatesReviews(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)
	long := strings.Repeat("a", 200)
	doc := render(t, v, "profile", Page{Data: ProfileData{
		User:    &models.User{ID: "u1", Username: "neo", Role: models.RoleReviewer, Bio: "hi", Email: "neo@zion.io"},
		Reviews: []models.Review{{ID: "r1", Content: long}},
	}})
	assert.Equal(t, strings.Repeat("a", 150)+"...", doc.Find(".review-content").Text())
	assert.Zero(t, doc.Find("#profile-email").Length())
	assert.Contains(t, doc.Find("#profile-bio").Text(), "hi")
	assert.Zero(t, doc.Find("#edit-profile").Length())
}
