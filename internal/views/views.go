// Package views renders the HTML pages of the web client.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"moviesocial/proj/internal/services/session"
	"strings"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

const placeholderPoster = "https://via.placeholder.com/500x750?text=No+Image"

var pageNames = []string{
	"home", "search", "movie", "profile", "profile_edit", "register", "login", "about", "error",
}

// Page is the data every template receives. Data holds the page specific payload.
type Page struct {
	Title   string
	Session session.Session
	Flash   string
	Data    any
}

type Views struct {
	pages        map[string]*template.Template
	imageBaseURL string
}

func New(imageBaseURL string) (*Views, error) {
	v := &Views{
		pages:        make(map[string]*template.Template, len(pageNames)),
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
	}
	funcs := template.FuncMap{
		"poster": v.posterURL,
		"date":   formatDate,
		"rating": func(r float64) string { return fmt.Sprintf("%.1f", r) },
		"seq":    seq,
	}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templatesFS, "templates/layout.html", "templates/partials.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

func (v *Views) Render(w io.Writer, name string, page Page) error {
	tmpl, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", page)
}

// posterURL builds a TMDB image URL in the given size, or a placeholder when the movie has no poster.
func (v *Views) posterURL(path, size string) string {
	if path == "" {
		return placeholderPoster
	}
	return v.imageBaseURL + "/" + size + path
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
