package movies

import "errors"

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrEmptyQuery    = errors.New("search query is empty")
)
