package reviews

import "errors"

var (
	ErrNotAuthenticated = errors.New("login required to write reviews")
	ErrNotReviewer      = errors.New("only reviewers can write reviews")
)
