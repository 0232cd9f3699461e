package favorites

import "errors"

var ErrNotAuthenticated = errors.New("login required to manage favorites")
