package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport        = errors.New("api: transport failure")
	ErrUnauthorized     = errors.New("api: unauthorized")
	ErrForbidden        = errors.New("api: forbidden")
	ErrNotFound         = errors.New("api: not found")
	ErrMalformedPayload = errors.New("api: malformed payload")
)

// APIError is a response the remote service refused, either with an error
// status or with success set to false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api: request failed with status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// Message returns the remote service's own error message when err carries one,
// and fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
