package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	// ErrUnauthorized is returned when the server answers 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the server answers 404.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest is returned when the server answers 400.
	ErrBadRequest = errors.New("bad request")

	// ErrRejected is returned when a 2xx response carries success=false.
	ErrRejected = errors.New("request rejected")

	// ErrUnavailable is returned when the server answers 5xx.
	ErrUnavailable = errors.New("server unavailable")

	// ErrEmptyToken is returned when a successful login carries no token.
	ErrEmptyToken = errors.New("server returned no token")
)

// APIError is a failed API call. Message is the server's message when it
// sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case e.StatusCode >= 500:
		return ErrUnavailable
	case e.StatusCode < 300:
		// 2xx with success=false
		return ErrRejected
	}
	return nil
}
