package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors
var (
	// ErrUnauthorized is returned when the server rejects the bearer token,
	// either with an HTTP 401 or a non-success profile status. Callers treat
	// this as an invalid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoStore is returned when the current user has no store membership
	// (the store endpoint answers 403 or 404).
	ErrNoStore = errors.New("no store membership")

	// ErrMissingBaseURL is returned when a client is built without a server URL.
	ErrMissingBaseURL = errors.New("server base URL is required")
)

// Error is a non-auth request failure carrying the HTTP status and the
// server-provided message, when one was present in the response body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
}

// IsAuthFailure reports whether err means the session token is invalid or
// expired. Every call site funnels this into the same session teardown path.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// successEnvelope is the {success, message, errors} shape the mutation
// endpoints answer with, validation errors keyed by field name.
type successEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (e successEnvelope) err() error {
	if e.Success {
		return nil
	}

	msg := e.Message
	if len(e.Errors) > 0 {
		var parts []string
		for _, msgs := range e.Errors {
			parts = append(parts, msgs...)
		}
		msg = strings.Join(parts, "; ")
	}

	return &Error{StatusCode: http.StatusUnprocessableEntity, Message: msg}
}
