package state

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation requires a session
	// and no token is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidQuantity is returned for negative cart quantities.
	ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")

	// ErrMissingClient is returned when a store is built without an API client.
	ErrMissingClient = errors.New("api client is required")

	// ErrMissingPersistence is returned when a store is built without persistence.
	ErrMissingPersistence = errors.New("session persistence is required")
)
