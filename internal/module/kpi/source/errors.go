package source

import "errors"

var (
	// ErrNotConfigured is returned by a live client that lacks credentials
	// or identifiers.
	ErrNotConfigured = errors.New("source: live client not configured")
	// ErrEmptyPayload is returned when a live call reports success but
	// produces nothing.
	ErrEmptyPayload = errors.New("source: live call returned no payload")
)
