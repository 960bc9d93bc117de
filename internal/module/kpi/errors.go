package kpi

import "errors"

var (
	// ErrHistoryUnavailable is returned when no snapshot store is configured.
	ErrHistoryUnavailable = errors.New("kpi: history store unavailable")
	// ErrSourcePanicked reports a source whose fetch panicked and was served
	// from mock data instead.
	ErrSourcePanicked = errors.New("kpi: source fetch panicked")
)
