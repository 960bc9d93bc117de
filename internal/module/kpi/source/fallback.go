package source

import "context"

// Origin records where a fetched payload came from.
type Origin string

const (
	OriginCache Origin = "cache"
	OriginLive  Origin = "live"
	OriginMock  Origin = "mock"
)

// LiveFunc fetches a payload from a remote API.
type LiveFunc[P any] func(ctx context.Context) (P, error)

// MockFunc generates a mock payload. It never fails.
type MockFunc[P any] func() P

// Fallback combines a live call with a mock generator. The combined call
// always yields a payload: the live one when it succeeds, otherwise the mock.
// The live error is returned alongside so callers can log it.
func Fallback[P any](live LiveFunc[P], mock MockFunc[P]) func(ctx context.Context) (P, Origin, error) {
	return func(ctx context.Context) (P, Origin, error) {
		p, err := live(ctx)
		if err != nil {
			return mock(), OriginMock, err
		}
		return p, OriginLive, nil
	}
}
