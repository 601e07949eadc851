package domain

import "context"

type RegisterSource interface {
	// Fetch loads the whole register identified by id in a single round trip.
	// Failures are reported as ErrSourceUnavailable or ErrFormatMismatch.
	Fetch(ctx context.Context, id string) (*Register, error)
}

// Invalidator is implemented by sources that keep a cached copy of registers.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}
