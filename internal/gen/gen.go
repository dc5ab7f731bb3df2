// Package gen talks to the external dialogue-generation collaborator.
//
// Callers must always supply a context deadline and a fallback: every error
// from this package is expected to be degraded into templated output at the
// call site, never propagated up the show loop.
package gen

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the collaborator cannot be reached at all.
	ErrUnavailable = errors.New("generation collaborator unavailable")
	// ErrTimeout means the call lost the race against its deadline.
	ErrTimeout = errors.New("generation call timed out")
	// ErrEmpty means the collaborator answered with no usable text.
	ErrEmpty = errors.New("generation returned empty response")
	// ErrMalformed means a response was produced but could not be parsed.
	ErrMalformed = errors.New("generation response malformed")
)

// Client is the capability contract for the generation collaborator.
type Client interface {
	// Available reports whether the collaborator is currently reachable.
	// It is a hint only; Generate can still fail after Available returned true.
	Available() bool

	// Generate produces text for the given prompt. It honors ctx cancellation
	// and fails with ErrUnavailable, ErrTimeout or ErrEmpty.
	Generate(ctx context.Context, prompt string) (string, error)
}
