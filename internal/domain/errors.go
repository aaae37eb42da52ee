package domain

import "errors"

// Sentinel failures for the turn pipeline. Lower layers wrap these with
// context; only the HTTP layer translates them into user-visible payloads.
var (
	// ErrInvalidInput means the caller sent unusable input. Nothing was
	// persisted and no model call was made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelUnavailable means the completion service failed (network,
	// auth, rate limit, or malformed response). Hard stop: no turns are
	// persisted and no usage is recorded.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrStoreUnavailable means persistence failed. Writes that already
	// succeeded in the same turn are not rolled back.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ErrorKind is the machine-readable tag carried in error responses.
type ErrorKind string

const (
	KindInvalidInput     ErrorKind = "invalid_input"
	KindModelUnavailable ErrorKind = "model_unavailable"
	KindStoreUnavailable ErrorKind = "store_unavailable"
	KindInternal         ErrorKind = "internal"
)

// Kind maps a pipeline error to its response tag.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrModelUnavailable):
		return KindModelUnavailable
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindInternal
	}
}
