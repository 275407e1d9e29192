package domain

import (
	"context"
	"errors"
)

var (
	// ErrQueryModeUnsupported signals that a collaborator cannot execute the
	// requested query shape (e.g. case-insensitive matching is not available).
	ErrQueryModeUnsupported = errors.New("query mode unsupported")
	// ErrSourceUnavailable signals a timeout, connection failure, or any other
	// unrecoverable collaborator fault.
	ErrSourceUnavailable = errors.New("suggestion source unavailable")
)

// FaultClass is the closed classification the fallback chain dispatches on.
type FaultClass int

// Fault classes.
const (
	// FaultNone means the error is nil.
	FaultNone FaultClass = iota
	// FaultUnsupported routes rich queries to the simplified mode.
	FaultUnsupported
	// FaultUnavailable routes any state to the static fallback.
	FaultUnavailable
)

// Classify maps a collaborator error to exactly one fault class.
// Timeouts and cancellations count as unavailable, as does anything
// a collaborator did not explicitly mark unsupported.
func Classify(err error) FaultClass {
	switch {
	case err == nil:
		return FaultNone
	case errors.Is(err, ErrQueryModeUnsupported):
		return FaultUnsupported
	case errors.Is(err, ErrSourceUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return FaultUnavailable
	default:
		return FaultUnavailable
	}
}
