// ABOUTME: Engine error values
// ABOUTME: Sentinel errors returned by lifecycle calls and reported via OnError
package calmtv

import "errors"

var (
	// ErrSinkUnavailable is returned by Start when the output cannot be opened
	ErrSinkUnavailable = errors.New("audio sink unavailable")

	// ErrWriteFailed wraps output write errors passed to OnError
	ErrWriteFailed = errors.New("audio sink write failed")

	// ErrJoinTimeout is returned by Release when the streaming goroutine
	// did not exit in time
	ErrJoinTimeout = errors.New("streaming goroutine did not exit")

	// ErrInvalidState is returned for a lifecycle call the current state
	// does not allow
	ErrInvalidState = errors.New("invalid engine state")

	// ErrReleased is returned by lifecycle calls after Release
	ErrReleased = errors.New("engine released")
)
