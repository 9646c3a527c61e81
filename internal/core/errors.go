package core

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationInFlight is returned when a generation is requested while another one runs
	ErrGenerationInFlight = errors.New("email generation already in progress")
	// ErrInvalidTransition is returned when a command is not valid in the current game state
	ErrInvalidTransition = errors.New("invalid transition for current game state")
	// ErrDisposed is returned by a controller after Dispose
	ErrDisposed = errors.New("game controller disposed")
)

// GenerationError reports that the remote text generation failed or returned unusable content.
// It is retryable and never consumes a round.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("email generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("email generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed remote score save or fetch
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("score persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError reports a malformed synthesized email
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid synthesized email: %s %s", e.Field, e.Reason)
}

// IsGenerationError reports whether err is or wraps a GenerationError
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
