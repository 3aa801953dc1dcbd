package motion

import "errors"

var (
	// ErrNegativeDelta indicates a tick delta below zero or not a number.
	ErrNegativeDelta = errors.New("motion: tick delta must be a non-negative number")

	// ErrInvalidField indicates a particle field with a ceiling below its floor
	// or a negative particle count.
	ErrInvalidField = errors.New("motion: invalid particle field")
)
