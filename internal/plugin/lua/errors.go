package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTimeout is returned when a chunk runs past the state timeout.
	ErrTimeout = errors.New("lua execution timeout")

	// ErrUnsupportedType is returned for Lua values with no expression
	// counterpart, such as functions and non-sequence tables.
	ErrUnsupportedType = errors.New("lua value has no vim type")

	// ErrNotInteger is returned for numbers with a fractional part.
	ErrNotInteger = errors.New("lua number is not an integer")
)
