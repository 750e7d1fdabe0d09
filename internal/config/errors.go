package config

import "errors"

// Errors returned while decoding configuration.
var (
	// ErrTypeMismatch indicates a value of the wrong type for an option.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidRegister indicates a [registers] key that is not a single
	// writable register name.
	ErrInvalidRegister = errors.New("invalid register name")
)
