package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNoHandler indicates no handler is registered for a command.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrInvalidCommand indicates the keys form no command.
	ErrInvalidCommand = errors.New("dispatcher: invalid command")

	// ErrInvalidMode indicates EnterMode was asked for a mode it cannot
	// enter directly.
	ErrInvalidMode = errors.New("dispatcher: invalid mode")

	// ErrNoSelection indicates a Visual command found no previous selection.
	ErrNoSelection = errors.New("E20: Mark not set")
)
