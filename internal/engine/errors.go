package engine

import (
	"errors"
	"fmt"
)

// Errors returned by engine operations.
var (
	// ErrMotionFailed indicates a motion, text object or search found nothing.
	// Callers treat it as a no-op unless it was the sole input of an operator.
	ErrMotionFailed = errors.New("motion failed")

	// ErrReadOnly indicates a writable command was run against a read-only buffer.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrOffsetOutOfRange indicates an offset is outside the valid buffer range.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = errors.New("invalid range")

	// ErrNothingToUndo indicates the host has no undo support or history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the host has no redo history.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Usage error causes.
var (
	ErrNoRangeAllowed    = errors.New("E481: No range allowed")
	ErrRangeRequired     = errors.New("E14: Range required")
	ErrArgumentForbidden = errors.New("E488: Trailing characters")
	ErrArgumentRequired  = errors.New("E471: Argument required")
	ErrInvalidRange      = errors.New("E16: Invalid range")
	ErrInvalidArgument   = errors.New("E475: Invalid argument")
)

// UsageError reports a command invoked with the wrong range or argument shape.
type UsageError struct {
	Command string
	Err     error
}

func (e *UsageError) Error() string {
	if e.Command == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError wraps cause as a usage error of command.
func NewUsageError(command string, cause error) *UsageError {
	return &UsageError{Command: command, Err: cause}
}

// NotFoundKind names what a NotFoundError was looking for.
type NotFoundKind uint8

const (
	NotFoundCommand NotFoundKind = iota
	NotFoundAlias
	NotFoundFunction
	NotFoundMark
	NotFoundRegister
	NotFoundVariable
	NotFoundOption
	NotFoundPattern
	NotFoundMapping
)

// String returns the kind name.
func (k NotFoundKind) String() string {
	switch k {
	case NotFoundCommand:
		return "command"
	case NotFoundAlias:
		return "alias"
	case NotFoundFunction:
		return "function"
	case NotFoundMark:
		return "mark"
	case NotFoundRegister:
		return "register"
	case NotFoundVariable:
		return "variable"
	case NotFoundOption:
		return "option"
	case NotFoundPattern:
		return "pattern"
	case NotFoundMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// NotFoundError reports an unknown command, alias, function, mark, register or variable.
type NotFoundError struct {
	Kind NotFoundKind
	Name string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case NotFoundCommand, NotFoundAlias:
		return "E492: Not an editor command: " + e.Name
	case NotFoundFunction:
		return "E117: Unknown function: " + e.Name
	case NotFoundMark:
		return "E20: Mark not set"
	case NotFoundRegister:
		return "E353: Nothing in register " + e.Name
	case NotFoundVariable:
		return "E121: Undefined variable: " + e.Name
	case NotFoundOption:
		return "E518: Unknown option: " + e.Name
	case NotFoundPattern:
		return "E486: Pattern not found: " + e.Name
	case NotFoundMapping:
		return "E31: No such mapping"
	default:
		return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
	}
}

// RecursionLimitError reports alias, macro or mapping expansion deeper
// than Limit.
type RecursionLimitError struct {
	What  string
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("recursion detected, maximum %s depth (%d) reached", e.What, e.Limit)
}

// IsMotionFailure reports whether err is a motion failure.
func IsMotionFailure(err error) bool {
	return errors.Is(err, ErrMotionFailed)
}

// IsUserVisible reports whether err should be surfaced as a status message.
// Bare motion failures are silent no-ops.
func IsUserVisible(err error) bool {
	return err != nil && !errors.Is(err, ErrMotionFailed)
}
