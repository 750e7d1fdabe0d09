package dispatcher

import (
	"fmt"

	"github.com/dshills/vimcore/internal/input/mode"
)

// Status indicates the outcome of a command.
type Status uint8

const (
	// StatusOK indicates successful execution.
	StatusOK Status = iota
	// StatusNoOp indicates the command had no effect.
	StatusNoOp
	// StatusError indicates the command failed. Result.Error says why.
	StatusError
	// StatusCancelled indicates a hook or <Esc> abandoned the command.
	StatusCancelled
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the outcome of one dispatched command.
type Result struct {
	Status Status
	Error  error

	// Message is text for the host's message area, such as ex output.
	Message string

	// Mode is the mode after the command ran.
	Mode mode.Mode
}

// IsOK returns true if the command succeeded or had nothing to do.
func (r Result) IsOK() bool {
	return r.Status == StatusOK || r.Status == StatusNoOp
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Success returns a successful result.
func Success() Result {
	return Result{Status: StatusOK}
}

// SuccessWithMessage returns a successful result carrying output.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// NoOp returns a result for a command with no effect.
func NoOp() Result {
	return Result{Status: StatusNoOp}
}

// Error returns a failed result. A nil err is a success.
func Error(err error) Result {
	if err == nil {
		return Success()
	}
	return Result{Status: StatusError, Error: err, Message: err.Error()}
}

// Errorf returns a failed result with a formatted error.
func Errorf(format string, args ...any) Result {
	return Error(fmt.Errorf(format, args...))
}

// Kind says how far a key got.
type Kind uint8

const (
	// Incomplete means the key was consumed and more keys are needed.
	Incomplete Kind = iota
	// Dispatched means a command ran; DispatchResult.Result says how.
	Dispatched
	// Cancelled means the pending command was abandoned.
	Cancelled
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Incomplete:
		return "incomplete"
	case Dispatched:
		return "dispatched"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// DispatchResult is what FeedKey reports for one key.
type DispatchResult struct {
	Kind   Kind
	Result Result
	// Pending is the notation of the keys typed towards an incomplete
	// command, for a "showcmd" area.
	Pending string
}

func incomplete(pending string) DispatchResult {
	return DispatchResult{Kind: Incomplete, Pending: pending}
}

func dispatched(r Result) DispatchResult {
	return DispatchResult{Kind: Dispatched, Result: r}
}

func cancelled() DispatchResult {
	return DispatchResult{Kind: Cancelled, Result: Result{Status: StatusCancelled}}
}

// OperatorArguments describes the command being typed, for hosts that
// render an operator-pending caret or a count.
type OperatorArguments struct {
	OperatorPending bool
	Count           int
	Mode            mode.Mode
	SubMode         mode.SubMode
}
