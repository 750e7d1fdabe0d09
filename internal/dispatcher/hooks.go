package dispatcher

import (
	"log/slog"

	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// PreDispatchHook is called before a command runs. It may adjust the
// command. Returning false cancels it.
type PreDispatchHook interface {
	PreDispatch(cmd *vim.Command, current mode.Mode) bool
}

// PostDispatchHook is called after a command ran. It may inspect or
// modify the result.
type PostDispatchHook interface {
	PostDispatch(cmd *vim.Command, res *Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(cmd *vim.Command, current mode.Mode) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(cmd *vim.Command, current mode.Mode) bool {
	return f(cmd, current)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(cmd *vim.Command, res *Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(cmd *vim.Command, res *Result) {
	f(cmd, res)
}

// LoggingHook traces every command at Debug level.
type LoggingHook struct {
	logger *slog.Logger
}

// NewLoggingHook creates a hook writing to logger.
func NewLoggingHook(logger *slog.Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

// PreDispatch logs the command being dispatched.
func (h *LoggingHook) PreDispatch(cmd *vim.Command, current mode.Mode) bool {
	h.logger.Debug("dispatching", "action", cmd.Action.String(), "keys", cmd.Keys.String(),
		"count", cmd.Count, "mode", current.String())
	return true
}

// PostDispatch logs the result.
func (h *LoggingHook) PostDispatch(cmd *vim.Command, res *Result) {
	h.logger.Debug("dispatched", "action", cmd.Action.String(), "status", res.Status.String(),
		"mode", res.Mode.String())
}
