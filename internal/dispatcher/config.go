package dispatcher

import "github.com/dshills/vimcore/internal/input/mode"

// Config tunes a Machine.
type Config struct {
	// EnableMetrics turns on per-command dispatch statistics.
	EnableMetrics bool

	// RecoverFromPanic turns a panicking handler into an error result
	// instead of crashing the host.
	RecoverFromPanic bool

	// MaxRepeatCount rejects commands with a larger count, such as
	// "99999999dd". Zero means no limit.
	MaxRepeatCount int

	// MaxMapDepth bounds mappings expanding into other mappings. Zero
	// means DefaultMaxMapDepth.
	MaxMapDepth int
}

// DefaultMaxMapDepth is Vim's 'maxmapdepth' default.
const DefaultMaxMapDepth = 1000

// DefaultConfig returns the configuration New uses.
func DefaultConfig() Config {
	return Config{
		RecoverFromPanic: true,
		MaxRepeatCount:   10000,
		MaxMapDepth:      DefaultMaxMapDepth,
	}
}

// WithMetrics returns c with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns c with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithMaxRepeatCount returns c with the count limit set.
func (c Config) WithMaxRepeatCount(n int) Config {
	c.MaxRepeatCount = n
	return c
}

// WithMaxMapDepth returns c with the mapping depth limit set.
func (c Config) WithMaxMapDepth(n int) Config {
	c.MaxMapDepth = n
	return c
}

// Option configures a Machine.
type Option func(*Machine)

// WithConfig replaces the default configuration.
func WithConfig(c Config) Option {
	return func(m *Machine) { m.config = c }
}

// WithModeListener registers fn for every mode change.
func WithModeListener(fn mode.ChangeFunc) Option {
	return func(m *Machine) { m.modes.OnChange(fn) }
}
