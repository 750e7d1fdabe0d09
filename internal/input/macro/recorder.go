package macro

import (
	"fmt"
	"log/slog"

	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/log"
	"github.com/dshills/vimcore/internal/register"
)

// Recorder captures keys into a register.
type Recorder struct {
	store  Store
	logger *slog.Logger

	recording bool
	target    rune
	keys      key.Sequence
}

// NewRecorder returns a recorder writing to store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: log.For(logger, log.CatMacro)}
}

// Start begins recording into name.
func (r *Recorder) Start(name rune) error {
	if !CanRecord(name) {
		return fmt.Errorf("%w: %c", register.ErrInvalidRegister, name)
	}
	if r.recording {
		return fmt.Errorf("already recording @%c", r.target)
	}
	r.recording = true
	r.target = name
	r.keys = nil
	r.logger.Debug("recording started", "register", string(name))
	return nil
}

// Record appends e to the macro when recording.
func (r *Recorder) Record(e key.Event) {
	if r.recording {
		r.keys = append(r.keys, e)
	}
}

// Stop ends recording and stores the keys. An upper case register appends
// to the existing macro.
func (r *Recorder) Stop() (key.Sequence, error) {
	if !r.recording {
		return nil, nil
	}
	keys := r.keys
	r.recording = false
	r.keys = nil
	r.logger.Debug("recording stopped", "register", string(r.target), "keys", len(keys))
	return keys, r.store.Set(r.target, Encode(keys), text.Character)
}

// Cancel ends recording without storing anything.
func (r *Recorder) Cancel() {
	r.recording = false
	r.keys = nil
}

// Recording reports whether keys are being captured.
func (r *Recorder) Recording() bool { return r.recording }

// Target returns the register being recorded into, or 0.
func (r *Recorder) Target() rune {
	if !r.recording {
		return 0
	}
	return r.target
}

// Len returns the number of keys captured so far.
func (r *Recorder) Len() int { return len(r.keys) }
