package macro

import (
	"fmt"
	"log/slog"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/log"
	"github.com/dshills/vimcore/internal/register"
)

// MaxDepth bounds nested playback, as in a macro that plays itself.
const MaxDepth = 100

// Runner executes replayed input.
type Runner interface {
	// FeedSequence runs keys through the state machine and returns the
	// first error a command reported.
	FeedSequence(keys key.Sequence) error
	// ExecuteEx runs one command line.
	ExecuteEx(cmdline string) error
}

// Player replays registers.
type Player struct {
	store  Store
	logger *slog.Logger
	depth  int
	last   rune
}

// NewPlayer returns a player reading from store.
func NewPlayer(store Store, logger *slog.Logger) *Player {
	return &Player{store: store, logger: log.For(logger, log.CatMacro)}
}

// Resolve maps '@' to the last played register.
func (p *Player) Resolve(name rune) (rune, error) {
	if !CanPlay(name) {
		return 0, fmt.Errorf("%w: %c", register.ErrInvalidRegister, name)
	}
	if name == '@' {
		if p.last == 0 {
			return 0, &engine.NotFoundError{Kind: engine.NotFoundRegister, Name: "@"}
		}
		return p.last, nil
	}
	return register.Normalize(name), nil
}

// Play runs register name count times through run. The ':' register is
// run as a command line; every other register as keys.
func (p *Player) Play(name rune, count int, run Runner) error {
	name, err := p.Resolve(name)
	if err != nil {
		return err
	}
	reg, ok := p.store.Get(name)
	if !ok || reg.IsEmpty() {
		return &engine.NotFoundError{Kind: engine.NotFoundRegister, Name: string(name)}
	}
	if p.depth >= MaxDepth {
		return &engine.RecursionLimitError{What: "macro", Limit: MaxDepth}
	}
	if count < 1 {
		count = 1
	}

	p.depth++
	defer func() { p.depth-- }()
	p.last = name
	p.logger.Debug("playing", "register", string(name), "count", count, "depth", p.depth)

	var keys key.Sequence
	if name != register.LastEx {
		keys = Decode(reg.Text)
	}
	for i := 0; i < count; i++ {
		if name == register.LastEx {
			err = run.ExecuteEx(trimLineBreak(reg.Text))
		} else {
			err = run.FeedSequence(keys)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Playing reports whether a macro is being replayed.
func (p *Player) Playing() bool { return p.depth > 0 }

// Last returns the last played register, or 0.
func (p *Player) Last() rune { return p.last }
