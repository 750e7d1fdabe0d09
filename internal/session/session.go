// Package session holds the state of one editing session and the services
// it runs against.
//
// Nothing in the engine is global: registers, marks, search memory,
// variables, aliases and options all live in a State, identified by a
// Handle. A State is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/engine/tracking"
	"github.com/dshills/vimcore/internal/ex/alias"
	"github.com/dshills/vimcore/internal/ex/expr"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/log"
	"github.com/dshills/vimcore/internal/mark"
	"github.com/dshills/vimcore/internal/register"
)

// ErrNotStored is returned by Storage.Get when nothing was saved.
var ErrNotStored = errors.New("nothing stored for session")

// Handle identifies a session.
type Handle uuid.UUID

// NewHandle returns a fresh random handle.
func NewHandle() Handle {
	return Handle(uuid.New())
}

// ParseHandle parses the string form of a handle.
func ParseHandle(s string) (Handle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, fmt.Errorf("parsing session handle: %w", err)
	}
	return Handle(id), nil
}

func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// Storage persists session data for the host. The engine only calls Get
// and Put; where the bytes go is the host's business.
type Storage interface {
	Get(h Handle, key string) ([]byte, error)
	Put(h Handle, key string, data []byte) error
}

// MemoryStorage is a Storage kept in memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(h Handle, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[h.String()+"/"+key]
	if !ok {
		return nil, ErrNotStored
	}
	return append([]byte(nil), d...), nil
}

func (m *MemoryStorage) Put(h Handle, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[h.String()+"/"+key] = append([]byte(nil), data...)
	return nil
}

// Services are the host facilities a session uses.
type Services struct {
	Editor    text.Editor
	Clipboard register.ClipboardBridge
	Storage   Storage
	Logger    *slog.Logger
}

// State is the engine state of one session.
type State struct {
	Handle    Handle
	Options   *config.Options
	Registers *register.Store
	Marks     *mark.Store
	Search    *search.State
	Find      *search.FindState
	Variables *expr.Variables
	Aliases   *alias.Store
	Mappings  *keymap.Map

	CmdHistory    *mode.History
	SearchHistory *mode.History

	editor text.Editor
	buffer *tracking.Editor
	base   *slog.Logger
	logger *slog.Logger
}

// New creates a session over svc, seeded from cfg. A nil cfg uses the
// defaults. Every invalid alias or register in cfg is reported, and the
// valid ones are still applied.
func New(svc Services, cfg *config.Config) (*State, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := cfg.Options
	s := &State{
		Handle:        NewHandle(),
		Options:       &opts,
		Marks:         mark.NewStore(svc.Logger),
		Search:        search.NewState(search.NewCache()),
		Find:          &search.FindState{},
		Variables:     expr.NewVariables(),
		Aliases:       alias.NewStore(),
		Mappings:      keymap.New(),
		CmdHistory:    &mode.History{},
		SearchHistory: &mode.History{},
		editor:        svc.Editor,
		base:          svc.Logger,
		logger:        log.For(svc.Logger, log.CatSession),
	}

	regOpts := []register.Option{
		register.WithOptions(func() *config.Options { return s.Options }),
		register.WithLogger(svc.Logger),
		register.WithPath(s.Path),
	}
	if svc.Clipboard != nil {
		regOpts = append(regOpts, register.WithClipboard(svc.Clipboard))
	}
	s.Registers = register.NewStore(regOpts...)
	if svc.Editor != nil {
		s.buffer = tracking.Wrap(svc.Editor, tracking.WithListener(s.followEdit))
	}

	return s, s.seed(cfg)
}

// Reconfigure applies a reloaded configuration: its options replace the
// current ones, and its aliases and registers are defined again.
func (s *State) Reconfigure(cfg *config.Config) error {
	*s.Options = cfg.Options
	s.logger.Info("configuration applied", "changed", strings.Join(s.Options.Changed(), ","))
	return s.seed(cfg)
}

func (s *State) seed(cfg *config.Config) error {
	var errs []error
	for _, name := range sortedRunes(cfg.Registers) {
		if err := s.Registers.Set(name, cfg.Registers[name], text.Character); err != nil {
			errs = append(errs, fmt.Errorf("registers.%c: %w", name, err))
		}
	}
	for _, name := range sortedNames(cfg.Commands) {
		if err := s.DefineAlias(name, cfg.Commands[name]); err != nil {
			errs = append(errs, fmt.Errorf("commands.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// DefineAlias defines name from a configuration value, which may start
// with a -nargs attribute.
func (s *State) DefineAlias(name, value string) error {
	value = strings.TrimSpace(value)
	arg := name + " " + value
	if strings.HasPrefix(value, "-nargs") {
		nargs, rest, _ := strings.Cut(value, " ")
		arg = nargs + " " + name + " " + rest
	}
	def, err := alias.Parse(arg)
	if err != nil {
		return err
	}
	return s.Aliases.Define(def.Alias, true)
}

// Editor returns the host editor.
func (s *State) Editor() text.Editor { return s.editor }

// Buffer returns the editor commands edit through. Marks and the jump
// list follow every edit made with it.
func (s *State) Buffer() *tracking.Editor { return s.buffer }

func (s *State) followEdit(c tracking.Change) {
	path := s.Path()
	switch c.Type {
	case tracking.ChangeInsert:
		s.Marks.AdjustInsert(path, c.Before, c.Start, c.NewText)
	case tracking.ChangeDelete:
		s.Marks.AdjustDelete(path, c.Before, c.Start, c.End(), false)
	}
}

// Logger returns the session logger.
func (s *State) Logger() *slog.Logger { return s.logger }

// LoggerFor returns the host logger tagged with cat.
func (s *State) LoggerFor(cat log.Category) *slog.Logger { return log.For(s.base, cat) }

// Path returns the host document path, or "" when the host has none.
func (s *State) Path() string {
	if p, ok := s.editor.(text.PathProvider); ok {
		return p.Path()
	}
	return ""
}

func sortedRunes(m map[rune]string) []rune {
	out := make([]rune, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedNames(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
