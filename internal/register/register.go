// Package register implements Vim's registers: routing of yanks and deletes,
// numbered-register rotation, upper-case append, the clipboard bridge and
// caret-local shadows for secondary carets.
//
// The store is not safe for concurrent use; it belongs to one session.
package register

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/log"
)

// ErrInvalidRegister is returned for names that cannot be written.
var ErrInvalidRegister = errors.New("E354: Invalid register name")

// Register is the content of one register. Linewise text always ends with
// a newline; block text holds one row per line without a trailing newline.
type Register struct {
	Name    rune
	Text    string
	Type    text.SelectionType
	Payload []any
}

// IsEmpty reports whether the register holds nothing.
func (r Register) IsEmpty() bool {
	return r.Text == "" && len(r.Payload) == 0
}

// Kind says which command produced a write.
type Kind uint8

const (
	KindYank Kind = iota
	KindDelete
)

// Write describes text produced by a yank, delete or change.
type Write struct {
	// Name is the register the user asked for, or 0 for none.
	Name rune
	Text string
	Type text.SelectionType
	Kind Kind
	// Big marks deletes made with % ( ) ` / ? n N { or }, which always
	// go to the numbered registers.
	Big     bool
	Payload []any
}

// Access is the register view a single caret works through.
type Access interface {
	Get(name rune) (Register, bool)
	Record(w Write) error
}

// Option configures a Store.
type Option func(*Store)

// WithClipboard sets the clipboard bridge used by + and *.
func WithClipboard(c ClipboardBridge) Option {
	return func(s *Store) { s.clip = c }
}

// WithOptions sets the option source consulted for 'clipboard'.
func WithOptions(opts func() *config.Options) Option {
	return func(s *Store) { s.options = opts }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = log.For(l, log.CatRegister) }
}

// WithPath sets the source of the % register.
func WithPath(path func() string) Option {
	return func(s *Store) { s.path = path }
}

// Store holds the registers of one session.
type Store struct {
	regs    bank
	clip    ClipboardBridge
	options func() *config.Options
	path    func() string
	logger  *slog.Logger
	shadows map[text.CaretID]*Shadow
}

// NewStore returns an empty store. Without WithClipboard the system
// clipboard is used.
func NewStore(opts ...Option) *Store {
	s := &Store{
		regs:    make(bank),
		clip:    SystemClipboard{},
		logger:  log.Discard,
		shadows: make(map[text.CaretID]*Shadow),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the content of name. The unnamed register follows the
// clipboard when 'clipboard' includes unnamed or unnamedplus.
func (s *Store) Get(name rune) (Register, bool) {
	if name == 0 {
		name = Unnamed
	}
	name = Normalize(name)
	switch {
	case name == BlackHole:
		return Register{Name: name}, false
	case name == FileName:
		if s.path == nil || s.path() == "" {
			return Register{Name: name}, false
		}
		return Register{Name: name, Text: s.path(), Type: text.Character}, true
	case IsClipboard(name):
		return s.readClipboard(name)
	case name == Unnamed:
		if clip, ok := s.mirror(); ok {
			if r, ok := s.readClipboard(clip); ok {
				r.Name = Unnamed
				return r, true
			}
		}
	}
	r, ok := s.regs[name]
	if !ok || r.IsEmpty() {
		return Register{Name: name}, false
	}
	r.Name = name
	return r, true
}

// Require is Get with a NotFoundError for empty registers.
func (s *Store) Require(name rune) (Register, error) {
	if name != 0 && !IsValid(name) {
		return Register{}, fmt.Errorf("%w: %c", ErrInvalidRegister, name)
	}
	r, ok := s.Get(name)
	if !ok {
		return r, &engine.NotFoundError{Kind: engine.NotFoundRegister, Name: string(r.Name)}
	}
	return r, nil
}

// Record routes a yank or delete.
func (s *Store) Record(w Write) error {
	if w.Name != 0 && (!IsValid(w.Name) || IsReadOnly(w.Name)) {
		return fmt.Errorf("%w: %c", ErrInvalidRegister, w.Name)
	}
	if w.Name == BlackHole {
		return nil
	}

	target := Normalize(w.Name)
	if IsClipboard(target) {
		if err := s.writeClipboard(target, w); err != nil {
			return err
		}
		s.regs[Unnamed] = s.regs[target]
		return nil
	}

	s.regs.route(w)
	s.logger.Debug("register write", "name", string(w.Name), "kind", w.Kind, "type", w.Type.String(), "bytes", len(w.Text))

	if w.Name == 0 || w.Name == Unnamed {
		if clip, ok := s.mirror(); ok {
			if err := s.writeClipboard(clip, Write{Text: w.Text, Type: w.Type, Payload: w.Payload}); err != nil {
				s.logger.Warn("clipboard mirror failed", "error", err)
			}
		}
	}
	return nil
}

// Set stores content directly, as :let @r does. The unnamed register and
// the numbered registers are left alone unless named.
func (s *Store) Set(name rune, content string, typ text.SelectionType) error {
	if !IsValid(name) || (IsReadOnly(name) && name != LastFind) {
		return fmt.Errorf("%w: %c", ErrInvalidRegister, name)
	}
	switch {
	case name == BlackHole:
		return nil
	case IsClipboard(name):
		return s.writeClipboard(name, Write{Text: content, Type: typ})
	case IsAppend(name):
		s.regs.append(Normalize(name), Register{Text: content, Type: typ})
	default:
		s.regs[name] = Register{Name: name, Text: content, Type: typ}
	}
	return nil
}

// Remember records engine-owned content for the read-only registers
// . : and /.
func (s *Store) Remember(name rune, content string) {
	if !IsReadOnly(name) || name == FileName {
		return
	}
	s.regs[name] = Register{Name: name, Text: content, Type: text.Character}
}

// Clear empties name.
func (s *Store) Clear(name rune) {
	delete(s.regs, Normalize(name))
}

// All returns every non-empty register in display order.
func (s *Store) All() []Register {
	var out []Register
	for _, name := range Order() {
		if r, ok := s.Get(name); ok {
			out = append(out, r)
		}
	}
	return out
}

// Restore loads saved content without routing. Clipboard and file-name
// registers are skipped.
func (s *Store) Restore(r Register) {
	if IsClipboard(r.Name) || r.Name == FileName || r.Name == BlackHole || !IsValid(r.Name) {
		return
	}
	s.regs[Normalize(r.Name)] = r
}

// Shadow returns the caret-local register view for a secondary caret.
func (s *Store) Shadow(id text.CaretID) *Shadow {
	sh, ok := s.shadows[id]
	if !ok {
		sh = &Shadow{store: s, regs: make(bank)}
		s.shadows[id] = sh
	}
	return sh
}

// For returns the view caret id should use.
func (s *Store) For(id text.CaretID, primary bool) Access {
	if primary {
		return s
	}
	return s.Shadow(id)
}

// DropShadows forgets every caret-local shadow, typically when the host
// collapses back to one caret.
func (s *Store) DropShadows() {
	s.shadows = make(map[text.CaretID]*Shadow)
}

func (s *Store) mirror() (rune, bool) {
	if s.options == nil {
		return 0, false
	}
	opts := s.options()
	if opts == nil {
		return 0, false
	}
	return opts.ClipboardUnnamed()
}

func (s *Store) writeClipboard(name rune, w Write) error {
	content := Register{Name: name, Text: w.Text, Type: w.Type, Payload: w.Payload}
	if IsAppend(w.Name) {
		prev, _ := s.readClipboard(name)
		content = joinAppend(prev, content)
	}
	s.regs[name] = content
	if s.clip == nil {
		return nil
	}
	if err := s.clip.Write(content.Text); err != nil {
		s.logger.Warn("clipboard write failed", "register", string(name), "error", err)
		if errors.Is(err, ErrClipboardUnavailable) {
			return nil
		}
		return err
	}
	return nil
}

// readClipboard prefers what the system clipboard holds. Content the
// engine wrote itself keeps its register type.
func (s *Store) readClipboard(name rune) (Register, bool) {
	cached, hasCached := s.regs[name]
	if s.clip == nil {
		return cached, hasCached && !cached.IsEmpty()
	}
	got, err := s.clip.Read()
	if err != nil {
		return cached, hasCached && !cached.IsEmpty()
	}
	if hasCached && cached.Text == got {
		return cached, got != ""
	}
	typ := text.Character
	if strings.HasSuffix(got, "\n") {
		typ = text.Line
	}
	return Register{Name: name, Text: got, Type: typ}, got != ""
}

// Shadow holds the non-recordable registers of a secondary caret. Reads
// check the shadow before the shared store.
type Shadow struct {
	store *Store
	regs  bank
}

// Get returns the shadow copy of name, or the shared register.
func (sh *Shadow) Get(name rune) (Register, bool) {
	if name == 0 {
		name = Unnamed
	}
	if r, ok := sh.regs[Normalize(name)]; ok && !r.IsEmpty() {
		r.Name = name
		return r, true
	}
	return sh.store.Get(name)
}

// Record routes w into the shadow. Writes to named and clipboard
// registers are ignored: only the primary caret owns them.
func (sh *Shadow) Record(w Write) error {
	if w.Name != 0 && (!IsValid(w.Name) || IsReadOnly(w.Name)) {
		return fmt.Errorf("%w: %c", ErrInvalidRegister, w.Name)
	}
	if w.Name == BlackHole || IsRecordable(w.Name) {
		return nil
	}
	sh.regs.route(w)
	return nil
}

// bank is a plain register table with Vim's routing rules.
type bank map[rune]Register

func (b bank) route(w Write) {
	content := Register{Text: w.Text, Type: w.Type, Payload: w.Payload}
	name := w.Name
	if name == Unnamed {
		name = 0
	}

	switch {
	case name != 0 && IsAppend(name):
		b.append(Normalize(name), content)
		b[Unnamed] = b[Normalize(name)]
		return
	case name != 0:
		content.Name = name
		b[name] = content
		b[Unnamed] = content
		return
	}

	if w.Kind == KindYank {
		content.Name = Yank
		b[Yank] = content
		b[Unnamed] = content
		return
	}

	multiline := w.Type != text.Character || strings.Contains(w.Text, "\n")
	if multiline || w.Big {
		b.rotate()
		content.Name = '1'
		b['1'] = content
		b[Unnamed] = content
	}
	if !multiline {
		content.Name = SmallDel
		b[SmallDel] = content
		b[Unnamed] = content
	}
}

// rotate shifts 1-8 into 2-9, dropping 9.
func (b bank) rotate() {
	for r := '9'; r > '1'; r-- {
		prev, ok := b[r-1]
		if !ok {
			delete(b, r)
			continue
		}
		prev.Name = r
		b[r] = prev
	}
	delete(b, '1')
}

func (b bank) append(name rune, add Register) {
	prev, ok := b[name]
	if !ok || prev.IsEmpty() {
		add.Name = name
		b[name] = add
		return
	}
	joined := joinAppend(prev, add)
	joined.Name = name
	b[name] = joined
}

// joinAppend appends add to prev. Mixing linewise and characterwise content
// gives linewise content with the parts on separate lines.
func joinAppend(prev, add Register) Register {
	out := Register{Name: prev.Name, Payload: append(append([]any(nil), prev.Payload...), add.Payload...)}
	if prev.Type == text.Character && add.Type == text.Character {
		out.Text = prev.Text + add.Text
		out.Type = text.Character
		return out
	}
	head := prev.Text
	if !strings.HasSuffix(head, "\n") && head != "" {
		head += "\n"
	}
	tail := add.Text
	if !strings.HasSuffix(tail, "\n") {
		tail += "\n"
	}
	out.Text = head + tail
	out.Type = text.Line
	return out
}
