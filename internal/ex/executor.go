package ex

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/engine/tracking"
	"github.com/dshills/vimcore/internal/ex/alias"
	"github.com/dshills/vimcore/internal/log"
	"github.com/dshills/vimcore/internal/register"
	"github.com/dshills/vimcore/internal/session"
)

// MaxDepth bounds nested command lines, as run by :global, :@, :normal
// and aliases.
const MaxDepth = alias.MaxDepth

// Errors returned by the executor.
var (
	ErrPositiveCount = errors.New("E939: Positive count required")
	ErrNoHost        = errors.New("command needs an editor host")
)

// Host is what the executor needs from the modal editor around it.
type Host interface {
	// Visual reports whether Visual or Select mode is active.
	Visual() bool
	// ExitVisual returns to Normal mode.
	ExitVisual()
	// Normal feeds keys as typed in Normal mode, without mappings when
	// noremap is set. Insert and command-line modes left open by the keys
	// are ended afterwards.
	Normal(keys string, noremap bool) error
}

// Scripter runs :lua chunks.
type Scripter interface {
	Run(code string) (string, error)
}

// Option configures an Executor.
type Option func(*Executor)

// WithHost sets the host used by :normal and for leaving Visual mode.
func WithHost(h Host) Option {
	return func(e *Executor) { e.host = h }
}

// WithScripter sets the :lua interpreter.
func WithScripter(s Scripter) Option {
	return func(e *Executor) { e.script = s }
}

// Executor runs command lines against one session. The session must have
// an editor.
type Executor struct {
	state  *session.State
	host   Host
	script Scripter
	logger *slog.Logger

	depth    int
	inGlobal bool
	// lastAt is the register of the last :@.
	lastAt rune
	// inLastEx is set while the ":" register runs.
	inLastEx bool
	// subst holds the flags of the last :s, for "&".
	subst substFlags
}

// New returns an executor for state.
func New(state *session.State, opts ...Option) *Executor {
	e := &Executor{
		state:  state,
		logger: state.LoggerFor(log.CatEx),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Configure applies opts to an existing executor, for collaborators that
// need the executor to be built first.
func (e *Executor) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}

// State returns the session the executor works on.
func (e *Executor) State() *session.State { return e.state }

// Execute runs a command line typed by the user and remembers it in the
// ":" register. Output lines are joined with "\n".
func (e *Executor) Execute(line string) (string, error) {
	out, err := e.Run(line)
	if strings.TrimLeft(line, " \t:") != "" {
		e.state.Registers.Remember(register.LastEx, line)
	}
	if err != nil {
		e.logger.Warn("command failed", "line", line, "err", err)
	}
	return out, err
}

// Run executes line without remembering it. Commands are separated by
// "|" unless the command reads "|" as part of its argument.
func (e *Executor) Run(line string) (string, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > MaxDepth {
		return "", &engine.RecursionLimitError{What: "command", Limit: MaxDepth}
	}

	var outs []string
	for {
		cmd, err := Parse(line)
		if err != nil {
			return joinOutput(outs), err
		}
		if cmd.Name == "" && cmd.Ranges.Len() == 0 {
			// Empty line, or a line holding only "|" separators.
			_, rest, ok := splitBar(cmd.Argument)
			if !ok {
				return joinOutput(outs), nil
			}
			line = rest
			continue
		}

		def, found := lookup(cmd.Name)
		rest, more := "", false
		if !found || def.traits&takesBar == 0 {
			cmd.Argument, rest, more = splitBar(cmd.Argument)
			cmd.Argument = strings.TrimRight(cmd.Argument, " \t")
		}

		var out string
		if found {
			e.logger.Debug("running command", "name", def.name, "argument", cmd.Argument)
			out, err = e.dispatch(def, cmd)
		} else {
			out, err = e.runAlias(cmd)
		}
		if out != "" {
			outs = append(outs, out)
		}
		if err != nil || !more {
			return joinOutput(outs), err
		}
		line = rest
	}
}

func joinOutput(outs []string) string {
	return strings.Join(outs, "\n")
}

// runAlias runs the user command cmd names.
func (e *Executor) runAlias(cmd *Command) (string, error) {
	a, ok := e.state.Aliases.Get(cmd.Name)
	if !ok {
		return "", &engine.NotFoundError{Kind: engine.NotFoundCommand, Name: cmd.Name}
	}
	if e.depth >= MaxDepth {
		return "", &engine.RecursionLimitError{What: "alias", Limit: alias.MaxDepth}
	}

	count := 0
	if cmd.Ranges.Len() > 0 {
		buf := e.state.Buffer()
		idx := text.IndexOf(buf)
		env := e.lineEnv(idx, buf.PrimaryCaret())
		_, end, err := cmd.Ranges.Lines(env)
		if err != nil {
			return "", err
		}
		count = end + 1
	}

	if a.Handler != nil {
		return "", a.Handler(cmd.String(), count)
	}
	line, err := a.Expand(cmd.Argument, count)
	if err != nil {
		return "", err
	}
	e.logger.Debug("expanding alias", "name", a.Name, "line", line)
	return e.Run(line)
}

// checkShape validates the range and argument against the flags.
func checkShape(def *definition, cmd *Command) error {
	name := def.name
	switch def.flags.Range {
	case RangeRequired:
		if cmd.Ranges.Len() == 0 {
			return engine.NewUsageError(name, engine.ErrRangeRequired)
		}
	case RangeForbidden:
		if cmd.Ranges.Len() > 0 {
			return engine.NewUsageError(name, engine.ErrNoRangeAllowed)
		}
	}
	switch def.flags.Argument {
	case ArgumentRequired:
		if strings.TrimSpace(cmd.Argument) == "" {
			return engine.NewUsageError(name, engine.ErrArgumentRequired)
		}
	case ArgumentForbidden:
		if strings.TrimSpace(cmd.Argument) != "" {
			return engine.NewUsageError(name, fmt.Errorf("%w: %s", engine.ErrArgumentForbidden, cmd.Argument))
		}
	}
	return nil
}

// dispatch validates cmd, leaves Visual mode, opens the transaction and
// runs the command.
func (e *Executor) dispatch(def *definition, cmd *Command) (string, error) {
	if err := checkShape(def, cmd); err != nil {
		return "", err
	}
	if !def.flags.SaveVisual && e.host != nil && e.host.Visual() {
		e.host.ExitVisual()
	}
	host := e.state.Editor()
	if def.flags.Access == Writable && !host.Writable() {
		return "", engine.ErrReadOnly
	}

	var out string
	body := func() error {
		var err error
		out, err = e.execute(def, cmd)
		return err
	}
	tx, ok := host.(text.Transactor)
	var err error
	switch {
	case !ok || def.flags.Access == SelfSynchronized:
		err = body()
	case def.flags.Access == Writable:
		err = tx.RunWriteAction(body)
	default:
		err = tx.RunReadAction(body)
	}
	return out, err
}

// execute runs def once for the primary caret or once per caret, bottom
// caret first. The result is the first run's.
func (e *Executor) execute(def *definition, cmd *Command) (string, error) {
	buf := e.state.Buffer()
	if def.exec == SingleExecution {
		return e.runFor(def, cmd, buf.PrimaryCaret())
	}
	carets := buf.Carets()
	var out string
	var first error
	for i := len(carets) - 1; i >= 0; i-- {
		o, err := e.runFor(def, cmd, carets[i])
		if i == len(carets)-1 {
			out, first = o, err
		} else if err != nil {
			e.logger.Debug("caret failed", "caret", int(carets[i]), "err", err)
		}
	}
	return out, first
}

func (e *Executor) runFor(def *definition, cmd *Command, id text.CaretID) (string, error) {
	c, err := e.newContext(def, cmd, id)
	if err != nil {
		return "", err
	}
	return def.run(c)
}

func (e *Executor) lineEnv(idx *text.Index, id text.CaretID) *LineEnv {
	buf := e.state.Buffer()
	return &LineEnv{
		Index:   idx,
		Marks:   e.state.Marks,
		Path:    e.state.Path(),
		Search:  e.state.Search,
		Options: e.state.Options,
		Line:    idx.LineOf(buf.CaretOffset(id)),
		Move: func(line int) {
			buf.MoveCaret(id, idx.LineStart(idx.ClampLine(line)))
		},
	}
}

// newContext resolves the range for caret id.
func (e *Executor) newContext(def *definition, cmd *Command, id text.CaretID) (*Context, error) {
	idx := text.IndexOf(e.state.Buffer())
	last := idx.LineCount() - 1
	var start, end int
	if cmd.Ranges.Len() == 0 && def.traits&wholeFile != 0 {
		start, end = 0, last
	} else {
		var err error
		start, end, err = cmd.Ranges.Lines(e.lineEnv(idx, id))
		if err != nil {
			return nil, err
		}
	}
	if def.traits&clampRange != 0 {
		start, end = min(start, last), min(end, last)
	}
	if start < -1 || end > last {
		return nil, engine.NewUsageError(def.name, engine.ErrInvalidRange)
	}
	if def.traits&lineZero == 0 {
		start, end = max(start, 0), max(end, 0)
	}
	return &Context{Executor: e, Command: cmd, def: def, Caret: id, Start: start, End: end}, nil
}

// Context is one run of a command for one caret. Start and End are the
// 0-based resolved lines; -1 stands for line 0 in commands that take it.
type Context struct {
	*Executor
	Command *Command
	def     *definition
	Caret   text.CaretID
	Start   int
	End     int
}

// Buffer returns the editor edits go through.
func (c *Context) Buffer() *tracking.Editor { return c.state.Buffer() }

// Index returns a line index of the current text.
func (c *Context) Index() *text.Index { return text.IndexOf(c.Buffer()) }

// Primary reports whether the context's caret is the primary caret.
func (c *Context) Primary() bool { return c.Caret == c.Buffer().PrimaryCaret() }

// Registers returns the register view of the context's caret.
func (c *Context) Registers() register.Access {
	return c.state.Registers.For(c.Caret, c.Primary())
}

// Options returns the session options.
func (c *Context) Options() *config.Options { return c.state.Options }

// Path returns the document path.
func (c *Context) Path() string { return c.state.Path() }

// Offset returns the caret offset.
func (c *Context) Offset() text.Offset { return c.Buffer().CaretOffset(c.Caret) }

// MoveTo moves the caret.
func (c *Context) MoveTo(o text.Offset) { c.Buffer().MoveCaret(c.Caret, o) }

// saveJump records the caret position in the jump list.
func (c *Context) saveJump() {
	idx := c.Index()
	c.state.Marks.SaveJump(c.Path(), idx.OffsetToLogical(c.Offset()))
}

// countLines applies a count argument: count lines starting at the last
// line of the range.
func (c *Context) countLines(count int) {
	if count <= 0 {
		return
	}
	last := c.Index().LineCount() - 1
	c.Start = c.End
	c.End = min(c.End+count-1, last)
}

func (c *Context) opContext() *operator.Context {
	return &operator.Context{Editor: c.Buffer(), Caret: c.Offset(), Options: c.Options()}
}

// writeAction runs fn in one host write action, so that its edits undo
// together.
func (c *Context) writeAction(fn func() error) error {
	if tx, ok := c.state.Editor().(text.Transactor); ok {
		return tx.RunWriteAction(fn)
	}
	return fn()
}

func (c *Context) usage(cause error) error {
	return engine.NewUsageError(c.def.name, cause)
}

// parseCount reads an optional count argument.
func parseCount(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, nil
	}
	n, rest := leadingNumber(arg)
	if rest == arg || strings.TrimSpace(rest) != "" {
		return 0, fmt.Errorf("%w: %s", engine.ErrArgumentForbidden, arg)
	}
	if n == 0 {
		return 0, ErrPositiveCount
	}
	return n, nil
}

// parseRegisterCount reads the "[x] [count]" argument of :d and :y.
func parseRegisterCount(arg string) (reg rune, count int, err error) {
	arg = strings.TrimSpace(arg)
	if arg != "" && (arg[0] < '0' || arg[0] > '9') {
		r, size := utf8.DecodeRuneInString(arg)
		reg, arg = r, arg[size:]
	}
	count, err = parseCount(arg)
	return reg, count, err
}

func leadingNumber(s string) (int, string) {
	i := 0
	n := readNumber(s, &i)
	return n, s[i:]
}

// checkRegister rejects names that cannot receive a yank or delete.
func checkRegister(reg rune) error {
	if reg != 0 && (!register.IsValid(reg) || register.IsReadOnly(reg)) {
		return fmt.Errorf("%w: %c", register.ErrInvalidRegister, reg)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	for _, suffix := range []string{"s", "x", "ch", "sh"} {
		if strings.HasSuffix(word, suffix) {
			return fmt.Sprintf("%d %ses", n, word)
		}
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// reportLines is the message Vim shows when more than two lines change.
func reportLines(n int, what string) string {
	if n <= 2 {
		return ""
	}
	return fmt.Sprintf("%d %s", n, what)
}
