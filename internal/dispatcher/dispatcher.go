package dispatcher

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/ex"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/macro"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/log"
	"github.com/dshills/vimcore/internal/session"
)

// Machine is the modal state machine of one session. It turns keys into
// commands and runs them against the session's editor. It is not safe for
// concurrent use.
type Machine struct {
	exec   *ex.Executor
	state  *session.State
	logger *slog.Logger
	config Config

	modes    *mode.Stack
	parser   *vim.Parser
	registry *Registry
	router   *router
	metrics  *Metrics

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook

	recorder *macro.Recorder
	player   *macro.Player
	repeat   macro.Repeat

	// anchors holds the fixed end of each caret's selection.
	anchors map[text.CaretID]text.Offset
	// columns holds each caret's desired column for vertical motions.
	columns    map[text.CaretID]int
	lastVisual visualMemory

	insert    *insertSession
	cmdline   *cmdlineState
	undoDepth int

	// replay counts nested FeedSequence calls; repeating counts nested ".".
	replay    int
	repeating int

	// mapPending holds typed keys that may start a mapping.
	mapPending key.Sequence
	mapDepth   int
	// noremap counts callers feeding keys that must not be mapped.
	noremap int
}

// New returns a machine in Normal mode driving exec's session. The
// executor is configured to use the machine as its host for :normal and
// for leaving Visual mode.
func New(exec *ex.Executor, opts ...Option) *Machine {
	st := exec.State()
	m := &Machine{
		exec:     exec,
		state:    st,
		logger:   st.LoggerFor(log.CatInput),
		config:   DefaultConfig(),
		modes:    mode.NewStack(),
		parser:   vim.NewParser(),
		registry: defaultRegistry(),
		router:   newRouter(),
		recorder: macro.NewRecorder(st.Registers, st.Logger()),
		player:   macro.NewPlayer(st.Registers, st.Logger()),
		anchors:  make(map[text.CaretID]text.Offset),
		columns:  make(map[text.CaretID]int),
	}
	m.modes.OnChange(m.syncParser)
	for _, opt := range opts {
		opt(m)
	}
	if m.config.EnableMetrics {
		m.metrics = NewMetrics()
	}
	exec.Configure(ex.WithHost(m))
	return m
}

// State returns the session the machine works on.
func (m *Machine) State() *session.State { return m.state }

// Mode returns the current mode.
func (m *Machine) Mode() mode.Mode { return m.modes.Mode() }

// SubMode returns the current selection shape.
func (m *Machine) SubMode() mode.SubMode { return m.modes.Sub() }

// Indicator returns the status-line text for the current mode.
func (m *Machine) Indicator() string {
	ind := mode.Indicator(m.modes.Mode(), m.modes.Sub())
	if r := m.recorder.Target(); r != 0 {
		ind = fmt.Sprintf("%s recording @%c", ind, r)
	}
	return ind
}

// Pending returns the keys typed towards an incomplete command, or the
// command line being edited.
func (m *Machine) Pending() string {
	if m.cmdline != nil {
		return m.cmdline.display() + m.mapPending.String()
	}
	return m.parser.Pending() + m.mapPending.String()
}

// OperatorArguments describes the command being typed.
func (m *Machine) OperatorArguments() OperatorArguments {
	return OperatorArguments{
		OperatorPending: m.parser.OperatorPending(),
		Count:           m.parser.Count(),
		Mode:            m.modes.Mode(),
		SubMode:         m.modes.Sub(),
	}
}

// Metrics returns the collector, or nil when metrics are disabled.
func (m *Machine) Metrics() *Metrics { return m.metrics }

// Recording returns the register a macro is being recorded into, or 0.
func (m *Machine) Recording() rune { return m.recorder.Target() }

// RegisterHandler replaces the handler of act.
func (m *Machine) RegisterHandler(act vim.Action, h HandlerFunc) {
	m.registry.Register(act, h)
}

// RegisterPreHook adds a hook run before every command.
func (m *Machine) RegisterPreHook(h PreDispatchHook) {
	m.preHooks = append(m.preHooks, h)
}

// RegisterPostHook adds a hook run after every command.
func (m *Machine) RegisterPostHook(h PostDispatchHook) {
	m.postHooks = append(m.postHooks, h)
}

// FeedKey consumes one key in the current mode. A key that may start a
// mapping is held, and the result is Incomplete, until the mapping is
// complete or ruled out.
func (m *Machine) FeedKey(e key.Event) DispatchResult {
	wasRecording := m.recorder.Recording()

	res := m.typeKey(e)

	if wasRecording && m.recorder.Recording() && m.replay == 0 {
		m.recorder.Record(e)
	}
	if res.Kind != Incomplete {
		res.Result.Mode = m.modes.Mode()
	}
	return res
}

// feedKey hands e to the current mode's key handler, past the mappings.
func (m *Machine) feedKey(e key.Event) DispatchResult {
	if m.repeat.Open() && m.repeating == 0 && m.modes.Mode().IsInsert() {
		m.repeat.Extend(e)
	}
	if h, ok := m.router.route(m.modes.Mode()); ok {
		return h(m, e)
	}
	return dispatched(Error(fmt.Errorf("%w: %s", ErrInvalidMode, m.modes.Mode())))
}

// FeedKeys feeds keys written in Vim notation, such as "d2w" or
// "ihello<Esc>". It stops at the first command that fails and returns
// the result of the last key fed.
func (m *Machine) FeedKeys(notation string) DispatchResult {
	var last DispatchResult
	for _, e := range key.ParseNotation(notation) {
		last = m.FeedKey(e)
		if last.Kind == Dispatched && last.Result.IsError() {
			break
		}
	}
	return last
}

// FeedSequence replays keys, as a macro or "." does, and returns the
// error of the first command that fails.
func (m *Machine) FeedSequence(keys key.Sequence) error {
	m.replay++
	defer func() { m.replay-- }()
	for _, e := range keys {
		res := m.FeedKey(e)
		if res.Kind == Dispatched && res.Result.IsError() {
			return res.Result.Error
		}
	}
	return nil
}

// ExecuteEx runs a command line as if typed after ":".
func (m *Machine) ExecuteEx(line string) error {
	_, err := m.runEx(line)
	return err
}

// EnterMode switches to md. Visual and Select modes anchor every caret
// at its selection, or at the caret when it has none; SubAuto detects the
// shape from the host's selections. Entering the current mode does
// nothing.
func (m *Machine) EnterMode(md mode.Mode, sub mode.SubMode) error {
	cur := m.modes.Current()
	switch md {
	case mode.Normal:
		m.ExitToNormal()
		return nil
	case mode.Visual, mode.Select:
		if sub == mode.SubAuto {
			sub = m.detectSub()
		}
		if sub == mode.SubNone {
			sub = mode.VisualCharacter
		}
		if cur.Mode.HasSelection() && cur.Mode.IsVisual() == (md == mode.Visual) && cur.Sub == sub {
			return nil
		}
		if !cur.Mode.HasSelection() {
			m.anchorFromSelections()
		}
		m.enterVisual(md, sub)
		return nil
	case mode.Insert, mode.Replace:
		if cur.Mode == md {
			return nil
		}
		m.ExitToNormal()
		act := vim.ActInsert
		if md == mode.Replace {
			act = vim.ActReplaceMode
		}
		m.beginUndoGroup()
		m.startInsert(act, 1)
		return nil
	case mode.CommandLine:
		if cur.Mode == md {
			return nil
		}
		m.ExitToNormal()
		m.doCmdline(&vim.Command{Action: vim.ActCmdline})
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidMode, md)
}

// ExitToNormal abandons pending input and ends every mode above Normal.
// An insert session is finished as <Esc> would.
func (m *Machine) ExitToNormal() {
	m.mapPending = nil
	if m.cmdline != nil {
		m.closeCmdline()
	}
	if m.modes.Mode().HasSelection() {
		m.exitVisual()
	}
	m.parser.Reset()
	if m.modes.Mode() == mode.OperatorPending || m.modes.Mode() == mode.InsertNormal {
		_, _ = m.modes.Pop()
	}
	if m.insert != nil {
		m.finishInsert()
	}
	if m.modes.Depth() > 1 {
		m.modes.Reset()
	}
	m.clampCarets()
}

// Visual reports whether Visual or Select mode is active.
func (m *Machine) Visual() bool { return m.modes.Mode().HasSelection() }

// ExitVisual returns from Visual or Select mode.
func (m *Machine) ExitVisual() {
	if m.modes.Mode().HasSelection() {
		m.exitVisual()
	}
}

// Normal runs keys as typed in Normal mode, for :normal. With noremap
// set the keys are not mapped. A command left incomplete is abandoned
// and an insert session is ended.
func (m *Machine) Normal(keys string, noremap bool) error {
	held := m.mapPending
	m.mapPending = nil
	defer func() { m.mapPending = held }()
	if noremap {
		m.noremap++
		defer func() { m.noremap-- }()
	}

	base := m.modes.Depth()
	err := m.FeedSequence(key.ParseNotation(keys))
	if err == nil {
		if res := m.FlushMappings(); failed(res) {
			err = res.Result.Error
		}
	}
	for m.modes.Depth() > base {
		switch {
		case m.cmdline != nil:
			m.closeCmdline()
		case m.modes.Mode().HasSelection():
			m.exitVisual()
		case m.insert != nil && m.modes.Mode().IsInsert():
			m.finishInsert()
		default:
			_, _ = m.modes.Pop()
		}
	}
	m.parser.Reset()
	m.clampCarets()
	return err
}

// syncParser keeps the parser's grammar in step with the mode.
func (m *Machine) syncParser(_, to mode.State) {
	if to.Mode.IsVisual() != m.parser.Visual() {
		m.parser.SetVisual(to.Mode.IsVisual())
	}
}

// syncOperatorPending pushes or pops OperatorPending to match the parser.
func (m *Machine) syncOperatorPending() {
	pending := m.parser.OperatorPending()
	inOp := m.modes.Mode() == mode.OperatorPending
	switch {
	case pending && !inOp:
		m.modes.Push(mode.OperatorPending, mode.SubNone)
	case !pending && inOp:
		_, _ = m.modes.Pop()
	}
}

// execute runs a parsed command through the hooks, its handler and the
// bookkeeping that follows.
func (m *Machine) execute(cmd *vim.Command) Result {
	current := m.modes.Mode()
	for _, h := range m.preHooks {
		if !h.PreDispatch(cmd, current) {
			return Result{Status: StatusCancelled, Mode: current}
		}
	}
	if limit := m.config.MaxRepeatCount; limit > 0 && cmd.Count > limit {
		cmd.Count = limit
	}

	h, ok := m.registry.Get(cmd.Action)
	if !ok {
		return Error(fmt.Errorf("%w: %s", ErrNoHandler, cmd.Action))
	}

	// A command is one undo step. One that opens an insert session leaves
	// its group open until the session ends.
	hadInsert := m.insert != nil
	m.beginUndoGroup()
	start := time.Now()
	res := m.run(h, cmd)
	if hadInsert || m.insert == nil {
		m.endUndoGroup()
	}
	if !hadInsert && !current.HasSelection() {
		m.afterCommand(cmd, res)
	}
	res.Mode = m.modes.Mode()

	for _, h := range m.postHooks {
		h.PostDispatch(cmd, &res)
	}
	if m.metrics != nil {
		m.metrics.RecordDispatch(cmd.Action.String(), time.Since(start), res.Status)
	}
	if res.IsError() {
		m.logger.Debug("command failed", "action", cmd.Action.String(), "keys", cmd.Keys.String(), "err", res.Error)
	}
	return res
}

// run calls h, turning a panic into an error result when configured to.
func (m *Machine) run(h HandlerFunc, cmd *vim.Command) (res Result) {
	if m.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)
				m.logger.Error("handler panic", "action", cmd.Action.String(), "panic", r, "stack", string(stack[:n]))
				if m.metrics != nil {
					m.metrics.RecordPanic(cmd.Action.String())
				}
				res = Error(fmt.Errorf("%w: %s: %v", ErrPanic, cmd.Action, r))
			}
		}()
	}
	return h(m, cmd)
}

// afterCommand remembers a successful change for ".". A change that
// opened an insert session stays open until the session ends.
func (m *Machine) afterCommand(cmd *vim.Command, res Result) {
	if res.Status != StatusOK || !cmd.Changes() || m.repeating > 0 {
		return
	}
	if m.insert != nil {
		m.repeat.Begin(cmd.Keys, cmd.Count)
		return
	}
	m.repeat.Set(cmd.Keys, cmd.Count)
}
