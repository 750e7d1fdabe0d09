package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/ex"
	"github.com/dshills/vimcore/internal/plugin/lua"
	"github.com/dshills/vimcore/internal/register"
	"github.com/dshills/vimcore/internal/session"
)

// editorOptions describe how to open one document.
type editorOptions struct {
	Path      string
	ReadOnly  bool
	Clipboard string
	Metrics   bool
	Logger    *slog.Logger
	Storage   session.Storage
	Session   string
}

// editor is one document under a modal machine.
type editor struct {
	buf     *buffer.Buffer
	state   *session.State
	machine *dispatcher.Machine
	script  *lua.Scripter
	storage session.Storage
	logger  *slog.Logger
}

func openEditor(cfg *config.Config, content string, o editorOptions) (*editor, error) {
	bopts := []buffer.Option{}
	if o.Path != "" {
		bopts = append(bopts, buffer.WithPath(o.Path))
	}
	if o.ReadOnly {
		bopts = append(bopts, buffer.WithReadOnly())
	}
	buf := buffer.New(content, bopts...)

	var clip register.ClipboardBridge = &register.MemoryClipboard{}
	switch o.Clipboard {
	case "", "memory":
	case "system":
		clip = register.SystemClipboard{}
	default:
		return nil, fmt.Errorf("unknown clipboard %q (must be memory or system)", o.Clipboard)
	}

	st, err := session.New(session.Services{
		Editor:    buf,
		Clipboard: clip,
		Storage:   o.Storage,
		Logger:    o.Logger,
	}, cfg)
	if err != nil {
		// The valid parts of the configuration are applied.
		st.Logger().Warn("configuration partly rejected", "err", err)
	}

	if o.Session != "" && o.Storage != nil {
		h, err := session.ParseHandle(o.Session)
		if err != nil {
			return nil, err
		}
		if err := st.Load(o.Storage, h); err != nil && !errors.Is(err, session.ErrNotStored) {
			return nil, err
		}
		st.Handle = h
	}

	exec := ex.New(st)
	script := lua.NewScripter(exec)
	exec.Configure(ex.WithScripter(script))

	dcfg := dispatcher.DefaultConfig()
	if o.Metrics {
		dcfg = dcfg.WithMetrics()
	}
	m := dispatcher.New(exec, dispatcher.WithConfig(dcfg))
	hook := dispatcher.NewLoggingHook(st.Logger())
	m.RegisterPreHook(hook)
	m.RegisterPostHook(hook)

	return &editor{
		buf:     buf,
		state:   st,
		machine: m,
		script:  script,
		storage: o.Storage,
		logger:  st.Logger(),
	}, nil
}

// keys feeds notation to the machine. Messages go to msg.
func (e *editor) keys(notation string, msg io.Writer) error {
	res := e.machine.FeedKeys(notation)
	if res.Kind == dispatcher.Incomplete {
		// The end of the keys counts as the mapping timeout.
		res = e.machine.FlushMappings()
	}
	if res.Kind != dispatcher.Dispatched {
		return nil
	}
	if res.Result.IsError() {
		return fmt.Errorf("keys %q: %w", notation, res.Result.Error)
	}
	if res.Result.Message != "" {
		fmt.Fprintln(msg, res.Result.Message)
	}
	return nil
}

// command runs an Ex command line.
func (e *editor) command(line string) error {
	if err := e.machine.ExecuteEx(line); err != nil {
		return fmt.Errorf(":%s: %w", line, err)
	}
	return nil
}

// status describes the mode and caret position the way a status line
// would.
func (e *editor) status() string {
	idx := text.IndexOf(e.buf)
	pos := idx.OffsetToLogical(text.Offset(e.buf.Caret()))
	s := fmt.Sprintf("%d,%d", pos.Line+1, pos.Column+1)
	if ind := e.machine.Indicator(); ind != "" {
		s = ind + " " + s
	}
	if p := e.machine.Pending(); p != "" {
		s += " " + p
	}
	return s
}

// writeMetrics prints the most dispatched commands.
func (e *editor) writeMetrics(w io.Writer) {
	mt := e.machine.Metrics()
	if mt == nil {
		return
	}
	snap := mt.Snapshot()
	fmt.Fprintf(w, "%d commands, %d errors, %d panics, %s average\n",
		snap.Dispatches, snap.Errors, snap.Panics, snap.Average)
	for _, cs := range mt.Top(10) {
		fmt.Fprintf(w, "  %-20s %6d %6.1f%%\n", cs.Name, cs.DispatchCount, cs.ErrorRate())
	}
}

// close ends any open mode, saves the session when storage is set, and
// releases the interpreter.
func (e *editor) close() error {
	defer e.script.Close()
	e.machine.ExitToNormal()
	if e.storage == nil {
		return nil
	}
	return e.state.Save(e.storage)
}
