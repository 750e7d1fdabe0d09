package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
)

func newTTYCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tty [file]",
		Short: "Edit in the terminal one key at a time",
		Long: `tty takes over the terminal and feeds every key pressed to the engine,
showing the lines around the caret and a status line below them.
CTRL-\ ends the session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runTTY,
	}
	cmd.Flags().BoolP("write", "w", false, "write the buffer back to the file on exit")
	return cmd
}

func (a *app) runTTY(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	if write && len(args) == 0 {
		return fmt.Errorf("--write needs a file")
	}
	e, err := a.open(args)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	e.ttyLoop(screen)
	screen.Fini()

	if err := a.finish(e); err != nil {
		return err
	}
	if write {
		return os.WriteFile(args[0], []byte(e.buf.Text()), 0o644)
	}
	return nil
}

// ttyLoop feeds key events from s to the machine until CTRL-\ or until
// the screen is closed.
func (e *editor) ttyLoop(s tcell.Screen) {
	var msg string
	for {
		e.draw(s, msg)
		switch ev := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if isQuitKey(ev) {
				return
			}
			k := key.FromTcell(ev)
			if k.Key == key.KeyNone {
				continue
			}
			msg = e.feedEvent(k)
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyCtrlBackslash ||
		(ev.Key() == tcell.KeyRune && ev.Rune() == '\\' && ev.Modifiers()&tcell.ModCtrl != 0)
}

// feedEvent types one key and returns the message for the status line.
// Held mapping keys wait for the next key; there is no timeout.
func (e *editor) feedEvent(k key.Event) string {
	res := e.machine.FeedKey(k)
	if res.Kind != dispatcher.Dispatched {
		return ""
	}
	if res.Result.IsError() {
		e.logger.Debug("key failed", "key", k.String(), "err", res.Result.Error)
		return "E: " + res.Result.Error.Error()
	}
	return res.Result.Message
}

// draw paints the lines ending at the caret line and a status line below
// them, then places the terminal cursor on the caret.
func (e *editor) draw(s tcell.Screen, msg string) {
	s.Clear()
	w, h := s.Size()
	rows := h - 1
	if rows < 1 || w < 1 {
		s.Show()
		return
	}
	ts := e.state.Options.TabStop
	idx := text.IndexOf(e.buf)
	caret := text.Offset(e.buf.Caret())
	cl := idx.LineOf(caret)
	top := max(0, cl-rows+1)

	for y := 0; y < rows && top+y < idx.LineCount(); y++ {
		drawLine(s, y, w, idx.LineText(top+y), ts)
	}
	for y := idx.LineCount() - top; y < rows; y++ {
		s.SetContent(0, y, '~', nil, tcell.StyleDefault.Foreground(tcell.ColorBlue))
	}

	status := e.status()
	if msg != "" {
		status = msg + "  " + status
	}
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		s.SetContent(x, rows, r, nil, tcell.StyleDefault.Reverse(true))
		x += runewidth.RuneWidth(r)
	}

	line := idx.LineText(cl)
	cx := text.VisualColumn(line, int(caret-idx.LineStart(cl)), ts)
	s.ShowCursor(min(cx, w-1), cl-top)
	s.Show()
}

// drawLine paints line at row y, expanding tabs and clipping at width w.
func drawLine(s tcell.Screen, y, w int, line string, tabstop int) {
	if tabstop <= 0 {
		tabstop = 8
	}
	x := 0
	for _, r := range line {
		if x >= w {
			return
		}
		if r == '\t' {
			for next := x + tabstop - x%tabstop; x < next && x < w; x++ {
				s.SetContent(x, y, ' ', nil, tcell.StyleDefault)
			}
			continue
		}
		s.SetContent(x, y, r, nil, tcell.StyleDefault)
		x += max(1, runewidth.RuneWidth(r))
	}
}
