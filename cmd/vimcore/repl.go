package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/config/loader"
	"github.com/dshills/vimcore/internal/config/watcher"
	"github.com/dshills/vimcore/internal/log"
)

func newReplCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl [file]",
		Short: "Feed keys line by line from stdin",
		Long: `repl reads lines of Vim key notation from stdin and feeds each one to
the engine, printing the mode and caret position after every line.
Lines starting with "#" are ignored.

With --watch the options files are reloaded when they change, between
lines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runRepl,
	}
	cmd.Flags().BoolP("print", "p", false, "print the buffer after every line")
	cmd.Flags().BoolP("write", "w", false, "write the buffer back to the file at end of input")
	cmd.Flags().Bool("watch", false, "reload options files when they change")
	return cmd
}

func (a *app) runRepl(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	if write && len(args) == 0 {
		return fmt.Errorf("--write needs a file")
	}
	show, _ := cmd.Flags().GetBool("print")
	watch, _ := cmd.Flags().GetBool("watch")

	e, err := a.open(args)
	if err != nil {
		return err
	}

	var events <-chan watcher.Event
	if watch && len(a.cfgPath) > 0 {
		w, err := watcher.New()
		if err != nil {
			return err
		}
		defer w.Close()
		for _, p := range a.cfgPath {
			if err := w.Add(p); err != nil {
				return err
			}
		}
		events = w.Events()
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(a.in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case ev := <-events:
			a.reload(e, ev)
		case line, ok := <-lines:
			if !ok {
				if err := a.finish(e); err != nil {
					return err
				}
				if write {
					return os.WriteFile(args[0], []byte(e.buf.Text()), 0o644)
				}
				return nil
			}
			a.feedLine(e, line, show)
		}
	}
}

func (a *app) feedLine(e *editor, line string, show bool) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") || line == "" {
		return
	}
	if err := e.keys(line, a.out); err != nil {
		fmt.Fprintln(a.out, "E:", err)
	}
	fmt.Fprintln(a.out, e.status())
	if show {
		fmt.Fprint(a.out, e.buf.Text())
	}
}

// reload reads the options files again after ev and applies them to the
// session. A file that no longer parses leaves the options as they are.
func (a *app) reload(e *editor, ev watcher.Event) {
	logger := log.For(a.logger, log.CatConfig)
	cfg, err := config.Load(loader.DefaultFS(), a.cfgPath...)
	if err != nil {
		logger.Warn("reload failed", "path", ev.Path, "op", ev.Op.String(), "err", err)
		return
	}
	if err := e.state.Reconfigure(cfg); err != nil {
		logger.Warn("reload partly rejected", "err", err)
	}
	logger.Info("options reloaded", "path", ev.Path)
}
