package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/config/loader"
	"github.com/dshills/vimcore/internal/log"
)

// app holds what every subcommand shares: the flag and environment view,
// the streams, and the loaded configuration.
type app struct {
	v      *viper.Viper
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	cfgPath []string
	logger  *slog.Logger
	closeFn func()
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "vimcore [file]",
		Short: "Apply Vim keystrokes and Ex commands to a file",
		Long: `vimcore runs Vim's modal editing engine over a file without a screen.

Keys are given in Vim notation and Ex commands as typed after ":".
They run in the order given: every --keys value first, then every --ex.
The result is written to stdout, back to the file with --in-place, or
to --output.

Examples:
  # Delete the first two lines
  vimcore -k 2dd notes.txt

  # Substitute on every line, in place
  vimcore -i -e '%s/foo/bar/g' main.go

  # Record and replay a macro
  vimcore -k 'qaA;<Esc>jq' -k '3@a' list.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closeFn != nil {
				a.closeFn()
			}
		},
		RunE: a.runEdit,
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "options file (default: $XDG_CONFIG_HOME/vimcore/config.toml)")
	pf.String("log-level", "", "log level (debug, info, warn, error, off)")
	pf.String("log-file", "", "write logs to this file instead of stderr")
	pf.String("clipboard", "memory", "backing for the + and * registers (memory or system)")
	pf.String("state-dir", "", "directory holding saved sessions")
	pf.String("session", "", "handle of a saved session to resume")
	pf.Bool("save", false, "save the session when done and print its handle")
	pf.BoolP("readonly", "R", false, "refuse to modify the buffer")
	pf.Bool("metrics", false, "print command statistics when done")

	f := root.Flags()
	f.StringArrayP("keys", "k", nil, "keys to feed, in Vim notation (repeatable)")
	f.StringArrayP("ex", "e", nil, "Ex command to run (repeatable)")
	f.StringP("output", "o", "", "write the result to this file")
	f.BoolP("in-place", "i", false, "write the result back to the input file")

	_ = a.v.BindPFlags(pf)
	// Key and command lists are read from the flags directly: viper would
	// split them on commas.
	_ = a.v.BindPFlag("output", f.Lookup("output"))
	_ = a.v.BindPFlag("in-place", f.Lookup("in-place"))
	a.v.SetEnvPrefix("VIMCORE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(newReplCmd(a))
	root.AddCommand(newTTYCmd(a))
	return root
}

// setup loads the configuration and opens the log.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfgPath = configPaths(a.v.GetString("config"))
	cfg, err := config.Load(loader.DefaultFS(), a.cfgPath...)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if l := a.v.GetString("log-level"); l != "" {
		level = l
	}
	file := cfg.Log.File
	if f := a.v.GetString("log-file"); f != "" {
		file = f
	}
	logger, closeFn, err := log.Open(file, level)
	if err != nil {
		return err
	}
	a.logger, a.closeFn = logger, closeFn
	log.For(logger, log.CatConfig).Debug("configuration loaded",
		"files", strings.Join(a.cfgPath, ","), "command", cmd.Name())
	return nil
}

// configPaths returns the option files to read. An explicit file must
// exist; the default locations are read when present.
func configPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range []string{"config.toml", "config.yaml"} {
			p := filepath.Join(dir, "vimcore", name)
			if _, err := os.Stat(p); err == nil {
				paths = append(paths, p)
			}
		}
	}
	if _, err := os.Stat(".vimcore.toml"); err == nil {
		paths = append(paths, ".vimcore.toml")
	}
	return paths
}

// open reads the file named by args, if any, and opens an editor on it.
func (a *app) open(args []string) (*editor, error) {
	var path, content string
	if len(args) > 0 {
		path = args[0]
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			content = string(data)
		}
	}

	o := editorOptions{
		Path:      path,
		ReadOnly:  a.v.GetBool("readonly"),
		Clipboard: a.v.GetString("clipboard"),
		Metrics:   a.v.GetBool("metrics"),
		Logger:    a.logger,
		Session:   a.v.GetString("session"),
	}
	if o.Session != "" || a.v.GetBool("save") {
		dir := a.v.GetString("state-dir")
		if dir == "" {
			dir = defaultStateDir()
		}
		o.Storage = dirStorage{root: dir}
	}
	return openEditor(a.cfg, content, o)
}

// finish closes e and reports the session handle and statistics.
func (a *app) finish(e *editor) error {
	if err := e.close(); err != nil {
		return err
	}
	if a.v.GetBool("save") {
		fmt.Fprintf(a.errOut, "session %s\n", e.state.Handle)
	}
	if a.v.GetBool("metrics") {
		e.writeMetrics(a.errOut)
	}
	return nil
}

func (a *app) runEdit(cmd *cobra.Command, args []string) error {
	inPlace := a.v.GetBool("in-place")
	if inPlace && len(args) == 0 {
		return errors.New("--in-place needs a file")
	}
	e, err := a.open(args)
	if err != nil {
		return err
	}

	keys, _ := cmd.Flags().GetStringArray("keys")
	lines, _ := cmd.Flags().GetStringArray("ex")
	var runErr error
	for _, k := range keys {
		if runErr = e.keys(k, a.errOut); runErr != nil {
			break
		}
	}
	if runErr == nil {
		for _, line := range lines {
			if runErr = e.command(line); runErr != nil {
				break
			}
		}
	}
	if err := a.finish(e); err != nil {
		return err
	}
	if runErr != nil {
		fmt.Fprintln(a.errOut, runErr)
		return runErr
	}

	result := e.buf.Text()
	switch {
	case inPlace:
		return os.WriteFile(args[0], []byte(result), 0o644)
	case a.v.GetString("output") != "":
		return os.WriteFile(a.v.GetString("output"), []byte(result), 0o644)
	default:
		_, err := io.WriteString(a.out, result)
		return err
	}
}
