package config

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/config/loader"
)

// Config is the startup configuration.
type Config struct {
	Options Options
	// Commands are user aliases, name to replacement.
	Commands map[string]string
	// Registers preloads named register contents.
	Registers map[rune]string
	Log       LogConfig
}

// LogConfig selects log verbosity and destination.
type LogConfig struct {
	Level string
	File  string
}

// Default returns a configuration with default options and no extras.
func Default() *Config {
	return &Config{
		Options:   Defaults(),
		Commands:  make(map[string]string),
		Registers: make(map[rune]string),
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads each file in order, then the environment, later sources
// overriding earlier ones. Missing files are skipped.
func Load(fsys loader.FileSystem, paths ...string) (*Config, error) {
	layers := make([]map[string]any, 0, len(paths)+1)
	for _, p := range paths {
		m, err := loader.ForPath(fsys, p).Load()
		if err != nil {
			return nil, err
		}
		layers = append(layers, m)
	}
	env, err := loader.NewEnvLoader(loader.DefaultEnvPrefix).Load()
	if err != nil {
		return nil, err
	}
	layers = append(layers, env)
	return Decode(loader.Merge(layers...))
}

// Decode builds a Config from a merged configuration map. All option
// errors are reported together.
func Decode(m map[string]any) (*Config, error) {
	cfg := Default()
	var errs []error

	opts := loader.Section(m, "options")
	for _, name := range sortedKeys(opts) {
		if err := cfg.Options.SetValue(name, opts[name]); err != nil {
			errs = append(errs, fmt.Errorf("options.%s: %w", name, err))
		}
	}

	for name, v := range loader.Section(m, "commands") {
		s, ok := v.(string)
		if !ok {
			errs = append(errs, fmt.Errorf("commands.%s: %w", name, ErrTypeMismatch))
			continue
		}
		cfg.Commands[name] = s
	}

	for name, v := range loader.Section(m, "registers") {
		r, size := utf8.DecodeRuneInString(name)
		if size != len(name) || !isPreloadable(r) {
			errs = append(errs, fmt.Errorf("registers.%s: %w", name, ErrInvalidRegister))
			continue
		}
		cfg.Registers[r] = fmt.Sprint(v)
	}

	if lg := loader.Section(m, "log"); lg != nil {
		if s, ok := lg["level"].(string); ok {
			cfg.Log.Level = s
		}
		if s, ok := lg["file"].(string); ok {
			cfg.Log.File = s
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func isPreloadable(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '/' || r == '"'
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
