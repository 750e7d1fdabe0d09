package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/vimcore/internal/session"
)

// dirStorage keeps session snapshots as files under a state directory,
// one directory per session handle.
type dirStorage struct {
	root string
}

func (d dirStorage) path(h session.Handle, key string) string {
	return filepath.Join(d.root, h.String(), key+".json")
}

func (d dirStorage) Get(h session.Handle, key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(h, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, session.ErrNotStored
	}
	return data, err
}

func (d dirStorage) Put(h session.Handle, key string, data []byte) error {
	p := d.path(h, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

// defaultStateDir is where sessions go when --state-dir is not given.
func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "vimcore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vimcore")
	}
	return filepath.Join(home, ".local", "state", "vimcore")
}
