package register

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no system clipboard exists.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// ClipboardBridge reads and writes the host clipboard.
type ClipboardBridge interface {
	Read() (string, error)
	Write(s string) error
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

// Read returns the clipboard text.
func (SystemClipboard) Read() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnavailable
	}
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return s, nil
}

// Write replaces the clipboard text.
func (SystemClipboard) Write(s string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// MemoryClipboard keeps clipboard text in memory. Tests and headless hosts
// use it.
type MemoryClipboard struct {
	text string
}

// Read returns the stored text.
func (m *MemoryClipboard) Read() (string, error) {
	return m.text, nil
}

// Write stores s.
func (m *MemoryClipboard) Write(s string) error {
	m.text = s
	return nil
}
