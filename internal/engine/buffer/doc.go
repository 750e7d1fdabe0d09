// Package buffer provides an in-memory host editor implementing the engine's
// capability interfaces. It backs the test suites and the vimcore CLI.
//
// The buffer package provides:
//
//   - Text storage with insert/delete that shifts carets past the edit
//   - Multiple carets with optional selections, ordered by offset
//   - A viewport, folds (visual line mapping) and a snapshot undo history
//   - Read/write transaction counters
//
// Basic usage:
//
//	buf := buffer.New("hello world", buffer.WithCaret(0))
//	_ = buf.Delete(0, 6) // "world"
//
// Line endings are normalized to "\n" on construction.
package buffer
