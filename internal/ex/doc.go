// Package ex parses and runs ":" command lines.
//
// A command line is split into a range, a command name, an optional "!"
// and an argument. Each built-in command declares Flags: whether it takes
// a range and an argument, which host transaction it runs in, and whether
// Visual mode survives it. The Executor validates those flags before the
// command runs, exits Visual mode unless the command keeps it, refuses
// writes to read-only documents, and then runs the command once per caret
// (bottom caret first) or once for the primary caret.
//
// Names that are not built in resolve through the session's aliases,
// defined with :command. Alias and command nesting are bounded by
// MaxDepth.
//
// Edits go through the session's tracking editor, so marks, the jump list
// and pending :global lines follow every change.
package ex
