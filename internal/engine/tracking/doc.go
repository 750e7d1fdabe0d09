// Package tracking records the edits the engine makes to a host buffer.
//
// An [Editor] wraps the host's text.Editor. Every Insert and Delete that
// goes through it is forwarded to the host and then reported as a
// [Change] to the registered listeners, which is how marks follow edits.
// The most recent changes are also kept in a bounded log so the caller
// can ask which span a command touched:
//
//	ed := tracking.Wrap(host, tracking.WithListener(onChange))
//	ed.Drain()
//	// ... run a command through ed ...
//	start, end, ok := tracking.Span(ed.Drain())
//
// # Thread Safety
//
// An Editor belongs to one session and is not safe for concurrent use.
package tracking
