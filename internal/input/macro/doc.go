// Package macro records and replays key sequences.
//
// # Recording
//
// A Recorder captures the keys typed between "q{reg}" and the closing "q"
// and stores them in the register as key notation, so ":registers" and
// ":let @a = ..." see and edit the same text that "@a" replays. An upper
// case register appends to the existing macro.
//
// # Playback
//
// A Player reads a register, parses its notation and feeds the keys back
// through a Runner, normally the dispatcher. "@@" replays the last played
// register and "@:" repeats the last command line. A failing command aborts
// the rest of the macro. Nested playback is bounded by MaxDepth.
//
// # Repeat
//
// Repeat holds the keys of the last change for ".". Counts are stored
// apart from the keys so a count given to "." replaces the original one.
//
// Nothing in this package is safe for concurrent use; the engine runs on
// the host's editing thread.
package macro
