// Package key defines key events and Vim key notation.
//
// Notation is the text form used by macros, :normal, mappings and the
// dot-repeat buffer: plain characters stand for themselves and special
// keys are written in angle brackets, as in "d2w", "<C-w>", "<Esc>" and
// "<lt>". ParseNotation and Sequence.String round-trip.
package key
