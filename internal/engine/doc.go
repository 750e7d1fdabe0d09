// Package engine holds the editing core: the text model and its views in
// text, the in-memory buffer, motions, operators, search and change
// tracking in the sub-packages.
//
// This package itself defines the errors shared by all of them and by
// the Ex layer. Sentinel errors are matched with errors.Is:
//
//   - ErrMotionFailed: a motion found no target, which aborts macros
//   - ErrReadOnly: a write to a read-only buffer
//   - ErrOffsetOutOfRange, ErrRangeInvalid: bad positions from a caller
//   - ErrNothingToUndo, ErrNothingToRedo: empty undo history
//
// Ex errors carry Vim's error numbers so hosts can show them as Vim
// does. UsageError names the command a shape error came from,
// NotFoundError reports a missing command, mark, register or other
// named item, and RecursionLimitError stops runaway alias, macro and
// mapping expansion.
package engine
