package vim

import (
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/input/key"
)

// Status is the outcome of feeding one key to the Parser.
type Status uint8

const (
	// StatusPending means more keys are needed.
	StatusPending Status = iota
	// StatusComplete means Result.Command is ready to run.
	StatusComplete
	// StatusInvalid means the keys form no command. The parser has reset.
	StatusInvalid
	// StatusCancelled means <Esc> abandoned a pending command.
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusInvalid:
		return "invalid"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Action is what a complete command does.
type Action uint8

const (
	ActNone Action = iota
	// ActMotion moves the carets, or extends the selection in Visual mode.
	ActMotion
	// ActOperator applies Command.Operator to a motion, a text object, whole
	// lines (Linewise), or the Visual selection when none of those is set.
	ActOperator
	// ActObject selects a text object in Visual mode.
	ActObject
	ActInsert
	ActAppend
	ActInsertStart
	ActAppendEnd
	ActInsertColumnZero
	ActInsertResume
	ActOpenBelow
	ActOpenAbove
	ActReplaceMode
	ActToggleCase
	ActReplaceChar
	ActPut
	ActPutBefore
	ActPutAfterMove
	ActPutBeforeMove
	ActJoin
	ActJoinRaw
	ActUndo
	ActRedo
	ActRepeat
	ActRecord
	ActStopRecord
	ActPlay
	ActSetMark
	ActVisual
	ActVisualLine
	ActVisualBlock
	ActReselect
	ActSelect
	ActSelectLine
	ActSelectBlock
	ActSwapEnds
	ActSwapCorner
	ActCmdline
	// ActSearch opens the / or ? prompt. Command.Motion says which.
	ActSearch
	ActJumpOlder
	ActJumpNewer
	ActRepeatSubstitute
	// ActIncrement adds the count to a number (CTRL-A); ActDecrement
	// subtracts it (CTRL-X). In Visual mode they change the first number
	// of every selected line.
	ActIncrement
	ActDecrement
	// ActIncrementProgressive is Visual g CTRL-A: the n-th number changed
	// gets n times the count.
	ActIncrementProgressive
	ActDecrementProgressive
	// ActSelectMatch selects the next match of the last search pattern
	// (gn), or the previous one (gN) when Command.Motion is SearchPrev.
	ActSelectMatch
	ActEscape
)

var actionNames = [...]string{
	ActNone:             "none",
	ActMotion:           "motion",
	ActOperator:         "operator",
	ActObject:           "object",
	ActInsert:           "insert",
	ActAppend:           "append",
	ActInsertStart:      "insertStart",
	ActAppendEnd:        "appendEnd",
	ActInsertColumnZero: "insertColumnZero",
	ActInsertResume:     "insertResume",
	ActOpenBelow:        "openBelow",
	ActOpenAbove:        "openAbove",
	ActReplaceMode:      "replaceMode",
	ActToggleCase:       "toggleCase",
	ActReplaceChar:      "replaceChar",
	ActPut:              "put",
	ActPutBefore:        "putBefore",
	ActPutAfterMove:     "putAfterMove",
	ActPutBeforeMove:    "putBeforeMove",
	ActJoin:             "join",
	ActJoinRaw:          "joinRaw",
	ActUndo:             "undo",
	ActRedo:             "redo",
	ActRepeat:           "repeat",
	ActRecord:           "record",
	ActStopRecord:       "stopRecord",
	ActPlay:             "play",
	ActSetMark:          "setMark",
	ActVisual:           "visual",
	ActVisualLine:       "visualLine",
	ActVisualBlock:      "visualBlock",
	ActReselect:         "reselect",
	ActSelect:           "select",
	ActSelectLine:       "selectLine",
	ActSelectBlock:      "selectBlock",
	ActSwapEnds:         "swapEnds",
	ActSwapCorner:       "swapCorner",
	ActCmdline:          "cmdline",
	ActSearch:           "search",
	ActJumpOlder:        "jumpOlder",
	ActJumpNewer:        "jumpNewer",
	ActRepeatSubstitute: "repeatSubstitute",
	ActIncrement:        "increment",
	ActDecrement:        "decrement",

	ActIncrementProgressive: "incrementProgressive",
	ActDecrementProgressive: "decrementProgressive",
	ActSelectMatch:          "selectMatch",
	ActEscape:               "escape",
}

// String returns the action name.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Inserts reports whether the action starts an Insert or Replace session.
func (a Action) Inserts() bool {
	return a >= ActInsert && a <= ActReplaceMode
}

// Changes reports whether the action can modify the buffer and so is
// remembered for ".".
func (a Action) Changes() bool {
	switch a {
	case ActToggleCase, ActReplaceChar, ActPut, ActPutBefore, ActPutAfterMove,
		ActPutBeforeMove, ActJoin, ActJoinRaw, ActRepeatSubstitute,
		ActIncrement, ActDecrement, ActIncrementProgressive, ActDecrementProgressive:
		return true
	}
	return a.Inserts()
}

// Command is a parsed Normal or Visual mode command.
type Command struct {
	Action Action
	// Count is the product of the counts typed before and after the
	// operator, or 0 when none was typed.
	Count int
	// Register is the register named with "x, or 0.
	Register rune

	Operator operator.Operator
	// Linewise is set for a doubled operator such as "dd" or "gUU".
	Linewise bool
	Force    operator.Force

	Motion    motion.Kind
	HasMotion bool

	Object    search.Object
	HasObject bool
	// Match makes the operand the search match gn or gN selects. Motion
	// is SearchNext or SearchPrev.
	Match bool
	// Around selects the "a" variant of Object rather than "i".
	Around bool

	// Char is the character operand of f, t, r, m, q, @, ' and `.
	Char rune

	// Keys are the keys of the command without its counts, for "." and
	// macro display.
	Keys key.Sequence
}

// EffectiveCount returns Count, or 1 when no count was typed.
func (c *Command) EffectiveCount() int {
	if c.Count < 1 {
		return 1
	}
	return c.Count
}

// HasCount reports whether a count was typed.
func (c *Command) HasCount() bool { return c.Count > 0 }

// Changes reports whether the command can modify the buffer.
func (c *Command) Changes() bool {
	if c.Action == ActOperator {
		return c.Operator.Modifies()
	}
	return c.Action.Changes()
}

// Result is the outcome of Parser.Parse.
type Result struct {
	Status  Status
	Command *Command
	// Pending is the notation of the keys typed so far, for a "showcmd"
	// display. It is empty unless Status is StatusPending.
	Pending string
}
