package mode

import "github.com/dshills/vimcore/internal/engine/text"

// Mode is a Vim editing mode.
type Mode uint8

const (
	Normal Mode = iota
	OperatorPending
	Insert
	Replace
	Visual
	Select
	CommandLine
	// InsertNormal is normal mode entered with CTRL-O from insert mode.
	InsertNormal
	// InsertVisual is visual mode started from InsertNormal.
	InsertVisual
	// InsertSelect is select mode started from insert mode.
	InsertSelect
)

var modeNames = [...]string{
	Normal:          "normal",
	OperatorPending: "operator-pending",
	Insert:          "insert",
	Replace:         "replace",
	Visual:          "visual",
	Select:          "select",
	CommandLine:     "cmdline",
	InsertNormal:    "insert-normal",
	InsertVisual:    "insert-visual",
	InsertSelect:    "insert-select",
}

// String returns the mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Parse returns the mode named s.
func Parse(s string) (Mode, bool) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), true
		}
	}
	return Normal, false
}

// IsVisual reports whether m shows a visual selection.
func (m Mode) IsVisual() bool {
	return m == Visual || m == InsertVisual
}

// IsSelect reports whether m is a select mode.
func (m Mode) IsSelect() bool {
	return m == Select || m == InsertSelect
}

// HasSelection reports whether m has an active selection.
func (m Mode) HasSelection() bool {
	return m.IsVisual() || m.IsSelect()
}

// IsInsert reports whether typed characters go into the buffer.
func (m Mode) IsInsert() bool {
	return m == Insert || m == Replace
}

// IsNormalLike reports whether keys are parsed as normal-mode commands.
func (m Mode) IsNormalLike() bool {
	return m == Normal || m == InsertNormal || m == OperatorPending
}

// CursorStyle is the caret shape a host should draw.
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorBar
	CursorUnderline
)

// String returns the style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	}
	return "block"
}

// Cursor returns the caret shape for m.
func (m Mode) Cursor() CursorStyle {
	switch m {
	case Insert, CommandLine, Select, InsertSelect:
		return CursorBar
	case Replace, OperatorPending:
		return CursorUnderline
	}
	return CursorBlock
}

// SubMode is the selection shape of visual and select modes.
type SubMode uint8

const (
	SubNone SubMode = iota
	VisualCharacter
	VisualLine
	VisualBlock
	// SubAuto asks EnterMode to detect the shape from the carets.
	SubAuto
)

// String returns the sub mode name.
func (s SubMode) String() string {
	switch s {
	case VisualCharacter:
		return "char"
	case VisualLine:
		return "line"
	case VisualBlock:
		return "block"
	case SubAuto:
		return "auto"
	}
	return "none"
}

// SelectionType maps a sub mode to the range shape it selects.
func (s SubMode) SelectionType() text.SelectionType {
	switch s {
	case VisualLine:
		return text.Line
	case VisualBlock:
		return text.Block
	}
	return text.Character
}

// Indicator returns the status-line text Vim shows for m and sub.
func Indicator(m Mode, sub SubMode) string {
	shape := func(prefix string) string {
		switch sub {
		case VisualLine:
			return prefix + " LINE"
		case VisualBlock:
			return prefix + " BLOCK"
		}
		return prefix
	}
	switch m {
	case Insert:
		return "-- INSERT --"
	case Replace:
		return "-- REPLACE --"
	case Visual:
		return "-- " + shape("VISUAL") + " --"
	case Select:
		return "-- " + shape("SELECT") + " --"
	case InsertNormal:
		return "-- (insert) --"
	case InsertVisual:
		return "-- (insert) " + shape("VISUAL") + " --"
	case InsertSelect:
		return "-- (insert) " + shape("SELECT") + " --"
	}
	return ""
}
