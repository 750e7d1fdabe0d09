package text

// LineDeleteShift records how a linewise delete moved its boundary to keep
// every line but the last terminated by a newline.
type LineDeleteShift uint8

const (
	// NLOnEnd means the newline after the last line was consumed.
	NLOnEnd LineDeleteShift = iota
	// NLOnStart means the newline before the first line was consumed because
	// the range reached the end of a buffer without a trailing newline.
	NLOnStart
	// NoNL means no newline was available on either side.
	NoNL
)

// String returns the shift name.
func (s LineDeleteShift) String() string {
	switch s {
	case NLOnEnd:
		return "NL_ON_END"
	case NLOnStart:
		return "NL_ON_START"
	case NoNL:
		return "NO_NL"
	default:
		return "UNKNOWN"
	}
}

// OperatedRange describes what a delete would remove, computed without
// touching the buffer.
type OperatedRange struct {
	// Text is the exact byte run that would be removed.
	Text string
	// Start and End bound the removal.
	Start, End Offset
	// Type is the selection type of the source range.
	Type SelectionType
	// Shift is set for Line ranges.
	Shift LineDeleteShift
	// FirstLine and LineCount are set for Line ranges.
	FirstLine, LineCount int
	// Rows holds per-row removals for Block ranges, top to bottom.
	Rows []OperatedRange
}

// IsEmpty reports whether nothing would be removed.
func (r OperatedRange) IsEmpty() bool {
	if r.Type == Block {
		for _, row := range r.Rows {
			if row.End > row.Start {
				return false
			}
		}
		return true
	}
	return r.End <= r.Start
}

// RegisterText returns the text a register should receive for the removal.
// Line content always ends with a newline regardless of which side the
// newline was taken from.
func (r OperatedRange) RegisterText() string {
	switch r.Type {
	case Line:
		t := r.Text
		if r.Shift == NLOnStart && len(t) > 0 && t[0] == '\n' {
			t = t[1:]
		}
		if len(t) == 0 || t[len(t)-1] != '\n' {
			t += "\n"
		}
		return t
	case Block:
		out := make([]byte, 0, len(r.Text))
		for i, row := range r.Rows {
			if i > 0 {
				out = append(out, '\n')
			}
			out = append(out, row.Text...)
		}
		return string(out)
	default:
		return r.Text
	}
}
