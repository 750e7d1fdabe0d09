package text

import "fmt"

// Offset is a byte position between characters, valid in [0, length].
// Offsets mark range boundaries and insertion points; they never index a
// character directly.
type Offset int

// Pointer is the byte position of an existing character, valid in [0, length-1].
type Pointer int

// Pointer converts o to the pointer of the character starting at o.
// It fails at or beyond end of buffer and for negative offsets.
func (o Offset) Pointer(length int) (Pointer, bool) {
	if o < 0 || int(o) >= length {
		return 0, false
	}
	return Pointer(o), true
}

// Clamp limits o to [0, length].
func (o Offset) Clamp(length int) Offset {
	if o < 0 {
		return 0
	}
	if int(o) > length {
		return Offset(length)
	}
	return o
}

// String returns a human-readable representation of the offset.
func (o Offset) String() string {
	return fmt.Sprintf("@%d", int(o))
}

// Offset returns the offset immediately before the character.
func (p Pointer) Offset() Offset {
	return Offset(p)
}

// String returns a human-readable representation of the pointer.
func (p Pointer) String() string {
	return fmt.Sprintf("#%d", int(p))
}

// NearestPointer returns the pointer closest to o, or false for an empty buffer.
func NearestPointer(o Offset, length int) (Pointer, bool) {
	if length <= 0 {
		return 0, false
	}
	if o < 0 {
		return 0, true
	}
	if int(o) >= length {
		return Pointer(length - 1), true
	}
	return Pointer(o), true
}

// LogicalPosition is a buffer line and byte column. Both are 0-indexed.
type LogicalPosition struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p LogicalPosition) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p LogicalPosition) Compare(other LogicalPosition) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// VisualPosition is a screen row and display column after folds and inlays.
type VisualPosition struct {
	Line   int
	Column int
}
