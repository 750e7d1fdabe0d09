package operator

import (
	"math/big"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/text"
)

// NumberFormats are the 'nrformats' flags: the literals CTRL-A and CTRL-X
// read besides decimal numbers.
type NumberFormats struct {
	Bin   bool
	Octal bool
	Hex   bool
	// Alpha makes a single letter a number.
	Alpha bool
	// Unsigned ignores a "-" before a decimal number.
	Unsigned bool
}

// ParseNumberFormats reads a comma separated 'nrformats' value. Unknown
// names are ignored.
func ParseNumberFormats(s string) NumberFormats {
	var nf NumberFormats
	for _, f := range strings.Split(s, ",") {
		switch strings.TrimSpace(f) {
		case "bin":
			nf.Bin = true
		case "octal":
			nf.Octal = true
		case "hex":
			nf.Hex = true
		case "alpha":
			nf.Alpha = true
		case "unsigned":
			nf.Unsigned = true
		}
	}
	return nf
}

// wrap64 is where binary, octal and hex results wrap around.
var wrap64 = new(big.Int).Lsh(big.NewInt(1), 64)

// numberLit is a number literal in a line, as byte offsets into it.
type numberLit struct {
	start, end int
	// digits is where the digits start, after any sign or base prefix.
	digits   int
	base     int
	negative bool
	alpha    bool
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }
func isHexDigit(c byte) bool { return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') }
func isAlpha(c byte) bool    { return c|0x20 >= 'a' && c|0x20 <= 'z' }

// hasPrefix reports whether line[p] is the letter of a "0x" or "0b"
// prefix that is followed by a digit.
func hasPrefix(line string, p int, letter byte, digit func(byte) bool) bool {
	return p > 0 && p+1 < len(line) && line[p]|0x20 == letter && line[p-1] == '0' && digit(line[p+1])
}

func scanDigits(line string, i int, digit func(byte) bool) int {
	for i < len(line) && digit(line[i]) {
		i++
	}
	return i
}

// findNumber finds the literal CTRL-A changes in line, starting at col
// and not before lo. Outside a selection the caret may sit anywhere in the
// literal; inside one the first literal at or after col is taken.
func findNumber(line string, col, lo int, nf NumberFormats, selection bool) (numberLit, bool) {
	n := len(line)
	isStart := func(c byte) bool { return isDigit(c) || (nf.Alpha && isAlpha(c)) }
	c := col
	if !selection && c < n {
		p := c
		if nf.Bin {
			for p > lo && isBinDigit(line[p]) {
				p--
			}
		}
		if nf.Hex {
			for p > lo && isHexDigit(line[p]) {
				p--
			}
		}
		if nf.Bin && nf.Hex && !hasPrefix(line, p, 'x', isHexDigit) {
			p = c
			for p > lo && isDigit(line[p]) {
				p--
			}
		}
		if (nf.Hex && hasPrefix(line, p, 'x', isHexDigit)) || (nf.Bin && hasPrefix(line, p, 'b', isBinDigit)) {
			c = p - 1
		} else {
			c = col
			for c < n && !isStart(line[c]) {
				c++
			}
			for c > lo && c < n && isDigit(line[c-1]) && !(nf.Alpha && isAlpha(line[c])) {
				c--
			}
		}
	}
	for c < n && !isStart(line[c]) {
		c++
	}
	if c >= n {
		return numberLit{}, false
	}

	lit := numberLit{start: c, digits: c, base: 10}
	if nf.Alpha && isAlpha(line[c]) {
		lit.end, lit.alpha = c+1, true
		return lit, true
	}
	if c > lo && line[c-1] == '-' && !nf.Unsigned {
		lit.start, lit.negative = c-1, true
	}
	switch {
	case line[c] == '0' && nf.Hex && hasPrefix(line, c+1, 'x', isHexDigit):
		lit.base, lit.digits = 16, c+2
		lit.end = scanDigits(line, c+2, isHexDigit)
	case line[c] == '0' && nf.Bin && hasPrefix(line, c+1, 'b', isBinDigit):
		lit.base, lit.digits = 2, c+2
		lit.end = scanDigits(line, c+2, isBinDigit)
	default:
		lit.end = scanDigits(line, c, isDigit)
		if nf.Octal && line[c] == '0' && lit.end-c > 1 && scanDigits(line, c, isOctDigit) == lit.end {
			lit.base, lit.digits = 8, c+1
		}
	}
	// A "-" only signs decimal numbers.
	if lit.base != 10 && lit.negative {
		lit.start, lit.negative = c, false
	}
	return lit, true
}

// adjust returns the text that replaces lit after adding delta. Literals
// starting with a zero keep their width; hex digits keep the case of the
// last letter.
func adjust(line string, lit numberLit, delta int64, nf NumberFormats) string {
	if lit.alpha {
		ch := line[lit.start]
		base := byte('a')
		if ch < 'a' {
			base = 'A'
		}
		v := max(0, min(25, int64(ch-base)+delta))
		return string(rune(base + byte(v)))
	}

	digits := line[lit.digits:lit.end]
	v, _ := new(big.Int).SetString(digits, lit.base)
	if v == nil {
		v = new(big.Int)
	}
	if lit.negative {
		v.Neg(v)
	}
	v.Add(v, big.NewInt(delta))

	if lit.base == 10 {
		if nf.Unsigned && v.Sign() < 0 {
			v.SetInt64(0)
		}
		out := new(big.Int).Abs(v).String()
		if line[lit.digits] == '0' && !nf.Octal {
			out = padZero(out, len(digits))
		}
		if v.Sign() < 0 {
			out = "-" + out
		}
		return out
	}

	v.Mod(v, wrap64)
	out := padZero(v.Text(lit.base), len(digits))
	if lit.base == 16 && lastLetterUpper(digits) {
		out = strings.ToUpper(out)
	}
	return line[lit.start:lit.digits] + out
}

func padZero(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func lastLetterUpper(digits string) bool {
	for i := len(digits) - 1; i >= 0; i-- {
		if c := digits[i]; !isDigit(c) {
			return c < 'a'
		}
	}
	return false
}

// Increment adds delta to the number under or after the caret on its
// line, as CTRL-A and CTRL-X do. The caret ends on the last character of
// the new number.
func Increment(ed text.MutableTextView, caret text.Offset, delta int, nf NumberFormats) (Outcome, error) {
	if !ed.Writable() {
		return Outcome{}, engine.ErrReadOnly
	}
	idx := text.IndexOf(ed)
	ln := idx.LineOf(caret)
	ls := idx.LineStart(ln)
	line := idx.LineText(ln)
	lit, ok := findNumber(line, int(caret-ls), 0, nf, false)
	if !ok {
		return Outcome{}, engine.ErrMotionFailed
	}
	repl := adjust(line, lit, int64(delta), nf)
	start := ls + text.Offset(lit.start)
	if err := replace(ed, start, ls+text.Offset(lit.end), repl); err != nil {
		return Outcome{}, err
	}
	return Outcome{Caret: start + text.Offset(len(repl)-1), Lines: 1}, nil
}

// IncrementRange adds delta to the first number of every line of r, as
// CTRL-A in Visual mode does. With progressive set (g CTRL-A) the n-th
// number changed gets n times delta. The caret goes to the start of r.
func IncrementRange(ed text.MutableTextView, r text.TextRange, delta int, progressive bool, nf NumberFormats) (Outcome, error) {
	if !ed.Writable() {
		return Outcome{}, engine.ErrReadOnly
	}
	idx := text.IndexOf(ed)
	type edit struct {
		start, end text.Offset
		s          string
	}
	var edits []edit
	for _, row := range numberRows(idx, r) {
		ln := idx.LineOf(row[0])
		ls := idx.LineStart(ln)
		line := idx.LineText(ln)
		lo, hi := int(row[0]-ls), min(int(row[1]-ls), len(line))
		if lo >= hi {
			continue
		}
		lit, ok := findNumber(line[:hi], lo, lo, nf, true)
		if !ok {
			continue
		}
		d := int64(delta)
		if progressive {
			d *= int64(len(edits) + 1)
		}
		edits = append(edits, edit{
			start: ls + text.Offset(lit.start),
			end:   ls + text.Offset(lit.end),
			s:     adjust(line, lit, d, nf),
		})
	}
	if len(edits) == 0 {
		return Outcome{}, engine.ErrMotionFailed
	}
	// Bottom up, so a longer number does not move the rows above it.
	for i := len(edits) - 1; i >= 0; i-- {
		if err := replace(ed, edits[i].start, edits[i].end, edits[i].s); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{Caret: r.Start(), Lines: len(edits)}, nil
}

// numberRows splits r into one [start, end) span per line.
func numberRows(idx *text.Index, r text.TextRange) [][2]text.Offset {
	var rows [][2]text.Offset
	if r.Type == text.Block {
		for i := range r.Starts {
			rows = append(rows, [2]text.Offset{r.Starts[i], r.Ends[i]})
		}
		return rows
	}
	start, end := r.Start(), r.End()
	if end <= start {
		return nil
	}
	for ln := idx.LineOf(start); ln <= idx.LineOf(end-1); ln++ {
		rows = append(rows, [2]text.Offset{max(start, idx.LineStart(ln)), min(end, idx.LineEnd(ln))})
	}
	return rows
}
