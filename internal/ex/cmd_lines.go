package ex

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/register"
)

// ErrMoveIntoSelf is returned by :m when the destination is inside the
// moved lines.
var ErrMoveIntoSelf = errors.New("E134: Cannot move a range of lines into itself")

// cmdGoto moves to the last line of a bare range.
func cmdGoto(c *Context) (string, error) {
	idx := c.Index()
	line := max(c.End, 0)
	if c.Primary() {
		c.saveJump()
	}
	if c.Options().StartOfLine {
		c.MoveTo(idx.FirstNonBlank(line))
		return "", nil
	}
	col := idx.Column(c.Offset())
	to := idx.LogicalToOffset(text.LogicalPosition{Line: line, Column: col})
	c.MoveTo(min(to, idx.LastCharOffset(line)))
	return "", nil
}

func cmdDelete(c *Context) (string, error) {
	reg, count, err := parseRegisterCount(c.Command.Argument)
	if err != nil {
		return "", c.usage(err)
	}
	if err := checkRegister(reg); err != nil {
		return "", err
	}
	c.countLines(count)
	out, err := operator.Apply(c.opContext(), operator.OpDelete, operator.LineRange(c.Index(), c.Start, c.End))
	if err != nil {
		return "", err
	}
	if err := c.Registers().Record(register.Write{Name: reg, Text: out.Text, Type: out.Type, Kind: register.KindDelete}); err != nil {
		return "", err
	}
	c.MoveTo(out.Caret)
	return reportLines(out.Lines, "fewer lines"), nil
}

func cmdYank(c *Context) (string, error) {
	reg, count, err := parseRegisterCount(c.Command.Argument)
	if err != nil {
		return "", c.usage(err)
	}
	if err := checkRegister(reg); err != nil {
		return "", err
	}
	c.countLines(count)
	out, err := operator.Apply(c.opContext(), operator.OpYank, operator.LineRange(c.Index(), c.Start, c.End))
	if err != nil {
		return "", err
	}
	if err := c.Registers().Record(register.Write{Name: reg, Text: out.Text, Type: out.Type, Kind: register.KindYank}); err != nil {
		return "", err
	}
	return reportLines(c.End-c.Start+1, "lines yanked"), nil
}

// putAfter puts lines below line after; -1 puts them above the first line.
func (c *Context) putAfter(after int, lines string) (operator.Outcome, error) {
	ctx := c.opContext()
	po := operator.PutOptions{}
	if after < 0 {
		after, po.Before = 0, true
	}
	ctx.Caret = c.Index().LineStart(after)
	return operator.Put(ctx, lines, text.Line, po)
}

// cmdPut puts a register, or the value of "=expr", linewise below the
// line, or above it with "!".
func cmdPut(c *Context) (string, error) {
	arg := strings.TrimSpace(c.Command.Argument)
	var content string
	if strings.HasPrefix(arg, "=") {
		v, err := evalExpr(c, arg[1:])
		if err != nil {
			return "", err
		}
		content = valueLines(v)
	} else {
		var name rune
		if arg != "" {
			r, size := utf8.DecodeRuneInString(arg)
			if strings.TrimSpace(arg[size:]) != "" {
				return "", c.usage(fmt.Errorf("%w: %s", engine.ErrArgumentForbidden, arg))
			}
			name = r
		}
		r, ok := c.Registers().Get(name)
		if !ok || r.Text == "" {
			return "", &engine.NotFoundError{Kind: engine.NotFoundRegister, Name: string(r.Name)}
		}
		content = r.Text
	}

	after := c.End
	if c.Command.Bang {
		after--
	}
	out, err := c.putAfter(after, content)
	if err != nil {
		return "", err
	}
	first := max(after, -1) + 1
	c.MoveTo(c.Index().FirstNonBlank(first + out.Lines - 1))
	return reportLines(out.Lines, "more lines"), nil
}

// destination resolves the address argument of :m, :co and :t.
func (c *Context) destination() (int, error) {
	ranges, rest, err := ParseRange(strings.TrimSpace(c.Command.Argument))
	if err != nil {
		return 0, err
	}
	if ranges.Len() == 0 || strings.TrimSpace(rest) != "" {
		return 0, c.usage(fmt.Errorf("%w: %s", engine.ErrInvalidRange, c.Command.Argument))
	}
	idx := c.Index()
	_, dest, err := ranges.Lines(c.lineEnv(idx, c.Caret))
	if err != nil {
		return 0, err
	}
	if dest < -1 || dest >= idx.LineCount() {
		return 0, c.usage(engine.ErrInvalidRange)
	}
	return dest, nil
}

func (c *Context) lineText(first, last int) string {
	idx := c.Index()
	return idx.Slice(idx.LineStart(first), idx.LineEnd(last)) + "\n"
}

// cmdMove moves the range below the destination line.
func cmdMove(c *Context) (string, error) {
	dest, err := c.destination()
	if err != nil {
		return "", err
	}
	size := c.End - c.Start + 1
	switch {
	case dest >= c.End:
		dest -= size
	case dest >= c.Start:
		return "", ErrMoveIntoSelf
	}
	lines := c.lineText(c.Start, c.End)
	if _, err := operator.Delete(c.Buffer(), operator.LineRange(c.Index(), c.Start, c.End)); err != nil {
		return "", err
	}
	if _, err := c.putAfter(dest, lines); err != nil {
		return "", err
	}
	c.MoveTo(c.Index().FirstNonBlank(dest + size))
	return reportLines(size, "lines moved"), nil
}

// cmdCopy copies the range below the destination line.
func cmdCopy(c *Context) (string, error) {
	dest, err := c.destination()
	if err != nil {
		return "", err
	}
	size := c.End - c.Start + 1
	if _, err := c.putAfter(dest, c.lineText(c.Start, c.End)); err != nil {
		return "", err
	}
	c.MoveTo(c.Index().FirstNonBlank(dest + size))
	return reportLines(size, "more lines"), nil
}

// cmdJoin joins the range, or count lines from its end. A single line
// joins with the next one; "!" keeps white space as it is.
func cmdJoin(c *Context) (string, error) {
	count, err := parseCount(c.Command.Argument)
	if err != nil {
		return "", c.usage(err)
	}
	n := c.End - c.Start + 1
	if count > 0 {
		c.Start, n = c.End, count
	}
	out, err := operator.Join(c.Buffer(), c.Start, n, !c.Command.Bang, c.Options())
	if engine.IsMotionFailure(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	c.MoveTo(out.Caret)
	return "", nil
}

// cmdShift runs :> and :<; each repeated character shifts once more.
func cmdShift(c *Context) (string, error) {
	count, err := parseCount(c.Command.Argument)
	if err != nil {
		return "", c.usage(err)
	}
	c.countLines(count)
	op := operator.OpIndent
	if c.Command.Name[0] == '<' {
		op = operator.OpOutdent
	}
	ctx := c.opContext()
	ctx.Amount = len(c.Command.Name)
	out, err := operator.Apply(ctx, op, operator.LineRange(c.Index(), c.Start, c.End))
	if err != nil {
		return "", err
	}
	c.MoveTo(c.Index().FirstNonBlank(c.End))
	return reportLines(out.Lines, fmt.Sprintf("lines %sed %s", c.Command.Name[:1], plural(ctx.Amount, "time"))), nil
}

var sortNumber = regexp.MustCompile(`-?\d+`)

// cmdSort sorts the range, the whole file by default. Flags: "i" ignores
// case, "n" sorts on the first number, "u" drops duplicates; "!" reverses.
func cmdSort(c *Context) (string, error) {
	var fold, numeric, unique bool
	for _, ch := range strings.TrimSpace(c.Command.Argument) {
		switch ch {
		case 'i':
			fold = true
		case 'n':
			numeric = true
		case 'u':
			unique = true
		case ' ', '\t':
		default:
			return "", c.usage(fmt.Errorf("%w: %s", engine.ErrInvalidArgument, c.Command.Argument))
		}
	}

	idx := c.Index()
	lines := make([]string, 0, c.End-c.Start+1)
	for l := c.Start; l <= c.End; l++ {
		lines = append(lines, idx.LineText(l))
	}

	key := func(s string) string {
		if fold {
			return strings.ToLower(s)
		}
		return s
	}
	compare := func(a, b string) int {
		return strings.Compare(key(a), key(b))
	}
	if numeric {
		number := func(s string) (int, bool) {
			m := sortNumber.FindString(s)
			if m == "" {
				return 0, false
			}
			n, err := strconv.Atoi(m)
			return n, err == nil
		}
		compare = func(a, b string) int {
			na, oka := number(a)
			nb, okb := number(b)
			switch {
			case !oka && !okb:
				return 0
			case !oka:
				return -1
			case !okb:
				return 1
			}
			return na - nb
		}
	}
	slices.SortStableFunc(lines, compare)
	if c.Command.Bang {
		slices.Reverse(lines)
	}
	if unique {
		lines = slices.CompactFunc(lines, func(a, b string) bool { return compare(a, b) == 0 })
	}

	start, end := idx.LineStart(c.Start), idx.LineEnd(c.End)
	buf := c.Buffer()
	if err := buf.Delete(start, end); err != nil {
		return "", err
	}
	if err := buf.Insert(start, strings.Join(lines, "\n")); err != nil {
		return "", err
	}
	c.MoveTo(c.Index().FirstNonBlank(c.Start))
	return "", nil
}

// cmdMark sets a mark at the first column of the last line of the range.
func cmdMark(c *Context) (string, error) {
	arg := strings.TrimSpace(c.Command.Argument)
	key, size := utf8.DecodeRuneInString(arg)
	if size != len(arg) {
		return "", c.usage(fmt.Errorf("%w: %s", engine.ErrArgumentForbidden, arg))
	}
	return "", c.state.Marks.Set(c.Path(), key, text.LogicalPosition{Line: c.End})
}

// cmdPrint returns the lines of the range.
func cmdPrint(c *Context) (string, error) {
	count, err := parseCount(c.Command.Argument)
	if err != nil {
		return "", c.usage(err)
	}
	c.countLines(count)
	idx := c.Index()
	lines := make([]string, 0, c.End-c.Start+1)
	for l := c.Start; l <= c.End; l++ {
		lines = append(lines, idx.LineText(l))
	}
	c.MoveTo(idx.FirstNonBlank(c.End))
	return strings.Join(lines, "\n"), nil
}

// cmdLineNumber prints the line count, or the number of the range's last
// line.
func cmdLineNumber(c *Context) (string, error) {
	if c.Command.Ranges.Len() == 0 {
		return strconv.Itoa(c.Index().LineCount()), nil
	}
	return strconv.Itoa(c.End + 1), nil
}
