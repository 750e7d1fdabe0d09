package ex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/mark"
)

// ErrNoPreviousPattern is returned by "\/", "\?" and "//" before any search.
var ErrNoPreviousPattern = errors.New("E35: No previous regular expression")

// AddressKind says how an address finds its line.
type AddressKind uint8

const (
	// AddrCurrent is "." or an address made only of offsets.
	AddrCurrent AddressKind = iota
	// AddrLine is an absolute line number.
	AddrLine
	// AddrLast is "$".
	AddrLast
	// AddrMark is "'x".
	AddrMark
	// AddrSearch is one or more "/pat/" or "?pat?" searches.
	AddrSearch
)

// SearchStep is one search of a search address. Last is '/', '?' or '&'
// for "\/", "\?" and "\&", which reuse a remembered pattern.
type SearchStep struct {
	Pattern  string
	Backward bool
	Last     rune
}

// Address is one line specifier of a range.
type Address struct {
	Kind AddressKind
	// Line is the 1-based line of an AddrLine address; 0 means "before the
	// first line".
	Line   int
	Mark   rune
	Steps  []SearchStep
	Offset int
	// Move is set when the address is followed by ';', which makes it the
	// current line for the addresses after it.
	Move bool
}

// Ranges is the parsed range of one command.
type Ranges struct {
	Addresses []Address
}

// Len returns the number of addresses.
func (r Ranges) Len() int { return len(r.Addresses) }

// LineEnv is what resolving addresses needs.
type LineEnv struct {
	Index   *text.Index
	Marks   *mark.Store
	Path    string
	Search  *search.State
	Options *config.Options
	// Line is the current line.
	Line int
	// Move is called when a ';' moves the current line.
	Move func(line int)
}

// Lines resolves the range to 0-based first and last lines. Line -1 stands
// for address 0. Without addresses both are the current line; with one,
// both are that line; with more, the last two count.
func (r Ranges) Lines(env *LineEnv) (start, end int, err error) {
	start = env.Line
	end = start
	lastZero := false
	for _, a := range r.Addresses {
		start = end
		end, err = a.line(env, lastZero)
		if err != nil {
			return 0, 0, err
		}
		if a.Move {
			env.Line = end
			if env.Move != nil {
				env.Move(end)
			}
		}
		lastZero = end < 0
	}
	if len(r.Addresses) == 1 {
		start = end
	}
	if start > end {
		start, end = end, start
	}
	return start, end, nil
}

func (a Address) line(env *LineEnv, lastZero bool) (int, error) {
	var line int
	switch a.Kind {
	case AddrCurrent:
		line = env.Line
	case AddrLine:
		line = a.Line - 1
	case AddrLast:
		line = env.Index.LineCount() - 1
	case AddrMark:
		m, err := env.Marks.Require(env.Path, a.Mark)
		if err != nil {
			return 0, err
		}
		line = m.Line
	case AddrSearch:
		from := env.Line
		if lastZero {
			from = -1
		}
		var err error
		for _, step := range a.Steps {
			if from, err = searchLine(env, step, from); err != nil {
				return 0, err
			}
		}
		line = from
	}
	return line + a.Offset, nil
}

// searchLine finds the next line after (or before) from matching step.
func searchLine(env *LineEnv, step SearchStep, from int) (int, error) {
	pattern := step.Pattern
	switch {
	case step.Last == '&':
		p, ok := env.Search.Pattern(search.RESubst)
		if !ok {
			return 0, ErrNoPreviousPattern
		}
		pattern = p
	case step.Last != 0 || pattern == "":
		p, ok := env.Search.Pattern(search.RELast)
		if !ok {
			return 0, ErrNoPreviousPattern
		}
		pattern = p
	default:
		env.Search.Save(search.RESearch, pattern)
	}
	p, err := env.Search.Compile(pattern, env.Options)
	if err != nil {
		return 0, err
	}
	dir := 1
	if step.Backward {
		dir = -1
	}
	n := env.Index.LineCount()
	wrap := env.Options == nil || env.Options.WrapScan
	for i := 1; i <= n; i++ {
		l := from + i*dir
		if l < 0 || l >= n {
			if !wrap {
				break
			}
			l = ((l % n) + n) % n
		}
		if p.MatchString(env.Index.LineText(l)) {
			return l, nil
		}
	}
	return 0, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: pattern}
}

// ParseRange reads the range at the start of s and returns the rest.
func ParseRange(s string) (Ranges, string, error) {
	var r Ranges
	i := 0
	skip := func() {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
	}
	for {
		skip()
		if i >= len(s) {
			break
		}
		if len(r.Addresses) == 0 && s[i] == '%' {
			i++
			last := Address{Kind: AddrLast}
			parseOffsets(s, &i, &last)
			r.Addresses = append(r.Addresses, Address{Kind: AddrLine, Line: 1}, last)
		} else {
			a, found, err := parseAddress(s, &i)
			if err != nil {
				return r, s[i:], err
			}
			if !found {
				if s[i] != ',' && s[i] != ';' {
					break
				}
				// ",5" starts at the current line.
				a = Address{Kind: AddrCurrent}
			}
			r.Addresses = append(r.Addresses, a)
		}
		skip()
		if i >= len(s) || (s[i] != ',' && s[i] != ';') {
			break
		}
		r.Addresses[len(r.Addresses)-1].Move = s[i] == ';'
		i++
		skip()
		if i >= len(s) || !startsAddress(s[i]) {
			// "5," and "5;" end at the current line.
			r.Addresses = append(r.Addresses, Address{Kind: AddrCurrent})
			break
		}
	}
	return r, s[i:], nil
}

func startsAddress(c byte) bool {
	return strings.IndexByte("0123456789.$'/?\\+-,;", c) >= 0
}

// parseAddress reads one address with its offsets.
func parseAddress(s string, i *int) (Address, bool, error) {
	var a Address
	found := true
	switch c := s[*i]; {
	case c >= '0' && c <= '9':
		a.Kind = AddrLine
		a.Line = readNumber(s, i)
	case c == '.':
		a.Kind = AddrCurrent
		*i++
	case c == '$':
		a.Kind = AddrLast
		*i++
	case c == '\'':
		if *i+1 >= len(s) {
			return a, false, engine.NewUsageError("", engine.ErrInvalidRange)
		}
		a.Kind = AddrMark
		a.Mark = rune(s[*i+1])
		*i += 2
	case c == '/' || c == '?' || c == '\\':
		a.Kind = AddrSearch
		for *i < len(s) {
			step, ok, err := parseSearchStep(s, i)
			if err != nil {
				return a, false, err
			}
			if !ok {
				break
			}
			a.Steps = append(a.Steps, step)
		}
	case c == '+' || c == '-':
		a.Kind = AddrCurrent
	default:
		found = false
	}
	if !found {
		return a, false, nil
	}
	parseOffsets(s, i, &a)
	return a, true, nil
}

func parseSearchStep(s string, i *int) (SearchStep, bool, error) {
	c := s[*i]
	if c == '\\' {
		if *i+1 >= len(s) || strings.IndexByte("/?&", s[*i+1]) < 0 {
			return SearchStep{}, false, engine.NewUsageError("", fmt.Errorf("%w: %s", engine.ErrInvalidRange, s[*i:]))
		}
		step := SearchStep{Last: rune(s[*i+1]), Backward: s[*i+1] == '?'}
		*i += 2
		return step, true, nil
	}
	if c != '/' && c != '?' {
		return SearchStep{}, false, nil
	}
	pattern, rest, _ := search.SplitCommand(s[*i+1:], rune(c))
	*i = len(s) - len(rest)
	return SearchStep{Pattern: pattern, Backward: c == '?'}, true, nil
}

// parseOffsets reads "+N", "-N", bare "+" or "-", and digits following an
// address, which add to it.
func parseOffsets(s string, i *int, a *Address) {
	for *i < len(s) {
		c := s[*i]
		switch {
		case c == '+' || c == '-':
			*i++
			n := 1
			if *i < len(s) && s[*i] >= '0' && s[*i] <= '9' {
				n = readNumber(s, i)
			}
			if c == '-' {
				n = -n
			}
			a.Offset += n
		case c >= '0' && c <= '9':
			a.Offset += readNumber(s, i)
		default:
			return
		}
	}
}

func readNumber(s string, i *int) int {
	n := 0
	for *i < len(s) && s[*i] >= '0' && s[*i] <= '9' {
		n = n*10 + int(s[*i]-'0')
		*i++
	}
	return n
}
