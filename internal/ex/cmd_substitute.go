package ex

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/engine/tracking"
)

// Errors returned by :s and :g.
var (
	ErrConfirmUnsupported = errors.New("E475: Invalid argument: the c flag is not supported")
	ErrBadDelimiter       = errors.New("E146: Regular expressions can't be delimited by letters")
	ErrGlobalRecursive    = errors.New("E147: Cannot do :global recursive")
	ErrNoPreviousReplace  = errors.New("no previous substitute string")
)

// substFlags are the flags of one :s.
type substFlags struct {
	global    bool
	ignore    bool
	noIgnore  bool
	errorsOK  bool
	countOnly bool
	// useSearch takes the last search pattern instead of the last
	// substitute pattern (the r flag of :& and :s).
	useSearch bool
}

// parseSubstFlags reads "[&][flags] [count]". A leading "&" keeps the
// flags of the previous substitute.
func parseSubstFlags(s string, prev substFlags) (substFlags, int, error) {
	var f substFlags
	if strings.HasPrefix(s, "&") {
		f, s = prev, s[1:]
	}
	i := 0
loop:
	for ; i < len(s); i++ {
		switch s[i] {
		case 'g':
			f.global = !f.global
		case 'i':
			f.ignore, f.noIgnore = true, false
		case 'I':
			f.noIgnore, f.ignore = true, false
		case 'e':
			f.errorsOK = true
		case 'n':
			f.countOnly = true
		case 'r':
			f.useSearch = true
		case 'c':
			return f, 0, ErrConfirmUnsupported
		case 'p', '#', 'l':
			// Print flags; the caller sees the changed lines anyway.
		default:
			break loop
		}
	}
	count, err := parseCount(s[i:])
	return f, count, err
}

// validDelimiter reports whether r may delimit a pattern.
func validDelimiter(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '\\' && r != '"' && r != '|'
}

// cmdSubstitute runs :s/pat/rep/flags. Without a pattern it repeats the
// last substitute like :&.
func cmdSubstitute(c *Context) (string, error) {
	arg := c.Command.Argument
	delim, size := utf8.DecodeRuneInString(arg)
	if arg == "" || !validDelimiter(delim) || delim == '&' {
		return repeatSubstitute(c, search.RESubst, arg)
	}

	st := c.state.Search
	pattern, rest, closed := search.SplitCommand(arg[size:], delim)
	replacement, flagText := "", ""
	if closed {
		replacement, flagText, _ = search.SplitCommand(rest, delim)
	}
	if pattern == "" {
		p, ok := st.Pattern(search.RELast)
		if !ok {
			return "", ErrNoPreviousPattern
		}
		pattern = p
	} else {
		st.Save(search.REBoth, pattern)
	}
	prev, _ := st.Replacement()
	replacement = expandTilde(replacement, prev)
	st.SetReplacement(replacement)

	f, count, err := parseSubstFlags(strings.TrimLeft(flagText, " \t"), c.subst)
	if err != nil {
		return "", c.usage(err)
	}
	return substitute(c, pattern, replacement, f, count)
}

// cmdRepeatSubstitute is :&, which repeats the last :s with its pattern
// and replacement. "&&" keeps the flags.
func cmdRepeatSubstitute(c *Context) (string, error) {
	return repeatSubstitute(c, search.RESubst, c.Command.Argument)
}

// cmdRepeatWithSearch is :~, which repeats the last :s with the last
// used search pattern.
func cmdRepeatWithSearch(c *Context) (string, error) {
	return repeatSubstitute(c, search.RELast, c.Command.Argument)
}

func repeatSubstitute(c *Context, cat search.Category, flagText string) (string, error) {
	f, count, err := parseSubstFlags(strings.TrimSpace(flagText), c.subst)
	if err != nil {
		return "", c.usage(err)
	}
	st := c.state.Search
	if f.useSearch {
		cat = search.RELast
	}
	pattern, ok := st.Pattern(cat)
	if !ok {
		return "", ErrNoPreviousPattern
	}
	replacement, ok := st.Replacement()
	if !ok {
		return "", ErrNoPreviousReplace
	}
	if cat == search.RELast {
		st.Save(search.RESubst, pattern)
	}
	return substitute(c, pattern, replacement, f, count)
}

// expandTilde replaces each unescaped "~" with the previous replacement.
func expandTilde(repl, prev string) string {
	if !strings.Contains(repl, "~") {
		return repl
	}
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		switch {
		case repl[i] == '\\' && i+1 < len(repl):
			b.WriteString(repl[i : i+2])
			i++
		case repl[i] == '~':
			b.WriteString(prev)
		default:
			b.WriteByte(repl[i])
		}
	}
	return b.String()
}

// substitute replaces matches of pattern in the range.
func substitute(c *Context, pattern, replacement string, f substFlags, count int) (string, error) {
	c.subst = f
	if c.Options().GDefault {
		f.global = !f.global
	}
	c.countLines(count)

	var p *search.Pattern
	var err error
	switch {
	case f.ignore:
		p, err = search.Compile(pattern, true)
	case f.noIgnore:
		p, err = search.Compile(pattern, false)
	default:
		p, err = c.state.Search.Compile(pattern, c.Options())
	}
	if err != nil {
		return "", err
	}

	buf := c.Buffer()
	subs, lines, lastLine := 0, 0, -1
	end := c.End
	for l := c.Start; l <= end; l++ {
		idx := c.Index()
		if l >= idx.LineCount() {
			break
		}
		line := idx.LineText(l)
		matches := p.Submatches(line)
		if len(matches) == 0 {
			continue
		}
		if !f.global {
			matches = matches[:1]
		}
		subs += len(matches)
		lines++
		if f.countOnly {
			continue
		}

		start := idx.LineStart(l)
		added := 0
		for i := len(matches) - 1; i >= 0; i-- {
			m := matches[i]
			rep := expandReplacement(replacement, line, m)
			from, to := start+text.Offset(m[0][0]), start+text.Offset(m[0][1])
			if to > from {
				if err := buf.Delete(from, to); err != nil {
					return "", err
				}
			}
			if rep != "" {
				if err := buf.Insert(from, rep); err != nil {
					return "", err
				}
			}
			added += strings.Count(rep, "\n")
		}
		// Lines split off by the replacement are not searched again.
		l += added
		end += added
		lastLine = l
	}

	if subs == 0 {
		if f.errorsOK {
			return "", nil
		}
		return "", &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: pattern}
	}
	if f.countOnly {
		return fmt.Sprintf("%s on %s", plural(subs, "match"), plural(lines, "line")), nil
	}
	if lastLine >= 0 {
		c.MoveTo(c.Index().FirstNonBlank(lastLine))
	}
	if subs > 2 {
		return fmt.Sprintf("%s on %s", plural(subs, "substitution"), plural(lines, "line")), nil
	}
	return "", nil
}

// caseMode is a pending case change of the replacement.
type caseMode uint8

const (
	caseNone caseMode = iota
	caseUpper
	caseLower
)

func (m caseMode) apply(r rune) rune {
	switch m {
	case caseUpper:
		return unicode.ToUpper(r)
	case caseLower:
		return unicode.ToLower(r)
	}
	return r
}

// expandReplacement builds the replacement text for one match. groups[0]
// is the match; groups[n] is \n.
func expandReplacement(repl, line string, groups [][2]int) string {
	var b strings.Builder
	var once, all caseMode
	emit := func(s string) {
		for _, r := range s {
			switch {
			case once != caseNone:
				r = once.apply(r)
				once = caseNone
			default:
				r = all.apply(r)
			}
			b.WriteRune(r)
		}
	}
	group := func(n int) string {
		if n >= len(groups) || groups[n][0] < 0 {
			return ""
		}
		return line[groups[n][0]:groups[n][1]]
	}

	for i := 0; i < len(repl); i++ {
		ch := repl[i]
		if ch == '&' {
			emit(group(0))
			continue
		}
		if ch != '\\' || i+1 == len(repl) {
			emit(repl[i : i+1])
			continue
		}
		i++
		switch n := repl[i]; {
		case n >= '0' && n <= '9':
			emit(group(int(n - '0')))
		case n == 'u':
			once = caseUpper
		case n == 'l':
			once = caseLower
		case n == 'U':
			all = caseUpper
		case n == 'L':
			all = caseLower
		case n == 'E' || n == 'e':
			all = caseNone
		case n == 'r' || n == 'n':
			b.WriteByte('\n')
		case n == 't':
			b.WriteByte('\t')
		default:
			emit(repl[i : i+1])
		}
	}
	return b.String()
}

// cmdGlobal runs :g/pat/cmd on every matching line, and :v or :g! on
// every other line. The command defaults to :p.
func cmdGlobal(c *Context) (string, error) {
	if c.inGlobal {
		return "", ErrGlobalRecursive
	}
	invert := c.Command.Name[0] == 'v' || c.Command.Bang
	arg := c.Command.Argument
	delim, size := utf8.DecodeRuneInString(arg)
	if !validDelimiter(delim) {
		return "", ErrBadDelimiter
	}

	st := c.state.Search
	pattern, command, _ := search.SplitCommand(arg[size:], delim)
	if pattern == "" {
		p, ok := st.Pattern(search.RELast)
		if !ok {
			return "", ErrNoPreviousPattern
		}
		pattern = p
	} else {
		st.Save(search.REBoth, pattern)
	}
	p, err := st.Compile(pattern, c.Options())
	if err != nil {
		return "", err
	}

	idx := c.Index()
	var pending []int
	for l := c.Start; l <= c.End; l++ {
		if p.MatchString(idx.LineText(l)) != invert {
			pending = append(pending, l)
		}
	}
	if len(pending) == 0 {
		if invert {
			return "Pattern found in every line: " + pattern, nil
		}
		return "", &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: pattern}
	}
	if strings.TrimSpace(command) == "" {
		command = "p"
	}

	buf := c.Buffer()
	cancel := buf.Watch(func(ch tracking.Change) { followLines(pending, ch) })
	defer cancel()
	c.inGlobal = true
	defer func() { c.inGlobal = false }()

	var outs []string
	err = c.writeAction(func() error {
		for _, l := range pending {
			if l < 0 {
				continue
			}
			idx := c.Index()
			if l >= idx.LineCount() {
				continue
			}
			c.MoveTo(idx.LineStart(l))
			out, err := c.Run(command)
			if out != "" {
				outs = append(outs, out)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	return joinOutput(outs), err
}

// followLines renumbers pending lines after an edit. Deleted lines, and
// lines joined into the line above them, become -1.
func followLines(lines []int, ch tracking.Change) {
	before := ch.Before
	switch ch.Type {
	case tracking.ChangeInsert:
		n := strings.Count(ch.NewText, "\n")
		if n == 0 {
			return
		}
		for i, l := range lines {
			if l >= 0 && before.LineStart(l) >= ch.Start {
				lines[i] = l + n
			}
		}
	case tracking.ChangeDelete:
		n := strings.Count(ch.OldText, "\n")
		if n == 0 {
			return
		}
		end := ch.End()
		// A delete that starts inside a line joins the line at end to it.
		joins := before.LineStart(before.LineOf(ch.Start)) != ch.Start
		for i, l := range lines {
			if l < 0 {
				continue
			}
			start := before.LineStart(l)
			switch {
			case start == end && joins:
				lines[i] = -1
			case start >= end:
				lines[i] = l - n
			case start > ch.Start:
				lines[i] = -1
			case start == ch.Start && before.LineEndWithNewline(l) <= end:
				lines[i] = -1
			}
		}
	}
}
