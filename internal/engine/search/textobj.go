package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
)

// Object is a text object kind, selected with "i" or "a" plus a key.
type Object uint8

const (
	ObjWord Object = iota
	ObjBigWord
	ObjSentence
	ObjParagraph
	ObjParen
	ObjBracket
	ObjBrace
	ObjAngle
	ObjDoubleQuote
	ObjSingleQuote
	ObjBackQuote
	ObjTag
)

var objectKeys = map[rune]Object{
	'w': ObjWord, 'W': ObjBigWord, 's': ObjSentence, 'p': ObjParagraph,
	'(': ObjParen, ')': ObjParen, 'b': ObjParen,
	'[': ObjBracket, ']': ObjBracket,
	'{': ObjBrace, '}': ObjBrace, 'B': ObjBrace,
	'<': ObjAngle, '>': ObjAngle,
	'"': ObjDoubleQuote, '\'': ObjSingleQuote, '`': ObjBackQuote,
	't': ObjTag,
}

// ObjectFor returns the object selected by key.
func ObjectFor(key rune) (Object, bool) {
	o, ok := objectKeys[key]
	return o, ok
}

// Linewise reports whether the object always selects whole lines.
func (o Object) Linewise() bool { return o == ObjParagraph }

func (o Object) pair() (open, close rune) {
	switch o {
	case ObjParen:
		return '(', ')'
	case ObjBracket:
		return '[', ']'
	case ObjBrace:
		return '{', '}'
	case ObjAngle:
		return '<', '>'
	case ObjDoubleQuote:
		return '"', '"'
	case ObjSingleQuote:
		return '\'', '\''
	case ObjBackQuote:
		return '`', '`'
	}
	return 0, 0
}

// Select returns the range of obj around ctx.Caret. around selects the "a"
// variant. Counted selections fail as a whole when fewer than Count units
// exist. Character ranges are [start, end); linewise ranges end at the last
// line's end, before its newline.
func Select(ctx *motion.Context, obj Object, around bool) (text.TextRange, error) {
	count := ctx.Count
	if count < 1 {
		count = 1
	}
	var (
		r  text.TextRange
		ok bool
	)
	switch obj {
	case ObjWord, ObjBigWord:
		r, ok = selectWord(ctx, count, around, obj == ObjBigWord)
	case ObjSentence:
		r, ok = selectSentence(ctx.Index, ctx.Caret, count, around)
	case ObjParagraph:
		r, ok = selectParagraph(ctx.Index, ctx.Caret, count, around)
	case ObjParen, ObjBracket, ObjBrace, ObjAngle:
		r, ok = selectBlock(ctx.Index, ctx.Caret, obj, count, around)
	case ObjDoubleQuote, ObjSingleQuote, ObjBackQuote:
		r, ok = selectQuote(ctx.Index, ctx.Caret, obj, count, around)
	case ObjTag:
		r, ok = selectTag(ctx.Index, ctx.Caret, count, around)
	}
	if !ok {
		return text.TextRange{}, engine.ErrMotionFailed
	}
	return r, nil
}

type run struct {
	start, end text.Offset
	class      text.CharClass
}

// lineRuns splits a line into runs of one character class.
func lineRuns(idx *text.Index, line int, cls text.Classifier, big bool) []run {
	s := idx.Text()
	ls, le := idx.LineStart(line), idx.LineEnd(line)
	var runs []run
	for o := ls; o < le; {
		r, size := utf8.DecodeRuneInString(s[o:])
		c := cls.Class(r, big)
		if n := len(runs); n > 0 && runs[n-1].class == c {
			runs[n-1].end = o + text.Offset(size)
		} else {
			runs = append(runs, run{start: o, end: o + text.Offset(size), class: c})
		}
		o += text.Offset(size)
	}
	return runs
}

// selectWord implements iw, aw, iW and aW within the caret's line. aw takes
// trailing whitespace, or leading whitespace when there is none and it is
// not indentation.
func selectWord(ctx *motion.Context, count int, around, big bool) (text.TextRange, bool) {
	idx := ctx.Index
	line := idx.LineOf(ctx.Caret)
	runs := lineRuns(idx, line, ctx.Classifier, big)
	if len(runs) == 0 {
		return text.TextRange{}, false
	}
	caret := ctx.Caret
	if last := runs[len(runs)-1].end; caret >= last {
		caret = last - 1
	}
	i := sort.Search(len(runs), func(k int) bool { return runs[k].end > caret })

	if !around {
		j := i + count - 1
		if j >= len(runs) {
			return text.TextRange{}, false
		}
		return text.NewRange(runs[i].start, runs[j].end, text.Character), true
	}

	start := runs[i].start
	j := i
	if runs[i].class == text.ClassBlank {
		for n := 0; n < count; n++ {
			if j < len(runs) && runs[j].class == text.ClassBlank {
				j++
			}
			if j >= len(runs) {
				return text.TextRange{}, false
			}
			j++
		}
		return text.NewRange(start, runs[j-1].end, text.Character), true
	}

	trailing := false
	for n := 0; n < count; n++ {
		if j >= len(runs) {
			return text.TextRange{}, false
		}
		j++
		trailing = j < len(runs) && runs[j].class == text.ClassBlank
		if trailing {
			j++
		}
	}
	if !trailing && i > 0 && runs[i-1].class == text.ClassBlank && runs[i-1].start > idx.LineStart(line) {
		start = runs[i-1].start
	}
	return text.NewRange(start, runs[j-1].end, text.Character), true
}

// selectSentence implements is and as. The whitespace after a sentence
// belongs to "as"; with the caret inside that whitespace "is" selects it.
func selectSentence(idx *text.Index, caret text.Offset, count int, around bool) (text.TextRange, bool) {
	starts := motion.SentenceStarts(idx)
	if len(starts) == 0 || idx.Len() == 0 {
		return text.TextRange{}, false
	}
	s := idx.Text()
	end := func(i int) text.Offset {
		if i+1 < len(starts) {
			return starts[i+1]
		}
		return text.Offset(len(s))
	}
	trimmed := func(i int) text.Offset {
		e := end(i)
		for e > starts[i] && strings.ContainsRune(" \t\n", rune(s[e-1])) {
			e--
		}
		return e
	}

	i := sort.Search(len(starts), func(k int) bool { return starts[k] > caret }) - 1
	if i < 0 {
		i = 0
	}
	if caret >= trimmed(i) && trimmed(i) < end(i) {
		// Caret in the gap after sentence i.
		gap := trimmed(i)
		if around {
			if i+count >= len(starts) {
				return text.TextRange{}, false
			}
			return text.NewRange(gap, trimmed(i+count), text.Character), true
		}
		if count == 1 {
			return text.NewRange(gap, end(i), text.Character), true
		}
		if i+count-1 >= len(starts) {
			return text.TextRange{}, false
		}
		return text.NewRange(gap, trimmed(i+count-1), text.Character), true
	}

	j := i + count - 1
	if j >= len(starts) {
		return text.TextRange{}, false
	}
	if around {
		if end(j) == trimmed(j) && i > 0 && trimmed(i-1) < starts[i] {
			return text.NewRange(trimmed(i-1), end(j), text.Character), true
		}
		return text.NewRange(starts[i], end(j), text.Character), true
	}
	return text.NewRange(starts[i], trimmed(j), text.Character), true
}

// selectParagraph implements ip and ap. Consecutive blank lines form one
// unit; ap adds the following blank run, or the preceding one at the end
// of the buffer.
func selectParagraph(idx *text.Index, caret text.Offset, count int, around bool) (text.TextRange, bool) {
	n := idx.LineCount()
	line := idx.LineOf(caret)
	blank := idx.IsBlankLine

	// runEnd returns the last line of the run starting at l.
	runEnd := func(l int) int {
		b := blank(l)
		for l+1 < n && blank(l+1) == b {
			l++
		}
		return l
	}
	first := line
	for first > 0 && blank(first-1) == blank(line) {
		first--
	}

	last := first - 1
	units := count
	if around {
		units = 2 * count
	}
	for u := 0; u < units; u++ {
		if last+1 >= n {
			if around && u == units-1 && !blank(line) {
				// No blank run after the paragraph: take the one before.
				for first > 0 && blank(first-1) {
					first--
				}
				break
			}
			return text.TextRange{}, false
		}
		last = runEnd(last + 1)
	}
	return text.NewRange(idx.LineStart(first), idx.LineEnd(last), text.Line), true
}

// selectBlock implements the bracket objects on raw characters across lines.
func selectBlock(idx *text.Index, caret text.Offset, obj Object, count int, around bool) (text.TextRange, bool) {
	s := idx.Text()
	openCh, closeCh := obj.pair()
	op, cl := byte(openCh), byte(closeCh)
	if len(s) == 0 {
		return text.TextRange{}, false
	}
	if int(caret) >= len(s) {
		caret = text.Offset(len(s) - 1)
	}

	open := -1
	pos := int(caret)
	switch s[pos] {
	case op:
		open = pos
	case cl:
		pos--
	}
	for level := 0; level < count; level++ {
		if level > 0 || open < 0 {
			open = -1
			depth := 0
			for k := pos; k >= 0; k-- {
				if s[k] == cl {
					depth++
				} else if s[k] == op {
					if depth == 0 {
						open = k
						break
					}
					depth--
				}
			}
			if open < 0 {
				return text.TextRange{}, false
			}
		}
		pos = open - 1
	}

	closeAt := -1
	depth := 0
	for k := open + 1; k < len(s); k++ {
		if s[k] == op {
			depth++
		} else if s[k] == cl {
			if depth == 0 {
				closeAt = k
				break
			}
			depth--
		}
	}
	if closeAt < 0 {
		return text.TextRange{}, false
	}
	if around {
		return text.NewRange(text.Offset(open), text.Offset(closeAt+1), text.Character), true
	}

	start, end := text.Offset(open+1), text.Offset(closeAt)
	if int(start) < len(s) && s[start] == '\n' && start < end {
		start++
	}
	closeLine := idx.LineOf(end)
	if closeLine > idx.LineOf(text.Offset(open)) && strings.TrimLeft(s[idx.LineStart(closeLine):end], " \t") == "" {
		end = idx.LineStart(closeLine)
		if start < end && start == idx.LineStart(idx.LineOf(start)) {
			// Whole lines between the brackets.
			return text.NewRange(start, idx.LineEnd(closeLine-1), text.Line), true
		}
	}
	if end < start {
		end = start
	}
	return text.NewRange(start, end, text.Character), true
}

// selectQuote implements the quote objects on the caret's line. Quotes
// preceded by a backslash do not count.
func selectQuote(idx *text.Index, caret text.Offset, obj Object, count int, around bool) (text.TextRange, bool) {
	q, _ := obj.pair()
	line := idx.LineOf(caret)
	ls, le := idx.LineStart(line), idx.LineEnd(line)
	s := idx.Text()

	var quotes []text.Offset
	for o := ls; o < le; o++ {
		if rune(s[o]) != q {
			continue
		}
		bs := 0
		for k := o - 1; k >= ls && s[k] == '\\'; k-- {
			bs++
		}
		if bs%2 == 0 {
			quotes = append(quotes, o)
		}
	}

	pair := -1
	for k, o := range quotes {
		if o == caret {
			pair = k - k%2
			break
		}
	}
	if pair < 0 {
		before := sort.Search(len(quotes), func(k int) bool { return quotes[k] > caret })
		if before%2 == 1 {
			pair = before - 1
		} else {
			pair = before
		}
	}
	if pair < 0 || pair+1 >= len(quotes) {
		return text.TextRange{}, false
	}
	open, closeAt := quotes[pair], quotes[pair+1]

	if !around {
		if count > 1 {
			return text.NewRange(open, closeAt+1, text.Character), true
		}
		return text.NewRange(open+1, closeAt, text.Character), true
	}
	start, end := open, closeAt+1
	for end < le && text.IsBlank(rune(s[end])) {
		end++
	}
	if end == closeAt+1 {
		for start > ls && text.IsBlank(rune(s[start-1])) {
			start--
		}
	}
	return text.NewRange(start, end, text.Character), true
}

var tagPattern = regexp.MustCompile(`<(/?)([^\s/>]+)[^>]*?(/?)>`)

type tagPair struct {
	openStart, openEnd, closeStart, closeEnd text.Offset
}

// selectTag implements it and at. The count picks the N-th enclosing
// element.
func selectTag(idx *text.Index, caret text.Offset, count int, around bool) (text.TextRange, bool) {
	s := idx.Text()
	type openTag struct {
		name       string
		start, end int
	}
	var (
		stack []openTag
		pairs []tagPair
	)
	for _, m := range tagPattern.FindAllStringSubmatchIndex(s, -1) {
		closing := m[3] > m[2]
		selfClosing := m[7] > m[6]
		name := s[m[4]:m[5]]
		switch {
		case selfClosing:
		case !closing:
			stack = append(stack, openTag{name: name, start: m[0], end: m[1]})
		default:
			for k := len(stack) - 1; k >= 0; k-- {
				if stack[k].name == name {
					pairs = append(pairs, tagPair{
						openStart:  text.Offset(stack[k].start),
						openEnd:    text.Offset(stack[k].end),
						closeStart: text.Offset(m[0]),
						closeEnd:   text.Offset(m[1]),
					})
					stack = stack[:k]
					break
				}
			}
		}
	}

	var enclosing []tagPair
	for _, p := range pairs {
		if p.openStart <= caret && caret < p.closeEnd {
			enclosing = append(enclosing, p)
		}
	}
	sort.Slice(enclosing, func(a, b int) bool { return enclosing[a].openStart > enclosing[b].openStart })
	if count > len(enclosing) {
		return text.TextRange{}, false
	}
	p := enclosing[count-1]
	if around {
		return text.NewRange(p.openStart, p.closeEnd, text.Character), true
	}
	return text.NewRange(p.openEnd, p.closeStart, text.Character), true
}
