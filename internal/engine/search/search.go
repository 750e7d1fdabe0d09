package search

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
)

// Result is a search motion together with the way an operator reads it.
type Result struct {
	Motion motion.Motion
	Type   motion.Type
	// Match is the [start, end) span of the match that was found.
	Match [2]text.Offset
	// Wrapped is set when the search continued from the other end.
	Wrapped bool
}

// Find returns the count-th match of p from "from" in dir. Forward searches
// need a match starting after from; backward searches one starting before.
func Find(idx *text.Index, p *Pattern, from text.Offset, dir Direction, count int, wrap bool) ([2]text.Offset, bool, error) {
	matches := p.Matches(idx.Text())
	if len(matches) == 0 {
		return [2]text.Offset{}, false, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: p.Source}
	}
	if count < 1 {
		count = 1
	}
	wrapped := false
	pos := int(from)
	i := -1
	for n := 0; n < count; n++ {
		if dir == Forward {
			i = sort.Search(len(matches), func(k int) bool { return matches[k][0] > pos })
			if i == len(matches) {
				if !wrap {
					return [2]text.Offset{}, false, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: p.Source}
				}
				i, wrapped = 0, true
			}
		} else {
			i = sort.Search(len(matches), func(k int) bool { return matches[k][0] >= pos }) - 1
			if i < 0 {
				if !wrap {
					return [2]text.Offset{}, false, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: p.Source}
				}
				i, wrapped = len(matches)-1, true
			}
		}
		pos = matches[i][0]
	}
	m := matches[i]
	return [2]text.Offset{text.Offset(m[0]), text.Offset(m[1])}, wrapped, nil
}

// Search runs a "/" or "?" command. An empty pattern reuses the last one.
// The pattern, direction and offset become the new defaults for "n".
func (s *State) Search(ctx *motion.Context, pattern string, dir Direction, off Offset) (Result, error) {
	if pattern == "" {
		last, ok := s.Pattern(RELast)
		if !ok {
			return Result{}, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: ""}
		}
		pattern = last
	}
	s.Save(RESearch, pattern)
	s.Dir, s.Offset = dir, off
	return s.run(ctx, pattern, dir, off)
}

// Next repeats the last search, in the opposite direction when reverse is set.
func (s *State) Next(ctx *motion.Context, reverse bool) (Result, error) {
	pattern, ok := s.Pattern(RELast)
	if !ok {
		return Result{}, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: ""}
	}
	dir := s.Dir
	if reverse {
		dir = dir.Reverse()
	}
	s.Highlight = true
	return s.run(ctx, pattern, dir, s.Offset)
}

// Star searches for the keyword under or after the caret, starting from the
// word's beginning. whole wraps the word in \< and \>.
func (s *State) Star(ctx *motion.Context, dir Direction, whole bool) (Result, error) {
	word, start, keyword := WordUnderCaret(ctx.Index, ctx.Caret, ctx.Classifier)
	if word == "" {
		return Result{}, engine.NewUsageError("", errNoIdentifier)
	}
	pattern := EscapePattern(word)
	if whole && keyword {
		pattern = `\<` + pattern + `\>`
	}
	s.Save(RESearch, pattern)
	s.Dir, s.Offset = dir, Offset{}

	// Star searches ignore smartcase.
	opts := *ctxOptions(ctx)
	opts.SmartCase = false
	sub := *ctx
	sub.Options = &opts
	sub.Caret = start
	return s.run(&sub, pattern, dir, Offset{})
}

// Match returns the count-th match of the last search pattern in dir, as
// gn and gN select it. A match under the caret counts as the first unless
// skip is set, which moves on from a match already selected.
func (s *State) Match(ctx *motion.Context, dir Direction, skip bool) ([2]text.Offset, error) {
	pattern, ok := s.Pattern(RELast)
	if !ok {
		return [2]text.Offset{}, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: ""}
	}
	opts := ctxOptions(ctx)
	p, err := s.Compile(pattern, opts)
	if err != nil {
		return [2]text.Offset{}, err
	}
	matches := p.Matches(ctx.Index.Text())
	if len(matches) == 0 {
		return [2]text.Offset{}, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: p.Source}
	}
	caret := int(ctx.Caret)
	var i int
	if dir == Forward {
		i = sort.Search(len(matches), func(k int) bool {
			if skip {
				return matches[k][0] > caret
			}
			return matches[k][1] > caret || matches[k][0] >= caret
		})
	} else {
		i = sort.Search(len(matches), func(k int) bool {
			if skip {
				return matches[k][0] >= caret
			}
			return matches[k][0] > caret
		}) - 1
	}
	i += int(dir) * (max(ctx.Count, 1) - 1)
	if i < 0 || i >= len(matches) {
		if !opts.WrapScan {
			return [2]text.Offset{}, &engine.NotFoundError{Kind: engine.NotFoundPattern, Name: p.Source}
		}
		i = (i%len(matches) + len(matches)) % len(matches)
	}
	s.Highlight = true
	m := matches[i]
	return [2]text.Offset{text.Offset(m[0]), text.Offset(m[1])}, nil
}

func (s *State) run(ctx *motion.Context, pattern string, dir Direction, off Offset) (Result, error) {
	opts := ctxOptions(ctx)
	p, err := s.Compile(pattern, opts)
	if err != nil {
		return Result{}, err
	}
	idx := ctx.Index
	from := searchStart(idx, ctx.Caret, dir, off)
	m, wrapped, err := Find(idx, p, from, dir, ctx.Count, opts.WrapScan)
	if err != nil {
		return Result{}, err
	}
	res := Result{Match: m, Wrapped: wrapped, Type: motion.Exclusive}
	res.Motion, res.Type = applyOffset(idx, m, off)
	return res, nil
}

// searchStart compensates for an offset so "n" does not find the match
// the caret was placed relative to.
func searchStart(idx *text.Index, caret text.Offset, dir Direction, off Offset) text.Offset {
	s := idx.Text()
	switch off.Kind {
	case OffsetLine:
		line := idx.ClampLine(idx.LineOf(caret) - off.N)
		if dir == Forward {
			return idx.LineEnd(line)
		}
		return idx.LineStart(line)
	case OffsetStart:
		o := caret
		for n := off.N; n < 0; n++ {
			o = text.NextGrapheme(s, o, text.Offset(len(s)))
		}
		for n := off.N; n > 0; n-- {
			o = text.PrevGrapheme(s, o, 0)
		}
		return o
	default:
		return caret
	}
}

func applyOffset(idx *text.Index, m [2]text.Offset, off Offset) (motion.Motion, motion.Type) {
	s := idx.Text()
	limit := text.Offset(len(s))
	step := func(o text.Offset, n int) text.Offset {
		for ; n > 0; n-- {
			o = text.NextGrapheme(s, o, limit)
		}
		for ; n < 0; n++ {
			o = text.PrevGrapheme(s, o, 0)
		}
		return o
	}
	switch off.Kind {
	case OffsetLine:
		line := idx.ClampLine(idx.LineOf(m[0]) + off.N)
		return motion.To(idx.LineStart(line)), motion.Linewise
	case OffsetEnd:
		end := m[0]
		if m[1] > m[0] {
			end = text.PrevGrapheme(s, m[1], idx.LineStart(idx.LineOf(m[1]-1)))
		}
		return motion.To(step(end, off.N)), motion.Inclusive
	case OffsetStart:
		return motion.To(step(m[0], off.N)), motion.Exclusive
	default:
		return motion.To(m[0]), motion.Exclusive
	}
}

// WordUnderCaret returns the keyword under or after the caret on its line.
// Without a keyword it falls back to the non-blank run. keyword reports
// which of the two was found.
func WordUnderCaret(idx *text.Index, caret text.Offset, cls text.Classifier) (word string, start text.Offset, keyword bool) {
	line := idx.LineOf(caret)
	ls, le := idx.LineStart(line), idx.LineEnd(line)
	s := idx.Text()

	scan := func(match func(rune) bool) (text.Offset, text.Offset, bool) {
		o := caret
		if caret < le && match(idx.RuneAt(caret)) {
			for o > ls {
				r, size := utf8.DecodeLastRuneInString(s[ls:o])
				if !match(r) {
					break
				}
				o -= text.Offset(size)
			}
		}
		for o < le && !match(idx.RuneAt(o)) {
			_, size := utf8.DecodeRuneInString(s[o:])
			o += text.Offset(size)
		}
		if o >= le {
			return 0, 0, false
		}
		e := o
		for e < le && match(idx.RuneAt(e)) {
			_, size := utf8.DecodeRuneInString(s[e:])
			e += text.Offset(size)
		}
		return o, e, true
	}

	if st, e, ok := scan(cls.IsKeyword); ok {
		return s[st:e], st, true
	}
	if st, e, ok := scan(func(r rune) bool { return !text.IsSpace(r) }); ok {
		return s[st:e], st, false
	}
	return "", 0, false
}

// EscapePattern escapes the characters that are special in a magic pattern.
func EscapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\/.*$^~[`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var errNoIdentifier = errors.New("E348: No string under cursor")

func ctxOptions(ctx *motion.Context) *config.Options {
	if ctx.Options == nil {
		d := config.Defaults()
		ctx.Options = &d
	}
	return ctx.Options
}
