package text

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CharClass groups runes the way word motions see them.
type CharClass uint8

const (
	ClassBlank CharClass = iota
	ClassPunctuation
	ClassWord
)

// Classifier decides which runes are keyword characters.
type Classifier struct {
	// Extra holds runes added to the keyword set (from 'iskeyword').
	Extra map[rune]bool
}

// DefaultClassifier treats letters, digits and underscore as keyword runes.
var DefaultClassifier = Classifier{}

// IsKeyword reports whether r is a keyword rune.
func (c Classifier) IsKeyword(r rune) bool {
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	if c.Extra != nil && c.Extra[r] {
		return true
	}
	// Non-ASCII symbols other than punctuation behave as words in Vim.
	return r >= 0x100 && !unicode.IsSpace(r) && !unicode.IsPunct(r) && !unicode.IsSymbol(r)
}

// Class returns r's class. With bigWord every non-blank rune is a word rune.
func (c Classifier) Class(r rune, bigWord bool) CharClass {
	if unicode.IsSpace(r) {
		return ClassBlank
	}
	if bigWord || c.IsKeyword(r) {
		return ClassWord
	}
	return ClassPunctuation
}

// ParseKeywordSpec parses a simplified 'iskeyword' value such as "@,48-57,_,-".
// "@" (all letters) is implied; numbers are code points; "a-b" is a range.
func ParseKeywordSpec(spec string) Classifier {
	extra := make(map[rune]bool)
	for _, part := range strings.Split(spec, ",") {
		switch {
		case part == "" || part == "@":
			continue
		case len(part) > 2 && strings.Contains(part[1:], "-"):
			i := strings.Index(part[1:], "-") + 1
			lo, hi := keywordBound(part[:i]), keywordBound(part[i+1:])
			for r := lo; r >= 0 && r <= hi; r++ {
				extra[r] = true
			}
		default:
			extra[keywordBound(part)] = true
		}
	}
	return Classifier{Extra: extra}
}

func keywordBound(s string) rune {
	if n, err := strconv.Atoi(s); err == nil && len(s) > 1 {
		return rune(n)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
