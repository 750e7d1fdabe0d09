package expr

import (
	"fmt"
	"strings"
)

// TokenType is the type of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenNumber   // 42, 0x2a, 0b101
	TokenString   // "esc\n" or 'lit'
	TokenIdent    // name, g:name, toupper
	TokenOption   // &tabstop
	TokenRegister // @a

	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
	TokenComma    // ,
	TokenColon    // :
	TokenQuestion // ?

	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenDot     // . or ..
	TokenNot     // !
	TokenAnd     // &&
	TokenOr      // ||

	// Comparisons carry their #/? suffix in Literal.
	TokenCompare
)

// Token is one lexical token. Pos is the byte offset of its first character.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q", t.Literal)
}

// scopes are the one-letter prefixes that make "x:name" a variable.
const scopes = "gslvbwta"

// Lexer tokenizes an expression.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Offset returns the position after the last token read.
func (l *Lexer) Offset() int { return l.pos }

func (l *Lexer) peekAt(i int) byte {
	if l.pos+i >= len(l.input) {
		return 0
	}
	return l.input[l.pos+i]
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
	tok := Token{Pos: l.pos}
	if l.pos >= len(l.input) {
		return tok
	}
	ch := l.input[l.pos]

	single := func(t TokenType) Token {
		tok.Type, tok.Literal = t, string(ch)
		l.pos++
		return tok
	}

	switch ch {
	case '(':
		return single(TokenLParen)
	case ')':
		return single(TokenRParen)
	case '[':
		return single(TokenLBracket)
	case ']':
		return single(TokenRBracket)
	case ',':
		return single(TokenComma)
	case ':':
		return single(TokenColon)
	case '?':
		return single(TokenQuestion)
	case '+':
		return single(TokenPlus)
	case '-':
		return single(TokenMinus)
	case '*':
		return single(TokenStar)
	case '/':
		return single(TokenSlash)
	case '%':
		return single(TokenPercent)
	case '.':
		if l.peekAt(1) == '.' {
			tok.Type, tok.Literal = TokenDot, ".."
			l.pos += 2
			return tok
		}
		return single(TokenDot)
	case '"', '\'':
		return l.readString(tok, ch)
	case '@':
		if l.pos+1 >= len(l.input) {
			return single(TokenIllegal)
		}
		tok.Type, tok.Literal = TokenRegister, l.input[l.pos+1:l.pos+2]
		l.pos += 2
		return tok
	case '&':
		if l.peekAt(1) == '&' {
			tok.Type, tok.Literal = TokenAnd, "&&"
			l.pos += 2
			return tok
		}
		l.pos++
		start := l.pos
		if isLetter(l.peekAt(0)) && l.peekAt(1) == ':' {
			l.pos += 2
		}
		for isLetter(l.peekAt(0)) {
			l.pos++
		}
		if l.pos == start {
			tok.Type, tok.Literal = TokenIllegal, "&"
			return tok
		}
		tok.Type, tok.Literal = TokenOption, l.input[start:l.pos]
		return tok
	case '|':
		if l.peekAt(1) == '|' {
			tok.Type, tok.Literal = TokenOr, "||"
			l.pos += 2
			return tok
		}
		return single(TokenIllegal)
	case '!', '=', '<', '>':
		return l.readCompare(tok)
	}

	switch {
	case isDigit(ch):
		return l.readNumber(tok)
	case isLetter(ch) || ch == '_':
		return l.readIdentifier(tok)
	}
	return single(TokenIllegal)
}

func (l *Lexer) readCompare(tok Token) Token {
	two := ""
	if l.pos+2 <= len(l.input) {
		two = l.input[l.pos : l.pos+2]
	}
	op := ""
	switch two {
	case "==", "!=", ">=", "<=", "=~", "!~":
		op = two
	default:
		switch l.input[l.pos] {
		case '!':
			tok.Type, tok.Literal = TokenNot, "!"
			l.pos++
			return tok
		case '<', '>':
			op = l.input[l.pos : l.pos+1]
		default:
			tok.Type, tok.Literal = TokenIllegal, "="
			l.pos++
			return tok
		}
	}
	l.pos += len(op)
	if c := l.peekAt(0); c == '#' || c == '?' {
		op += string(c)
		l.pos++
	}
	tok.Type, tok.Literal = TokenCompare, op
	return tok
}

func (l *Lexer) readNumber(tok Token) Token {
	start := l.pos
	valid := isDigit
	if l.input[l.pos] == '0' {
		switch l.peekAt(1) {
		case 'x', 'X':
			l.pos += 2
			valid = func(c byte) bool { return digitValue(rune(c)) >= 0 }
		case 'b', 'B', 'o', 'O':
			l.pos += 2
		}
	}
	for l.pos < len(l.input) && valid(l.input[l.pos]) {
		l.pos++
	}
	tok.Type, tok.Literal = TokenNumber, l.input[start:l.pos]
	return tok
}

func (l *Lexer) readIdentifier(tok Token) Token {
	start := l.pos
	if strings.IndexByte(scopes, l.input[l.pos]) >= 0 && l.peekAt(1) == ':' && isIdentStart(l.peekAt(2)) {
		l.pos += 2
	}
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	tok.Type, tok.Literal = TokenIdent, l.input[start:l.pos]
	return tok
}

// readString reads a quoted string. Double-quoted strings take backslash
// escapes; single-quoted strings only '' for a quote.
func (l *Lexer) readString(tok Token, quote byte) Token {
	l.pos++
	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case quote == '\'' && c == '\'':
			if l.peekAt(1) == '\'' {
				b.WriteByte('\'')
				l.pos += 2
				continue
			}
			l.pos++
			tok.Type, tok.Literal = TokenString, b.String()
			return tok
		case quote == '"' && c == '"':
			l.pos++
			tok.Type, tok.Literal = TokenString, b.String()
			return tok
		case quote == '"' && c == '\\' && l.pos+1 < len(l.input):
			b.WriteString(unescape(l.input[l.pos+1]))
			l.pos += 2
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	tok.Type, tok.Literal = TokenIllegal, string(quote)
	return tok
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'e':
		return "\x1b"
	case '0':
		return "\x00"
	}
	return string(c)
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) || c == '#' }
