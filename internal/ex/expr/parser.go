package expr

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidExpression is wrapped by every parse error.
var ErrInvalidExpression = errors.New("E15: Invalid expression")

// Parser turns tokens into a Node tree.
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
}

// NewParser creates a parser for input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses input as exactly one expression.
func Parse(input string) (Node, error) {
	p := NewParser(input)
	n, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, p.errorf("unexpected %s", p.current)
	}
	return n, nil
}

// ParsePrefix parses one expression from the start of input and returns
// the unparsed remainder, for commands such as :echo that take several.
func ParsePrefix(input string) (Node, string, error) {
	p := NewParser(input)
	n, err := p.ParseExpression()
	if err != nil {
		return nil, "", err
	}
	if p.current.Type == TokenEOF {
		return n, "", nil
	}
	return n, input[p.current.Pos:], nil
}

func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format+" at position %d", append([]any{ErrInvalidExpression}, append(args, p.current.Pos)...)...)
}

func (p *Parser) expect(t TokenType, what string) error {
	if p.current.Type != t {
		return p.errorf("expected %s, got %s", what, p.current)
	}
	p.nextToken()
	return nil
}

// ParseExpression parses a full expression.
// expr1 = expr2 [ "?" expr1 ":" expr1 ]
func (p *Parser) ParseExpression() (Node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenQuestion {
		return cond, nil
	}
	p.nextToken()
	then, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenColon, "':'"); err != nil {
		return nil, err
	}
	els, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &Ternary{Cond: cond, Then: then, Else: els}, nil
}

// expr2 = expr3 { "||" expr3 }
func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenOr {
		p.nextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

// expr3 = expr4 { "&&" expr4 }
func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenAnd {
		p.nextToken()
		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

// expr4 = expr5 [ compare expr5 ]
func (p *Parser) parseCompare() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenCompare {
		return left, nil
	}
	op := p.current.Literal
	p.nextToken()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: op, Left: left, Right: right}, nil
}

// expr5 = expr6 { ("+" | "-" | "." | "..") expr6 }
func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenPlus || p.current.Type == TokenMinus || p.current.Type == TokenDot {
		op := p.current.Literal
		if p.current.Type == TokenDot {
			op = "."
		}
		p.nextToken()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// expr6 = expr7 { ("*" | "/" | "%") expr7 }
func (p *Parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenStar || p.current.Type == TokenSlash || p.current.Type == TokenPercent {
		op := p.current.Literal
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// expr7 = ("!" | "-" | "+") expr7 | expr8
func (p *Parser) parseUnary() (Node, error) {
	switch p.current.Type {
	case TokenNot, TokenMinus, TokenPlus:
		op := p.current.Type
		p.nextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// expr8 = expr9 { "[" index "]" }
func (p *Parser) parsePostfix() (Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenLBracket {
		p.nextToken()
		idx := &Index{Target: n}
		if p.current.Type != TokenColon {
			if idx.From, err = p.ParseExpression(); err != nil {
				return nil, err
			}
		}
		if p.current.Type == TokenColon {
			idx.Slice = true
			p.nextToken()
			if p.current.Type != TokenRBracket {
				if idx.To, err = p.ParseExpression(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.expect(TokenRBracket, "']'"); err != nil {
			return nil, err
		}
		n = idx
	}
	return n, nil
}

// expr9 = number | string | list | "(" expr1 ")" | variable | &option |
// @register | function "(" args ")"
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current
	switch tok.Type {
	case TokenNumber:
		p.nextToken()
		return &Literal{Value: Number(Str2nr(tok.Literal, 10))}, nil
	case TokenString:
		p.nextToken()
		return &Literal{Value: String(tok.Literal)}, nil
	case TokenOption:
		p.nextToken()
		return &OptionRef{Name: tok.Literal}, nil
	case TokenRegister:
		p.nextToken()
		r, _ := utf8.DecodeRuneInString(tok.Literal)
		return &RegisterRef{Name: r}, nil
	case TokenLParen:
		p.nextToken()
		n, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}
		return n, nil
	case TokenLBracket:
		return p.parseList()
	case TokenIdent:
		p.nextToken()
		if p.current.Type == TokenLParen && p.current.Pos == tok.Pos+len(tok.Literal) {
			return p.parseCall(tok.Literal)
		}
		return &VarRef{Name: tok.Literal}, nil
	case TokenEOF:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %s", tok)
}

func (p *Parser) parseList() (Node, error) {
	p.nextToken()
	list := &ListExpr{}
	for p.current.Type != TokenRBracket {
		item, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
		if p.current.Type != TokenComma {
			break
		}
		p.nextToken()
	}
	if err := p.expect(TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseCall(name string) (Node, error) {
	p.nextToken()
	call := &Call{Name: name}
	for p.current.Type != TokenRParen {
		arg, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.current.Type != TokenComma {
			break
		}
		p.nextToken()
	}
	if err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return call, nil
}
