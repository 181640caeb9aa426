package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/zoelang/zoe/internal/lexer"
	"github.com/zoelang/zoe/internal/token"
	"github.com/zoelang/zoe/op"
)

func (p *Parser) parseNil() error {
	p.asm.Add(op.PushNil)
	return nil
}

func (p *Parser) parseBoolean() error {
	if p.curTokenIs(token.TRUE) {
		p.asm.Add(op.PushTrue)
	} else {
		p.asm.Add(op.PushFalse)
	}
	return nil
}

// parseNumber accepts decimal, 0x hexadecimal and 0b binary literals.
func (p *Parser) parseNumber() error {
	lit := p.curToken.Literal
	var value float64
	var err error
	switch {
	case len(lit) > 2 && (lit[:2] == "0x" || lit[:2] == "0X"):
		var u uint64
		u, err = strconv.ParseUint(lit[2:], 16, 64)
		value = float64(u)
	case len(lit) > 2 && (lit[:2] == "0b" || lit[:2] == "0B"):
		var u uint64
		u, err = strconv.ParseUint(lit[2:], 2, 64)
		value = float64(u)
	default:
		value, err = strconv.ParseFloat(lit, 64)
	}
	if err != nil || math.IsInf(value, 0) {
		return p.syntaxErrorf(p.curToken, "invalid number literal: %s", lit)
	}
	p.asm.AddNumber(op.PushN, value)
	return nil
}

// parseString compiles a string literal. Adjacent literals are
// concatenated.
func (p *Parser) parseString() error {
	if err := p.compileString(p.curToken); err != nil {
		return err
	}
	for p.peekTokenIs(token.STRING) {
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.compileString(p.curToken); err != nil {
			return err
		}
		p.asm.Add(op.Cat)
	}
	return nil
}

func (p *Parser) compileString(tok token.Token) error {
	s, err := lexer.Unescape(tok.Literal)
	if err != nil {
		return p.wrapError(tok, err)
	}
	if strings.IndexByte(s, 0) >= 0 {
		return p.syntaxErrorf(tok, "string literal contains a NUL byte")
	}
	p.asm.AddString(op.PushS, s)
	return nil
}

// parseArray compiles [a, b, ...]. A trailing comma is allowed.
func (p *Parser) parseArray() error {
	p.asm.Add(op.PushAry)
	return p.parseList("array literal", token.RBRACKET, func() error {
		if err := p.parseExpression(LOWEST); err != nil {
			return err
		}
		p.asm.Add(op.Append)
		return nil
	})
}

// parseTable compiles %{key: value, [expr]: value, ...}. A bare identifier
// key is the string of that name.
func (p *Parser) parseTable() error {
	p.asm.Add(op.PushTbl)
	return p.parseList("table literal", token.RBRACE, func() error {
		switch p.curToken.Type {
		case token.IDENT:
			p.asm.AddString(op.PushS, p.curToken.Literal)
		case token.LBRACKET:
			if err := p.parseOperand(LOWEST); err != nil {
				return err
			}
			if err := p.skipPeekNewlines(); err != nil {
				return err
			}
			if err := p.expectPeek("table key", token.RBRACKET); err != nil {
				return err
			}
		default:
			return p.syntaxErrorf(p.curToken, "unexpected %s while parsing table literal (expected key)", tokenDescription(p.curToken))
		}
		if err := p.expectPeek("table literal", token.COLON); err != nil {
			return err
		}
		if err := p.parseOperand(LOWEST); err != nil {
			return err
		}
		p.asm.Add(op.TblSet)
		return nil
	})
}

// parseList walks comma separated items up to end, calling item with
// curToken on the first token of each. Newlines between items are ignored.
// On return curToken is end.
func (p *Parser) parseList(context string, end token.Type, item func() error) error {
	if err := p.nextToken(); err != nil {
		return err
	}
	for {
		if err := p.skipNewlines(); err != nil {
			return err
		}
		if p.curTokenIs(end) {
			return nil
		}
		if err := item(); err != nil {
			return err
		}
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.skipNewlines(); err != nil {
			return err
		}
		switch p.curToken.Type {
		case end:
			return nil
		case token.COMMA:
			if err := p.nextToken(); err != nil {
				return err
			}
		default:
			return p.syntaxErrorf(p.curToken, "unexpected %s while parsing %s (expected , or %s)",
				tokenDescription(p.curToken), context, end)
		}
	}
}
