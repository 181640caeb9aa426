package parser

import (
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/internal/token"
	"github.com/zoelang/zoe/op"
)

// parseStatement compiles one expression and consumes the separators that
// follow it. On return curToken is the first token of the next statement,
// or end.
func (p *Parser) parseStatement(end token.Type) error {
	if err := p.parseExpression(LOWEST); err != nil {
		return err
	}
	if err := p.nextToken(); err != nil {
		return err
	}
	switch p.curToken.Type {
	case token.SEMICOLON, token.NEWLINE:
		return p.skipSeparators()
	case end:
		return nil
	case token.EOF:
		return p.syntaxErrorf(p.curToken, "unterminated block (expected })")
	}
	return p.syntaxErrorf(p.curToken, "unexpected %s (expected end of statement)", tokenDescription(p.curToken))
}

// parseBlock compiles { stmt; stmt } in a new scope. The block evaluates to
// its last statement, or nil when empty.
func (p *Parser) parseBlock() error {
	p.asm.PushScope()
	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.skipSeparators(); err != nil {
		return err
	}
	count := 0
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			return p.syntaxErrorf(p.curToken, "unterminated block (expected })")
		}
		if count > 0 {
			p.asm.Add(op.Pop)
		}
		count++
		if err := p.parseStatement(token.RBRACE); err != nil {
			return err
		}
	}
	if count == 0 {
		p.asm.Add(op.PushNil)
	}
	p.asm.PopScope()
	return nil
}

// parseLet compiles let [mut] name = expr, with further bindings separated
// by commas. A binding may destructure an array: let [a, b] = expr. The
// let expression evaluates to the value of its last binding.
func (p *Parser) parseLet() error {
	for first := true; ; first = false {
		if !first {
			p.asm.Add(op.Pop)
		}
		if err := p.nextToken(); err != nil {
			return err
		}
		mutable := false
		if p.curTokenIs(token.MUT) {
			mutable = true
			if err := p.nextToken(); err != nil {
				return err
			}
		}
		var names []token.Token
		destructure := false
		switch p.curToken.Type {
		case token.IDENT:
			names = append(names, p.curToken)
		case token.LBRACKET:
			destructure = true
			var err error
			if names, err = p.parseNameList(); err != nil {
				return err
			}
		default:
			return p.syntaxErrorf(p.curToken, "unexpected %s in let (expected identifier)", tokenDescription(p.curToken))
		}
		if err := p.expectPeek("let statement", token.ASSIGN); err != nil {
			return err
		}
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.skipNewlines(); err != nil {
			return err
		}
		// The value is compiled before the names are declared, so it sees
		// any outer bindings they shadow.
		if err := p.parseExpression(LOWEST); err != nil {
			return err
		}
		if destructure {
			for i, name := range names {
				p.asm.Add(op.Dup)
				p.asm.AddNumber(op.PushN, float64(i))
				p.asm.Add(op.Lookup)
				p.asm.AddSlot(op.SetVar, p.asm.CreateVariable(name.Literal, mutable))
			}
		} else {
			p.asm.Add(op.Dup)
			p.asm.AddSlot(op.SetVar, p.asm.CreateVariable(names[0].Literal, mutable))
		}
		if !p.peekTokenIs(token.COMMA) {
			return nil
		}
		if err := p.nextToken(); err != nil {
			return err
		}
	}
}

// parseNameList reads [a, b, ...]. On return curToken is the closing ].
func (p *Parser) parseNameList() ([]token.Token, error) {
	var names []token.Token
	for {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.curTokenIs(token.RBRACKET) {
			break
		}
		if !p.curTokenIs(token.IDENT) {
			return nil, p.syntaxErrorf(p.curToken, "unexpected %s in let (expected identifier)", tokenDescription(p.curToken))
		}
		names = append(names, p.curToken)
		if err := p.skipPeekNewlines(); err != nil {
			return nil, err
		}
		if p.peekTokenIs(token.RBRACKET) {
			if err := p.nextToken(); err != nil {
				return nil, err
			}
			break
		}
		if err := p.expectPeek("let statement", token.COMMA); err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, p.syntaxErrorf(p.curToken, "empty destructuring pattern")
	}
	return names, nil
}

// parseIdent compiles a variable read, or an assignment when the name is
// followed by =.
func (p *Parser) parseIdent() error {
	name := p.curToken
	slot, mutable, err := p.asm.GetVariableIndex(name.Literal)
	if err != nil {
		e := p.newError(name, errz.UndeclaredVariable, name.Literal, err)
		e.hint = errz.FormatSuggestions(errz.SuggestSimilar(name.Literal, p.asm.VisibleNames()))
		return e
	}
	if !p.peekTokenIs(token.ASSIGN) {
		p.asm.AddSlot(op.GetVar, slot)
		return nil
	}
	if !mutable {
		e := p.newError(name, errz.ImmutableVariable, "cannot assign to "+name.Literal, nil)
		e.hint = "declare it with let mut"
		return e
	}
	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.skipNewlines(); err != nil {
		return err
	}
	if err := p.parseExpression(LOWEST); err != nil {
		return err
	}
	p.asm.Add(op.Dup)
	p.asm.AddSlot(op.SetVar, slot)
	return nil
}

// parseInvalidAssign is reached when = follows something other than a
// variable name.
func (p *Parser) parseInvalidAssign() error {
	return p.syntaxErrorf(p.curToken, "invalid assignment target")
}
