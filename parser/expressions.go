package parser

import (
	"github.com/zoelang/zoe/internal/token"
	"github.com/zoelang/zoe/op"
)

var binaryOps = map[token.Type]op.Code{
	token.AMPERSAND: op.And,
	token.ASTERISK:  op.Mul,
	token.BITOR:     op.Or,
	token.CARET:     op.Xor,
	token.CONCAT:    op.Cat,
	token.EQ:        op.Eq,
	token.GT:        op.Gt,
	token.GT_EQUALS: op.Gte,
	token.GT_GT:     op.Shr,
	token.IDIV:      op.IDiv,
	token.LT:        op.Lt,
	token.LT_EQUALS: op.Lte,
	token.LT_LT:     op.Shl,
	token.MINUS:     op.Sub,
	token.MOD:       op.Mod,
	token.PLUS:      op.Add,
	token.POW:       op.Pow,
	token.SLASH:     op.Div,
}

// parseOperand advances past an operator and any newlines after it, then
// compiles the right-hand operand.
func (p *Parser) parseOperand(precedence int) error {
	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.skipNewlines(); err != nil {
		return err
	}
	return p.parseExpression(precedence)
}

func (p *Parser) parseInfixExpr() error {
	operator := p.curToken
	precedence := p.curPrecedence()
	if operator.Type == token.POW {
		// right associative
		precedence--
	}
	if err := p.parseOperand(precedence); err != nil {
		return err
	}
	if operator.Type == token.NOT_EQ {
		p.asm.Add(op.Eq)
		p.asm.Add(op.Not)
		return nil
	}
	p.asm.Add(binaryOps[operator.Type])
	return nil
}

// parsePrefixExpr compiles -x, !x, ~x, #x (length) and ?x (is nil).
func (p *Parser) parsePrefixExpr() error {
	operator := p.curToken
	if err := p.parseOperand(PREFIX); err != nil {
		return err
	}
	switch operator.Type {
	case token.MINUS:
		p.asm.Add(op.Neg)
	case token.BANG, token.TILDE:
		p.asm.Add(op.Not)
	case token.HASH:
		p.asm.Add(op.Len)
	case token.QUESTION:
		p.asm.Add(op.PushNil)
		p.asm.Add(op.Eq)
	}
	return nil
}

// parseLogicalExpr compiles && and || with short-circuit evaluation. The
// left operand must be a boolean; when it decides the result it is the
// result, otherwise the right operand is.
func (p *Parser) parseLogicalExpr() error {
	operator := p.curToken
	end := p.asm.CreateLabel()
	p.asm.Add(op.Dup)
	if operator.Type == token.AND {
		p.asm.AddJump(op.BFalse, end)
	} else {
		p.asm.AddJump(op.BTrue, end)
	}
	p.asm.Add(op.Pop)
	if err := p.parseOperand(p.curPrecedence()); err != nil {
		return err
	}
	p.asm.SetLabel(end)
	return nil
}

// parseTernary compiles cond ? a : b. It is right associative.
func (p *Parser) parseTernary() error {
	elseLabel := p.asm.CreateLabel()
	end := p.asm.CreateLabel()
	p.asm.AddJump(op.BFalse, elseLabel)
	if err := p.parseOperand(LOWEST); err != nil {
		return err
	}
	if err := p.skipPeekNewlines(); err != nil {
		return err
	}
	if err := p.expectPeek("ternary expression", token.COLON); err != nil {
		return err
	}
	p.asm.AddJump(op.Jmp, end)
	p.asm.SetLabel(elseLabel)
	if err := p.parseOperand(TERNARY - 1); err != nil {
		return err
	}
	p.asm.SetLabel(end)
	return nil
}

func (p *Parser) parseGroupedExpr() error {
	if err := p.parseOperand(LOWEST); err != nil {
		return err
	}
	if err := p.skipPeekNewlines(); err != nil {
		return err
	}
	return p.expectPeek("grouped expression", token.RPAREN)
}

// parseIndex compiles x[i] and the slice forms x[a:b], x[a:], x[:b] and
// x[:]. Omitted slice bounds are pushed as nil.
func (p *Parser) parseIndex() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.skipNewlines(); err != nil {
		return err
	}
	if p.curTokenIs(token.COLON) {
		p.asm.Add(op.PushNil)
		return p.parseSliceEnd()
	}
	if err := p.parseExpression(LOWEST); err != nil {
		return err
	}
	if err := p.skipPeekNewlines(); err != nil {
		return err
	}
	if err := p.nextToken(); err != nil {
		return err
	}
	switch p.curToken.Type {
	case token.RBRACKET:
		p.asm.Add(op.Lookup)
		return nil
	case token.COLON:
		return p.parseSliceEnd()
	}
	return p.syntaxErrorf(p.curToken, "unexpected %s while parsing index expression (expected ] or :)", tokenDescription(p.curToken))
}

// parseSliceEnd is entered with curToken on the slice colon.
func (p *Parser) parseSliceEnd() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.skipNewlines(); err != nil {
		return err
	}
	if p.curTokenIs(token.RBRACKET) {
		p.asm.Add(op.PushNil)
		p.asm.Add(op.Slice)
		return nil
	}
	if err := p.parseExpression(LOWEST); err != nil {
		return err
	}
	if err := p.skipPeekNewlines(); err != nil {
		return err
	}
	if err := p.expectPeek("slice expression", token.RBRACKET); err != nil {
		return err
	}
	p.asm.Add(op.Slice)
	return nil
}

// parseGetAttr compiles x.name as a lookup of the string key "name".
func (p *Parser) parseGetAttr() error {
	if err := p.expectPeek("attribute access", token.IDENT); err != nil {
		return err
	}
	p.asm.AddString(op.PushS, p.curToken.Literal)
	p.asm.Add(op.Lookup)
	return nil
}
