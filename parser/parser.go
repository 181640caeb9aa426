// Package parser compiles zoe source code to bytecode in a single pass.
//
// There is no syntax tree. The parser is a Pratt parser whose parse
// functions emit instructions through an asm.Assembler as soon as each
// construct is recognized. Every expression leaves exactly one value on the
// stack; statements are separated by newlines or semicolons and all but the
// last statement's value are popped, so a program evaluates to the value of
// its final statement.
package parser

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/zoelang/zoe/asm"
	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/internal/lexer"
	"github.com/zoelang/zoe/internal/token"
	"github.com/zoelang/zoe/op"
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in error positions.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithDebugInfo records variable names and labels in the compiled unit.
func WithDebugInfo() Option {
	return func(p *Parser) {
		p.asmOptions = append(p.asmOptions, asm.WithDebugInfo())
	}
}

type (
	prefixParseFn func() error
	infixParseFn  func() error
)

// Parser object
type Parser struct {
	l   *lexer.Lexer
	asm *asm.Assembler

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	errs *multierror.Error

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	filename   string
	asmOptions []asm.Option
	depth      int
	maxDepth   int
}

// Compile parses source and returns the compiled bytecode unit.
func Compile(source string, options ...Option) (*bytecode.Unit, error) {
	return New(lexer.New(source), options...).Compile()
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	}
	p.asm = asm.New(p.asmOptions...)

	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.HASH, p.parsePrefixExpr)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.LBRACE, p.parseBlock)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.LET, p.parseLet)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.NIL, p.parseNil)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.QUESTION, p.parsePrefixExpr)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TABLE_LBRACE, p.parseTable)
	p.registerPrefix(token.TILDE, p.parsePrefixExpr)
	p.registerPrefix(token.TRUE, p.parseBoolean)

	p.registerInfix(token.AMPERSAND, p.parseInfixExpr)
	p.registerInfix(token.AND, p.parseLogicalExpr)
	p.registerInfix(token.ASSIGN, p.parseInvalidAssign)
	p.registerInfix(token.ASTERISK, p.parseInfixExpr)
	p.registerInfix(token.BITOR, p.parseInfixExpr)
	p.registerInfix(token.CARET, p.parseInfixExpr)
	p.registerInfix(token.CONCAT, p.parseInfixExpr)
	p.registerInfix(token.EQ, p.parseInfixExpr)
	p.registerInfix(token.GT, p.parseInfixExpr)
	p.registerInfix(token.GT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.GT_GT, p.parseInfixExpr)
	p.registerInfix(token.IDIV, p.parseInfixExpr)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LT, p.parseInfixExpr)
	p.registerInfix(token.LT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.LT_LT, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.MOD, p.parseInfixExpr)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(token.OR, p.parseLogicalExpr)
	p.registerInfix(token.PERIOD, p.parseGetAttr)
	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.POW, p.parseInfixExpr)
	p.registerInfix(token.QUESTION, p.parseTernary)
	p.registerInfix(token.SLASH, p.parseInfixExpr)

	// Prime the token pump
	if err := p.nextToken(); err != nil {
		p.addError(err)
	} else if err := p.nextToken(); err != nil {
		p.addError(err)
	}
	return p
}

// Compile parses the whole program and returns the compiled unit. Parse
// errors are returned together; at most MaxErrors are collected.
func (p *Parser) Compile() (*bytecode.Unit, error) {
	if p.errs.ErrorOrNil() == nil {
		p.parseProgram()
	}
	if err := p.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return p.asm.Unit()
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken moves to the next token from the lexer. Lexer errors are
// returned as syntax errors.
func (p *Parser) nextToken() error {
	var err error
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if err != nil {
		return p.wrapError(p.peekToken, err)
	}
	return nil
}

// advanceToken moves to the next token ignoring lexer errors. Used only
// while recovering from an earlier error.
func (p *Parser) advanceToken() {
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has type t.
func (p *Parser) expectPeek(context string, t token.Type) error {
	if !p.peekTokenIs(t) {
		return p.syntaxErrorf(p.peekToken, "unexpected %s while parsing %s (expected %s)",
			tokenDescription(p.peekToken), context, tokenTypeDescription(t))
	}
	return p.nextToken()
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// skipNewlines advances past newlines at the current position.
func (p *Parser) skipNewlines() error {
	for p.curTokenIs(token.NEWLINE) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// skipPeekNewlines advances until the next token is not a newline.
func (p *Parser) skipPeekNewlines() error {
	for p.peekTokenIs(token.NEWLINE) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// skipSeparators advances past newlines and semicolons.
func (p *Parser) skipSeparators() error {
	for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) addError(err error) {
	p.errs = multierror.Append(p.errs, err)
	p.errs.ErrorFormat = formatErrors
}

func (p *Parser) errorCount() int {
	if p.errs == nil {
		return 0
	}
	return len(p.errs.Errors)
}

// synchronize skips tokens until a statement boundary. It reports false if
// the end of input was reached.
func (p *Parser) synchronize() bool {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
				p.advanceToken()
			}
			return !p.curTokenIs(token.EOF)
		}
		p.advanceToken()
	}
	return false
}

func (p *Parser) newError(tok token.Token, kind errz.Kind, message string, cause error) *Error {
	return &Error{
		kind:          kind,
		message:       message,
		cause:         cause,
		startPosition: tok.StartPosition,
		endPosition:   tok.EndPosition,
		sourceCode:    p.l.GetLineText(tok),
	}
}

func (p *Parser) syntaxErrorf(tok token.Token, format string, args ...any) *Error {
	return p.newError(tok, errz.SyntaxError, fmt.Sprintf(format, args...), nil)
}

// wrapError attaches a position to err. Errors that carry an errz.Kind keep
// it; anything else is a syntax error.
func (p *Parser) wrapError(tok token.Token, err error) *Error {
	kind := errz.KindOf(err)
	if kind == errz.Unknown {
		kind = errz.SyntaxError
	}
	return p.newError(tok, kind, "", err)
}

func (p *Parser) unexpected(tok token.Token) *Error {
	return p.syntaxErrorf(tok, "unexpected %s", tokenDescription(tok))
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	case token.NEWLINE:
		return "newline"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.NEWLINE:
		return "newline"
	case token.STRING:
		return "string '" + t.Literal + "'"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return t.Literal
	}
}

// parseProgram compiles top-level statements, recovering from errors at
// statement boundaries, and terminates the unit with END.
func (p *Parser) parseProgram() {
	if err := p.skipSeparators(); err != nil {
		p.addError(err)
		return
	}
	count := 0
	for !p.curTokenIs(token.EOF) && p.errorCount() < MaxErrors {
		if count > 0 {
			p.asm.Add(op.Pop)
		}
		count++
		if err := p.parseStatement(token.EOF); err != nil {
			p.addError(err)
			if !p.synchronize() {
				break
			}
		}
	}
	if count == 0 {
		p.asm.Add(op.PushNil)
	}
	p.asm.Add(op.End)
}

// parseExpression is the Pratt loop. On entry curToken is the first token
// of the expression; on return it is the last.
func (p *Parser) parseExpression(precedence int) error {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return p.syntaxErrorf(p.curToken, "maximum nesting depth exceeded")
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		return p.unexpected(p.curToken)
	}
	if err := prefix(); err != nil {
		return err
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return nil
		}
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := infix(); err != nil {
			return err
		}
	}
	return nil
}
