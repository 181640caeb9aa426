// Package lexer converts zoe source code into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zoelang/zoe/internal/token"
)

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFile sets the file name reported in token positions.
func WithFile(file string) Option {
	return func(l *Lexer) {
		l.file = file
	}
}

// Lexer holds our object-state.
type Lexer struct {
	input     string
	pos       int // byte offset of the next unread character
	line      int
	lineStart int
	file      string
}

// operators are matched longest first.
var operators = []token.Type{
	token.IDIV,
	token.TABLE_LBRACE,
	token.POW,
	token.CONCAT,
	token.LT_LT,
	token.GT_GT,
	token.LT_EQUALS,
	token.GT_EQUALS,
	token.EQ,
	token.NOT_EQ,
	token.AND,
	token.OR,
	token.AMPERSAND,
	token.ASSIGN,
	token.ASTERISK,
	token.BANG,
	token.BITOR,
	token.CARET,
	token.COLON,
	token.COMMA,
	token.GT,
	token.HASH,
	token.LBRACE,
	token.LBRACKET,
	token.LPAREN,
	token.LT,
	token.MINUS,
	token.MOD,
	token.PERIOD,
	token.PLUS,
	token.QUESTION,
	token.RBRACE,
	token.RBRACKET,
	token.RPAREN,
	token.SEMICOLON,
	token.SLASH,
	token.TILDE,
}

// New creates a Lexer instance from the given string.
func New(input string, options ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// SetFilename sets the file name reported in token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the file name reported in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Position returns the position of the next unread character.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
		File:      l.file,
	}
}

// Next returns the next token from the input. Once the input is exhausted
// every call returns an EOF token.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.illegal(l.Position()), err
	}
	start := l.Position()
	if l.pos >= len(l.input) {
		return l.token(token.EOF, "", start), nil
	}
	c := l.input[l.pos]
	switch {
	case c == '\n':
		l.advance(1)
		return l.token(token.NEWLINE, "\n", start), nil
	case c == '\r' && l.peekByte(1) == '\n':
		l.advance(2)
		return l.token(token.NEWLINE, "\n", start), nil
	case c == '\'':
		return l.readString(start)
	case isDigit(c):
		return l.readNumber(start)
	}
	if r, _ := utf8.DecodeRuneInString(l.input[l.pos:]); isIdentStart(r) {
		return l.readIdentifier(start), nil
	}
	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, string(op)) {
			l.advance(len(op))
			return l.token(op, string(op), start), nil
		}
	}
	r, size := utf8.DecodeRuneInString(rest)
	l.advance(size)
	return l.illegal(start), fmt.Errorf("invalid character: %q", r)
}

// GetLineText returns the full source line containing the start of tok.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return strings.TrimRight(l.input[start:], "\r")
	}
	return strings.TrimRight(l.input[start:start+end], "\r")
}

func (l *Lexer) token(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.Position(),
	}
}

func (l *Lexer) illegal(start token.Position) token.Token {
	return l.token(token.ILLEGAL, "", start)
}

func (l *Lexer) peekByte(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// advance consumes n bytes, tracking line starts.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		l.pos++
	}
}

// skipWhitespaceAndComments stops at newlines, which are significant.
func (l *Lexer) skipWhitespaceAndComments() error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t' || (c == '\r' && l.peekByte(1) != '\n'):
			l.advance(1)
		case c == '/' && l.peekByte(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance(1)
			}
		case c == '/' && l.peekByte(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// skipBlockComment consumes a /* */ comment. Comments nest.
func (l *Lexer) skipBlockComment() error {
	depth := 0
	for l.pos < len(l.input) {
		switch {
		case l.input[l.pos] == '/' && l.peekByte(1) == '*':
			depth++
			l.advance(2)
		case l.input[l.pos] == '*' && l.peekByte(1) == '/':
			depth--
			l.advance(2)
			if depth == 0 {
				return nil
			}
		default:
			l.advance(1)
		}
	}
	return fmt.Errorf("unterminated multiline comment")
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	begin := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			break
		}
		l.advance(size)
	}
	literal := l.input[begin:l.pos]
	return l.token(token.LookupIdentifier(literal), literal, start)
}

// readNumber reads decimal, 0x hexadecimal and 0b binary literals. The
// literal text is returned unconverted.
func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	begin := l.pos
	prefix := l.peekByte(1) | 0x20
	if l.input[l.pos] == '0' && (prefix == 'x' || prefix == 'b') {
		l.advance(2)
		valid := isHexDigit
		if prefix == 'b' {
			valid = isBinaryDigit
		}
		digits := l.pos
		for l.pos < len(l.input) && valid(l.input[l.pos]) {
			l.advance(1)
		}
		if l.pos == digits {
			return l.illegal(start), fmt.Errorf("invalid number literal: %s", l.input[begin:l.pos])
		}
	} else {
		l.readDigits()
		if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
			l.advance(1)
			l.readDigits()
		}
		if e := l.peekByte(0) | 0x20; e == 'e' {
			n := 1
			if sign := l.peekByte(1); sign == '+' || sign == '-' {
				n = 2
			}
			if isDigit(l.peekByte(n)) {
				l.advance(n)
				l.readDigits()
			}
		}
	}
	if l.pos < len(l.input) {
		if r, size := utf8.DecodeRuneInString(l.input[l.pos:]); isIdentStart(r) || unicode.IsDigit(r) {
			return l.illegal(start), fmt.Errorf("invalid number literal: %s", l.input[begin:l.pos+size])
		}
	}
	return l.token(token.NUMBER, l.input[begin:l.pos], start), nil
}

func (l *Lexer) readDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance(1)
	}
}

// readString reads a single-quoted string. The token literal is the raw body
// between the quotes with escapes left in place.
func (l *Lexer) readString(start token.Position) (token.Token, error) {
	l.advance(1)
	begin := l.pos
	if err := l.skipStringBody(); err != nil {
		return l.illegal(start), err
	}
	body := l.input[begin:l.pos]
	l.advance(1)
	return l.token(token.STRING, body, start), nil
}

// skipStringBody advances to the closing quote of the current string.
func (l *Lexer) skipStringBody() error {
	for l.pos < len(l.input) {
		switch c := l.input[l.pos]; {
		case c == '\'':
			return nil
		case c == '\\':
			l.advance(2)
		default:
			l.advance(1)
		}
	}
	return fmt.Errorf("unterminated string literal")
}

// Unescape resolves the escape sequences in a string literal fragment.
// Supported escapes are \n \r \t \\ \' and \xHH.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("unterminated escape sequence")
		}
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '\'':
			sb.WriteByte(s[i])
		case 'x':
			if i+2 >= len(s) {
				return "", fmt.Errorf("invalid escape sequence: \\x%s", s[i+1:])
			}
			hi, lo := unhex(s[i+1]), unhex(s[i+2])
			if hi < 0 || lo < 0 {
				return "", fmt.Errorf("invalid escape sequence: \\x%s", s[i+1:i+3])
			}
			sb.WriteByte(byte(hi<<4 | lo))
			i += 2
		default:
			return "", fmt.Errorf("invalid escape sequence: \\%c", s[i])
		}
	}
	return sb.String(), nil
}

func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return unhex(c) >= 0
}

func isBinaryDigit(c byte) bool {
	return c == '0' || c == '1'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
