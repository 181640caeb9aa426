// Package token defines language keywords and tokens used when lexing source code.
package token

import "fmt"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// String renders the position as file:line:column, omitting the file when unset.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.LineNumber(), p.ColumnNumber())
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AMPERSAND    Type = "&"
	AND          Type = "&&"
	ASSIGN       Type = "="
	ASTERISK     Type = "*"
	BANG         Type = "!"
	BITOR        Type = "|"
	CARET        Type = "^"
	COLON        Type = ":"
	COMMA        Type = ","
	CONCAT       Type = ".."
	EOF          Type = "EOF"
	EQ           Type = "=="
	FALSE        Type = "FALSE"
	GT           Type = ">"
	GT_EQUALS    Type = ">="
	GT_GT        Type = ">>"
	HASH         Type = "#"
	IDENT        Type = "IDENT"
	IDIV         Type = "%/"
	ILLEGAL      Type = "ILLEGAL"
	LBRACE       Type = "{"
	LBRACKET     Type = "["
	LET          Type = "LET"
	LPAREN       Type = "("
	LT           Type = "<"
	LT_EQUALS    Type = "<="
	LT_LT        Type = "<<"
	MINUS        Type = "-"
	MOD          Type = "%"
	MUT          Type = "MUT"
	NEWLINE      Type = "EOL"
	NIL          Type = "nil"
	NOT_EQ       Type = "!="
	NUMBER       Type = "NUMBER"
	OR           Type = "||"
	PERIOD       Type = "."
	PLUS         Type = "+"
	POW          Type = "**"
	QUESTION     Type = "?"
	RBRACE       Type = "}"
	RBRACKET     Type = "]"
	RPAREN       Type = ")"
	SEMICOLON    Type = ";"
	SLASH        Type = "/"
	STRING       Type = "STRING"
	TABLE_LBRACE Type = "%{"
	TILDE        Type = "~"
	TRUE         Type = "TRUE"
)

// Reserved keywords
var keywords = map[string]Type{
	"false": FALSE,
	"let":   LET,
	"mut":   MUT,
	"nil":   NIL,
	"true":  TRUE,
}

// LookupIdentifier reports whether identifier is a keyword, returning IDENT
// when it is not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
