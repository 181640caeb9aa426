package parser

import "github.com/zoelang/zoe/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	TERNARY     // ? :
	OR          // ||
	AND         // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == or !=
	LESSGREATER // > or <
	SHIFT       // << or >>
	CONCAT      // ..
	SUM         // + or -
	PRODUCT     // * / %/ %
	POWER       // **
	PREFIX      // -X !X ~X #X ?X
	INDEX       // array[index], table.key
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ASSIGN:    ASSIGN,
	token.QUESTION:  TERNARY,
	token.OR:        OR,
	token.AND:       AND,
	token.BITOR:     BITOR,
	token.CARET:     BITXOR,
	token.AMPERSAND: BITAND,
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        LESSGREATER,
	token.LT_EQUALS: LESSGREATER,
	token.GT:        LESSGREATER,
	token.GT_EQUALS: LESSGREATER,
	token.LT_LT:     SHIFT,
	token.GT_GT:     SHIFT,
	token.CONCAT:    CONCAT,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.IDIV:      PRODUCT,
	token.MOD:       PRODUCT,
	token.POW:       POWER,
	token.LBRACKET:  INDEX,
	token.PERIOD:    INDEX,
}
