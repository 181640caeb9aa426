package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/op"
)

func opcodes(t *testing.T, source string) []op.Code {
	t.Helper()
	unit, err := Compile(source)
	require.NoError(t, err, source)
	var codes []op.Code
	it := bytecode.NewInstructionIter(unit)
	for instr, ok := it.Next(); ok; instr, ok = it.Next() {
		codes = append(codes, instr.Op)
	}
	require.NoError(t, it.Err())
	return codes
}

func instructions(t *testing.T, source string) []bytecode.Instruction {
	t.Helper()
	unit, err := Compile(source)
	require.NoError(t, err, source)
	var out []bytecode.Instruction
	it := bytecode.NewInstructionIter(unit)
	for instr, ok := it.Next(); ok; instr, ok = it.Next() {
		out = append(out, instr)
	}
	require.NoError(t, it.Err())
	return out
}

func TestEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "\n\n", ";;", " // comment only\n"} {
		require.Equal(t, []op.Code{op.PushNil, op.End}, opcodes(t, src), src)
	}
}

func TestStatementsPopAllButLast(t *testing.T) {
	require.Equal(t, []op.Code{
		op.PushN, op.Pop, op.PushN, op.Pop, op.PushN, op.End,
	}, opcodes(t, "1; 2\n\n3;"))
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected []op.Code
	}{
		{"1 + 2 * 3", []op.Code{op.PushN, op.PushN, op.PushN, op.Mul, op.Add, op.End}},
		{"(1 + 2) * 3", []op.Code{op.PushN, op.PushN, op.Add, op.PushN, op.Mul, op.End}},
		{"1 - 2 - 3", []op.Code{op.PushN, op.PushN, op.Sub, op.PushN, op.Sub, op.End}},
		{"2 ** 3 ** 2", []op.Code{op.PushN, op.PushN, op.PushN, op.Pow, op.Pow, op.End}},
		{"-3 + 2", []op.Code{op.PushN, op.Neg, op.PushN, op.Add, op.End}},
		{"1 << 2 + 1", []op.Code{op.PushN, op.PushN, op.PushN, op.Add, op.Shl, op.End}},
		{"1 | 2 & 3", []op.Code{op.PushN, op.PushN, op.PushN, op.And, op.Or, op.End}},
		{"1 ^ 2", []op.Code{op.PushN, op.PushN, op.Xor, op.End}},
		{"1 < 2 == true", []op.Code{op.PushN, op.PushN, op.Lt, op.PushTrue, op.Eq, op.End}},
		{"1 != 2", []op.Code{op.PushN, op.PushN, op.Eq, op.Not, op.End}},
		{"7 %/ 2 % 3", []op.Code{op.PushN, op.PushN, op.IDiv, op.PushN, op.Mod, op.End}},
		{"'a' .. 'b' .. 'c'", []op.Code{op.PushS, op.PushS, op.Cat, op.PushS, op.Cat, op.End}},
		{"#'abc' + 1", []op.Code{op.PushS, op.Len, op.PushN, op.Add, op.End}},
		{"?nil", []op.Code{op.PushNil, op.PushNil, op.Eq, op.End}},
		{"~1", []op.Code{op.PushN, op.Not, op.End}},
		{"!true", []op.Code{op.PushTrue, op.Not, op.End}},
		{"2 >= 1 && 1 <= 2", []op.Code{
			op.PushN, op.PushN, op.Gte, op.Dup, op.BFalse, op.Pop,
			op.PushN, op.PushN, op.Lte, op.End,
		}},
		{"1 +\n 2", []op.Code{op.PushN, op.PushN, op.Add, op.End}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, opcodes(t, tt.input), tt.input)
	}
}

func TestShortCircuit(t *testing.T) {
	instrs := instructions(t, "true || false")
	require.Len(t, instrs, 6)
	require.Equal(t, op.BTrue, instrs[2].Op)
	// The branch skips the POP and the right operand.
	require.Equal(t, uint64(instrs[5].Offset), instrs[2].Target)
}

func TestTernary(t *testing.T) {
	instrs := instructions(t, "true ? 1 : 2")
	codes := make([]op.Code, len(instrs))
	for i, instr := range instrs {
		codes[i] = instr.Op
	}
	require.Equal(t, []op.Code{op.PushTrue, op.BFalse, op.PushN, op.Jmp, op.PushN, op.End}, codes)
	require.Equal(t, uint64(instrs[4].Offset), instrs[1].Target)
	require.Equal(t, uint64(instrs[5].Offset), instrs[3].Target)
}

func TestLiterals(t *testing.T) {
	instrs := instructions(t, "0x1F; 0b101; 1.5; 2e3; 'a\\x41'; nil; false")
	require.Equal(t, 31.0, instrs[0].Number)
	require.Equal(t, 5.0, instrs[2].Number)
	require.Equal(t, 1.5, instrs[4].Number)
	require.Equal(t, 2000.0, instrs[6].Number)
	require.Equal(t, "aA", instrs[8].String)
	require.Equal(t, op.PushNil, instrs[10].Op)
	require.Equal(t, op.PushFalse, instrs[12].Op)
}

func TestArrayAndTableLiterals(t *testing.T) {
	require.Equal(t, []op.Code{
		op.PushAry, op.PushN, op.Append, op.PushN, op.Append, op.End,
	}, opcodes(t, "[1,\n 2,\n]"))
	require.Equal(t, []op.Code{op.PushAry, op.End}, opcodes(t, "[]"))
	require.Equal(t, []op.Code{
		op.PushTbl,
		op.PushS, op.PushN, op.TblSet,
		op.PushN, op.PushS, op.TblSet,
		op.End,
	}, opcodes(t, "%{a: 1, [2]: 'x'}"))
	require.Equal(t, []op.Code{op.PushTbl, op.End}, opcodes(t, "%{}"))
}

func TestIndexAndSlice(t *testing.T) {
	tests := []struct {
		input    string
		expected []op.Code
	}{
		{"'abc'[1]", []op.Code{op.PushS, op.PushN, op.Lookup, op.End}},
		{"'abc'[1:2]", []op.Code{op.PushS, op.PushN, op.PushN, op.Slice, op.End}},
		{"'abc'[1:]", []op.Code{op.PushS, op.PushN, op.PushNil, op.Slice, op.End}},
		{"'abc'[:2]", []op.Code{op.PushS, op.PushNil, op.PushN, op.Slice, op.End}},
		{"'abc'[:]", []op.Code{op.PushS, op.PushNil, op.PushNil, op.Slice, op.End}},
		{"%{a: 1}.a", []op.Code{op.PushTbl, op.PushS, op.PushN, op.TblSet, op.PushS, op.Lookup, op.End}},
		{"[[1]][0][0]", []op.Code{
			op.PushAry, op.PushAry, op.PushN, op.Append, op.Append,
			op.PushN, op.Lookup, op.PushN, op.Lookup, op.End,
		}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, opcodes(t, tt.input), tt.input)
	}
}

func TestStrings(t *testing.T) {
	require.Equal(t, []op.Code{op.PushS, op.PushS, op.Cat, op.PushS, op.Cat, op.End},
		opcodes(t, "'a' 'b'\t'cd'"))
	require.Equal(t, []op.Code{op.PushS, op.End}, opcodes(t, "''"))

	instrs := instructions(t, "'ab$e'")
	require.Equal(t, "ab$e", instrs[0].String)

	// ${...} is plain text inside a literal.
	instrs = instructions(t, "'x${1 + 1}y'")
	require.Len(t, instrs, 2)
	require.Equal(t, "x${1 + 1}y", instrs[0].String)
}

func TestLet(t *testing.T) {
	instrs := instructions(t, "let a = 1, b = a; b")
	codes := []op.Code{}
	for _, instr := range instrs {
		codes = append(codes, instr.Op)
	}
	require.Equal(t, []op.Code{
		op.PushN, op.Dup, op.SetVar, op.Pop,
		op.GetVar, op.Dup, op.SetVar, op.Pop,
		op.GetVar, op.End,
	}, codes)
	require.Equal(t, uint32(0), instrs[2].Slot)
	require.Equal(t, uint32(0), instrs[4].Slot)
	require.Equal(t, uint32(1), instrs[6].Slot)
	require.Equal(t, uint32(1), instrs[8].Slot)
}

func TestLetDestructuring(t *testing.T) {
	require.Equal(t, []op.Code{
		op.PushAry, op.PushN, op.Append, op.PushN, op.Append,
		op.Dup, op.PushN, op.Lookup, op.SetVar,
		op.Dup, op.PushN, op.Lookup, op.SetVar,
		op.End,
	}, opcodes(t, "let [a, b] = [3, 4]"))
}

func TestShadowing(t *testing.T) {
	instrs := instructions(t, "let a = 1; let a = a; a")
	require.Equal(t, op.GetVar, instrs[4].Op)
	require.Equal(t, uint32(0), instrs[4].Slot) // the value reads the outer a
	require.Equal(t, uint32(1), instrs[6].Slot)
	require.Equal(t, op.GetVar, instrs[8].Op)
	require.Equal(t, uint32(1), instrs[8].Slot)
}

func TestBlocks(t *testing.T) {
	require.Equal(t, []op.Code{
		op.Enter, op.PushN, op.Dup, op.SetVar, op.Leave, op.End,
	}, opcodes(t, "{ let a = 1 }"))
	require.Equal(t, []op.Code{op.Enter, op.PushNil, op.Leave, op.End}, opcodes(t, "{}"))
	require.Equal(t, []op.Code{
		op.Enter, op.PushN, op.Pop, op.PushN, op.Leave, op.Pop, op.PushN, op.End,
	}, opcodes(t, "{\n 4\n 5\n}\n5"))
}

func TestBlockScopeEndsNames(t *testing.T) {
	_, err := Compile("{ let a = 1 }; a")
	require.Error(t, err)
	require.True(t, errors.Is(err, errz.UndeclaredVariable))
}

func TestAssignment(t *testing.T) {
	require.Equal(t, []op.Code{
		op.PushN, op.Dup, op.SetVar, op.Pop,
		op.PushN, op.Dup, op.SetVar, op.End,
	}, opcodes(t, "let mut a = 1; a = 2"))

	_, err := Compile("let a = 1; a = 2")
	require.Error(t, err)
	require.True(t, errors.Is(err, errz.ImmutableVariable))
	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "declare it with let mut", perr.Hint())
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"1 +", "syntax error: unexpected end of file (1:4)"},
		{"1 2", "syntax error: unexpected 2 (expected end of statement) (1:3)"},
		{"1 = 2", "syntax error: invalid assignment target (1:3)"},
		{"[1, 2", "syntax error: unexpected end of file while parsing array literal (expected , or ]) (1:6)"},
		{"{ 1", "syntax error: unterminated block (expected }) (1:4)"},
		{"(1", "syntax error: unexpected end of file while parsing grouped expression (expected )) (1:3)"},
		{"%{1: 2}", "syntax error: unexpected 1 while parsing table literal (expected key) (1:3)"},
		{"let 1 = 2", "syntax error: unexpected 1 in let (expected identifier) (1:5)"},
		{"let [] = 2", "syntax error: empty destructuring pattern (1:6)"},
		{"'abc", "syntax error: unterminated string literal (1:1)"},
		{"'a\\q'", "syntax error: invalid escape sequence: \\q (1:1)"},
		{"x = 'a${ ) }'", "undeclared variable: x (1:1)"},
		{"1 + 'a\\$'", "syntax error: invalid escape sequence: \\$ (1:5)"},
		{"@", "syntax error: invalid character: '@' (1:1)"},
		{"1.2.3", "syntax error: unexpected 3 while parsing attribute access (expected identifier) (1:5)"},
		{"'a\\x00'", "syntax error: string literal contains a NUL byte (1:1)"},
	}
	for _, tt := range tests {
		_, err := Compile(tt.input)
		require.Error(t, err, tt.input)
		require.Equal(t, tt.err, err.Error(), tt.input)
	}
}

func TestUndeclaredVariableHint(t *testing.T) {
	_, err := Compile("let count = 1\ncont")
	require.Error(t, err)
	require.True(t, errors.Is(err, errz.UndeclaredVariable))
	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "did you mean 'count'?", perr.Hint())
	require.Equal(t, "cont", perr.SourceCode())
	require.Equal(t, 2, perr.StartPosition().LineNumber())
}

func TestMultipleErrors(t *testing.T) {
	_, err := Compile(")\nlet x = 1\n]\nx")
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	require.Equal(t, "syntax error: unexpected ) (1:1) (and 1 more errors)", err.Error())
	require.True(t, errors.Is(err, errz.SyntaxError))
}

func TestMaxErrors(t *testing.T) {
	_, err := Compile(strings.Repeat(")\n", MaxErrors+5))
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, MaxErrors)
}

func TestMaxDepth(t *testing.T) {
	src := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	_, err := Compile(src)
	require.NoError(t, err)
	_, err = Compile(src, WithMaxDepth(10))
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum nesting depth exceeded")
}

func TestFilename(t *testing.T) {
	_, err := Compile("\n  )", WithFilename("main.zoe"))
	require.Error(t, err)
	require.Equal(t, "syntax error: unexpected ) (main.zoe:2:3)", err.Error())
}

func TestDebugInfo(t *testing.T) {
	unit, err := Compile("let a = 1; { let mut b = 2 }", WithDebugInfo())
	require.NoError(t, err)
	require.NotNil(t, unit.Debug())
	name, ok := unit.Debug().VariableAt(1)
	require.True(t, ok)
	require.Equal(t, "b", name)

	unit, err = Compile("let a = 1")
	require.NoError(t, err)
	_, ok = unit.Debug().VariableAt(0)
	require.False(t, ok)
}

func TestFriendlyErrorMessage(t *testing.T) {
	_, err := Compile("let abc = 1\nabd + 1", WithFilename("x.zoe"))
	require.Error(t, err)
	expected := "undeclared variable: abd\n" +
		"  --> x.zoe:2:1\n" +
		"   |\n" +
		" 2 | abd + 1\n" +
		"   | ^^^\n" +
		"   = hint: did you mean 'abc'?\n"
	require.Equal(t, expected, FriendlyErrorMessage(err, false))

	plain := FriendlyErrorMessage(errz.New(errz.KeyError, "'a'"), false)
	require.Equal(t, "key error: 'a'\n", plain)
}
