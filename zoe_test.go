package zoe

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/object"
	"github.com/zoelang/zoe/op"
	"github.com/zoelang/zoe/vm"
)

func eval(t *testing.T, source string) object.Object {
	t.Helper()
	result, err := Eval(context.Background(), source)
	require.Nil(t, err, "source: %q", source)
	return result
}

func numberExpr(t *testing.T, source string) float64 {
	t.Helper()
	n, ok := eval(t, source).(*object.Number)
	require.True(t, ok, "source: %q", source)
	return n.Value()
}

func booleanExpr(t *testing.T, source string) bool {
	t.Helper()
	b, ok := eval(t, source).(*object.Bool)
	require.True(t, ok, "source: %q", source)
	return b.Value()
}

func stringExpr(t *testing.T, source string) string {
	t.Helper()
	s, ok := eval(t, source).(*object.String)
	require.True(t, ok, "source: %q", source)
	return s.Value()
}

func inspectExpr(t *testing.T, source string) string {
	t.Helper()
	return eval(t, source).Inspect()
}

func TestCompile(t *testing.T) {
	raw, err := Compile("3.1416")
	require.Nil(t, err)
	require.Equal(t, bytecode.Magic[:], raw[:8])
	require.Equal(t, uint64(bytecode.HeaderSize), binary.LittleEndian.Uint64(raw[8:]))
	require.Equal(t, uint64(10), binary.LittleEndian.Uint64(raw[16:]))
	require.Equal(t, []byte{
		byte(op.PushN), 0xA7, 0xE8, 0x48, 0x2E, 0xFF, 0x21, 0x09, 0x40,
		byte(op.End),
	}, raw[bytecode.HeaderSize:])

	result, err := Run(context.Background(), raw)
	require.Nil(t, err)
	require.Equal(t, "3.1416", result.Inspect())
}

func TestCompileError(t *testing.T) {
	_, err := Compile("let a = ", WithFilename("prog.zoe"))
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errz.SyntaxError))
	require.Contains(t, err.Error(), "prog.zoe:1:")
}

func TestMathExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"2 + 3", 5},
		{"2 * 3", 6},
		{"2 - 3", -1},
		{"3 / 2", 1.5},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"3 %/ 2", 1},
		{"3 % 2", 1},
		{"-3 + 2", -1},
		{"2 ** 3", 8},
		{"0b11 & 0b10", 2},
		{"0b11 | 0b10", 3},
		{"0b11 ^ 0b10", 1},
		{"0b1000 >> 2", 2},
		{"0b1000 << 2", 32},
		{"(~0b1010) & 0b1111", 5},
		{"0x1F + 1", 32},
		{"1.5e2", 150},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, numberExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestBooleanExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"2 > 3", false},
		{"2 < 3", true},
		{"2 == 3", false},
		{"2 != 3", true},
		{"?3", false},
		{"?nil", true},
		{"!true", false},
		{"!false", true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, booleanExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestShortCircuitExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true && true", true},
		{"true && false", false},
		{"false && true", false},
		{"false && false", false},
		{"true && true && true", true},
		{"true && true && false", false},
		{"true || true", true},
		{"true || false", true},
		{"false || true", true},
		{"false || false", false},
		{"true || true || true", true},
		{"true || true || false", true},
		{"false || false || false", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, booleanExpr(t, tt.input), "input: %s", tt.input)
	}
	require.Equal(t, 4.0, numberExpr(t, "2 < 3 ? 4 : 5"))
	require.Equal(t, 5.0, numberExpr(t, "2 >= 3 ? 4 : 5"))
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`'abc'`, "abc"},
		{`'a\nb'`, "a\nb"},
		{`'a\x41b'`, "aAb"},
		{`'ab'..'cd'`, "abcd"},
		{`'ab'..'cd'..'ef'`, "abcdef"},
		{"'a\nf'", "a\nf"},
		{`'a' 'b' 'cd'`, "abcd"},
		{`'ab$e'`, "ab$e"},
		{`'ab$'`, "ab$"},
		{`'x${1+1}y'`, "x${1+1}y"},
		{`let name = 'zoe'; 'hi ' .. name .. '!'`, "hi zoe!"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, stringExpr(t, tt.input), "input: %s", tt.input)
	}
	require.Equal(t, 4.0, numberExpr(t, "#'abcd'"))
	require.Equal(t, 0.0, numberExpr(t, "#''"))
	require.Equal(t, 8.0, numberExpr(t, "#('ab' .. 'cd' .. 'xx' 'ef')"))
}

func TestStringSubscripts(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"'abcd'[1]", "b"},
		{"'abcd'[-1]", "d"},
		{"'abcd'[1:2]", "b"},
		{"'abcd'[1:3]", "bc"},
		{"'abcd'[1:]", "bcd"},
		{"'abcd'[:3]", "abc"},
		{"'abcd'[-3:-1]", "bc"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, stringExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestComments(t *testing.T) {
	tests := []string{
		"2 + 3 /* test */",
		"/* test */ 2 + 3",
		"2 /* test */ + 3",
		"2 /* t\ne\nst */ + 3",
		"// test\n2 + 3",
		"2 + 3//test\n",
	}
	for _, input := range tests {
		require.Equal(t, 5.0, numberExpr(t, input), "input: %q", input)
	}
	require.Equal(t, 2.0, numberExpr(t, "2 /* a /* b */ */"))
	require.Equal(t, 2.0, numberExpr(t, "2 /* /* / */ */"))
}

func TestArrays(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[]", "[]"},
		{"[2,3]", "[2, 3]"},
		{"[2,3,]", "[2, 3]"},
		{"[[1]]", "[[1]]"},
		{"[2, 3, []]", "[2, 3, []]"},
		{"[2, 3, ['abc', true, [nil]]]", "[2, 3, ['abc', true, [nil]]]"},
		{"[2,3,4][0:1]", "[2]"},
		{"[2,3,4][0:2]", "[2, 3]"},
		{"[2,3,4][1:3]", "[3, 4]"},
		{"[2,3,4][1:]", "[3, 4]"},
		{"[2,3,4][:2]", "[2, 3]"},
		{"[2,3,4][:]", "[2, 3, 4]"},
		{"[2,3,4][-1:]", "[4]"},
		{"[2,3,4][-2:-1]", "[3]"},
		{"[2,3,4][:-2]", "[2]"},
		{"[2,3]..[4,5,6]", "[2, 3, 4, 5, 6]"},
		{"[2,3] * 3", "[2, 3, 2, 3, 2, 3]"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, inspectExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestArrayEquality(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"[]==[]", true},
		{"[2,3,]==[2,3]", true},
		{"[2,3,[4,'abc'],nil] == [ 2, 3, [ 4, 'abc' ], nil ]", true},
		{"[2,3,4]==[2,3]", false},
		{"[2,3,4]==[2,3,5]", false},
		{"[2,3,4]!=[2,3,5]", true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, booleanExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestArrayAccess(t *testing.T) {
	require.Equal(t, 2.0, numberExpr(t, "[2,3,4][0]"))
	require.Equal(t, 3.0, numberExpr(t, "[2,3,4][1]"))
	require.Equal(t, 4.0, numberExpr(t, "[2,3,4][-1]"))
	require.Equal(t, 3.0, numberExpr(t, "[2,3,4][-2]"))
	require.Equal(t, "hello", stringExpr(t, "[2,3,'hello'][2]"))
	require.Equal(t, 3.0, numberExpr(t, "#[2, 3, 4]"))
	require.Equal(t, 0.0, numberExpr(t, "#[]"))

	_, err := Eval(context.Background(), "[2,3,4][3]")
	require.True(t, errors.Is(err, errz.IndexOutOfRange))
}

func TestTables(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"%{}", "%{}"},
		{"%{hello: 'world'}", "%{hello: 'world'}"},
		{"%{hello: 'world',}", "%{hello: 'world'}"},
		{"%{b: %{a:1}}", "%{b: %{a: 1}}"},
		{"%{hello: []}", "%{hello: []}"},
		{"%{[2]: 3, abc: %{d: 3}}", "%{[2]: 3, abc: %{d: 3}}"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, inspectExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestTableAccess(t *testing.T) {
	require.Equal(t, "world", stringExpr(t, "%{hello: 'world', a: 42}['hello']"))
	require.Equal(t, "world", stringExpr(t, "%{hello: 'world', a: 42}.hello"))
	require.Equal(t, 42.0, numberExpr(t, "%{hello: 'world', a: 42}.a"))
	require.Equal(t, 42.0, numberExpr(t, "%{hello: %{world: 42}}.hello.world"))
	require.Equal(t, 42.0, numberExpr(t, "%{hello: %{world: 42}}['hello']['world']"))

	_, err := Eval(context.Background(), "%{hello: 'world'}.a")
	require.True(t, errors.Is(err, errz.KeyError))
}

func TestTableEquality(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"%{}==%{}", true},
		{"%{hello: 'world'}==%{hello: 'world'}", true},
		{"%{b: %{a:1}}==%{b: %{a:1}}", true},
		{"%{[2]: 3, abc: %{d: %{e: 42}} }==%{[2]: 3, abc: %{d: %{e: 42} }}", true},
		{"%{a: 1, b: 2} == %{b: 2, a: 1}", true},
		{"%{}==%{hello: 'world'}", false},
		{"%{hello: 'world'}==%{}", false},
		{"%{b: %{a:1}}==%{b: 1}", false},
		{"%{b: %{a:1}}==%{b: %{a:2}}", false},
		{"%{b: %{a:1}}==%{b: %{c:1}}", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, booleanExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestLocalVariables(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"let a = 4", 4},
		{"let a = 4; a", 4},
		{"let a = 4; let b = 25; a", 4},
		{"let a = 4; let b = 25; b", 25},
		{"let a = let b = 25; a", 25},
		{"let a = let b = 25; b", 25},
		{"let a = 25; let b = a; b", 25},
		{"let a = 25; let b = a; let c = b; c", 25},
		{"let a = 25, b = 13; a", 25},
		{"let a = 25, b = 13, c = 48; b", 13},
		{"let a = 25, b = a, c = b; b", 25},
		{"let [a, b] = [3, 4]; a", 3},
		{"let [a, b, c] = [3, 4, 5]; b", 4},
		{"let x = 8, [a, b, c] = [3, x, 5]; b", 8},
		{"let [a, b, c] = [3, 4, 5], x = b; x", 4},
		{"let mut a = 1; a = a + 1; a = a * 10", 20},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, numberExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestDestructuringShortArray(t *testing.T) {
	_, err := Eval(context.Background(), "let [a, b] = [1]; b")
	require.True(t, errors.Is(err, errz.IndexOutOfRange))
}

func TestScopes(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"{ 4 }", 4},
		{"{ 4; 5 }", 5},
		{"{ 4; 5; }", 5},
		{"{ 4\n 5 }", 5},
		{"{ 4; { 5; } }", 5},
		{"{ 4; { 5; { 6; 7 } } }", 7},
		{"{ 4 }; 5", 5},
		{"{ \n 4 \n }\n 5", 5},
		{"let a = 4; { 4 }; a", 4},
		{"let a = 4; { let a = 5; a }", 5},
		{"let a = 4; { let a = 5 }; a", 4},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, numberExpr(t, tt.input), "input: %s", tt.input)
	}
}

func TestEvalWithVMOptions(t *testing.T) {
	_, err := Eval(context.Background(), "let a = 1; a + a + a", WithVMOptions(vm.WithInstructionLimit(3)))
	require.True(t, errors.Is(err, errz.InstructionLimit))
}

func TestRunMalformed(t *testing.T) {
	raw, err := Compile("1")
	require.Nil(t, err)
	raw[0] = 0
	_, err = Run(context.Background(), raw)
	require.True(t, errors.Is(err, errz.MalformedBytecode))
}

func TestDebugInfo(t *testing.T) {
	unit, err := CompileUnit("let answer = 42", WithDebugInfo())
	require.Nil(t, err)
	name, ok := unit.Debug().VariableAt(0)
	require.True(t, ok)
	require.Equal(t, "answer", name)
}
