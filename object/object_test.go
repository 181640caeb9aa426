package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zoelang/zoe/errz"
)

func arr(items ...Object) *Array {
	return NewArray(items)
}

func num(v float64) *Number {
	return NewNumber(v)
}

func str(s string) *String {
	return NewString(s)
}

func TestInspect(t *testing.T) {
	tbl := NewTable()
	require.Nil(t, tbl.Set(str("hello"), str("world")))
	require.Nil(t, tbl.Set(num(2), True))
	require.Nil(t, tbl.Set(str("two words"), Nil))

	tests := []struct {
		obj      Object
		expected string
	}{
		{Nil, "nil"},
		{True, "true"},
		{False, "false"},
		{num(42), "42"},
		{num(100), "100"},
		{num(-0.5), "-0.5"},
		{num(3.1416), "3.1416"},
		{num(1.0 / 3.0), "0.33333333333333"},
		{str("abc"), "'abc'"},
		{str("a'b\\c\nd\re\tf"), `'a\'b\\c\nd\re\x09f'`},
		{str("\x00\xff"), `'\x00\xFF'`},
		{arr(), "[]"},
		{arr(num(2), num(3), arr(num(4), str("abc")), Nil), "[2, 3, [4, 'abc'], nil]"},
		{NewTable(), "%{}"},
		{tbl, "%{hello: 'world', [2]: true, ['two words']: nil}"},
		{NewNative("print"), "function"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.obj.Inspect())
		})
	}
}

func TestEquals(t *testing.T) {
	build := func() *Array {
		return arr(num(2), num(3), arr(num(4), str("abc")), Nil)
	}
	eq, err := build().Equals(build())
	require.Nil(t, err)
	require.True(t, eq)

	eq, err = build().Equals(arr(num(2), num(3)))
	require.Nil(t, err)
	require.False(t, eq)

	eq, err = arr(num(1), num(2)).Equals(arr(num(1), num(3)))
	require.Nil(t, err)
	require.False(t, eq)

	eq, err = num(0).Equals(num(math.Copysign(0, -1)))
	require.Nil(t, err)
	require.True(t, eq)

	eq, err = num(math.NaN()).Equals(num(math.NaN()))
	require.Nil(t, err)
	require.False(t, eq)

	eq, err = num(1).Equals(str("1"))
	require.Nil(t, err)
	require.False(t, eq)

	_, err = NewNative("f").Equals(NewNative("f"))
	require.ErrorIs(t, err, errz.TypeError)
	_, err = Nil.Equals(NewNative("f"))
	require.ErrorIs(t, err, errz.TypeError)
}

func TestTableEquals(t *testing.T) {
	a, b := NewTable(), NewTable()
	require.Nil(t, a.Set(str("x"), num(1)))
	require.Nil(t, a.Set(str("y"), arr(num(2))))
	require.Nil(t, b.Set(str("y"), arr(num(2))))
	require.Nil(t, b.Set(str("x"), num(1)))
	eq, err := a.Equals(b)
	require.Nil(t, err)
	require.True(t, eq)

	require.Nil(t, b.Set(str("x"), num(5)))
	eq, err = a.Equals(b)
	require.Nil(t, err)
	require.False(t, eq)
}

func TestHash(t *testing.T) {
	h1, err := num(0).Hash()
	require.Nil(t, err)
	h2, err := num(math.Copysign(0, -1)).Hash()
	require.Nil(t, err)
	require.Equal(t, h1, h2)

	s1, _ := str("abc").Hash()
	s2, _ := str("abc").Hash()
	require.Equal(t, s1, s2)

	t1, _ := True.Hash()
	f1, _ := False.Hash()
	require.NotEqual(t, t1, f1)

	for _, obj := range []Object{arr(), NewTable(), NewNative("f")} {
		_, err := obj.Hash()
		require.ErrorIs(t, err, errz.UnhashableType)
	}
}

func TestNaNKeys(t *testing.T) {
	nan := math.NaN()
	other := math.Float64frombits(math.Float64bits(nan) ^ 1)
	require.True(t, math.IsNaN(other))

	tbl := NewTable()
	require.Nil(t, tbl.Set(num(nan), str("first")))
	require.Nil(t, tbl.Set(num(other), str("second")))
	require.Equal(t, 1, tbl.Size())

	value, err := tbl.Lookup(num(nan))
	require.Nil(t, err)
	require.Equal(t, "second", value.(*String).Value())

	require.Nil(t, tbl.Delete(num(other)))
	require.Equal(t, 0, tbl.Size())
}

func TestLen(t *testing.T) {
	n, err := str("abcd").Len()
	require.Nil(t, err)
	require.Equal(t, 4, n)
	n, err = arr(Nil, Nil).Len()
	require.Nil(t, err)
	require.Equal(t, 2, n)
	for _, obj := range []Object{Nil, True, num(1), NewTable(), NewNative("f")} {
		_, err := obj.Len()
		require.ErrorIs(t, err, errz.TypeError)
	}
}

func TestTableKeys(t *testing.T) {
	tbl := NewTable()
	require.Nil(t, tbl.Set(num(1), str("one")))
	require.Nil(t, tbl.Set(str("1"), str("string one")))
	require.Nil(t, tbl.Set(True, Nil))
	require.Equal(t, 3, tbl.Size())

	v, err := tbl.Lookup(num(1))
	require.Nil(t, err)
	require.Equal(t, "'one'", v.Inspect())

	_, err = tbl.Lookup(str("missing"))
	require.ErrorIs(t, err, errz.KeyError)

	err = tbl.Set(arr(), Nil)
	require.ErrorIs(t, err, errz.UnhashableType)
	_, err = tbl.Lookup(NewTable())
	require.ErrorIs(t, err, errz.UnhashableType)

	require.Nil(t, tbl.Delete(str("1")))
	require.Equal(t, "%{[1]: 'one', [true]: nil}", tbl.Inspect())
}

func TestCyclesAreRejected(t *testing.T) {
	a := arr()
	require.ErrorIs(t, a.Append(a), errz.CyclicReference)

	inner := arr()
	outer := arr(inner)
	require.ErrorIs(t, inner.Append(outer), errz.CyclicReference)

	tbl := NewTable()
	require.ErrorIs(t, tbl.Set(str("self"), tbl), errz.CyclicReference)
	holder := arr(tbl)
	require.ErrorIs(t, tbl.Set(str("holder"), holder), errz.CyclicReference)

	shared := arr(num(1))
	require.Nil(t, outer.Append(shared))
	require.Nil(t, outer.Append(shared))
	require.Equal(t, "[[], [1], [1]]", outer.Inspect())
}

func TestCycleCheckVisitsSharedValuesOnce(t *testing.T) {
	// Each level references the one below twice, so a walk that revisits
	// shared values takes 2^64 steps.
	level := arr(num(1))
	for i := 0; i < 64; i++ {
		tbl := NewTable()
		require.Nil(t, tbl.Set(str("l"), level))
		require.Nil(t, tbl.Set(str("r"), level))
		level = arr(tbl, tbl)
	}
	holder := arr()
	require.Nil(t, holder.Append(level))
	require.Nil(t, holder.Append(level))

	bottom := level
	for {
		next, ok := bottom.items[0].(*Table)
		if !ok {
			break
		}
		l, err := next.Lookup(str("l"))
		require.Nil(t, err)
		bottom = l.(*Array)
	}
	require.ErrorIs(t, bottom.Append(holder), errz.CyclicReference)
}

func TestInterface(t *testing.T) {
	tbl := NewTable()
	require.Nil(t, tbl.Set(str("a"), arr(num(1), True, Nil)))
	require.Nil(t, tbl.Set(num(2), str("x")))
	require.Equal(t, map[string]interface{}{
		"a": []interface{}{1.0, true, nil},
		"2": "x",
	}, tbl.Interface())

	back := FromGoType(map[string]interface{}{"b": 1, "a": []interface{}{"x"}})
	require.Equal(t, "%{a: ['x'], b: 1}", back.Inspect())
	require.Nil(t, FromGoType(struct{}{}))
}
