package object

import (
	"math"

	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/op"
)

// BinaryOp applies a binary operator. a is the left-hand operand.
func BinaryOp(code op.Code, a, b Object) (Object, error) {
	switch code {
	case op.Eq:
		eq, err := a.Equals(b)
		if err != nil {
			return nil, err
		}
		return NewBool(eq), nil
	case op.Cat:
		return Concat(a, b)
	case op.Mul:
		if arr, ok := a.(*Array); ok {
			return repeat(arr, b)
		}
	}
	x, y, err := numbers(code, a, b)
	if err != nil {
		return nil, err
	}
	switch code {
	case op.Add:
		return NewNumber(x + y), nil
	case op.Sub:
		return NewNumber(x - y), nil
	case op.Mul:
		return NewNumber(x * y), nil
	case op.Div:
		return NewNumber(x / y), nil
	case op.IDiv:
		return NewNumber(math.Floor(x / y)), nil
	case op.Mod:
		return NewNumber(math.Mod(x, y)), nil
	case op.Pow:
		return NewNumber(math.Pow(x, y)), nil
	case op.And:
		return NewNumber(float64(int64(x) & int64(y))), nil
	case op.Xor:
		return NewNumber(float64(int64(x) ^ int64(y))), nil
	case op.Or:
		return NewNumber(float64(int64(x) | int64(y))), nil
	case op.Shl:
		return NewNumber(float64(shift(int64(x), int64(y)))), nil
	case op.Shr:
		return NewNumber(float64(shift(int64(x), -int64(y)))), nil
	case op.Lt:
		return NewBool(x < y), nil
	case op.Lte:
		return NewBool(x <= y), nil
	case op.Gt:
		return NewBool(x > y), nil
	case op.Gte:
		return NewBool(x >= y), nil
	}
	return nil, errz.Newf(errz.InvalidOpcode, "%s is not a binary operator", code)
}

func numbers(code op.Code, a, b Object) (float64, float64, error) {
	x, ok1 := a.(*Number)
	y, ok2 := b.(*Number)
	if !ok1 || !ok2 {
		return 0, 0, errz.Newf(errz.TypeError, "unsupported operand types for %s: %s and %s", code, a.Type(), b.Type())
	}
	return x.value, y.value, nil
}

// shift shifts left by n, or right (arithmetically) when n is negative.
func shift(v, n int64) int64 {
	if n >= 0 {
		return v << uint64(n)
	}
	return v >> uint64(-n)
}

// MaxRepeatLength bounds the number of elements array repetition may
// produce.
const MaxRepeatLength = 1 << 24

func repeat(arr *Array, count Object) (Object, error) {
	n, ok := count.(*Number)
	if !ok || !n.IsInteger() || n.value < 0 {
		return nil, errz.Newf(errz.TypeError, "array can only be multiplied by a non-negative integer, got %s", count.Inspect())
	}
	if len(arr.items) == 0 {
		return NewArray(nil), nil
	}
	if n.value*float64(len(arr.items)) > MaxRepeatLength {
		return nil, errz.Newf(errz.TypeError, "array repetition by %s exceeds %d elements", count.Inspect(), MaxRepeatLength)
	}
	times := int(n.value)
	items := make([]Object, 0, len(arr.items)*times)
	for i := 0; i < times; i++ {
		items = append(items, arr.items...)
	}
	return NewArray(items), nil
}

// UnaryOp applies NEG or NOT.
func UnaryOp(code op.Code, a Object) (Object, error) {
	switch code {
	case op.Neg:
		if n, ok := a.(*Number); ok {
			return NewNumber(-n.value), nil
		}
	case op.Not:
		switch a := a.(type) {
		case *Number:
			return NewNumber(float64(^int64(a.value))), nil
		case *Bool:
			return NewBool(!a.value), nil
		}
	default:
		return nil, errz.Newf(errz.InvalidOpcode, "%s is not a unary operator", code)
	}
	return nil, errz.Newf(errz.TypeError, "unsupported operand type for %s: %s", code, a.Type())
}

// Concat joins two strings or two arrays into a new value.
func Concat(a, b Object) (Object, error) {
	switch a := a.(type) {
	case *String:
		if b, ok := b.(*String); ok {
			return NewString(a.value + b.value), nil
		}
	case *Array:
		if b, ok := b.(*Array); ok {
			items := make([]Object, 0, len(a.items)+len(b.items))
			items = append(items, a.items...)
			items = append(items, b.items...)
			return NewArray(items), nil
		}
	}
	return nil, errz.Newf(errz.TypeError, "cannot concatenate %s and %s", a.Type(), b.Type())
}

// Length returns the length of a string or array as a Number.
func Length(a Object) (Object, error) {
	n, err := a.Len()
	if err != nil {
		return nil, err
	}
	return NewNumber(float64(n)), nil
}

// Lookup indexes a string, array or table.
func Lookup(container, index Object) (Object, error) {
	switch c := container.(type) {
	case *Table:
		return c.Lookup(index)
	case *String:
		i, err := intIndex(index)
		if err != nil {
			return nil, err
		}
		if i, err = resolveIndex(i, len(c.value)); err != nil {
			return nil, err
		}
		return NewString(c.value[i : i+1]), nil
	case *Array:
		i, err := intIndex(index)
		if err != nil {
			return nil, err
		}
		return c.Get(i)
	}
	return nil, errz.Newf(errz.TypeError, "%s is not indexable", container.Type())
}

// Slice returns the half-open range [start, finish) of a string or array as
// a new value. A nil start means 0 and a nil finish means the length.
// Negative bounds count from the end.
func Slice(container, start, finish Object) (Object, error) {
	size, err := container.Len()
	if err != nil {
		return nil, errz.Newf(errz.TypeError, "%s cannot be sliced", container.Type())
	}
	from, err := sliceBound(start, 0, size)
	if err != nil {
		return nil, err
	}
	to, err := sliceBound(finish, size, size)
	if err != nil {
		return nil, err
	}
	if from < 0 || from > size || to < 0 || to > size {
		return nil, errz.Newf(errz.IndexOutOfRange, "slice [%d:%d] out of range for length %d", from, to, size)
	}
	if from >= to {
		return nil, errz.Newf(errz.InvalidSlice, "slice start %d is not before finish %d", from, to)
	}
	switch c := container.(type) {
	case *String:
		return NewString(c.value[from:to]), nil
	case *Array:
		items := make([]Object, to-from)
		copy(items, c.items[from:to])
		return NewArray(items), nil
	}
	return nil, errz.Newf(errz.TypeError, "%s cannot be sliced", container.Type())
}

func sliceBound(bound Object, dflt, size int) (int, error) {
	if _, ok := bound.(*NilType); ok {
		return dflt, nil
	}
	i, err := intIndex(bound)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += size
	}
	return i, nil
}

func intIndex(index Object) (int, error) {
	n, ok := index.(*Number)
	if !ok || !n.IsInteger() {
		return 0, errz.Newf(errz.TypeError, "index must be an integer, got %s", index.Inspect())
	}
	return int(n.value), nil
}
