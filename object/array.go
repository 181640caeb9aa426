package object

import (
	"strings"

	"github.com/zoelang/zoe/errz"
)

// Array is a mutable ordered sequence of values.
type Array struct {
	items []Object
}

// NewArray returns an array holding items. The array takes ownership of the
// slice.
func NewArray(items []Object) *Array {
	return &Array{items: items}
}

func (a *Array) Type() Type {
	return ARRAY
}

// Items returns a copy of the array's elements.
func (a *Array) Items() []Object {
	out := make([]Object, len(a.items))
	copy(out, a.items)
	return out
}

// Get returns the element at index. Negative indexes count from the end.
func (a *Array) Get(index int) (Object, error) {
	i, err := resolveIndex(index, len(a.items))
	if err != nil {
		return nil, err
	}
	return a.items[i], nil
}

// Append adds value to the end of the array. It fails with CyclicReference
// if value is or contains the array.
func (a *Array) Append(value Object) error {
	if err := cyclic(a, value); err != nil {
		return err
	}
	a.items = append(a.items, value)
	return nil
}

func (a *Array) Inspect() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range a.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.Inspect())
	}
	b.WriteByte(']')
	return b.String()
}

func (a *Array) String() string {
	return a.Inspect()
}

func (a *Array) Interface() interface{} {
	out := make([]interface{}, 0, len(a.items))
	for _, item := range a.items {
		out = append(out, item.Interface())
	}
	return out
}

func (a *Array) Equals(other Object) (bool, error) {
	if err := checkComparable(other); err != nil {
		return false, err
	}
	o, ok := other.(*Array)
	if !ok || len(o.items) != len(a.items) {
		return false, nil
	}
	for i, item := range a.items {
		eq, err := item.Equals(o.items[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (a *Array) Len() (int, error) {
	return len(a.items), nil
}

func (a *Array) Hash() (uint64, error) {
	return 0, unhashable(a)
}

func (a *Array) sealed() {}

func resolveIndex(index, size int) (int, error) {
	i := index
	if i < 0 {
		i += size
	}
	if i < 0 || i >= size {
		return 0, errz.Newf(errz.IndexOutOfRange, "index %d out of range for length %d", index, size)
	}
	return i, nil
}
