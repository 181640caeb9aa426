package object

import (
	"math"
	"strings"

	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/hashtable"
)

// Table maps hashable values to values. Iteration and Inspect follow
// insertion order.
type Table struct {
	items *hashtable.Map[Object, Object]
}

func NewTable() *Table {
	return &Table{items: hashtable.New[Object, Object](hashKey, keysEqual)}
}

func hashKey(key Object) (uint64, error) {
	return key.Hash()
}

// keysEqual is Equals, except that NaN keys match each other so a NaN key
// can be found again.
func keysEqual(a, b Object) bool {
	if x, ok := a.(*Number); ok {
		if y, ok := b.(*Number); ok && math.IsNaN(x.value) && math.IsNaN(y.value) {
			return true
		}
	}
	eq, err := a.Equals(b)
	return err == nil && eq
}

func (t *Table) Type() Type {
	return TABLE
}

// Get returns the value stored under key.
func (t *Table) Get(key Object) (Object, bool, error) {
	return t.items.Get(key)
}

// Lookup returns the value stored under key, failing with KeyError when the
// key is missing.
func (t *Table) Lookup(key Object) (Object, error) {
	value, found, err := t.items.Get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errz.Newf(errz.KeyError, "%s", key.Inspect())
	}
	return value, nil
}

// Set stores value under key. It fails with UnhashableType for keys that
// cannot be hashed and CyclicReference if the table would contain itself.
func (t *Table) Set(key, value Object) error {
	if err := cyclic(t, key); err != nil {
		return err
	}
	if err := cyclic(t, value); err != nil {
		return err
	}
	return t.items.Set(key, value)
}

// Delete removes key from the table. Missing keys are ignored.
func (t *Table) Delete(key Object) error {
	return t.items.Delete(key)
}

// Size returns the number of entries.
func (t *Table) Size() int {
	return t.items.Len()
}

// Buckets returns the capacity of the backing hash table.
func (t *Table) Buckets() int {
	return t.items.Buckets()
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []Object {
	return t.items.Keys()
}

// Each calls fn for every entry in insertion order until fn returns false.
func (t *Table) Each(fn func(key, value Object) bool) {
	t.items.Each(fn)
}

func (t *Table) Inspect() string {
	var b strings.Builder
	b.WriteString("%{")
	first := true
	t.items.Each(func(k, v Object) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		if s, ok := k.(*String); ok && isIdentifier(s.value) {
			b.WriteString(s.value)
		} else {
			b.WriteByte('[')
			b.WriteString(k.Inspect())
			b.WriteByte(']')
		}
		b.WriteString(": ")
		b.WriteString(v.Inspect())
		return true
	})
	b.WriteByte('}')
	return b.String()
}

func (t *Table) String() string {
	return t.Inspect()
}

// Interface converts the table to a map. Non-string keys are rendered with
// Inspect.
func (t *Table) Interface() interface{} {
	out := make(map[string]interface{}, t.items.Len())
	t.items.Each(func(k, v Object) bool {
		name := k.Inspect()
		if s, ok := k.(*String); ok {
			name = s.value
		}
		out[name] = v.Interface()
		return true
	})
	return out
}

func (t *Table) Equals(other Object) (bool, error) {
	if err := checkComparable(other); err != nil {
		return false, err
	}
	o, ok := other.(*Table)
	if !ok || o.Size() != t.Size() {
		return false, nil
	}
	equal := true
	var err error
	t.items.Each(func(k, v Object) bool {
		var ov Object
		var found bool
		if ov, found, err = o.items.Get(k); err != nil || !found {
			equal = false
			return false
		}
		if equal, err = v.Equals(ov); err != nil {
			equal = false
		}
		return equal
	})
	return equal, err
}

func (t *Table) Len() (int, error) {
	return 0, lenError(t)
}

func (t *Table) Hash() (uint64, error) {
	return 0, unhashable(t)
}

func (t *Table) sealed() {}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
