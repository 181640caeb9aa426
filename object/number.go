package object

import (
	"fmt"
	"math"
	"strings"
)

// Number wraps a float64. Equality follows IEEE-754 rules, so NaN is not
// equal to itself and +0 equals -0.
type Number struct {
	value float64
}

func NewNumber(value float64) *Number {
	return &Number{value: value}
}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Value() float64 {
	return n.value
}

// Inspect renders the number with up to 14 fractional digits, dropping
// trailing fractional zeros and a trailing decimal point.
func (n *Number) Inspect() string {
	s := fmt.Sprintf("%.14f", n.value)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func (n *Number) String() string {
	return n.Inspect()
}

func (n *Number) Interface() interface{} {
	return n.value
}

func (n *Number) Equals(other Object) (bool, error) {
	if err := checkComparable(other); err != nil {
		return false, err
	}
	o, ok := other.(*Number)
	return ok && o.value == n.value, nil
}

func (n *Number) Len() (int, error) {
	return 0, lenError(n)
}

func (n *Number) Hash() (uint64, error) {
	v := n.value
	if v == 0 {
		v = 0 // fold -0 into +0
	} else if math.IsNaN(v) {
		v = math.NaN()
	}
	return hashTag(NUMBER) ^ hashBits(math.Float64bits(v)), nil
}

// Int64 truncates the number toward zero.
func (n *Number) Int64() int64 {
	return int64(n.value)
}

// IsInteger reports whether the number has no fractional part.
func (n *Number) IsInteger() bool {
	return n.value == math.Trunc(n.value) && !math.IsInf(n.value, 0)
}

func (n *Number) sealed() {}
