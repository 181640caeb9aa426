package object

import (
	"fmt"
	"strings"
)

// String is an immutable byte string.
type String struct {
	value string
}

func NewString(s string) *String {
	return &String{value: s}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return Quote(s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Equals(other Object) (bool, error) {
	if err := checkComparable(other); err != nil {
		return false, err
	}
	o, ok := other.(*String)
	return ok && o.value == s.value, nil
}

func (s *String) Len() (int, error) {
	return len(s.value), nil
}

func (s *String) Hash() (uint64, error) {
	return hashTag(STRING) ^ hashString(s.value), nil
}

func (s *String) sealed() {}

// Quote renders s single-quoted. Newlines, carriage returns, backslashes and
// quotes are escaped; other bytes outside printable ASCII become \xHH.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\\' || c == '\'':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c >= 32 && c < 127:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, `\x%02X`, c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
