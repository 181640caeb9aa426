// Package object provides the zoe runtime value types.
//
// Values are a closed set: *NilType, *Bool, *Number, *String, *Array,
// *Table and *Function. Code that needs the concrete value type switches
// over them:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Value()
//	case *object.Number:
//		// do something with obj.Value()
//	}
//
// Arrays and tables are mutable and may be shared by several stack slots or
// container cells. A container is never allowed to contain itself.
package object

// Type of an object as a string.
type Type string

// Type constants
const (
	NIL      Type = "nil"
	BOOL     Type = "boolean"
	NUMBER   Type = "number"
	STRING   Type = "string"
	ARRAY    Type = "array"
	TABLE    Type = "table"
	FUNCTION Type = "function"
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface implemented by every zoe value.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns the canonical textual rendering of the object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Equals reports deep structural equality. It fails with a TypeError
	// when either side has no equality definition.
	Equals(other Object) (bool, error)

	// Len returns the byte count of a string or the element count of an
	// array. Other types fail with a TypeError.
	Len() (int, error)

	// Hash returns a hash suitable for table keys. Arrays, tables and
	// functions fail with UnhashableType.
	Hash() (uint64, error)

	sealed()
}

// NewBool returns True or False.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// FromGoType converts a plain Go value into an Object. It returns nil for
// unsupported types.
func FromGoType(v interface{}) Object {
	switch v := v.(type) {
	case nil:
		return Nil
	case bool:
		return NewBool(v)
	case float64:
		return NewNumber(v)
	case int:
		return NewNumber(float64(v))
	case int64:
		return NewNumber(float64(v))
	case string:
		return NewString(v)
	case []interface{}:
		items := make([]Object, 0, len(v))
		for _, item := range v {
			obj := FromGoType(item)
			if obj == nil {
				return nil
			}
			items = append(items, obj)
		}
		return NewArray(items)
	case map[string]interface{}:
		tbl := NewTable()
		for _, k := range sortedKeys(v) {
			obj := FromGoType(v[k])
			if obj == nil {
				return nil
			}
			if err := tbl.Set(NewString(k), obj); err != nil {
				return nil
			}
		}
		return tbl
	case Object:
		return v
	}
	return nil
}
