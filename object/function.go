package object

import (
	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
)

// Function is either a native operation, identified by name, or a compiled
// bytecode unit with a declared argument count.
type Function struct {
	name  string
	unit  *bytecode.Unit
	arity int
}

// NewNative returns a function referring to a host-provided operation.
func NewNative(name string) *Function {
	return &Function{name: name}
}

// NewFunction returns a bytecode function.
func NewFunction(unit *bytecode.Unit, arity int) *Function {
	return &Function{unit: unit, arity: arity}
}

func (f *Function) Type() Type {
	return FUNCTION
}

// Name returns the operation name of a native function.
func (f *Function) Name() string {
	return f.name
}

// Unit returns the bytecode of the function, or nil for native functions.
func (f *Function) Unit() *bytecode.Unit {
	return f.unit
}

func (f *Function) Arity() int {
	return f.arity
}

// IsBytecode reports whether the function can be executed by the VM.
func (f *Function) IsBytecode() bool {
	return f.unit != nil
}

func (f *Function) Inspect() string {
	return "function"
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) Interface() interface{} {
	return f
}

func (f *Function) Equals(other Object) (bool, error) {
	return false, errz.New(errz.TypeError, "functions cannot be compared")
}

func (f *Function) Len() (int, error) {
	return 0, lenError(f)
}

func (f *Function) Hash() (uint64, error) {
	return 0, unhashable(f)
}

func (f *Function) sealed() {}
