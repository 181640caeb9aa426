package vm

import (
	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/dis"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/object"
	"github.com/zoelang/zoe/parser"
)

// StackSize returns the number of values on the stack.
func (vm *VirtualMachine) StackSize() int {
	return len(vm.stack)
}

// Push pushes obj onto the stack. A nil interface is pushed as Nil.
func (vm *VirtualMachine) Push(obj object.Object) {
	if obj == nil {
		obj = object.Nil
	}
	vm.push(obj)
}

func (vm *VirtualMachine) PushNil() {
	vm.push(object.Nil)
}

func (vm *VirtualMachine) PushBoolean(value bool) {
	vm.push(object.NewBool(value))
}

func (vm *VirtualMachine) PushNumber(value float64) {
	vm.push(object.NewNumber(value))
}

func (vm *VirtualMachine) PushString(value string) {
	vm.push(object.NewString(value))
}

// PushArray pushes a new empty array and returns it.
func (vm *VirtualMachine) PushArray() *object.Array {
	arr := object.NewArray(nil)
	vm.push(arr)
	return arr
}

// PushTable pushes a new empty table and returns it.
func (vm *VirtualMachine) PushTable() *object.Table {
	tbl := object.NewTable()
	vm.push(tbl)
	return tbl
}

func (vm *VirtualMachine) PushFunction(fn *object.Function) {
	vm.push(fn)
}

// Pop removes and returns the top of the stack.
func (vm *VirtualMachine) Pop() (object.Object, error) {
	obj, err := vm.Peek()
	if err != nil {
		return nil, err
	}
	vm.truncate(len(vm.stack) - 1)
	return obj, nil
}

// Peek returns the top of the stack without removing it.
func (vm *VirtualMachine) Peek() (object.Object, error) {
	return vm.Get(-1)
}

// Get returns the value at pos. Non-negative positions count from the
// bottom of the stack and negative positions from the top, so -1 is the
// top.
func (vm *VirtualMachine) Get(pos int) (object.Object, error) {
	i, err := vm.index(pos)
	if err != nil {
		return nil, err
	}
	return vm.stack[i], nil
}

// Remove deletes the value at pos, shifting the values above it down.
func (vm *VirtualMachine) Remove(pos int) error {
	i, err := vm.index(pos)
	if err != nil {
		return err
	}
	copy(vm.stack[i:], vm.stack[i+1:])
	vm.truncate(len(vm.stack) - 1)
	return nil
}

func (vm *VirtualMachine) index(pos int) (int, error) {
	i := pos
	if i < 0 {
		i += len(vm.stack)
	}
	if i < 0 || i >= len(vm.stack) {
		return 0, errz.Newf(errz.StackUnderflow, "position %d outside a stack of %d value(s)", pos, len(vm.stack))
	}
	return i, nil
}

// PeekType returns the type of the top of the stack.
func (vm *VirtualMachine) PeekType() (object.Type, error) {
	obj, err := vm.Peek()
	if err != nil {
		return "", err
	}
	return obj.Type(), nil
}

func peekAs[T object.Object](vm *VirtualMachine, want object.Type) (T, error) {
	var zero T
	obj, err := vm.Peek()
	if err != nil {
		return zero, err
	}
	v, ok := obj.(T)
	if !ok {
		return zero, errz.Newf(errz.TypeMismatch, "expected %s, found %s", want, obj.Type())
	}
	return v, nil
}

// popAs pops the top of the stack if it has type T. On a mismatch the
// stack is left untouched.
func popAs[T object.Object](vm *VirtualMachine, want object.Type) (T, error) {
	v, err := peekAs[T](vm, want)
	if err != nil {
		return v, err
	}
	vm.truncate(len(vm.stack) - 1)
	return v, nil
}

func (vm *VirtualMachine) PopNil() error {
	_, err := popAs[*object.NilType](vm, object.NIL)
	return err
}

func (vm *VirtualMachine) PopBoolean() (bool, error) {
	b, err := popAs[*object.Bool](vm, object.BOOL)
	if err != nil {
		return false, err
	}
	return b.Value(), nil
}

func (vm *VirtualMachine) PopNumber() (float64, error) {
	n, err := popAs[*object.Number](vm, object.NUMBER)
	if err != nil {
		return 0, err
	}
	return n.Value(), nil
}

func (vm *VirtualMachine) PopString() (string, error) {
	s, err := popAs[*object.String](vm, object.STRING)
	if err != nil {
		return "", err
	}
	return s.Value(), nil
}

func (vm *VirtualMachine) PopArray() (*object.Array, error) {
	return popAs[*object.Array](vm, object.ARRAY)
}

func (vm *VirtualMachine) PopTable() (*object.Table, error) {
	return popAs[*object.Table](vm, object.TABLE)
}

func (vm *VirtualMachine) PopFunction() (*object.Function, error) {
	return popAs[*object.Function](vm, object.FUNCTION)
}

func (vm *VirtualMachine) PeekBoolean() (bool, error) {
	b, err := peekAs[*object.Bool](vm, object.BOOL)
	if err != nil {
		return false, err
	}
	return b.Value(), nil
}

func (vm *VirtualMachine) PeekNumber() (float64, error) {
	n, err := peekAs[*object.Number](vm, object.NUMBER)
	if err != nil {
		return 0, err
	}
	return n.Value(), nil
}

func (vm *VirtualMachine) PeekString() (string, error) {
	s, err := peekAs[*object.String](vm, object.STRING)
	if err != nil {
		return "", err
	}
	return s.Value(), nil
}

func (vm *VirtualMachine) PeekArray() (*object.Array, error) {
	return peekAs[*object.Array](vm, object.ARRAY)
}

func (vm *VirtualMachine) PeekTable() (*object.Table, error) {
	return peekAs[*object.Table](vm, object.TABLE)
}

func (vm *VirtualMachine) PeekFunction() (*object.Function, error) {
	return peekAs[*object.Function](vm, object.FUNCTION)
}

// Eval compiles source and pushes the result as a function taking no
// arguments.
func (vm *VirtualMachine) Eval(source string) error {
	unit, err := parser.Compile(source)
	if err != nil {
		return err
	}
	vm.push(object.NewFunction(unit, 0))
	return nil
}

// Load deserializes a bytecode unit and pushes it as a function with the
// given arity.
func (vm *VirtualMachine) Load(raw []byte, arity int) error {
	unit, err := bytecode.Deserialize(raw)
	if err != nil {
		return err
	}
	vm.push(object.NewFunction(unit, arity))
	return nil
}

// Inspect returns the textual rendering of the value at pos.
func (vm *VirtualMachine) Inspect(pos int) (string, error) {
	obj, err := vm.Get(pos)
	if err != nil {
		return "", err
	}
	return obj.Inspect(), nil
}

// Disassemble returns a listing of the bytecode function at pos, one line
// per instruction.
func (vm *VirtualMachine) Disassemble(pos int) (string, error) {
	obj, err := vm.Get(pos)
	if err != nil {
		return "", err
	}
	fn, ok := obj.(*object.Function)
	if !ok || !fn.IsBytecode() {
		return "", errz.Newf(errz.TypeMismatch, "only bytecode functions can be disassembled, found %s", obj.Type())
	}
	instructions, err := dis.Disassemble(fn.Unit())
	if err != nil {
		return "", err
	}
	return dis.Format(instructions), nil
}
