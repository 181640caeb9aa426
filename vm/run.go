package vm

import (
	"context"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/object"
)

// Run the given unit as a function of no arguments in a new Virtual Machine
// and return the result.
func Run(ctx context.Context, unit *bytecode.Unit, options ...Option) (object.Object, error) {
	return RunOn(ctx, New(options...), unit)
}

// RunOn runs the unit as a function of no arguments on an existing machine
// and pops the result. On failure the stack is cut back to its depth before
// the call, so the machine stays usable.
func RunOn(ctx context.Context, machine *VirtualMachine, unit *bytecode.Unit) (object.Object, error) {
	depth := len(machine.stack)
	machine.PushFunction(object.NewFunction(unit, 0))
	if err := machine.Call(ctx, 0); err != nil {
		if len(machine.stack) > depth {
			machine.truncate(depth)
		}
		return nil, err
	}
	return machine.Pop()
}
