// Package vm provides a VirtualMachine that executes zoe bytecode.
//
// The machine owns an operand stack that the host manipulates through the
// Push and Pop families of methods. Calling a function pops it together with
// its arguments, runs its bytecode against the same stack and leaves exactly
// one result in their place.
package vm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/object"
	"github.com/zoelang/zoe/op"
)

const (
	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// VirtualMachine executes bytecode functions. It is single-threaded: a
// VirtualMachine must not be used from several goroutines at once, though
// bytecode units may be shared between machines.
type VirtualMachine struct {
	stack  []object.Object
	logger zerolog.Logger

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// instructionLimit bounds the instructions executed by one Call.
	instructionLimit int64

	// observer receives callbacks for VM execution events (steps, calls,
	// returns). If nil, no callbacks are made.
	observer Observer
}

// New creates a new Virtual Machine with an empty stack.
func New(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		logger:               zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// Call pops a function and nargs arguments beneath it, binds the arguments
// to the first nargs variable slots of a fresh frame and runs the function.
// The arguments are popped in push order, so the first argument pushed is
// bound to slot 0. On success the function and its arguments have been
// replaced by exactly one result; any other net stack effect fails with
// BadReturnContract.
func (vm *VirtualMachine) Call(ctx context.Context, nargs int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errz.Newf(errz.Unknown, "panic: %v", r)
		}
	}()
	if nargs < 0 {
		return errz.Newf(errz.ArityMismatch, "negative argument count %d", nargs)
	}
	top, err := vm.Pop()
	if err != nil {
		return err
	}
	fn, ok := top.(*object.Function)
	if !ok {
		return errz.Newf(errz.NotCallable, "%s is not a function", top.Type())
	}
	if !fn.IsBytecode() {
		return errz.Newf(errz.NotCallable, "native function %q cannot be called by the VM", fn.Name())
	}
	if fn.Arity() != nargs {
		return errz.Newf(errz.ArityMismatch, "function takes %d argument(s) (%d given)", fn.Arity(), nargs)
	}
	if len(vm.stack) < nargs {
		return errz.Newf(errz.StackUnderflow, "call needs %d argument(s), stack holds %d", nargs, len(vm.stack))
	}
	base := len(vm.stack) - nargs
	args := make([]object.Object, nargs)
	copy(args, vm.stack[base:])
	vm.truncate(base)

	f := newFrame(fn.Unit(), args)
	vm.logger.Debug().Int("args", nargs).Int("code_size", len(f.code)).Int("stack", base).Msg("call")
	if vm.observer != nil && !vm.observer.OnCall(CallEvent{ArgCount: nargs, CodeSize: len(f.code), StackDepth: base}) {
		return errz.New(errz.Cancelled, "execution halted by observer")
	}

	err = vm.exec(ctx, f)
	if err == nil && len(vm.stack) != base+1 {
		err = errz.Newf(errz.BadReturnContract, "function left %d value(s) on the stack, expected 1", len(vm.stack)-base)
	}
	vm.logger.Debug().Err(err).Int64("steps", f.steps).Int("stack", len(vm.stack)).Msg("return")
	if vm.observer != nil {
		ok := vm.observer.OnReturn(ReturnEvent{StackDepth: len(vm.stack), Steps: f.steps, Err: err})
		if !ok && err == nil {
			err = errz.New(errz.Cancelled, "execution halted by observer")
		}
	}
	return err
}

// exec runs the frame until END, the end of the code, or an error.
func (vm *VirtualMachine) exec(ctx context.Context, f *frame) error {
	var sinceCheck int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for f.ip < len(f.code) {
		if checkInterval > 0 && doneChan != nil {
			sinceCheck++
			if sinceCheck >= checkInterval {
				sinceCheck = 0
				select {
				case <-doneChan:
					return errz.New(errz.Cancelled, ctx.Err().Error()).WithCause(ctx.Err()).AtOffset(f.ip)
				default:
				}
			}
		}
		if vm.instructionLimit > 0 && f.steps >= vm.instructionLimit {
			return errz.Newf(errz.InstructionLimit, "limit of %d instructions reached", vm.instructionLimit).AtOffset(f.ip)
		}
		f.steps++

		instr, err := bytecode.Decode(f.code, f.ip)
		if err != nil {
			return err
		}
		if e := vm.logger.Trace(); e.Enabled() {
			e.Str("addr", fmt.Sprintf("%08x", instr.Offset)).
				Str("op", instr.Op.String()).
				Str("stack", vm.inspectStack()).
				Msg("step")
		}
		if vm.observer != nil {
			event := StepEvent{
				Offset:     instr.Offset,
				Opcode:     instr.Op,
				OpcodeName: instr.Op.String(),
				StackDepth: len(vm.stack),
			}
			if !vm.observer.OnStep(event) {
				return errz.New(errz.Cancelled, "execution halted by observer").AtOffset(instr.Offset)
			}
		}

		// Advance past the instruction before executing it, so jumps simply
		// overwrite the instruction pointer.
		f.ip += instr.Size
		halt, err := vm.step(f, instr)
		if err != nil {
			return annotate(err, instr.Offset)
		}
		if halt {
			return nil
		}
	}
	return nil
}

// step executes one decoded instruction. It reports true when execution
// should halt.
func (vm *VirtualMachine) step(f *frame, instr bytecode.Instruction) (bool, error) {
	switch instr.Op {
	case op.PushNil:
		vm.push(object.Nil)
	case op.PushTrue:
		vm.push(object.True)
	case op.PushFalse:
		vm.push(object.False)
	case op.PushN:
		vm.push(object.NewNumber(instr.Number))
	case op.PushS:
		vm.push(object.NewString(instr.String))
	case op.Pop:
		if _, err := vm.Pop(); err != nil {
			return false, err
		}
	case op.Dup:
		top, err := vm.Peek()
		if err != nil {
			return false, err
		}
		vm.push(top)
	case op.Add, op.Sub, op.Mul, op.Div, op.IDiv, op.Mod, op.Pow,
		op.And, op.Xor, op.Or, op.Shl, op.Shr,
		op.Lt, op.Lte, op.Gt, op.Gte, op.Eq, op.Cat:
		b, a, err := vm.pop2()
		if err != nil {
			return false, err
		}
		result, err := object.BinaryOp(instr.Op, a, b)
		if err != nil {
			return false, err
		}
		vm.push(result)
	case op.Neg, op.Not:
		a, err := vm.Pop()
		if err != nil {
			return false, err
		}
		result, err := object.UnaryOp(instr.Op, a)
		if err != nil {
			return false, err
		}
		vm.push(result)
	case op.Len:
		a, err := vm.Pop()
		if err != nil {
			return false, err
		}
		result, err := object.Length(a)
		if err != nil {
			return false, err
		}
		vm.push(result)
	case op.Lookup:
		index, container, err := vm.pop2()
		if err != nil {
			return false, err
		}
		result, err := object.Lookup(container, index)
		if err != nil {
			return false, err
		}
		vm.push(result)
	case op.Slice:
		finish, start, err := vm.pop2()
		if err != nil {
			return false, err
		}
		container, err := vm.Pop()
		if err != nil {
			return false, err
		}
		result, err := object.Slice(container, start, finish)
		if err != nil {
			return false, err
		}
		vm.push(result)
	case op.Jmp:
		f.ip = int(instr.Target)
	case op.BFalse, op.BTrue:
		value, err := vm.Pop()
		if err != nil {
			return false, err
		}
		cond, ok := value.(*object.Bool)
		if !ok {
			return false, errz.Newf(errz.TypeError, "%s condition must be a boolean, got %s", instr.Op, value.Type())
		}
		if cond.Value() == (instr.Op == op.BTrue) {
			f.ip = int(instr.Target)
		}
	case op.PushAry:
		vm.push(object.NewArray(nil))
	case op.Append:
		value, err := vm.Pop()
		if err != nil {
			return false, err
		}
		top, err := vm.Peek()
		if err != nil {
			return false, err
		}
		arr, ok := top.(*object.Array)
		if !ok {
			return false, errz.Newf(errz.TypeError, "cannot append to %s", top.Type())
		}
		if err := arr.Append(value); err != nil {
			return false, err
		}
	case op.PushTbl:
		vm.push(object.NewTable())
	case op.TblSet:
		value, key, err := vm.pop2()
		if err != nil {
			return false, err
		}
		top, err := vm.Peek()
		if err != nil {
			return false, err
		}
		tbl, ok := top.(*object.Table)
		if !ok {
			return false, errz.Newf(errz.TypeError, "cannot set a key on %s", top.Type())
		}
		if err := tbl.Set(key, value); err != nil {
			return false, err
		}
	case op.GetVar:
		value, err := f.getSlot(instr.Slot)
		if err != nil {
			return false, err
		}
		vm.push(value)
	case op.SetVar:
		value, err := vm.Pop()
		if err != nil {
			return false, err
		}
		f.setSlot(instr.Slot, value)
	case op.Enter:
		f.enter(instr.Slot)
	case op.Leave:
		if err := f.leave(); err != nil {
			return false, err
		}
	case op.End:
		return true, nil
	default:
		return false, errz.Newf(errz.InvalidOpcode, "0x%02X", byte(instr.Op))
	}
	return false, nil
}

// pop2 pops the top value and then the one beneath it.
func (vm *VirtualMachine) pop2() (top, second object.Object, err error) {
	if len(vm.stack) < 2 {
		return nil, nil, errz.Newf(errz.StackUnderflow, "need 2 values, stack holds %d", len(vm.stack))
	}
	top, second = vm.stack[len(vm.stack)-1], vm.stack[len(vm.stack)-2]
	vm.truncate(len(vm.stack) - 2)
	return top, second, nil
}

func (vm *VirtualMachine) push(obj object.Object) {
	vm.stack = append(vm.stack, obj)
}

// truncate shrinks the stack to n values, clearing the released cells.
func (vm *VirtualMachine) truncate(n int) {
	for i := n; i < len(vm.stack); i++ {
		vm.stack[i] = nil
	}
	vm.stack = vm.stack[:n]
}

func (vm *VirtualMachine) inspectStack() string {
	parts := make([]string, len(vm.stack))
	for i, obj := range vm.stack {
		parts[i] = obj.Inspect()
	}
	return "< " + strings.Join(parts, ", ") + " >"
}

func annotate(err error, offset int) error {
	if e, ok := err.(*errz.Error); ok {
		return e.AtOffset(offset)
	}
	return err
}
