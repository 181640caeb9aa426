package vm

import (
	"github.com/zoelang/zoe/op"
)

// Observer is an interface for observing VM execution events.
// Implementations can be used for profiling, debugging, code coverage,
// or step counting without modifying the dispatch loop.
//
// Observer methods are called synchronously during VM execution.
// Implementations should be fast to avoid impacting performance.
type Observer interface {
	// OnStep is called before each instruction executes.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnCall is called when a function is invoked.
	// Returns false to halt execution immediately.
	OnCall(event CallEvent) bool

	// OnReturn is called when a function returns, successfully or not.
	// The return value is ignored when the call already failed.
	OnReturn(event ReturnEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// Offset is the code offset of the instruction.
	Offset int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the mnemonic of the opcode.
	OpcodeName string

	// StackDepth is the current depth of the value stack.
	StackDepth int
}

// CallEvent contains information about a function call.
type CallEvent struct {
	// ArgCount is the number of arguments passed to the function.
	ArgCount int

	// CodeSize is the size of the function's code section in bytes.
	CodeSize int

	// StackDepth is the stack depth after the function and its arguments
	// were removed.
	StackDepth int
}

// ReturnEvent contains information about a function return.
type ReturnEvent struct {
	// StackDepth is the stack depth when the function stopped.
	StackDepth int

	// Steps is the number of instructions the call executed.
	Steps int64

	// Err is the error that ended the call, if any.
	Err error
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
