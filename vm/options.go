package vm

import "github.com/rs/zerolog"

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithLogger sets the logger used for execution tracing. Instructions are
// logged at trace level and calls at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of
// 0 disables checking. The default is DefaultContextCheckInterval (1000).
//
// Lower values provide more responsive cancellation but may slightly impact
// performance due to more frequent checks.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithInstructionLimit bounds the number of instructions a single Call may
// execute. A value of 0 means no limit.
func WithInstructionLimit(limit int64) Option {
	return func(vm *VirtualMachine) {
		vm.instructionLimit = limit
	}
}

// WithObserver sets an observer for VM execution events.
// The observer receives callbacks for instruction steps, calls and returns.
// Returning false from any observer method halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
