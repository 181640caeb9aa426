// Package zoe compiles and evaluates zoe source code.
//
// Compile produces the serialized bytecode of a program. Eval compiles and
// runs a program in a fresh VirtualMachine and returns its value:
//
//	result, err := zoe.Eval(ctx, "let [a, b] = [2, 3]; a ** b")
package zoe

import (
	"context"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/object"
	"github.com/zoelang/zoe/parser"
	"github.com/zoelang/zoe/vm"
)

// Option configures a zoe compilation or evaluation.
type Option func(*options)

type options struct {
	filename  string
	debugInfo bool
	vmOpts    []vm.Option
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	if o.debugInfo {
		opts = append(opts, parser.WithDebugInfo())
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// This is used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithDebugInfo records variable names in the debug section of the
// compiled unit, so disassembly and runtime errors can name them.
func WithDebugInfo() Option {
	return func(o *options) {
		o.debugInfo = true
	}
}

// WithVMOptions passes options through to the VirtualMachine used by Eval
// and Run. This option is additive.
func WithVMOptions(opts ...vm.Option) Option {
	return func(o *options) {
		o.vmOpts = append(o.vmOpts, opts...)
	}
}

// CompileUnit parses and compiles source code into a bytecode unit. The
// unit is immutable and may be run by several machines at once.
func CompileUnit(source string, opts ...Option) (*bytecode.Unit, error) {
	o := collectOptions(opts...)
	return parser.Compile(source, o.parserOpts()...)
}

// Compile parses and compiles source code and returns the serialized unit.
func Compile(source string, opts ...Option) ([]byte, error) {
	unit, err := CompileUnit(source, opts...)
	if err != nil {
		return nil, err
	}
	return unit.Bytes(), nil
}

// Run deserializes a compiled unit and executes it as a function of no
// arguments in a new VirtualMachine.
func Run(ctx context.Context, raw []byte, opts ...Option) (object.Object, error) {
	unit, err := bytecode.Deserialize(raw)
	if err != nil {
		return nil, err
	}
	return vm.Run(ctx, unit, collectOptions(opts...).vmOpts...)
}

// Eval is a convenience function that compiles and runs source code.
func Eval(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	unit, err := CompileUnit(source, opts...)
	if err != nil {
		return nil, err
	}
	return vm.Run(ctx, unit, collectOptions(opts...).vmOpts...)
}
