// Package errz defines the error kinds surfaced by the zoe assembler and
// virtual machine.
//
// Every failure is an *Error carrying a Kind. Kinds implement the error
// interface themselves, so callers test for a category with errors.Is:
//
//	if errors.Is(err, errz.KeyError) {
//		// missing table key
//	}
package errz

import (
	"errors"
	"fmt"
)

// Kind represents the category of an error.
type Kind int

const (
	// Unknown is used for errors that did not originate in this module.
	Unknown Kind = iota
	// StackUnderflow indicates a pop or peek on an empty stack.
	StackUnderflow
	// IndexOutOfRange indicates an index or slice bound outside a container.
	IndexOutOfRange
	// InvalidSlice indicates a slice whose start is not before its finish.
	InvalidSlice
	// TypeError indicates an operand whose type the operation does not support.
	TypeError
	// TypeMismatch indicates a typed stack accessor found another type.
	TypeMismatch
	// KeyError indicates a missing table key.
	KeyError
	// UnhashableType indicates a value that cannot be used as a table key.
	UnhashableType
	// UndeclaredVariable indicates a name or slot with no binding.
	UndeclaredVariable
	// MalformedBytecode indicates a bad header, truncated stream or operand.
	MalformedBytecode
	// InvalidOpcode indicates an unknown instruction byte.
	InvalidOpcode
	// NotCallable indicates a call on something other than a bytecode function.
	NotCallable
	// ArityMismatch indicates a call with the wrong number of arguments.
	ArityMismatch
	// BadReturnContract indicates a function that did not leave exactly one result.
	BadReturnContract
	// SyntaxError indicates source text the parser could not understand.
	SyntaxError
	// ImmutableVariable indicates an assignment to a binding declared without mut.
	ImmutableVariable
	// LabelError indicates a label that was resolved twice or never resolved.
	LabelError
	// CyclicReference indicates a container that would contain itself.
	CyclicReference
	// InstructionLimit indicates execution exceeded the configured step budget.
	InstructionLimit
	// Cancelled indicates execution was stopped by its context.
	Cancelled
)

var kindNames = map[Kind]string{
	Unknown:            "error",
	StackUnderflow:     "stack underflow",
	IndexOutOfRange:    "index out of range",
	InvalidSlice:       "invalid slice",
	TypeError:          "type error",
	TypeMismatch:       "type mismatch",
	KeyError:           "key error",
	UnhashableType:     "unhashable type",
	UndeclaredVariable: "undeclared variable",
	MalformedBytecode:  "malformed bytecode",
	InvalidOpcode:      "invalid opcode",
	NotCallable:        "not callable",
	ArityMismatch:      "arity mismatch",
	BadReturnContract:  "bad return contract",
	SyntaxError:        "syntax error",
	ImmutableVariable:  "immutable variable",
	LabelError:         "label error",
	CyclicReference:    "cyclic reference",
	InstructionLimit:   "instruction limit exceeded",
	Cancelled:          "cancelled",
}

// String returns the string representation of the error kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Error implements the error interface so a Kind can be an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is the concrete error type returned by the assembler and the VM.
type Error struct {
	Kind    Kind
	Message string
	// Offset is the code offset of the failing instruction, or -1.
	Offset int
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (at %08x)", msg, e.Offset)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// WithCause wraps the error with a cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// AtOffset returns the error annotated with a code offset. An offset that is
// already set is kept, so the innermost location wins.
func (e *Error) AtOffset(offset int) *Error {
	if e.Offset < 0 {
		e.Offset = offset
	}
	return e
}

// New creates an Error with no code offset.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Offset: -1}
}

// Newf creates an Error with a formatted message and no code offset.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return Unknown
}
