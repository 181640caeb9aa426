// Package asm builds zoe bytecode units.
//
// An Assembler appends instructions to a growing code buffer. Jumps may
// target labels that are not yet resolved; the jump site is recorded and
// patched when the label is set. The assembler also tracks declared
// variables and lexical scopes so that names resolve to variable slots.
//
// Misuse, such as an operand of the wrong kind or a label set twice, does
// not stop assembly. Errors accumulate and are reported by Finalize.
package asm

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/object"
	"github.com/zoelang/zoe/op"
)

// Label is a handle to a jump target created by CreateLabel.
type Label int

type label struct {
	addr     int
	resolved bool
	refs     []int
}

type binding struct {
	name    string
	slot    uint32
	mutable bool
}

type scope struct {
	firstBinding int
	firstSlot    uint32
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDebugInfo records variable and label information in the debug
// section of the finalized unit.
func WithDebugInfo() Option {
	return func(a *Assembler) {
		a.debug = true
	}
}

// Assembler builds a single bytecode unit. It is not safe for concurrent
// use.
type Assembler struct {
	code        []byte
	strings     []string
	stringIndex map[string]int
	labels      []label
	bindings    []binding
	scopes      []scope
	nextSlot    uint32
	declared    []bytecode.Variable
	debug       bool
	errs        *multierror.Error
}

// New returns an empty Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{stringIndex: map[string]int{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) fail(err error) {
	a.errs = multierror.Append(a.errs, err)
}

// emit writes the opcode after checking that it takes the given operand
// kind. It returns false if the instruction was rejected.
func (a *Assembler) emit(code op.Code, operand op.OperandKind) bool {
	info := op.GetInfo(code)
	if !info.Valid() {
		a.fail(errz.Newf(errz.InvalidOpcode, "0x%02X", byte(code)).AtOffset(len(a.code)))
		return false
	}
	if info.Operand != operand {
		a.fail(errz.Newf(errz.MalformedBytecode, "%s takes a %s operand, not %s", info.Name, info.Operand, operand).AtOffset(len(a.code)))
		return false
	}
	a.code = append(a.code, byte(code))
	return true
}

// Add appends an instruction that takes no operand.
func (a *Assembler) Add(code op.Code) {
	a.emit(code, op.NoOperand)
}

// AddNumber appends an instruction with a number operand.
func (a *Assembler) AddNumber(code op.Code, n float64) {
	if a.emit(code, op.Number) {
		a.code = binary.LittleEndian.AppendUint64(a.code, math.Float64bits(n))
	}
}

// AddString appends an instruction with an inline string operand. The
// string is also recorded in the unit's string pool.
func (a *Assembler) AddString(code op.Code, s string) {
	if strings.IndexByte(s, 0) >= 0 {
		a.fail(errz.Newf(errz.MalformedBytecode, "string literal %q contains a NUL byte", s).AtOffset(len(a.code)))
		return
	}
	if !a.emit(code, op.String) {
		return
	}
	a.code = append(a.code, s...)
	a.code = append(a.code, 0)
	if _, ok := a.stringIndex[s]; !ok {
		a.stringIndex[s] = len(a.strings)
		a.strings = append(a.strings, s)
	}
}

// AddSlot appends an instruction with a variable slot operand.
func (a *Assembler) AddSlot(code op.Code, slot uint32) {
	if a.emit(code, op.Slot) {
		a.code = binary.LittleEndian.AppendUint32(a.code, slot)
	}
}

// AddJump appends a jump to l. If l is not resolved yet, an 8-byte
// placeholder is written and patched by SetLabel.
func (a *Assembler) AddJump(code op.Code, l Label) {
	if int(l) < 0 || int(l) >= len(a.labels) {
		a.fail(errz.Newf(errz.LabelError, "unknown label %d", l).AtOffset(len(a.code)))
		return
	}
	if !a.emit(code, op.Address) {
		return
	}
	lbl := &a.labels[l]
	if lbl.resolved {
		a.code = binary.LittleEndian.AppendUint64(a.code, uint64(lbl.addr))
		return
	}
	lbl.refs = append(lbl.refs, len(a.code))
	a.code = append(a.code, make([]byte, 8)...)
}

// AddValue appends the instructions that push a literal copy of obj.
// Functions cannot be encoded as literals.
func (a *Assembler) AddValue(obj object.Object) {
	switch obj := obj.(type) {
	case *object.NilType:
		a.Add(op.PushNil)
	case *object.Bool:
		if obj.Value() {
			a.Add(op.PushTrue)
		} else {
			a.Add(op.PushFalse)
		}
	case *object.Number:
		a.AddNumber(op.PushN, obj.Value())
	case *object.String:
		a.AddString(op.PushS, obj.Value())
	case *object.Array:
		a.Add(op.PushAry)
		for _, item := range obj.Items() {
			a.AddValue(item)
			a.Add(op.Append)
		}
	case *object.Table:
		a.Add(op.PushTbl)
		obj.Each(func(k, v object.Object) bool {
			a.AddValue(k)
			a.AddValue(v)
			a.Add(op.TblSet)
			return true
		})
	case *object.Function:
		a.fail(errz.New(errz.TypeError, "functions cannot be encoded as literals").AtOffset(len(a.code)))
	}
}

// CreateLabel returns a new unresolved label.
func (a *Assembler) CreateLabel() Label {
	a.labels = append(a.labels, label{})
	return Label(len(a.labels) - 1)
}

// SetLabel binds l to the current position and patches every jump emitted
// against it so far. A label may be set only once.
func (a *Assembler) SetLabel(l Label) {
	if int(l) < 0 || int(l) >= len(a.labels) {
		a.fail(errz.Newf(errz.LabelError, "unknown label %d", l))
		return
	}
	lbl := &a.labels[l]
	if lbl.resolved {
		a.fail(errz.Newf(errz.LabelError, "label %d set twice", l).AtOffset(len(a.code)))
		return
	}
	lbl.addr, lbl.resolved = len(a.code), true
	for _, ref := range lbl.refs {
		binary.LittleEndian.PutUint64(a.code[ref:], uint64(lbl.addr))
	}
	lbl.refs = nil
}

// CurrentPos returns the offset the next instruction will be written at.
func (a *Assembler) CurrentPos() int {
	return len(a.code)
}

// Strings returns the string pool in first-use order.
func (a *Assembler) Strings() []string {
	out := make([]string, len(a.strings))
	copy(out, a.strings)
	return out
}

// Err returns the errors accumulated so far, or nil.
func (a *Assembler) Err() error {
	return a.errs.ErrorOrNil()
}

// Finalize checks that every referenced label was resolved and every scope
// closed, and returns the serialized unit.
func (a *Assembler) Finalize() ([]byte, error) {
	for i, lbl := range a.labels {
		if !lbl.resolved && len(lbl.refs) > 0 {
			a.fail(errz.Newf(errz.LabelError, "label %d is referenced but never set", i).AtOffset(lbl.refs[0] - 1))
		}
	}
	if len(a.scopes) > 0 {
		a.fail(errz.Newf(errz.MalformedBytecode, "%d scope(s) left open", len(a.scopes)))
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	params := bytecode.Params{Code: a.code, Strings: a.strings}
	if a.debug {
		params.Debug = a.debugInfo()
	}
	return bytecode.Encode(params)
}

// Unit finalizes the assembler and parses the result.
func (a *Assembler) Unit() (*bytecode.Unit, error) {
	raw, err := a.Finalize()
	if err != nil {
		return nil, err
	}
	return bytecode.Deserialize(raw)
}

func (a *Assembler) debugInfo() *bytecode.DebugInfo {
	info := &bytecode.DebugInfo{Variables: append([]bytecode.Variable(nil), a.declared...)}
	for _, lbl := range a.labels {
		info.Labels = append(info.Labels, uint64(lbl.addr))
	}
	return info
}
