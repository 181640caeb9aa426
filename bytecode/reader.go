package bytecode

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/op"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Offset int
	Op     op.Code
	// Size is the encoded size in bytes, opcode included.
	Size int
	// Number, String, Target and Slot hold the decoded operand; only the
	// field matching the opcode's operand kind is set.
	Number float64
	String string
	Target uint64
	Slot   uint32
}

// Raw returns the encoded bytes of the instruction within code.
func (i Instruction) Raw(code []byte) []byte {
	return code[i.Offset : i.Offset+i.Size]
}

// Decode decodes the instruction at pos. Unknown opcodes fail with
// InvalidOpcode; operands that run past the end of the code fail with
// MalformedBytecode.
func Decode(code []byte, pos int) (Instruction, error) {
	if pos < 0 || pos >= len(code) {
		return Instruction{}, errz.Newf(errz.MalformedBytecode, "instruction offset %d outside code of %d bytes", pos, len(code)).AtOffset(pos)
	}
	c := op.Code(code[pos])
	info := op.GetInfo(c)
	if !info.Valid() {
		return Instruction{}, errz.Newf(errz.InvalidOpcode, "0x%02X", byte(c)).AtOffset(pos)
	}
	instr := Instruction{Offset: pos, Op: c, Size: 1}
	operand := pos + 1
	switch info.Operand {
	case op.NoOperand:
	case op.Number:
		bits, err := readUint64(code, operand)
		if err != nil {
			return Instruction{}, err.AtOffset(pos)
		}
		instr.Number = math.Float64frombits(bits)
		instr.Size += 8
	case op.Address:
		target, err := readUint64(code, operand)
		if err != nil {
			return Instruction{}, err.AtOffset(pos)
		}
		instr.Target = target
		instr.Size += 8
	case op.Slot:
		if operand+4 > len(code) {
			return Instruction{}, truncated(info.Name, pos)
		}
		instr.Slot = binary.LittleEndian.Uint32(code[operand:])
		instr.Size += 4
	case op.String:
		end := bytes.IndexByte(code[min(operand, len(code)):], 0)
		if end < 0 {
			return Instruction{}, errz.Newf(errz.MalformedBytecode, "%s literal is not NUL-terminated", info.Name).AtOffset(pos)
		}
		instr.String = string(code[operand : operand+end])
		instr.Size += end + 1
	}
	return instr, nil
}

func readUint64(code []byte, pos int) (uint64, *errz.Error) {
	if pos+8 > len(code) {
		return 0, errz.Newf(errz.MalformedBytecode, "operand at %d reads past the end of the code", pos)
	}
	return binary.LittleEndian.Uint64(code[pos:]), nil
}

func truncated(name string, pos int) *errz.Error {
	return errz.Newf(errz.MalformedBytecode, "%s operand reads past the end of the code", name).AtOffset(pos)
}

// validate walks the instruction stream checking operand extents and jump
// targets. Walking stops at the first unknown opcode, which the VM reports
// if execution ever reaches it.
func validate(code []byte) error {
	for pos := 0; pos < len(code); {
		if !op.GetInfo(op.Code(code[pos])).Valid() {
			return nil
		}
		instr, err := Decode(code, pos)
		if err != nil {
			return err
		}
		if instr.Op.IsJump() && instr.Target > uint64(len(code)) {
			return errz.Newf(errz.MalformedBytecode, "%s target %08x is past the end of the code", instr.Op, instr.Target).AtOffset(pos)
		}
		pos += instr.Size
	}
	return nil
}

// InstructionIter iterates over the instructions of a code section.
type InstructionIter struct {
	code []byte
	pos  int
	err  error
}

// NewInstructionIter returns an iterator over the unit's code section.
func NewInstructionIter(unit *Unit) *InstructionIter {
	return &InstructionIter{code: unit.Code()}
}

// Next returns the next instruction. It returns false at the end of the code
// or after an error, which is then available from Err.
func (it *InstructionIter) Next() (Instruction, bool) {
	if it.err != nil || it.pos >= len(it.code) {
		return Instruction{}, false
	}
	instr, err := Decode(it.code, it.pos)
	if err != nil {
		it.err = err
		return Instruction{}, false
	}
	it.pos += instr.Size
	return instr, true
}

// Err returns the error that stopped iteration, if any.
func (it *InstructionIter) Err() error {
	return it.err
}
