// Package op defines the opcodes understood by the zoe assembler and virtual
// machine.
package op

// Code is a one-byte opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0x00

	// Stack
	PushNil   Code = 0x01
	PushTrue  Code = 0x02
	PushFalse Code = 0x03
	PushN     Code = 0x04
	PushS     Code = 0x05
	Pop       Code = 0x06
	Dup       Code = 0x07

	// Operators
	Add  Code = 0x10
	Sub  Code = 0x11
	Mul  Code = 0x12
	Div  Code = 0x13
	IDiv Code = 0x14
	Mod  Code = 0x15
	Pow  Code = 0x16
	Neg  Code = 0x17
	And  Code = 0x18
	Xor  Code = 0x19
	Or   Code = 0x1A
	Shl  Code = 0x1B
	Shr  Code = 0x1C
	Not  Code = 0x1D
	Lt   Code = 0x1E
	Lte  Code = 0x1F
	Gt   Code = 0x20
	Gte  Code = 0x21
	Eq   Code = 0x22

	// Complex operators
	Cat    Code = 0x28
	Len    Code = 0x29
	Lookup Code = 0x2A
	Slice  Code = 0x2B

	// Branches
	Jmp    Code = 0x30
	BFalse Code = 0x31
	BTrue  Code = 0x32

	// Arrays
	PushAry Code = 0x40
	Append  Code = 0x41

	// Tables
	PushTbl Code = 0x48
	TblSet  Code = 0x49

	// Variables and scopes
	GetVar Code = 0x50
	SetVar Code = 0x51
	Enter  Code = 0x52
	Leave  Code = 0x53

	End Code = 0xFF
)

// OperandKind describes the fixed-size operand that follows an opcode.
type OperandKind uint8

const (
	// NoOperand instructions are a single byte.
	NoOperand OperandKind = iota
	// Number operands are an 8-byte IEEE-754 double.
	Number
	// String operands are the literal bytes followed by a NUL terminator.
	String
	// Address operands are an 8-byte absolute offset into the code section.
	Address
	// Slot operands are a 4-byte variable slot index.
	Slot
)

// Size returns the encoded size of a fixed-size operand. String operands are
// variable length and report 0.
func (k OperandKind) Size() int {
	switch k {
	case Number, Address:
		return 8
	case Slot:
		return 4
	default:
		return 0
	}
}

// String returns a short name for the operand kind.
func (k OperandKind) String() string {
	switch k {
	case NoOperand:
		return "none"
	case Number:
		return "number"
	case String:
		return "string"
	case Address:
		return "address"
	case Slot:
		return "slot"
	default:
		return "unknown"
	}
}

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Operand OperandKind
}

// Valid reports whether the Info describes a defined opcode.
func (i Info) Valid() bool {
	return i.Name != ""
}

var infos [256]Info

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand OperandKind
	}
	ops := []opInfo{
		{PushNil, "PUSH_Nil", NoOperand},
		{PushTrue, "PUSH_Bt", NoOperand},
		{PushFalse, "PUSH_Bf", NoOperand},
		{PushN, "PUSH_N", Number},
		{PushS, "PUSH_S", String},
		{Pop, "POP", NoOperand},
		{Dup, "DUP", NoOperand},
		{Add, "ADD", NoOperand},
		{Sub, "SUB", NoOperand},
		{Mul, "MUL", NoOperand},
		{Div, "DIV", NoOperand},
		{IDiv, "IDIV", NoOperand},
		{Mod, "MOD", NoOperand},
		{Pow, "POW", NoOperand},
		{Neg, "NEG", NoOperand},
		{And, "AND", NoOperand},
		{Xor, "XOR", NoOperand},
		{Or, "OR", NoOperand},
		{Shl, "SHL", NoOperand},
		{Shr, "SHR", NoOperand},
		{Not, "NOT", NoOperand},
		{Lt, "LT", NoOperand},
		{Lte, "LTE", NoOperand},
		{Gt, "GT", NoOperand},
		{Gte, "GTE", NoOperand},
		{Eq, "EQ", NoOperand},
		{Cat, "CAT", NoOperand},
		{Len, "LEN", NoOperand},
		{Lookup, "LOOKUP", NoOperand},
		{Slice, "SLICE", NoOperand},
		{Jmp, "JMP", Address},
		{BFalse, "Bfalse", Address},
		{BTrue, "Btrue", Address},
		{PushAry, "PUSHARY", NoOperand},
		{Append, "APPEND", NoOperand},
		{PushTbl, "PUSHTBL", NoOperand},
		{TblSet, "TBLSET", NoOperand},
		{GetVar, "GETVAR", Slot},
		{SetVar, "SETVAR", Slot},
		{Enter, "ENTER", Slot},
		{Leave, "LEAVE", NoOperand},
		{End, "END", NoOperand},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Operand: o.operand,
		}
	}
}

// GetInfo returns information about the given opcode. The returned Info is
// not Valid for undefined opcodes.
func GetInfo(code Code) Info {
	return infos[code]
}

// IsJump reports whether the opcode takes an Address operand.
func (c Code) IsJump() bool {
	return infos[c].Operand == Address
}

// String returns the opcode mnemonic.
func (c Code) String() string {
	if info := infos[c]; info.Valid() {
		return info.Name
	}
	return "INVALID"
}
