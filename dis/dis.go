// Package dis supports analysis of zoe bytecode by disassembling it.
// This works with the opcodes defined in the `op` package and uses the
// InstructionIter type from the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/object"
	"github.com/zoelang/zoe/op"
)

// Instruction represents a single decoded bytecode instruction.
type Instruction struct {
	Offset int
	Name   string
	Opcode op.Code
	// Operand is the decoded operand rendered as text, or empty.
	Operand string
	// Annotation holds the variable name of a slot operand when the unit
	// carries debug info.
	Annotation string
	Raw        []byte
}

// Disassemble returns a parsed representation of the given unit.
func Disassemble(unit *bytecode.Unit) ([]Instruction, error) {
	var instructions []Instruction
	code := unit.Code()
	iter := bytecode.NewInstructionIter(unit)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		info := op.GetInfo(instr.Op)
		var operand, annotation string
		switch info.Operand {
		case op.Number:
			operand = object.NewNumber(instr.Number).Inspect()
		case op.String:
			operand = object.Quote(instr.String)
		case op.Address:
			operand = fmt.Sprintf("0x%x", instr.Target)
		case op.Slot:
			operand = fmt.Sprintf("%d", instr.Slot)
			if name, ok := unit.Debug().VariableAt(instr.Slot); ok {
				annotation = name
			}
		}
		instructions = append(instructions, Instruction{
			Offset:     instr.Offset,
			Name:       info.Name,
			Opcode:     instr.Op,
			Operand:    operand,
			Annotation: annotation,
			Raw:        instr.Raw(code),
		})
	}
	if err := iter.Err(); err != nil {
		return instructions, err
	}
	return instructions, nil
}

func (instr Instruction) operandText() string {
	if instr.Annotation != "" {
		return fmt.Sprintf("%s (%s)", instr.Operand, instr.Annotation)
	}
	return instr.Operand
}

func hexBytes(raw []byte) string {
	var b strings.Builder
	for i, c := range raw {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", c)
	}
	return b.String()
}

// Format renders the instructions one per line as
// "address:<TAB>MNEMONIC<TAB>operand" followed by the raw bytes.
func Format(instructions []Instruction) string {
	var b strings.Builder
	for _, instr := range instructions {
		fmt.Fprintf(&b, "%08x:\t%-8s\t%-24s%s\n", instr.Offset, instr.Name, instr.operandText(), hexBytes(instr.Raw))
	}
	return b.String()
}

// Print a string representation of the given instructions to the given
// writer. Mnemonics are bold and operands colored when color output is
// enabled.
func Print(instructions []Instruction, writer io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for _, instr := range instructions {
		name := fmt.Sprintf("%-8s", instr.Name)
		operand := fmt.Sprintf("%-24s", instr.operandText())
		if instr.Operand != "" {
			operand = operandColor(instr.Opcode).Sprint(operand)
		}
		fmt.Fprintf(writer, "%08x:\t%s\t%s%s\n", instr.Offset, bold(name), operand, faint(hexBytes(instr.Raw)))
	}
}

func operandColor(code op.Code) *color.Color {
	switch op.GetInfo(code).Operand {
	case op.Number:
		return color.New(color.FgYellow)
	case op.String:
		return color.New(color.FgGreen)
	case op.Address:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgMagenta)
	}
}
