package asm

import (
	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/op"
)

// CreateVariable declares name in the current scope and returns its slot.
// Slots are allocated in declaration order and never reused, so a variable
// may shadow an outer one of the same name.
func (a *Assembler) CreateVariable(name string, mutable bool) uint32 {
	slot := a.nextSlot
	a.nextSlot++
	a.bindings = append(a.bindings, binding{name: name, slot: slot, mutable: mutable})
	a.declared = append(a.declared, bytecode.Variable{Name: name, Slot: slot, Mutable: mutable})
	return slot
}

// GetVariableIndex resolves name to a slot, searching from the innermost
// scope outwards. It also reports whether the binding is mutable.
func (a *Assembler) GetVariableIndex(name string) (uint32, bool, error) {
	for i := len(a.bindings) - 1; i >= 0; i-- {
		if b := a.bindings[i]; b.name == name {
			return b.slot, b.mutable, nil
		}
	}
	return 0, false, errz.Newf(errz.UndeclaredVariable, "%s", name)
}

// VisibleNames returns the names that currently resolve, innermost first.
func (a *Assembler) VisibleNames() []string {
	names := make([]string, 0, len(a.bindings))
	for i := len(a.bindings) - 1; i >= 0; i-- {
		names = append(names, a.bindings[i].name)
	}
	return names
}

// SlotCount returns the number of slots allocated so far.
func (a *Assembler) SlotCount() uint32 {
	return a.nextSlot
}

// PushScope opens a lexical block and emits ENTER.
func (a *Assembler) PushScope() {
	a.scopes = append(a.scopes, scope{firstBinding: len(a.bindings), firstSlot: a.nextSlot})
	a.AddSlot(op.Enter, a.nextSlot)
}

// PopScope closes the innermost block, dropping the names declared in it,
// and emits LEAVE.
func (a *Assembler) PopScope() {
	if len(a.scopes) == 0 {
		a.fail(errz.New(errz.MalformedBytecode, "scope closed without a matching open").AtOffset(len(a.code)))
		return
	}
	s := a.scopes[len(a.scopes)-1]
	a.scopes = a.scopes[:len(a.scopes)-1]
	a.bindings = a.bindings[:s.firstBinding]
	a.Add(op.Leave)
}

// ScopeDepth returns the number of open scopes.
func (a *Assembler) ScopeDepth() int {
	return len(a.scopes)
}
