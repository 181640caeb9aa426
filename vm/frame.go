package vm

import (
	"strconv"

	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/object"
)

// frame is the execution state of one call: the code being run, its
// instruction pointer, the variable slots and the scope checkpoints pushed
// by ENTER.
type frame struct {
	unit   *bytecode.Unit
	code   []byte
	ip     int
	slots  []object.Object
	scopes []uint32
	steps  int64
}

func newFrame(unit *bytecode.Unit, args []object.Object) *frame {
	f := &frame{unit: unit, code: unit.Code()}
	if len(args) > 0 {
		f.slots = make([]object.Object, len(args), len(args)+8)
		copy(f.slots, args)
	}
	return f
}

func (f *frame) getSlot(slot uint32) (object.Object, error) {
	if int64(slot) >= int64(len(f.slots)) || f.slots[slot] == nil {
		return nil, errz.Newf(errz.UndeclaredVariable, "%s is not set", f.slotName(slot))
	}
	return f.slots[slot], nil
}

func (f *frame) setSlot(slot uint32, value object.Object) {
	if int64(slot) >= int64(len(f.slots)) {
		grown := make([]object.Object, int(slot)+1, int(slot)+1+8)
		copy(grown, f.slots)
		f.slots = grown
	}
	f.slots[slot] = value
}

func (f *frame) enter(checkpoint uint32) {
	f.scopes = append(f.scopes, checkpoint)
}

// leave closes the innermost scope and unsets every slot allocated in it.
func (f *frame) leave() error {
	if len(f.scopes) == 0 {
		return errz.New(errz.MalformedBytecode, "LEAVE without a matching ENTER")
	}
	checkpoint := f.scopes[len(f.scopes)-1]
	f.scopes = f.scopes[:len(f.scopes)-1]
	for i := int64(checkpoint); i < int64(len(f.slots)); i++ {
		f.slots[i] = nil
	}
	return nil
}

func (f *frame) slotName(slot uint32) string {
	if name, ok := f.unit.Debug().VariableAt(slot); ok {
		return name
	}
	return "slot " + strconv.FormatUint(uint64(slot), 10)
}
