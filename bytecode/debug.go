package bytecode

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/zoelang/zoe/errz"
)

// DebugInfo is the optional payload of the debug section.
type DebugInfo struct {
	Variables []Variable `cbor:"1,keyasint,omitempty"`
	// Labels holds the resolved address of each label, indexed by label.
	Labels []uint64 `cbor:"2,keyasint,omitempty"`
}

// Variable describes a declared variable and the slot assigned to it.
type Variable struct {
	Name    string `cbor:"1,keyasint"`
	Slot    uint32 `cbor:"2,keyasint"`
	Mutable bool   `cbor:"3,keyasint,omitempty"`
}

// VariableAt returns the name of the variable bound to slot, if recorded.
func (d *DebugInfo) VariableAt(slot uint32) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, v := range d.Variables {
		if v.Slot == slot {
			return v.Name, true
		}
	}
	return "", false
}

func (d *DebugInfo) marshal() ([]byte, error) {
	data, err := cbor.Marshal(d)
	if err != nil {
		return nil, errz.New(errz.MalformedBytecode, "cannot encode debug info").WithCause(err)
	}
	return data, nil
}

func unmarshalDebug(data []byte) (*DebugInfo, error) {
	var d DebugInfo
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, errz.New(errz.MalformedBytecode, "cannot decode debug section").WithCause(err)
	}
	return &d, nil
}
