// Package bytecode defines the binary form of compiled zoe code.
//
// A serialized unit is an 8-byte magic/version header, a table of six
// little-endian u64 section fields (code position and size, data position
// and size, debug position and size) and the sections themselves. Only the
// code section is mandatory. The data section holds the string-literal pool
// and the debug section holds CBOR-encoded DebugInfo.
//
// A Unit is immutable after creation and safe for concurrent use.
package bytecode

import (
	"bytes"
	"encoding/binary"

	"github.com/zoelang/zoe/errz"
)

// Magic is the 8-byte header that starts every serialized unit: a 5-byte
// signature followed by the major and minor version and a reserved byte.
var Magic = [8]byte{0x90, 0x6F, 0x65, 0x20, 0xEB, VersionMajor, VersionMinor, 0x00}

const (
	VersionMajor = 0x00
	VersionMinor = 0x01

	// HeaderSize is the size of the magic plus the section table. The code
	// section of a freshly serialized unit starts here.
	HeaderSize = 8 + 6*8
)

// Unit is a finalized bytecode unit.
type Unit struct {
	raw     []byte
	code    []byte
	strings []string
	debug   *DebugInfo
	minor   uint8
}

// Params contains the sections used to build a new Unit.
type Params struct {
	Code    []byte
	Strings []string
	Debug   *DebugInfo
}

// NewUnit serializes the given sections and returns the resulting Unit.
func NewUnit(params Params) (*Unit, error) {
	raw, err := Encode(params)
	if err != nil {
		return nil, err
	}
	return Deserialize(raw)
}

// Encode produces the binary form of the given sections.
func Encode(params Params) ([]byte, error) {
	var data bytes.Buffer
	for _, s := range params.Strings {
		if bytes.IndexByte([]byte(s), 0) >= 0 {
			return nil, errz.Newf(errz.MalformedBytecode, "string literal %q contains a NUL byte", s)
		}
		data.WriteString(s)
		data.WriteByte(0)
	}
	var debug []byte
	if params.Debug != nil {
		var err error
		if debug, err = params.Debug.marshal(); err != nil {
			return nil, err
		}
	}

	codePos := uint64(HeaderSize)
	codeSize := uint64(len(params.Code))
	dataPos, dataSize := uint64(0), uint64(data.Len())
	if dataSize > 0 {
		dataPos = codePos + codeSize
	}
	debugPos, debugSize := uint64(0), uint64(len(debug))
	if debugSize > 0 {
		debugPos = codePos + codeSize + dataSize
	}

	out := make([]byte, 0, HeaderSize+len(params.Code)+data.Len()+len(debug))
	out = append(out, Magic[:]...)
	for _, field := range []uint64{codePos, codeSize, dataPos, dataSize, debugPos, debugSize} {
		out = binary.LittleEndian.AppendUint64(out, field)
	}
	out = append(out, params.Code...)
	out = append(out, data.Bytes()...)
	out = append(out, debug...)
	return out, nil
}

// Deserialize parses and validates the binary form of a unit. The input is
// copied, so the caller may reuse the buffer.
func Deserialize(data []byte) (*Unit, error) {
	if len(data) < HeaderSize {
		return nil, errz.Newf(errz.MalformedBytecode, "unit is %d bytes, shorter than the %d byte header", len(data), HeaderSize)
	}
	if !bytes.Equal(data[:5], Magic[:5]) {
		return nil, errz.New(errz.MalformedBytecode, "bad magic")
	}
	if data[5] != VersionMajor {
		return nil, errz.Newf(errz.MalformedBytecode, "unsupported major version %d", data[5])
	}
	raw := make([]byte, len(data))
	copy(raw, data)

	var fields [6]uint64
	for i := range fields {
		fields[i] = binary.LittleEndian.Uint64(raw[8+8*i:])
	}
	code, err := section(raw, "code", fields[0], fields[1], true)
	if err != nil {
		return nil, err
	}
	pool, err := section(raw, "data", fields[2], fields[3], false)
	if err != nil {
		return nil, err
	}
	debugBytes, err := section(raw, "debug", fields[4], fields[5], false)
	if err != nil {
		return nil, err
	}

	unit := &Unit{raw: raw, code: code, minor: raw[6]}
	if unit.strings, err = splitPool(pool); err != nil {
		return nil, err
	}
	if len(debugBytes) > 0 {
		if unit.debug, err = unmarshalDebug(debugBytes); err != nil {
			return nil, err
		}
	}
	if err := validate(code); err != nil {
		return nil, err
	}
	return unit, nil
}

func section(raw []byte, name string, pos, size uint64, mandatory bool) ([]byte, error) {
	if size == 0 {
		if mandatory && pos < HeaderSize {
			return nil, errz.Newf(errz.MalformedBytecode, "%s section position %d overlaps the header", name, pos)
		}
		return nil, nil
	}
	if pos < HeaderSize {
		return nil, errz.Newf(errz.MalformedBytecode, "%s section position %d overlaps the header", name, pos)
	}
	end := pos + size
	if end < pos || end > uint64(len(raw)) {
		return nil, errz.Newf(errz.MalformedBytecode, "%s section [%d, %d) extends past the end of the unit", name, pos, end)
	}
	return raw[pos:end:end], nil
}

func splitPool(pool []byte) ([]string, error) {
	if len(pool) == 0 {
		return nil, nil
	}
	if pool[len(pool)-1] != 0 {
		return nil, errz.New(errz.MalformedBytecode, "string pool is not NUL-terminated")
	}
	parts := bytes.Split(pool[:len(pool)-1], []byte{0})
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = string(p)
	}
	return strs, nil
}

// Code returns the instruction stream. The returned slice must not be modified.
func (u *Unit) Code() []byte {
	return u.code
}

// Len returns the size of the code section in bytes.
func (u *Unit) Len() int {
	return len(u.code)
}

// Strings returns a copy of the string-literal pool.
func (u *Unit) Strings() []string {
	return copyStrings(u.strings)
}

// Debug returns the debug info, or nil when the unit carries none.
func (u *Unit) Debug() *DebugInfo {
	return u.debug
}

// VersionMinor returns the minor format version the unit was written with.
func (u *Unit) VersionMinor() uint8 {
	return u.minor
}

// Bytes returns a copy of the serialized unit.
func (u *Unit) Bytes() []byte {
	out := make([]byte, len(u.raw))
	copy(out, u.raw)
	return out
}

// Equal reports whether two units have identical serialized forms.
func (u *Unit) Equal(other *Unit) bool {
	if u == nil || other == nil {
		return u == other
	}
	return bytes.Equal(u.raw, other.raw)
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
