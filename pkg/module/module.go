// Package module loads a clearvm binary module: the constant-pool header
// described in spec §4.3/§6.1, plus the code segment that follows it.
//
// Loading is a one-shot pass over the module bytes. It never looks at
// the code segment's contents — opcode decoding is the VM's job (see
// pkg/vm) — it only needs to know where the header ends so the VM can
// start dispatching from the right offset.
package module

import (
	"github.com/pkg/errors"

	"github.com/clearlang/clearvm/pkg/bytecode"
	"github.com/clearlang/clearvm/pkg/value"
)

// Format-error sentinels (spec §7, "Format errors").
var (
	ErrTruncatedHeader    = errors.New("truncated header")
	ErrUnknownConstantTag = errors.New("unknown constant tag")
)

// Module is a loaded clearvm binary: its constant pool and its code
// segment (the module bytes that follow the header).
type Module struct {
	Constants []value.Value
	Code      []byte
}

// LoadModule reads the one-byte constant count followed by that many
// constant records, interning any string constants into heap, and
// returns a Module whose Code is the remainder of data.
//
// This implements spec §4.3 exactly: CONST_INT is a 4-byte little-endian
// i32, CONST_NUM is an 8-byte IEEE 754 double, CONST_STR is a one-byte
// length followed by that many raw bytes (no terminator). Any short read
// is ErrTruncatedHeader; any tag byte other than 0x00/0x01/0x02 is
// ErrUnknownConstantTag.
func LoadModule(data []byte, heap *value.Heap) (*Module, error) {
	var pos uint32

	count, err := ReadU8(data, &pos)
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading constant count")
	}

	constants := make([]value.Value, 0, count)
	for i := 0; i < int(count); i++ {
		tag, err := ReadU8(data, &pos)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedHeader, "reading tag of constant %d", i)
		}

		switch bytecode.ConstTag(tag) {
		case bytecode.ConstInt:
			iv, err := ReadI32(data, &pos)
			if err != nil {
				return nil, errors.Wrapf(ErrTruncatedHeader, "reading int constant %d", i)
			}
			constants = append(constants, value.Int(iv))

		case bytecode.ConstNum:
			nv, err := ReadF64(data, &pos)
			if err != nil {
				return nil, errors.Wrapf(ErrTruncatedHeader, "reading num constant %d", i)
			}
			constants = append(constants, value.Num(nv))

		case bytecode.ConstStr:
			length, err := ReadU8(data, &pos)
			if err != nil {
				return nil, errors.Wrapf(ErrTruncatedHeader, "reading string length of constant %d", i)
			}
			raw, err := ReadBytes(data, &pos, int(length))
			if err != nil {
				return nil, errors.Wrapf(ErrTruncatedHeader, "reading string bytes of constant %d", i)
			}
			constants = append(constants, heap.InternString(string(raw)))

		default:
			return nil, errors.Wrapf(ErrUnknownConstantTag, "constant %d has tag 0x%02X", i, tag)
		}
	}

	return &Module{
		Constants: constants,
		Code:      data[pos:],
	}, nil
}
