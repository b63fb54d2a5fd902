package module

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrShortRead is the low-level sentinel every bounds-checked read
// returns when it would run past the end of the buffer. Callers (the
// constant-pool loader, the VM's instruction decoder) wrap it with their
// own situated error kind (TruncatedHeader, TruncatedInstruction, ...).
var ErrShortRead = errors.New("short read")

// ReadU8 reads one byte at *pos and advances *pos by one.
func ReadU8(data []byte, pos *uint32) (byte, error) {
	if uint64(*pos)+1 > uint64(len(data)) {
		return 0, ErrShortRead
	}
	b := data[*pos]
	*pos++
	return b, nil
}

// ReadI32 reads a little-endian signed 32-bit integer at *pos.
func ReadI32(data []byte, pos *uint32) (int32, error) {
	if uint64(*pos)+4 > uint64(len(data)) {
		return 0, ErrShortRead
	}
	v := int32(binary.LittleEndian.Uint32(data[*pos : *pos+4]))
	*pos += 4
	return v, nil
}

// ReadF64 reads a little-endian IEEE 754 double at *pos.
func ReadF64(data []byte, pos *uint32) (float64, error) {
	if uint64(*pos)+8 > uint64(len(data)) {
		return 0, ErrShortRead
	}
	bits := binary.LittleEndian.Uint64(data[*pos : *pos+8])
	*pos += 8
	return math.Float64frombits(bits), nil
}

// ReadBytes reads n raw bytes at *pos, returning a copy so the result
// outlives the caller's view of data.
func ReadBytes(data []byte, pos *uint32, n int) ([]byte, error) {
	if n < 0 || uint64(*pos)+uint64(n) > uint64(len(data)) {
		return nil, ErrShortRead
	}
	out := make([]byte, n)
	copy(out, data[*pos:uint32(n)+*pos])
	*pos += uint32(n)
	return out, nil
}
