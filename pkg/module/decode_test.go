package module_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearlang/clearvm/pkg/module"
)

func TestReadU8AdvancesCursor(t *testing.T) {
	data := []byte{0x10, 0x20}
	var pos uint32

	b, err := module.ReadU8(data, &pos)
	require.NoError(t, err)
	assert.Equal(t, byte(0x10), b)
	assert.Equal(t, uint32(1), pos)
}

func TestReadU8ShortRead(t *testing.T) {
	var pos uint32 = 1
	_, err := module.ReadU8([]byte{0x01}, &pos)
	assert.ErrorIs(t, err, module.ErrShortRead)
}

func TestReadI32LittleEndian(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF} // -1
	var pos uint32

	v, err := module.ReadI32(data, &pos)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
	assert.Equal(t, uint32(4), pos)
}

func TestReadI32ShortRead(t *testing.T) {
	var pos uint32
	_, err := module.ReadI32([]byte{0x01, 0x02}, &pos)
	assert.ErrorIs(t, err, module.ErrShortRead)
}

func TestReadF64RoundTrips(t *testing.T) {
	data := []byte{0, 0, 0, 0, 0, 0, 0, 0x40} // 2.0
	var pos uint32

	v, err := module.ReadF64(data, &pos)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, uint32(8), pos)
}

func TestReadBytesCopiesAndAdvances(t *testing.T) {
	data := []byte("hello world")
	var pos uint32 = 6

	out, err := module.ReadBytes(data, &pos, 5)
	require.NoError(t, err)
	assert.Equal(t, "world", string(out))
	assert.Equal(t, uint32(11), pos)

	out[0] = 'W'
	assert.Equal(t, byte('w'), data[6])
}

func TestReadBytesShortRead(t *testing.T) {
	var pos uint32
	_, err := module.ReadBytes([]byte{1, 2}, &pos, 5)
	assert.ErrorIs(t, err, module.ErrShortRead)
}

func TestReadBytesNegativeLength(t *testing.T) {
	var pos uint32
	_, err := module.ReadBytes([]byte{1, 2}, &pos, -1)
	assert.ErrorIs(t, err, module.ErrShortRead)
}
