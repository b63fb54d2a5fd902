package module_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearlang/clearvm/pkg/asm"
	"github.com/clearlang/clearvm/pkg/module"
	"github.com/clearlang/clearvm/pkg/value"
)

func TestLoadModuleParsesAllConstantKinds(t *testing.T) {
	b := asm.NewBuilder()
	b.Int(42)
	b.Num(2.5)
	b.Str("hi")
	b.Emit("PRINT")
	data, err := b.Bytes()
	require.NoError(t, err)

	heap := value.NewHeap(nil)
	mod, err := module.LoadModule(data, heap)
	require.NoError(t, err)
	require.Len(t, mod.Constants, 3)

	i, ok := mod.Constants[0].AsInt()
	require.True(t, ok)
	assert.Equal(t, int32(42), i)

	n, ok := mod.Constants[1].AsNum()
	require.True(t, ok)
	assert.Equal(t, 2.5, n)

	handle, ok := mod.Constants[2].AsObj()
	require.True(t, ok)
	assert.Equal(t, "hi", heap.Object(handle).Str())

	assert.Len(t, mod.Code, 1) // a single PRINT opcode byte
}

func TestLoadModuleInternsDuplicateStringConstants(t *testing.T) {
	b := asm.NewBuilder()
	b.Str("same")
	b.Str("same")
	data, err := b.Bytes()
	require.NoError(t, err)

	heap := value.NewHeap(nil)
	mod, err := module.LoadModule(data, heap)
	require.NoError(t, err)

	h0, _ := mod.Constants[0].AsObj()
	h1, _ := mod.Constants[1].AsObj()
	assert.Equal(t, h0, h1)
}

func TestLoadModuleEmptyConstantPool(t *testing.T) {
	heap := value.NewHeap(nil)
	mod, err := module.LoadModule([]byte{0x00, 0x0D}, heap) // count=0, then PRINT
	require.NoError(t, err)
	assert.Empty(t, mod.Constants)
	assert.Equal(t, []byte{0x0D}, mod.Code)
}

func TestLoadModuleTruncatedHeader(t *testing.T) {
	heap := value.NewHeap(nil)
	// count says 1 constant but the buffer ends before its tag byte.
	_, err := module.LoadModule([]byte{0x01}, heap)
	assert.ErrorIs(t, err, module.ErrTruncatedHeader)
}

func TestLoadModuleTruncatedIntPayload(t *testing.T) {
	heap := value.NewHeap(nil)
	_, err := module.LoadModule([]byte{0x01, 0x00, 0x01, 0x02}, heap) // tag=CONST_INT, only 2 of 4 bytes
	assert.ErrorIs(t, err, module.ErrTruncatedHeader)
}

func TestLoadModuleUnknownConstantTag(t *testing.T) {
	heap := value.NewHeap(nil)
	_, err := module.LoadModule([]byte{0x01, 0xFF}, heap)
	assert.ErrorIs(t, err, module.ErrUnknownConstantTag)
}

func TestLoadModuleEmptyBuffer(t *testing.T) {
	heap := value.NewHeap(nil)
	_, err := module.LoadModule([]byte{}, heap)
	assert.ErrorIs(t, err, module.ErrTruncatedHeader)
}
