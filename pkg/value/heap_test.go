package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearlang/clearvm/pkg/value"
)

func TestInternStringReturnsSameHandleForSameBytes(t *testing.T) {
	h := value.NewHeap(nil)
	a := h.InternString("hello")
	b := h.InternString("hello")

	ah, _ := a.AsObj()
	bh, _ := b.AsObj()
	assert.Equal(t, ah, bh)
}

func TestInternStringDistinctForDifferentBytes(t *testing.T) {
	h := value.NewHeap(nil)
	a := h.InternString("hello")
	b := h.InternString("goodbye")

	ah, _ := a.AsObj()
	bh, _ := b.AsObj()
	assert.NotEqual(t, ah, bh)
}

func TestNewStructCopiesFieldSlice(t *testing.T) {
	h := value.NewHeap(nil)
	fields := []value.Value{value.Int(1), value.Int(2)}
	v := h.NewStruct(fields)

	fields[0] = value.Int(99)

	handle, ok := v.AsObj()
	require.True(t, ok)
	stored := h.Object(handle).Fields()
	assert.Equal(t, int32(1), mustInt(t, stored[0]))
}

func TestUpvalueOpenThenClosedLifecycle(t *testing.T) {
	h := value.NewHeap(nil)
	v := h.NewOpenUpvalue(3)
	handle, ok := v.AsObj()
	require.True(t, ok)

	obj := h.Object(handle)
	slot, open := obj.UpvalueSlot()
	assert.True(t, open)
	assert.Equal(t, uint16(3), slot)

	_, closedOK := obj.UpvalueClosedValue()
	assert.False(t, closedOK)

	obj.CloseUpvalue(value.Int(42))
	_, open = obj.UpvalueSlot()
	assert.False(t, open)

	closed, closedOK := obj.UpvalueClosedValue()
	require.True(t, closedOK)
	assert.Equal(t, int32(42), mustInt(t, closed))

	// Closing twice is a no-op, not an overwrite.
	obj.CloseUpvalue(value.Int(7))
	closed, _ = obj.UpvalueClosedValue()
	assert.Equal(t, int32(42), mustInt(t, closed))
}

func TestSetUpvalueClosedValueOverwrites(t *testing.T) {
	h := value.NewHeap(nil)
	v := h.NewOpenUpvalue(0)
	handle, _ := v.AsObj()
	obj := h.Object(handle)
	obj.CloseUpvalue(value.Int(1))
	obj.SetUpvalueClosedValue(value.Int(2))

	closed, _ := obj.UpvalueClosedValue()
	assert.Equal(t, int32(2), mustInt(t, closed))
}

func TestEqualByTagAndPayload(t *testing.T) {
	h := value.NewHeap(nil)
	assert.True(t, h.Equal(value.Nil, value.Nil))
	assert.True(t, h.Equal(value.Int(5), value.Int(5)))
	assert.False(t, h.Equal(value.Int(5), value.Int(6)))
	assert.False(t, h.Equal(value.Int(5), value.Bool(true)))
	assert.True(t, h.Equal(value.Num(1.0000001), value.Num(1.0000002)))
	assert.False(t, h.Equal(value.Num(1.0), value.Num(1.1)))
}

func TestEqualStringsByBytesEvenAcrossHandles(t *testing.T) {
	h := value.NewHeap(nil)
	a := h.InternString("same")
	b := h.InternString("same")
	assert.True(t, h.Equal(a, b))

	c := h.InternString("different")
	assert.False(t, h.Equal(a, c))
}

func TestTeardownReportsObjectCount(t *testing.T) {
	h := value.NewHeap(nil)
	h.InternString("a")
	h.InternString("b")
	summary := h.Teardown()
	assert.Contains(t, summary, "2")
}

func mustInt(t *testing.T, v value.Value) int32 {
	t.Helper()
	i, ok := v.AsInt()
	require.True(t, ok)
	return i
}
