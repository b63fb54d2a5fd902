package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearlang/clearvm/pkg/asm"
	"github.com/clearlang/clearvm/pkg/module"
	"github.com/clearlang/clearvm/pkg/value"
	"github.com/clearlang/clearvm/pkg/vm"
)

// run assembles code via b, loads it, and executes it, returning
// whatever OP_PRINT wrote to stdout.
func run(t *testing.T, b *asm.Builder) (string, error) {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)

	var out bytes.Buffer
	machine := vm.New(vm.WithOutput(&out))

	mod, err := module.LoadModule(data, machine.Heap())
	require.NoError(t, err)

	err = machine.Run(mod)
	return out.String(), err
}

func TestS1PrintConstant(t *testing.T) {
	b := asm.NewBuilder()
	c0 := b.Str("hello")
	b.Emit("PUSH_CONST", c0).Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestS2IntArithmetic(t *testing.T) {
	b := asm.NewBuilder()
	c0 := b.Int(2)
	c1 := b.Int(3)
	b.Emit("PUSH_CONST", c0).Emit("PUSH_CONST", c1).
		Emit("INT_ADD").Emit("INT").Emit("STR").Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestS3GlobalSetGet(t *testing.T) {
	b := asm.NewBuilder()
	c0 := b.Int(7)
	b.Emit("PUSH_CONST", c0).Emit("SET_GLOBAL", 0).
		Emit("PUSH_GLOBAL", 0).Emit("STR").Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestS4Conditional(t *testing.T) {
	b := asm.NewBuilder()
	yes := b.Str("yes")
	no := b.Str("no")

	b.Emit("PUSH_FALSE")
	jf := b.EmitForwardJump("JUMP_IF_FALSE")
	b.Emit("PUSH_CONST", yes)
	jmp := b.EmitForwardJump("JUMP")
	b.PatchForward(jf)
	b.Emit("PUSH_CONST", no)
	b.PatchForward(jmp)
	b.Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "no\n", out)
}

func TestS5LoopCounting(t *testing.T) {
	b := asm.NewBuilder()
	zero := b.Int(0)
	one := b.Int(1)
	three := b.Int(3)

	b.Emit("PUSH_CONST", zero) // local 0 := 0

	loopStart := b.Label()
	b.Emit("PUSH_LOCAL", 0).Emit("PUSH_CONST", three).Emit("INT_LESS")
	exitJump := b.EmitForwardJump("JUMP_IF_FALSE")

	b.Emit("PUSH_LOCAL", 0).Emit("STR").Emit("PRINT")
	b.Emit("PUSH_LOCAL", 0).Emit("PUSH_CONST", one).Emit("INT_ADD").Emit("SET_LOCAL", 0)
	b.EmitLoop(loopStart)

	b.PatchForward(exitJump)

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestS6StructRoundTrip(t *testing.T) {
	b := asm.NewBuilder()
	ten := b.Int(10)
	twenty := b.Int(20)
	thirty := b.Int(30)
	b.Emit("PUSH_CONST", ten).Emit("PUSH_CONST", twenty).Emit("PUSH_CONST", thirty).
		Emit("STRUCT", 3).Emit("GET_FIELD", 1).Emit("STR").Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
}

// TestS7UpvalueCapture: a local holds 5, an upvalue referencing it is
// stashed in a global (so it survives the local's slot going away),
// the local is popped with OP_POP (which closes any upvalue on the
// slot it removes), and the upvalue is dereferenced back out. OP_POP
// is the only opcode that closes upvalues, so the upvalue must be
// moved off the stack before the local beneath it is popped.
func TestS7UpvalueCapture(t *testing.T) {
	b := asm.NewBuilder()
	five := b.Int(5)
	b.Emit("PUSH_CONST", five) // sp=1: [5]        (local 0)
	b.Emit("REF_LOCAL", 0)     // sp=2: [5, upvalue]
	b.Emit("SET_GLOBAL", 0)    // sp=1: [5]         (upvalue stashed in globals[0])
	b.Emit("POP")              // sp=0: closes the upvalue on slot 0 with value 5
	b.Emit("PUSH_GLOBAL", 0)   // sp=1: [upvalue]
	b.Emit("DEREF")            // sp=1: [5]         (closed value)
	b.Emit("STR").Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestInvariantStackBounds(t *testing.T) {
	b := asm.NewBuilder()
	for i := 0; i < vm.StackMax+1; i++ {
		b.Emit("PUSH_TRUE")
	}
	data, err := b.Bytes()
	require.NoError(t, err)

	machine := vm.New()
	mod, err := module.LoadModule(data, machine.Heap())
	require.NoError(t, err)

	err = machine.Run(mod)
	require.Error(t, err)
	var execErr *vm.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.ErrorIs(t, execErr, vm.ErrStackOverflow)
}

func TestInvariantInternedStringsEqualByBytes(t *testing.T) {
	b := asm.NewBuilder()
	c0 := b.Str("same")
	c1 := b.Str("same")
	b.Emit("PUSH_CONST", c0).Emit("PUSH_CONST", c1).Emit("EQUAL")
	b.Emit("STR").Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestJumpSkipsOverDeadCode(t *testing.T) {
	b := asm.NewBuilder()
	hi := b.Str("hi")
	jmp := b.EmitForwardJump("JUMP")
	b.Emit("PUSH_CONST", hi) // dead: jumped over
	b.Emit("PRINT")          // dead: would underflow the stack if reached
	b.PatchForward(jmp)
	b.Emit("PUSH_CONST", hi)
	b.Emit("PRINT")

	out, err := run(t, b)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}

func TestUndefinedGlobalFails(t *testing.T) {
	b := asm.NewBuilder()
	b.Emit("PUSH_GLOBAL", 0)

	data, err := b.Bytes()
	require.NoError(t, err)
	machine := vm.New()
	mod, err := module.LoadModule(data, machine.Heap())
	require.NoError(t, err)

	err = machine.Run(mod)
	require.Error(t, err)
	assert.ErrorIs(t, err, vm.ErrUndefinedGlobal)
}

func TestNonStringConcatFails(t *testing.T) {
	b := asm.NewBuilder()
	five := b.Int(5)
	b.Emit("PUSH_CONST", five).Emit("PUSH_CONST", five).Emit("STR_CAT")

	data, err := b.Bytes()
	require.NoError(t, err)
	machine := vm.New()
	mod, err := module.LoadModule(data, machine.Heap())
	require.NoError(t, err)

	err = machine.Run(mod)
	require.Error(t, err)
	assert.ErrorIs(t, err, vm.ErrNonStringConcat)
}

func TestIsObjTypeNeverPanicsOnNonObj(t *testing.T) {
	b := asm.NewBuilder()
	b.Emit("PUSH_NIL").Emit("IS_OBJ_TYPE", byte(value.ObjString))

	data, err := b.Bytes()
	require.NoError(t, err)
	machine := vm.New()
	mod, err := module.LoadModule(data, machine.Heap())
	require.NoError(t, err)
	require.NoError(t, machine.Run(mod))
}

func TestCastSaturatesOutOfRangeNumToInt(t *testing.T) {
	b := asm.NewBuilder()
	huge := b.Num(1e30)
	b.Emit("PUSH_CONST", huge).Emit("INT").Emit("STR").Emit("PRINT")

	data, err := b.Bytes()
	require.NoError(t, err)
	var out bytes.Buffer
	machine := vm.New(vm.WithOutput(&out))
	mod, err := module.LoadModule(data, machine.Heap())
	require.NoError(t, err)
	require.NoError(t, machine.Run(mod))
	assert.Equal(t, "2147483647\n", out.String())
}
