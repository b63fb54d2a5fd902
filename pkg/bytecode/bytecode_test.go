package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearlang/clearvm/pkg/bytecode"
)

func TestStringKnownMnemonic(t *testing.T) {
	assert.Equal(t, "PUSH_CONST", bytecode.PushConst.String())
	assert.Equal(t, "EXTRACT_FIELD", bytecode.ExtractField.String())
}

func TestStringUnknownOpcode(t *testing.T) {
	assert.Equal(t, "UNKNOWN", bytecode.Opcode(0xFF).String())
	assert.Equal(t, "UNKNOWN", bytecode.Opcode(bytecode.OpCount).String())
}

func TestLookupIsInverseOfString(t *testing.T) {
	op, ok := bytecode.Lookup("INT_ADD")
	assert.True(t, ok)
	assert.Equal(t, bytecode.IntAdd, op)

	_, ok = bytecode.Lookup("NOT_A_REAL_MNEMONIC")
	assert.False(t, ok)
}

func TestOperandWidthsTwoOperandOpcodes(t *testing.T) {
	assert.Equal(t, 2, bytecode.OperandWidths(bytecode.ExtractField))
	assert.Equal(t, 2, bytecode.OperandWidths(bytecode.InsertField))
}

func TestOperandWidthsOneOperandOpcodes(t *testing.T) {
	for _, op := range []bytecode.Opcode{
		bytecode.PushConst, bytecode.SetGlobal, bytecode.PushGlobal,
		bytecode.SetLocal, bytecode.PushLocal, bytecode.Jump,
		bytecode.JumpIfFalse, bytecode.Loop, bytecode.Function,
		bytecode.Call, bytecode.Struct, bytecode.Destruct,
		bytecode.GetField, bytecode.SetField, bytecode.RefLocal,
		bytecode.IsValType, bytecode.IsObjType,
	} {
		assert.Equal(t, 1, bytecode.OperandWidths(op), "%s", op)
	}
}

func TestOperandWidthsZeroOperandOpcodes(t *testing.T) {
	for _, op := range []bytecode.Opcode{
		bytecode.PushTrue, bytecode.PushFalse, bytecode.PushNil,
		bytecode.Int, bytecode.Bool, bytecode.Num, bytecode.Str,
		bytecode.Clock, bytecode.Print, bytecode.Pop, bytecode.Squash,
		bytecode.IntAdd, bytecode.Not, bytecode.Equal,
		bytecode.LoadIP, bytecode.LoadFP, bytecode.SetReturn, bytecode.PushReturn,
		bytecode.Deref, bytecode.SetRef,
	} {
		assert.Equal(t, 0, bytecode.OperandWidths(op), "%s", op)
	}
}

func TestEveryMnemonicRoundTripsThroughLookup(t *testing.T) {
	for op := bytecode.Opcode(0); op < bytecode.OpCount; op++ {
		name := op.String()
		if name == "UNKNOWN" {
			continue
		}
		got, ok := bytecode.Lookup(name)
		assert.True(t, ok, "lookup failed for %s", name)
		assert.Equal(t, op, got)
	}
}
