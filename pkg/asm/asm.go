// Package asm assembles clearvm modules: mnemonic-and-operand
// instructions plus constant-pool declarations, turned into the wire
// format pkg/module.LoadModule reads (spec §4.3/§6.1).
//
// This is not the out-of-scope source-language compiler — there is no
// lexer, parser, or notion of source grammar here, only a mechanical
// encoding of the fixed instruction set. It exists to build test
// fixtures without hand-counting hex bytes, and to back the
// `clearvm assemble` development convenience.
package asm

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/clearlang/clearvm/pkg/bytecode"
)

// ErrTooManyConstants is returned once a Builder's constant pool would
// overflow the one-byte count the wire format allows.
var ErrTooManyConstants = errors.New("more than 255 constants")

// ErrUnknownMnemonic is returned by Emit for a name not in
// bytecode.Lookup's table.
var ErrUnknownMnemonic = errors.New("unknown mnemonic")

// ErrOperandCount is returned when Emit is given a different number of
// operand bytes than the opcode's OperandWidths expects.
var ErrOperandCount = errors.New("wrong operand count for opcode")

// Builder accumulates a constant pool and a code segment and renders
// them into a single module's wire bytes.
type Builder struct {
	constants []byte
	constN    int
	code      []byte
	err       error
}

// NewBuilder returns an empty module builder.
func NewBuilder() *Builder { return &Builder{} }

// Int appends an integer constant and returns its pool index.
func (b *Builder) Int(v int32) byte {
	idx := b.reserveConstSlot()
	b.constants = append(b.constants, byte(bytecode.ConstInt))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	b.constants = append(b.constants, buf[:]...)
	return idx
}

// Num appends a float constant and returns its pool index.
func (b *Builder) Num(v float64) byte {
	idx := b.reserveConstSlot()
	b.constants = append(b.constants, byte(bytecode.ConstNum))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	b.constants = append(b.constants, buf[:]...)
	return idx
}

// Str appends a string constant and returns its pool index. s must be
// 255 bytes or shorter, matching the one-byte length prefix.
func (b *Builder) Str(s string) byte {
	idx := b.reserveConstSlot()
	if len(s) > 255 {
		b.err = errors.Errorf("string constant %q longer than 255 bytes", s)
		return idx
	}
	b.constants = append(b.constants, byte(bytecode.ConstStr), byte(len(s)))
	b.constants = append(b.constants, s...)
	return idx
}

func (b *Builder) reserveConstSlot() byte {
	if b.constN >= 255 {
		b.err = ErrTooManyConstants
		return 0
	}
	idx := byte(b.constN)
	b.constN++
	return idx
}

// Emit appends an instruction: the opcode byte followed by operands,
// which must match the opcode's declared operand width exactly.
func (b *Builder) Emit(mnemonic string, operands ...byte) *Builder {
	op, ok := bytecode.Lookup(mnemonic)
	if !ok {
		b.err = errors.Wrapf(ErrUnknownMnemonic, "%q", mnemonic)
		return b
	}
	if want := bytecode.OperandWidths(op); want != len(operands) {
		b.err = errors.Wrapf(ErrOperandCount, "%s wants %d, got %d", mnemonic, want, len(operands))
		return b
	}
	b.code = append(b.code, byte(op))
	b.code = append(b.code, operands...)
	return b
}

// Label returns the current code offset, for computing jump/loop/
// function operand distances before Emit-ing the instruction that
// needs them.
func (b *Builder) Label() byte { return byte(len(b.code)) }

// EmitForwardJump emits a one-operand control-flow opcode (JUMP,
// JUMP_IF_FALSE, or FUNCTION) with a placeholder operand and returns
// its position, to be resolved once the jump target is known by
// PatchForward.
func (b *Builder) EmitForwardJump(mnemonic string) int {
	op, ok := bytecode.Lookup(mnemonic)
	if !ok {
		b.err = errors.Wrapf(ErrUnknownMnemonic, "%q", mnemonic)
		return 0
	}
	if want := bytecode.OperandWidths(op); want != 1 {
		b.err = errors.Wrapf(ErrOperandCount, "%s is not a one-operand forward jump", mnemonic)
		return 0
	}
	b.code = append(b.code, byte(op), 0)
	return len(b.code) - 1
}

// PatchForward fills in the operand at pos (as returned by
// EmitForwardJump) so the jump lands at the current end of the code
// emitted so far.
func (b *Builder) PatchForward(pos int) {
	off := len(b.code) - (pos + 1)
	b.code[pos] = byte(off)
}

// EmitLoop emits a LOOP instruction that jumps back to target, a code
// offset previously captured with Label.
func (b *Builder) EmitLoop(target byte) *Builder {
	next := len(b.code) + 2 // ip once the LOOP operand has been read
	off := next - int(target)
	return b.Emit("LOOP", byte(off))
}

// Bytes renders the accumulated constant pool and code into a
// complete module: a one-byte constant count, the constant records,
// then the code segment.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]byte, 0, 1+len(b.constants)+len(b.code))
	out = append(out, byte(b.constN))
	out = append(out, b.constants...)
	out = append(out, b.code...)
	return out, nil
}
