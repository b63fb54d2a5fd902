// Package disasm renders a loaded clearvm module as a textual
// instruction listing, for the `clearvm disassemble` CLI verb.
package disasm

import (
	"fmt"
	"strings"

	"github.com/clearlang/clearvm/pkg/bytecode"
	"github.com/clearlang/clearvm/pkg/module"
	"github.com/clearlang/clearvm/pkg/value"
)

// Module renders every instruction in mod.Code, one per line, prefixed
// with its byte offset. heap resolves string constants to their text;
// pass nil to fall back to a bare type name.
func Module(mod *module.Module, heap *value.Heap) string {
	var b strings.Builder
	var ip uint32
	for ip < uint32(len(mod.Code)) {
		line, next := Instruction(mod.Code, ip, mod.Constants, heap)
		fmt.Fprintf(&b, "%04d  %s\n", ip, line)
		ip = next
	}
	return b.String()
}

// Instruction renders the single instruction at ip and returns the
// offset of the next one. If ip points past a truncated operand, it
// renders what it can and advances to the end of the buffer so the
// caller's loop terminates.
func Instruction(code []byte, ip uint32, constants []value.Value, heap *value.Heap) (string, uint32) {
	if ip >= uint32(len(code)) {
		return "<eof>", ip + 1
	}
	op := bytecode.Opcode(code[ip])
	cursor := ip + 1

	if op >= bytecode.OpCount {
		return fmt.Sprintf("UNKNOWN(0x%02X)", code[ip]), cursor
	}

	width := bytecode.OperandWidths(op)
	operands := make([]byte, 0, width)
	for i := 0; i < width; i++ {
		if cursor >= uint32(len(code)) {
			return fmt.Sprintf("%s <truncated>", op), uint32(len(code))
		}
		operands = append(operands, code[cursor])
		cursor++
	}

	switch {
	case width == 0:
		return op.String(), cursor
	case op == bytecode.PushConst:
		return fmt.Sprintf("%-16s %3d  ; %s", op, operands[0], describeConstant(operands[0], constants, heap)), cursor
	case width == 1:
		return fmt.Sprintf("%-16s %3d", op, operands[0]), cursor
	default:
		return fmt.Sprintf("%-16s %3d %3d", op, operands[0], operands[1]), cursor
	}
}

func describeConstant(i byte, constants []value.Value, heap *value.Heap) string {
	if int(i) >= len(constants) {
		return "<out of range>"
	}
	v := constants[i]
	switch v.Tag {
	case value.TagInt:
		n, _ := v.AsInt()
		return fmt.Sprintf("%d", n)
	case value.TagNum:
		n, _ := v.AsNum()
		return fmt.Sprintf("%g", n)
	case value.TagObj:
		h, _ := v.AsObj()
		if heap != nil && heap.ObjTagOf(h) == value.ObjString {
			return fmt.Sprintf("%q", heap.Object(h).Str())
		}
		return v.Tag.String()
	default:
		return v.Tag.String()
	}
}
