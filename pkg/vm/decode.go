package vm

import "github.com/clearlang/clearvm/pkg/module"

// fetchU8 reads the next byte from the code stream and advances ip.
// Every defined opcode's operand is a single byte (see
// bytecode.OperandWidths), so this is the only primitive the dispatch
// loop and its handlers need; the richer module.ReadI32/ReadF64/
// ReadBytes cursor primitives are exercised instead by the
// constant-pool loader (pkg/module), which is where multi-byte and
// length-prefixed records actually occur in this format.
func (vm *VM) fetchU8() (byte, error) {
	b, err := module.ReadU8(vm.code, &vm.ip)
	if err != nil {
		return 0, ErrTruncatedInstruction
	}
	return b, nil
}
