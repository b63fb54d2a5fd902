package vm

import "github.com/clearlang/clearvm/pkg/value"

// push appends v to the top of the evaluation stack.
func (vm *VM) push(v value.Value) error {
	if vm.sp >= StackMax {
		return ErrStackOverflow
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

// pop removes and returns the top of the evaluation stack.
func (vm *VM) pop() (value.Value, error) {
	if vm.sp == 0 {
		return value.Nil, ErrStackUnderflow
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// peek returns a pointer to the value off slots below the current top,
// without removing it. peek(0) is the top of the stack. The returned
// pointer aliases the stack array and is invalidated by the next
// push/pop.
func (vm *VM) peek(off uint16) (*value.Value, error) {
	if vm.sp <= off {
		return nil, ErrPeekUnderRange
	}
	return &vm.stack[vm.sp-off-1], nil
}

// popN removes and returns the top n values, in the order they were
// pushed (index 0 is the oldest of the n).
func (vm *VM) popN(n int) ([]value.Value, error) {
	if int(vm.sp) < n {
		return nil, ErrStackUnderflow
	}
	out := make([]value.Value, n)
	copy(out, vm.stack[int(vm.sp)-n:vm.sp])
	vm.sp -= uint16(n)
	return out, nil
}

// pushN pushes each value in vs, in order.
func (vm *VM) pushN(vs []value.Value) error {
	if int(vm.sp)+len(vs) > StackMax {
		return ErrStackOverflow
	}
	copy(vm.stack[vm.sp:], vs)
	vm.sp += uint16(len(vs))
	return nil
}

// localCount is the number of slots in the current frame (fp..sp).
func (vm *VM) localCount() uint16 {
	return vm.sp - vm.fp
}

// getLocal reads fp[i].
func (vm *VM) getLocal(i uint16) (value.Value, error) {
	if i >= vm.localCount() {
		return value.Nil, ErrLocalOutOfRange
	}
	return vm.stack[vm.fp+i], nil
}

// setLocal writes fp[i]. Any upvalue that has fp+i open as its target
// slot keeps reading through the slot, so it observes the write — the
// set does not need to touch vm.upvalues at all.
func (vm *VM) setLocal(i uint16, v value.Value) error {
	if i >= vm.localCount() {
		return ErrLocalOutOfRange
	}
	vm.stack[vm.fp+i] = v
	return nil
}
