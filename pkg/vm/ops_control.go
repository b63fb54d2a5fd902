package vm

import "github.com/clearlang/clearvm/pkg/value"

func opJump(vm *VM) error {
	off, err := vm.fetchU8()
	if err != nil {
		return err
	}
	return vm.jumpTo(vm.ip + uint32(off))
}

// opJumpIfFalse pops the condition and jumps only when it is the Bool
// value false — any other value, including a non-Bool, falls through
// without jumping (spec §9: "jump only if it is Bool false").
func opJumpIfFalse(vm *VM) error {
	off, err := vm.fetchU8()
	if err != nil {
		return err
	}
	cond, err := vm.pop()
	if err != nil {
		return err
	}
	if !cond.IsFalse() {
		return nil
	}
	return vm.jumpTo(vm.ip + uint32(off))
}

func opLoop(vm *VM) error {
	off, err := vm.fetchU8()
	if err != nil {
		return err
	}
	return vm.jumpTo(vm.ip - uint32(off))
}

func (vm *VM) jumpTo(target uint32) error {
	if target < vm.start || target > vm.end {
		return ErrJumpOutOfRange
	}
	vm.ip = target
	return nil
}

// opFunction pushes the current ip (the byte right after the operand,
// i.e. the function body's entry point) as an IP value, then skips
// over the body by advancing ip by off.
func opFunction(vm *VM) error {
	off, err := vm.fetchU8()
	if err != nil {
		return err
	}
	if err := vm.push(value.IP(vm.ip)); err != nil {
		return err
	}
	return vm.jumpTo(vm.ip + uint32(off))
}

func opLoadIP(vm *VM) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	ip, ok := v.AsIP()
	if !ok {
		return ErrNonIPLoad
	}
	vm.ip = ip
	return nil
}

func opLoadFP(vm *VM) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	fp, ok := v.AsFP()
	if !ok {
		return ErrNonFPLoad
	}
	vm.fp = fp
	return nil
}

func opSetReturn(vm *VM) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.ret = v
	return nil
}

func opPushReturn(vm *VM) error {
	return vm.push(vm.ret)
}
