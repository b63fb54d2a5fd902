package vm

import "github.com/clearlang/clearvm/pkg/value"

func opPushConst(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	if int(i) >= len(vm.constants) {
		return ErrConstantIndexOutOfRange
	}
	return vm.push(vm.constants[i])
}

func opPushTrue(vm *VM) error  { return vm.push(value.Bool(true)) }
func opPushFalse(vm *VM) error { return vm.push(value.Bool(false)) }
func opPushNil(vm *VM) error   { return vm.push(value.Nil) }

func opSetGlobal(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.setGlobal(i, v)
	return nil
}

func opPushGlobal(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.getGlobal(i)
	if err != nil {
		return err
	}
	return vm.push(v)
}

func opSetLocal(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.pop()
	if err != nil {
		return err
	}
	return vm.setLocal(uint16(i), v)
}

func opPushLocal(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.getLocal(uint16(i))
	if err != nil {
		return err
	}
	return vm.push(v)
}

// opPop discards the top of stack, closing any upvalue that has this
// absolute slot open as its target (spec: OP_POP must close upvalues
// on the slot it removes before removing it).
func opPop(vm *VM) error {
	slot := vm.sp - 1
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.closeUpvaluesAt(slot, v)
	return nil
}

// opSquash pops a, b (b on top) and pushes b back, discarding a. Unlike
// OP_POP it does not close upvalues on the discarded slot — nothing in
// the opcode table asks it to, and a is never addressed by i after
// this (it was a transient stack value, not a declared local).
func opSquash(vm *VM) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	if _, err := vm.pop(); err != nil {
		return err
	}
	return vm.push(b)
}

func opClock(vm *VM) error {
	return vm.push(value.Num(timeSinceStart(vm)))
}

func opPrint(vm *VM) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	handle, ok := v.AsObj()
	if !ok || vm.heap.ObjTagOf(handle) != value.ObjString {
		return ErrNonStringPrint
	}
	_, err = vm.out.Write([]byte(vm.heap.Object(handle).Str() + "\n"))
	return err
}
