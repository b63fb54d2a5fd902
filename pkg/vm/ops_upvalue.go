package vm

import "github.com/clearlang/clearvm/pkg/value"

// closeUpvaluesAt transitions every open upvalue targeting slot to
// CLOSED, copying v (the value that slot held at the moment it was
// removed from the stack) into each. Called by OP_POP, the only point
// in the instruction set where a stack slot actually goes out of
// scope.
func (vm *VM) closeUpvaluesAt(slot uint16, v value.Value) {
	handles, ok := vm.upvalues[slot]
	if !ok {
		return
	}
	for _, h := range handles {
		vm.heap.Object(h).CloseUpvalue(v)
	}
	delete(vm.upvalues, slot)
}

// opRefLocal allocates an open upvalue referencing fp+i and pushes it.
func opRefLocal(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	if uint16(i) >= vm.localCount() {
		return ErrLocalOutOfRange
	}
	slot := vm.fp + uint16(i)
	v := vm.heap.NewOpenUpvalue(slot)
	handle, _ := v.AsObj()
	vm.upvalues[slot] = append(vm.upvalues[slot], handle)
	return vm.push(v)
}

// opDeref replaces a top-of-stack upvalue with the value it currently
// refers to: a live read of the target stack slot while open, or the
// value it captured at close time once closed.
func opDeref(vm *VM) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	h, ok := v.AsObj()
	if !ok || vm.heap.ObjTagOf(h) != value.ObjUpvalue {
		return ErrNonUpvalueDeref
	}
	obj := vm.heap.Object(h)
	if slot, open := obj.UpvalueSlot(); open {
		return vm.push(vm.stack[slot])
	}
	closed, _ := obj.UpvalueClosedValue()
	return vm.push(closed)
}

// opSetRef pops (upvalue, value) — value on top — and writes value
// through the upvalue: into the live stack slot while open, or into
// the upvalue's own storage once closed.
func opSetRef(vm *VM) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	u, err := vm.pop()
	if err != nil {
		return err
	}
	h, ok := u.AsObj()
	if !ok || vm.heap.ObjTagOf(h) != value.ObjUpvalue {
		return ErrNonUpvalueDeref
	}
	obj := vm.heap.Object(h)
	if slot, open := obj.UpvalueSlot(); open {
		vm.stack[slot] = v
		return nil
	}
	obj.SetUpvalueClosedValue(v)
	return nil
}
