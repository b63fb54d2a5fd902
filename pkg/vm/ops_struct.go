package vm

import "github.com/clearlang/clearvm/pkg/value"

// opStruct pops n fields, in the order they sit on the stack (field 0
// is the oldest push, at the bottom of the popped window), and pushes
// a new struct built from them.
func opStruct(vm *VM) error {
	n, err := vm.fetchU8()
	if err != nil {
		return err
	}
	fields, err := vm.popN(int(n))
	if err != nil {
		return err
	}
	return vm.push(vm.heap.NewStruct(fields))
}

func popStruct(vm *VM) (*value.Object, error) {
	v, err := vm.pop()
	if err != nil {
		return nil, err
	}
	return asStruct(vm, v)
}

func asStruct(vm *VM, v value.Value) (*value.Object, error) {
	h, ok := v.AsObj()
	if !ok || vm.heap.ObjTagOf(h) != value.ObjStruct {
		return nil, ErrNonStructField
	}
	return vm.heap.Object(h), nil
}

// opDestruct pops a struct and pushes its fields [d..n), in order.
func opDestruct(vm *VM) error {
	d, err := vm.fetchU8()
	if err != nil {
		return err
	}
	obj, err := popStruct(vm)
	if err != nil {
		return err
	}
	fields := obj.Fields()
	if int(d) > len(fields) {
		return ErrFieldOutOfRange
	}
	return vm.pushN(fields[d:])
}

func opGetField(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	obj, err := popStruct(vm)
	if err != nil {
		return err
	}
	fields := obj.Fields()
	if int(i) >= len(fields) {
		return ErrFieldOutOfRange
	}
	return vm.push(fields[i])
}

// opExtractField peeks the struct at stack offset off (without
// popping it) and pushes field i.
func opExtractField(vm *VM) error {
	off, err := vm.fetchU8()
	if err != nil {
		return err
	}
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	ref, err := vm.peek(uint16(off))
	if err != nil {
		return err
	}
	obj, err := asStruct(vm, *ref)
	if err != nil {
		return err
	}
	fields := obj.Fields()
	if int(i) >= len(fields) {
		return ErrFieldOutOfRange
	}
	return vm.push(fields[i])
}

// opSetField pops a value and writes it into field i of the struct now
// on top of the stack (the struct itself is left in place).
func opSetField(vm *VM) error {
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.pop()
	if err != nil {
		return err
	}
	ref, err := vm.peek(0)
	if err != nil {
		return err
	}
	obj, err := asStruct(vm, *ref)
	if err != nil {
		return err
	}
	fields := obj.Fields()
	if int(i) >= len(fields) {
		return ErrFieldOutOfRange
	}
	fields[i] = v
	return nil
}

// opInsertField pops a value v, then peeks the struct at stack offset
// off (measured on the stack with v already removed) and writes v into
// field i, leaving the struct in place.
func opInsertField(vm *VM) error {
	off, err := vm.fetchU8()
	if err != nil {
		return err
	}
	i, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.pop()
	if err != nil {
		return err
	}
	ref, err := vm.peek(uint16(off))
	if err != nil {
		return err
	}
	obj, err := asStruct(vm, *ref)
	if err != nil {
		return err
	}
	fields := obj.Fields()
	if int(i) >= len(fields) {
		return ErrFieldOutOfRange
	}
	fields[i] = v
	return nil
}
