package vm

import "github.com/clearlang/clearvm/pkg/value"

// opIsValType peeks the top value (without popping it) and pushes
// whether its Tag equals the operand.
func opIsValType(vm *VM) error {
	t, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	return vm.push(value.Bool(v.Tag == value.Tag(t)))
}

// opIsObjType peeks the top value and pushes whether it is an Obj of
// the given concrete type. It gates on Tag == TagObj before touching
// the heap at all (spec §9): a non-Obj value is simply not a match,
// never a garbage read or a panic.
func opIsObjType(vm *VM) error {
	t, err := vm.fetchU8()
	if err != nil {
		return err
	}
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	if v.Tag != value.TagObj {
		return vm.push(value.Bool(false))
	}
	h, _ := v.AsObj()
	return vm.push(value.Bool(vm.heap.ObjTagOf(h) == value.ObjTag(t)))
}
