package vm

import "github.com/clearlang/clearvm/pkg/value"

// setGlobal stores v at globals[i], marking the slot present.
func (vm *VM) setGlobal(i byte, v value.Value) {
	vm.globals[i] = v
	vm.globalSet[i] = true
}

// getGlobal reads globals[i]; ErrUndefinedGlobal if the slot has never
// been written (the global array has no notion of a "zero" global —
// present/absent is tracked separately so a never-set slot can't be
// confused with one deliberately holding Nil).
func (vm *VM) getGlobal(i byte) (value.Value, error) {
	if !vm.globalSet[i] {
		return value.Nil, ErrUndefinedGlobal
	}
	return vm.globals[i], nil
}
