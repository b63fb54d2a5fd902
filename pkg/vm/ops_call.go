package vm

import "github.com/clearlang/clearvm/pkg/value"

// opCall implements calling convention described in spec §4.7/§6.1:
// pop an IP target and n arguments, push a return address (the current
// ip, which is where this instruction's bytes end) and the caller's fp,
// set fp to the new frame's base, jump to the target, and re-push the
// arguments as the callee's first n locals.
//
// There is no VM-level RETURN opcode. A callee returns by running
// OP_LOAD_FP then OP_LOAD_IP against the two values it finds below its
// locals — bytecode the compiler emits, not anything this VM special-
// cases.
func opCall(vm *VM) error {
	n, err := vm.fetchU8()
	if err != nil {
		return err
	}

	target, err := vm.pop()
	if err != nil {
		return err
	}
	targetIP, ok := target.AsIP()
	if !ok {
		return ErrNonFunctionCall
	}

	args, err := vm.popN(int(n))
	if err != nil {
		return err
	}

	if err := vm.push(value.IP(vm.ip)); err != nil {
		return err
	}
	if err := vm.push(value.FP(vm.fp)); err != nil {
		return err
	}

	vm.fp = vm.sp
	vm.ip = targetIP

	return vm.pushN(args)
}
