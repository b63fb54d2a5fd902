package vm

import "github.com/clearlang/clearvm/pkg/value"

// The Int/Num arithmetic and comparison opcodes trust the compiler to
// have emitted them over correctly-typed operands (spec §9: "skip
// runtime tag checks on these; mis-typed operands produce unspecified
// numeric results but must not crash the process"). Reading the wrong
// union field of a Value never panics in this representation — it just
// returns whatever zero or stale payload happens to be sitting there —
// so that guarantee holds without any extra checking here.

func binaryInt(vm *VM, f func(a, b int32) int32) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	ai, _ := a.AsInt()
	bi, _ := b.AsInt()
	return vm.push(value.Int(f(ai, bi)))
}

func binaryNum(vm *VM, f func(a, b float64) float64) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	an, _ := a.AsNum()
	bn, _ := b.AsNum()
	return vm.push(value.Num(f(an, bn)))
}

func unaryInt(vm *VM, f func(a int32) int32) error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	ai, _ := a.AsInt()
	return vm.push(value.Int(f(ai)))
}

func unaryNum(vm *VM, f func(a float64) float64) error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	an, _ := a.AsNum()
	return vm.push(value.Num(f(an)))
}

func opIntNeg(vm *VM) error { return unaryInt(vm, func(a int32) int32 { return -a }) }
func opIntAdd(vm *VM) error { return binaryInt(vm, func(a, b int32) int32 { return a + b }) }
func opIntSub(vm *VM) error { return binaryInt(vm, func(a, b int32) int32 { return a - b }) }
func opIntMul(vm *VM) error { return binaryInt(vm, func(a, b int32) int32 { return a * b }) }

// opIntDiv guards against the divide-by-zero that would otherwise
// panic the Go process (int32(n)/0 is a runtime panic, unlike float
// division). The result for a zero divisor is unspecified by the
// opcode table; 0 is as good a choice as any and keeps the VM from
// crashing on it, which is the actual requirement.
func opIntDiv(vm *VM) error {
	return binaryInt(vm, func(a, b int32) int32 {
		if b == 0 {
			return 0
		}
		return a / b
	})
}

func opNumNeg(vm *VM) error { return unaryNum(vm, func(a float64) float64 { return -a }) }
func opNumAdd(vm *VM) error { return binaryNum(vm, func(a, b float64) float64 { return a + b }) }
func opNumSub(vm *VM) error { return binaryNum(vm, func(a, b float64) float64 { return a - b }) }
func opNumMul(vm *VM) error { return binaryNum(vm, func(a, b float64) float64 { return a * b }) }
func opNumDiv(vm *VM) error { return binaryNum(vm, func(a, b float64) float64 { return a / b }) }

func opIntLess(vm *VM) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	ai, _ := a.AsInt()
	bi, _ := b.AsInt()
	return vm.push(value.Bool(ai < bi))
}

func opIntGreater(vm *VM) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	ai, _ := a.AsInt()
	bi, _ := b.AsInt()
	return vm.push(value.Bool(ai > bi))
}

func opNumLess(vm *VM) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	an, _ := a.AsNum()
	bn, _ := b.AsNum()
	return vm.push(value.Bool(an < bn))
}

func opNumGreater(vm *VM) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	an, _ := a.AsNum()
	bn, _ := b.AsNum()
	return vm.push(value.Bool(an > bn))
}

// opNot logically inverts a Bool. Like the arithmetic ops it does not
// check the operand's tag.
func opNot(vm *VM) error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	b, _ := a.AsBool()
	return vm.push(value.Bool(!b))
}

// opStrCat is the one binary op that does check its operand types: the
// opcode table requires both be String objects, unlike the arithmetic
// group (spec §9).
func opStrCat(vm *VM) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	ah, aok := a.AsObj()
	bh, bok := b.AsObj()
	if !aok || !bok || vm.heap.ObjTagOf(ah) != value.ObjString || vm.heap.ObjTagOf(bh) != value.ObjString {
		return ErrNonStringConcat
	}
	return vm.push(vm.heap.InternString(vm.heap.Object(ah).Str() + vm.heap.Object(bh).Str()))
}

func opEqual(vm *VM) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	return vm.push(value.Bool(vm.heap.Equal(a, b)))
}
