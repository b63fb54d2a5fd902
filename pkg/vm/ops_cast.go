package vm

import (
	"fmt"
	"math"

	"github.com/clearlang/clearvm/pkg/value"
)

// The four cast opcodes operate on the top-of-stack value in place:
// read it, convert it, overwrite the same slot. Casting a pointer-like
// value (Obj, IP, or FP) fails with ErrInvalidCast (spec §9), except
// that OP_STR leaves a String object unchanged; every other combination
// is a well-defined coercion.

func opCastInt(vm *VM) error {
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	switch v.Tag {
	case value.TagInt:
		// already an Int
	case value.TagBool:
		b, _ := v.AsBool()
		*v = value.Int(boolToInt(b))
	case value.TagNum:
		n, _ := v.AsNum()
		*v = value.Int(numToInt(n))
	case value.TagNil:
		*v = value.Int(0)
	default:
		return ErrInvalidCast
	}
	return nil
}

func opCastBool(vm *VM) error {
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	switch v.Tag {
	case value.TagBool:
		// already a Bool
	case value.TagInt:
		i, _ := v.AsInt()
		*v = value.Bool(i != 0)
	case value.TagNum:
		n, _ := v.AsNum()
		*v = value.Bool(n != 0)
	case value.TagNil:
		*v = value.Bool(false)
	default:
		return ErrInvalidCast
	}
	return nil
}

func opCastNum(vm *VM) error {
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	switch v.Tag {
	case value.TagNum:
		// already a Num
	case value.TagInt:
		i, _ := v.AsInt()
		*v = value.Num(float64(i))
	case value.TagBool:
		b, _ := v.AsBool()
		*v = value.Num(float64(boolToInt(b)))
	case value.TagNil:
		*v = value.Num(0)
	default:
		return ErrInvalidCast
	}
	return nil
}

func opCastStr(vm *VM) error {
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	if v.Tag == value.TagObj {
		if vm.heap.ObjTagOf(mustObj(*v)) == value.ObjString {
			return nil
		}
		return ErrInvalidCast
	}

	var s string
	switch v.Tag {
	case value.TagInt:
		i, _ := v.AsInt()
		s = fmt.Sprintf("%d", i)
	case value.TagNum:
		n, _ := v.AsNum()
		s = fmt.Sprintf("%.7f", n)
	case value.TagBool:
		b, _ := v.AsBool()
		if b {
			s = "true"
		} else {
			s = "false"
		}
	case value.TagNil:
		s = "nil"
	default:
		return ErrInvalidCast
	}
	*v = vm.heap.InternString(s)
	return nil
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// numToInt implements the saturating Num->Int conversion resolved in
// spec §9: out-of-range magnitudes clamp to the int32 extremes, NaN
// becomes 0, rather than the undefined behavior a raw float->int32
// truncation would produce in C.
func numToInt(n float64) int32 {
	if math.IsNaN(n) {
		return 0
	}
	if n >= float64(math.MaxInt32) {
		return math.MaxInt32
	}
	if n <= float64(math.MinInt32) {
		return math.MinInt32
	}
	return int32(n)
}

func mustObj(v value.Value) value.ObjHandle {
	h, _ := v.AsObj()
	return h
}
