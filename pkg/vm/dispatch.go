package vm

import "github.com/clearlang/clearvm/pkg/bytecode"

// handler executes one instruction. It is responsible for reading its
// own operand bytes (via vm.fetchU8) and for all of its own stack
// effects.
type handler func(vm *VM) error

// handlerTable is indexed directly by opcode byte, not dispatched
// through a switch. A switch compiles to a jump table for a dense,
// contiguous set of cases too, but an explicit array makes the
// correspondence between opcode value and handler a data structure
// instead of control flow, which is what spec §4.5 asks for.
var handlerTable = [bytecode.OpCount]handler{
	bytecode.PushConst: opPushConst,
	bytecode.PushTrue:  opPushTrue,
	bytecode.PushFalse: opPushFalse,
	bytecode.PushNil:   opPushNil,

	bytecode.SetGlobal:  opSetGlobal,
	bytecode.PushGlobal: opPushGlobal,
	bytecode.SetLocal:   opSetLocal,
	bytecode.PushLocal:  opPushLocal,

	bytecode.Int:  opCastInt,
	bytecode.Bool: opCastBool,
	bytecode.Num:  opCastNum,
	bytecode.Str:  opCastStr,

	bytecode.Clock: opClock,
	bytecode.Print: opPrint,

	bytecode.Pop:    opPop,
	bytecode.Squash: opSquash,

	bytecode.IntNeg: opIntNeg,
	bytecode.IntAdd: opIntAdd,
	bytecode.IntSub: opIntSub,
	bytecode.IntMul: opIntMul,
	bytecode.IntDiv: opIntDiv,
	bytecode.NumNeg: opNumNeg,
	bytecode.NumAdd: opNumAdd,
	bytecode.NumSub: opNumSub,
	bytecode.NumMul: opNumMul,
	bytecode.NumDiv: opNumDiv,

	bytecode.StrCat: opStrCat,
	bytecode.Not:    opNot,

	bytecode.IntLess:    opIntLess,
	bytecode.IntGreater: opIntGreater,
	bytecode.NumLess:    opNumLess,
	bytecode.NumGreater: opNumGreater,

	bytecode.Equal: opEqual,

	bytecode.Jump:        opJump,
	bytecode.JumpIfFalse: opJumpIfFalse,
	bytecode.Loop:        opLoop,
	bytecode.Function:    opFunction,
	bytecode.Call:        opCall,
	bytecode.LoadIP:      opLoadIP,
	bytecode.LoadFP:      opLoadFP,
	bytecode.SetReturn:   opSetReturn,
	bytecode.PushReturn:  opPushReturn,

	bytecode.Struct:       opStruct,
	bytecode.Destruct:     opDestruct,
	bytecode.GetField:     opGetField,
	bytecode.ExtractField: opExtractField,
	bytecode.SetField:     opSetField,
	bytecode.InsertField:  opInsertField,

	bytecode.RefLocal: opRefLocal,
	bytecode.Deref:    opDeref,
	bytecode.SetRef:   opSetRef,

	bytecode.IsValType: opIsValType,
	bytecode.IsObjType: opIsObjType,
}
