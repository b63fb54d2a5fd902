// Package bytecode defines the clearvm instruction set: the Opcode enum
// and the stack-effect/operand shape of each instruction.
//
// clearvm's bytecode is a sequence of one-byte opcodes, most followed by
// one or two one-byte operands (see the comment on each constant below).
// It is a flat, stack-based encoding: there is no instruction length
// table, so a decoder must know each opcode's operand width to advance
// the instruction pointer correctly (see OperandWidths).
package bytecode

// Opcode is a single bytecode instruction's operation code.
type Opcode byte

const (
	// === Constants & literals ===

	// PushConst pushes const[i] onto the stack.
	// Operand: i (u8, constant pool index)
	PushConst Opcode = 0x00
	// PushTrue pushes the boolean true.
	PushTrue Opcode = 0x01
	// PushFalse pushes the boolean false.
	PushFalse Opcode = 0x02
	// PushNil pushes nil.
	PushNil Opcode = 0x03

	// === Globals & locals ===

	// SetGlobal pops a value and stores it at globals[i].
	// Operand: i (u8)
	SetGlobal Opcode = 0x04
	// PushGlobal pushes globals[i]; fails if unset.
	// Operand: i (u8)
	PushGlobal Opcode = 0x05
	// SetLocal pops a value and writes fp[i].
	// Operand: i (u8)
	SetLocal Opcode = 0x06
	// PushLocal pushes fp[i].
	// Operand: i (u8)
	PushLocal Opcode = 0x07

	// === Casts (operate on the top-of-stack value in place) ===

	// Int casts the top value to Int.
	Int Opcode = 0x08
	// Bool casts the top value to Bool.
	Bool Opcode = 0x09
	// Num casts the top value to Num.
	Num Opcode = 0x0A
	// Str casts the top value to a String object.
	Str Opcode = 0x0B

	// === Host primitives ===

	// Clock pushes the number of seconds since VM start, as Num.
	Clock Opcode = 0x0C
	// Print pops a String and writes it (plus newline) to stdout.
	Print Opcode = 0x0D

	// === Stack shuffling ===

	// Pop discards the top value, closing any open upvalues on it.
	Pop Opcode = 0x0E
	// Squash pops two values a, b and pushes b (discards the one below top).
	Squash Opcode = 0x0F

	// === Arithmetic ===

	IntNeg Opcode = 0x10
	IntAdd Opcode = 0x11
	IntSub Opcode = 0x12
	IntMul Opcode = 0x13
	IntDiv Opcode = 0x14
	NumNeg Opcode = 0x15
	NumAdd Opcode = 0x16
	NumSub Opcode = 0x17
	NumMul Opcode = 0x18
	NumDiv Opcode = 0x19

	// StrCat concatenates two String operands.
	StrCat Opcode = 0x1A
	// Not logically inverts a Bool.
	Not Opcode = 0x1B

	// === Comparisons ===

	IntLess    Opcode = 0x1C
	IntGreater Opcode = 0x1D
	NumLess    Opcode = 0x1E
	NumGreater Opcode = 0x1F

	// Equal compares two values per the rules in pkg/value.Heap.Equal.
	Equal Opcode = 0x20

	// === Control flow ===

	// Jump advances ip by off bytes.
	// Operand: off (u8)
	Jump Opcode = 0x21
	// JumpIfFalse pops a value and advances ip by off bytes iff it is false.
	// Operand: off (u8)
	JumpIfFalse Opcode = 0x22
	// Loop retreats ip by off bytes.
	// Operand: off (u8)
	Loop Opcode = 0x23
	// Function pushes the current ip as an IP value, then skips off bytes.
	// Operand: off (u8)
	Function Opcode = 0x24
	// Call pops an IP target and n arguments, then sets up a new frame.
	// Operand: n (u8, argument count)
	Call Opcode = 0x25
	// LoadIP pops an IP value and assigns it to ip.
	LoadIP Opcode = 0x26
	// LoadFP pops an FP value and assigns it to fp.
	LoadFP Opcode = 0x27
	// SetReturn pops a value into the VM's single return-value slot.
	SetReturn Opcode = 0x28
	// PushReturn pushes the VM's return-value slot.
	PushReturn Opcode = 0x29

	// === Structs ===

	// Struct pops n fields and pushes a new struct.
	// Operand: n (u8)
	Struct Opcode = 0x2A
	// Destruct pops a struct and pushes its fields [d..n).
	// Operand: d (u8)
	Destruct Opcode = 0x2B
	// GetField pops a struct and pushes field i.
	// Operand: i (u8)
	GetField Opcode = 0x2C
	// ExtractField peeks a struct at stack offset off and pushes field i.
	// Operands: off (u8), i (u8)
	ExtractField Opcode = 0x2D
	// SetField pops a value and writes field i of the struct now on top.
	// Operand: i (u8)
	SetField Opcode = 0x2E
	// InsertField pops a value and writes it into field i of the struct
	// peeked at stack offset off.
	// Operands: off (u8), i (u8)
	InsertField Opcode = 0x2F

	// === Upvalues ===

	// RefLocal allocates an open upvalue referencing fp[i].
	// Operand: i (u8)
	RefLocal Opcode = 0x30
	// Deref replaces a top-of-stack upvalue with its referenced value.
	Deref Opcode = 0x31
	// SetRef pops (upvalue, value) and writes value through the upvalue.
	SetRef Opcode = 0x32

	// === Type tests ===

	// IsValType peeks the top value and pushes (tag(v) == t).
	// Operand: t (u8)
	IsValType Opcode = 0x33
	// IsObjType peeks the top value and pushes (objtag(v) == t).
	// Operand: t (u8)
	IsObjType Opcode = 0x34

	// OpCount is one past the highest defined opcode; any byte read from
	// the code stream that is >= OpCount is OP_UNKNOWN.
	OpCount = 0x35
)

// mnemonics maps every defined opcode to its assembly-listing name, used
// by pkg/disasm and pkg/asm.
var mnemonics = map[Opcode]string{
	PushConst: "PUSH_CONST", PushTrue: "PUSH_TRUE", PushFalse: "PUSH_FALSE", PushNil: "PUSH_NIL",
	SetGlobal: "SET_GLOBAL", PushGlobal: "PUSH_GLOBAL", SetLocal: "SET_LOCAL", PushLocal: "PUSH_LOCAL",
	Int: "INT", Bool: "BOOL", Num: "NUM", Str: "STR",
	Clock: "CLOCK", Print: "PRINT",
	Pop: "POP", Squash: "SQUASH",
	IntNeg: "INT_NEG", IntAdd: "INT_ADD", IntSub: "INT_SUB", IntMul: "INT_MUL", IntDiv: "INT_DIV",
	NumNeg: "NUM_NEG", NumAdd: "NUM_ADD", NumSub: "NUM_SUB", NumMul: "NUM_MUL", NumDiv: "NUM_DIV",
	StrCat: "STR_CAT", Not: "NOT",
	IntLess: "INT_LESS", IntGreater: "INT_GREATER", NumLess: "NUM_LESS", NumGreater: "NUM_GREATER",
	Equal: "EQUAL",
	Jump:  "JUMP", JumpIfFalse: "JUMP_IF_FALSE", Loop: "LOOP",
	Function: "FUNCTION", Call: "CALL", LoadIP: "LOAD_IP", LoadFP: "LOAD_FP",
	SetReturn: "SET_RETURN", PushReturn: "PUSH_RETURN",
	Struct: "STRUCT", Destruct: "DESTRUCT", GetField: "GET_FIELD",
	ExtractField: "EXTRACT_FIELD", SetField: "SET_FIELD", InsertField: "INSERT_FIELD",
	RefLocal: "REF_LOCAL", Deref: "DEREF", SetRef: "SET_REF",
	IsValType: "IS_VAL_TYPE", IsObjType: "IS_OBJ_TYPE",
}

// String renders an opcode's mnemonic, or "UNKNOWN" for an opcode byte
// that isn't one of the defined constants.
func (op Opcode) String() string {
	if name, ok := mnemonics[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// byMnemonic is the inverse of mnemonics, used by pkg/asm to parse a
// textual listing back into opcodes.
var byMnemonic map[string]Opcode

func init() {
	byMnemonic = make(map[string]Opcode, len(mnemonics))
	for op, name := range mnemonics {
		byMnemonic[name] = op
	}
}

// Lookup resolves a mnemonic to its Opcode.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := byMnemonic[mnemonic]
	return op, ok
}

// OperandWidths gives the number of one-byte operands following an
// opcode in the instruction stream. Two opcodes (ExtractField,
// InsertField) take two; most take zero or one.
func OperandWidths(op Opcode) int {
	switch op {
	case ExtractField, InsertField:
		return 2
	case PushConst, SetGlobal, PushGlobal, SetLocal, PushLocal,
		Jump, JumpIfFalse, Loop, Function, Call,
		Struct, Destruct, GetField, SetField, RefLocal,
		IsValType, IsObjType:
		return 1
	default:
		return 0
	}
}

// ConstTag identifies the wire encoding of a constant-pool record (§6.1).
type ConstTag byte

const (
	ConstInt ConstTag = 0x00
	ConstNum ConstTag = 0x01
	ConstStr ConstTag = 0x02
)
