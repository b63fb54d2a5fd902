// Package value defines the tagged Value representation and the heap of
// objects a clearvm virtual machine operates on.
//
// A Value is small enough to pass by copy: the payload for whichever Tag
// is active lives directly in the struct, except for Obj, which is an
// index (ObjHandle) into a Heap's object table rather than a live
// pointer. This keeps the VM's stack a flat array of fixed-size records
// and makes the bookkeeping in §3 of the design ("stack <= fp <= sp")
// cheap index arithmetic instead of pointer comparison.
package value

import "fmt"

// Tag identifies which field of a Value is meaningful.
type Tag byte

const (
	TagNil Tag = iota
	TagBool
	TagInt
	TagNum
	TagObj
	TagIP
	TagFP
)

// String renders a Tag for diagnostics and trace output.
func (t Tag) String() string {
	switch t {
	case TagNil:
		return "nil"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagNum:
		return "num"
	case TagObj:
		return "obj"
	case TagIP:
		return "ip"
	case TagFP:
		return "fp"
	default:
		return fmt.Sprintf("tag(%d)", byte(t))
	}
}

// ObjTag identifies the concrete type of a heap Object.
type ObjTag byte

const (
	ObjString ObjTag = iota
	ObjStruct
	ObjUpvalue
)

func (t ObjTag) String() string {
	switch t {
	case ObjString:
		return "string"
	case ObjStruct:
		return "struct"
	case ObjUpvalue:
		return "upvalue"
	default:
		return fmt.Sprintf("objtag(%d)", byte(t))
	}
}

// ObjHandle addresses a heap Object. It is an index into a Heap's object
// table, not a pointer, so it is safe to copy inside a Value and to
// compare for identity (two handles are equal iff they name the same
// allocation).
type ObjHandle uint32

// Value is the tagged union every VM operation pushes, pops, and stores.
// Only the field matching Tag is meaningful; handlers must check Tag
// before reading a payload field.
type Value struct {
	Tag Tag

	b   bool
	i   int32
	n   float64
	obj ObjHandle
	ip  uint32
	fp  uint16
}

// Nil is the single nil value.
var Nil = Value{Tag: TagNil}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{Tag: TagBool, b: b} }

// Int constructs an Int value.
func Int(i int32) Value { return Value{Tag: TagInt, i: i} }

// Num constructs a Num value.
func Num(n float64) Value { return Value{Tag: TagNum, n: n} }

// Obj constructs an Obj value referencing the given heap handle. objTag
// is not stored on the Value itself — it is read through the heap record
// named by handle — so callers that only have a handle must still go
// through the Heap to find the concrete object type.
func Obj(handle ObjHandle) Value { return Value{Tag: TagObj, obj: handle} }

// IP constructs a raw code-cursor value.
func IP(ip uint32) Value { return Value{Tag: TagIP, ip: ip} }

// FP constructs a raw stack-cursor value.
func FP(fp uint16) Value { return Value{Tag: TagFP, fp: fp} }

// AsBool returns the Bool payload and whether Tag was actually TagBool.
func (v Value) AsBool() (bool, bool) { return v.b, v.Tag == TagBool }

// AsInt returns the Int payload and whether Tag was actually TagInt.
func (v Value) AsInt() (int32, bool) { return v.i, v.Tag == TagInt }

// AsNum returns the Num payload and whether Tag was actually TagNum.
func (v Value) AsNum() (float64, bool) { return v.n, v.Tag == TagNum }

// AsObj returns the Obj handle and whether Tag was actually TagObj.
func (v Value) AsObj() (ObjHandle, bool) { return v.obj, v.Tag == TagObj }

// AsIP returns the IP payload and whether Tag was actually TagIP.
func (v Value) AsIP() (uint32, bool) { return v.ip, v.Tag == TagIP }

// AsFP returns the FP payload and whether Tag was actually TagFP.
func (v Value) AsFP() (uint16, bool) { return v.fp, v.Tag == TagFP }

// IsFalse reports whether v is the boolean false value. Only Bool false
// is falsy; OP_JUMP_IF_FALSE and friends must not treat Nil or zero as
// false (the source language has no such coercion).
func (v Value) IsFalse() bool {
	b, ok := v.AsBool()
	return ok && !b
}
