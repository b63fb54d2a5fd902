// Package vm implements the clearvm stack machine: the evaluation stack,
// frame-pointer discipline, global array, and the dispatch loop over the
// opcode table defined in pkg/bytecode.
package vm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/clearlang/clearvm/pkg/bytecode"
)

// Error taxonomy (spec §7). Each kind is a sentinel so callers can
// errors.Is against it; handlers return these directly (or wrapped with
// errors.Wrap for extra context) and the dispatch loop adds opcode/IP
// location via ExecutionError.
var (
	// Memory errors.
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrPeekUnderRange = errors.New("peek under range")

	// Addressing errors.
	ErrConstantIndexOutOfRange = errors.New("constant index out of range")
	ErrUndefinedGlobal         = errors.New("undefined global")
	ErrLocalOutOfRange         = errors.New("local index out of range")
	ErrFieldOutOfRange         = errors.New("field index out of range")
	ErrJumpOutOfRange          = errors.New("jump target out of range")

	// Type errors.
	ErrInvalidCast     = errors.New("invalid cast")
	ErrNonStringConcat = errors.New("operands to concatenation are not strings")
	ErrNonStringPrint  = errors.New("print operand is not a string")
	ErrNonStructField  = errors.New("field operation target is not a struct")
	ErrNonIPLoad       = errors.New("value loaded into ip is not an ip")
	ErrNonFPLoad       = errors.New("value loaded into fp is not an fp")
	ErrNonUpvalueDeref = errors.New("operand is not an upvalue")
	ErrNonFunctionCall = errors.New("call target is not an ip")

	// Format errors surfaced by the dispatch loop's own decoding, as
	// opposed to module.ErrTruncatedHeader/ErrUnknownConstantTag which
	// belong to the constant-pool loader.
	ErrTruncatedInstruction = errors.New("truncated instruction")
	ErrUnknownOpcode        = errors.New("unknown opcode")

	// ErrAllocationFailure rounds out the taxonomy for a host allocator
	// that refuses a request; clearvm's own heap (pkg/value) never
	// rejects an allocation short of the process running out of memory,
	// which Go reports by panicking rather than returning an error, so
	// nothing in this tree currently produces it.
	ErrAllocationFailure = errors.New("allocation failure")
)

// ExecutionError situates a handler failure at the opcode and code
// offset where it happened. A single opcode/IP location is the only
// context a single-frame VM can report: there is no stack of call
// frames to walk (frames are just stack regions addressed by fp), so
// "which instruction was executing" is all there ever is to say about
// a failure.
type ExecutionError struct {
	Err error
	Op  bytecode.Opcode
	IP  uint32
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s at ip=%d: %v", e.Op, e.IP, e.Err)
}

// Unwrap lets callers errors.Is/errors.As through to the sentinel.
func (e *ExecutionError) Unwrap() error { return e.Err }
