// Package vm implements the bytecode virtual machine for clearvm.
//
// The VM is a stack machine with no call-stack-of-frames abstraction: a
// "frame" is just the region of the evaluation stack from fp to sp, and
// a "call" is compiler-generated code that pushes a return IP/FP pair
// and jumps (see pkg/vm/ops_call.go). There is no VM-level RETURN
// opcode — returning is OP_LOAD_FP followed by OP_LOAD_IP, emitted by
// whatever produced the bytecode.
//
// Execution model:
//
//	Module bytes -> module.LoadModule -> VM.Run -> dispatch loop
//
// The dispatch loop (VM.Run) fetches one opcode byte at a time, looks
// it up in the handler table of dispatch.go (not a switch — see the Design Notes
// this VM's opcode table was built from), and calls the handler, which
// reads its own operand bytes off the code stream and the stack.
//
// Memory:
//
// clearvm never frees a heap object individually. A Heap releases
// everything at VM teardown. There is no garbage collector, no
// reference counting beyond the single open/closed transition an
// upvalue makes when its stack slot is popped.
package vm

import (
	"io"
	"os"
	"time"

	"github.com/clearlang/clearvm/pkg/bytecode"
	"github.com/clearlang/clearvm/pkg/module"
	"github.com/clearlang/clearvm/pkg/value"
)

// StackMax is the fixed size of the evaluation stack (spec §4.1).
const StackMax = 512

// GlobalsMax is the fixed size of the global-variable array (spec §4.2).
const GlobalsMax = 256

// Tracer observes every instruction the VM is about to execute. The
// default VM runs with a no-op tracer; cmd/clearvm wires in a
// zap-backed one under --trace. This is the Go rendition of the
// source's compile-time DEBUG_TRACE/DEBUG_STACK flags — Go has no
// lightweight conditional compilation, so the hook is a runtime
// interface instead of a build tag.
type Tracer interface {
	Trace(vm *VM, op bytecode.Opcode, ip uint32)
}

type nopTracer struct{}

func (nopTracer) Trace(*VM, bytecode.Opcode, uint32) {}

// VM is a clearvm stack machine. Construct one with New and run a
// loaded module with Run; Close releases the heap.
type VM struct {
	stack [StackMax]value.Value
	sp    uint16
	fp    uint16

	globals    [GlobalsMax]value.Value
	globalSet  [GlobalsMax]bool

	heap *value.Heap

	constants []value.Value
	code      []byte
	start     uint32
	end       uint32
	ip        uint32

	ret value.Value

	// upvalues maps an absolute stack slot to every open upvalue object
	// currently referencing it. Kept out of Value/Object on purpose
	// (per the Design Notes this layout follows): a plain stack slot
	// would otherwise have to carry a back-reference chain it almost
	// never uses.
	upvalues map[uint16][]value.ObjHandle

	startTime time.Time

	out io.Writer

	tracer Tracer
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithMemRecorder enables memory accounting on the VM's heap (the
// rendition of the source's DEBUG_MEM flag). See pkg/memtrace.
func WithMemRecorder(rec value.Recorder) Option {
	return func(v *VM) { v.heap = value.NewHeap(rec) }
}

// WithTracer installs a per-instruction Tracer (the rendition of
// DEBUG_TRACE/DEBUG_STACK).
func WithTracer(t Tracer) Option {
	return func(v *VM) { v.tracer = t }
}

// WithOutput redirects OP_PRINT's destination. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(v *VM) { v.out = w }
}

// New constructs a VM with no module loaded. Call Run to execute one.
func New(opts ...Option) *VM {
	v := &VM{
		heap:     value.NewHeap(nil),
		upvalues: make(map[uint16][]value.ObjHandle),
		out:      os.Stdout,
		tracer:   nopTracer{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Heap exposes the VM's heap, primarily so a caller can format a
// teardown summary (see pkg/memtrace) after Run returns.
func (vm *VM) Heap() *value.Heap { return vm.heap }

// Close tears down the VM's heap. Safe to call once after Run.
func (vm *VM) Close() string {
	return vm.heap.Teardown()
}

// IP, FP, SP are read-only accessors for a Tracer.
func (vm *VM) IP() uint32 { return vm.ip }
func (vm *VM) FP() uint16 { return vm.fp }
func (vm *VM) SP() uint16 { return vm.sp }

// timeSinceStart is OP_CLOCK's payload: seconds elapsed since Run began.
func timeSinceStart(vm *VM) float64 {
	return time.Since(vm.startTime).Seconds()
}

// StackSlice returns the live portion of the evaluation stack, for
// trace output. The caller must not retain it past the next push/pop.
func (vm *VM) StackSlice() []value.Value { return vm.stack[:vm.sp] }

// Run loads mod's constants and code into the VM and executes from
// offset 0 until ip reaches the end of the code segment or a handler
// returns an error.
func (vm *VM) Run(mod *module.Module) error {
	vm.constants = mod.Constants
	vm.code = mod.Code
	vm.start = 0
	vm.end = uint32(len(mod.Code))
	vm.ip = 0
	vm.sp = 0
	vm.fp = 0
	vm.ret = value.Nil
	vm.startTime = time.Now()

	for vm.ip < vm.end {
		opIP := vm.ip
		opByte, err := vm.fetchU8()
		if err != nil {
			return &ExecutionError{Err: err, IP: opIP}
		}
		op := bytecode.Opcode(opByte)
		if op >= bytecode.OpCount {
			return &ExecutionError{Err: ErrUnknownOpcode, Op: op, IP: opIP}
		}

		vm.tracer.Trace(vm, op, opIP)

		handler := handlerTable[op]
		if err := handler(vm); err != nil {
			return &ExecutionError{Err: err, Op: op, IP: opIP}
		}
	}
	return nil
}
