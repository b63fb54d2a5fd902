package vm

import (
	"fmt"
	"strings"

	"github.com/clearlang/clearvm/pkg/bytecode"
)

// BreakpointTracer wraps another Tracer and additionally calls OnBreak
// whenever execution reaches an instruction offset that has been
// marked with AddBreakpoint. It is the batch-CLI rendition of the
// source VM's interactive debugger: clearvm run never blocks on stdin,
// so a "pause" is a callback rather than a prompt loop, but the
// breakpoint bookkeeping underneath is the same idea.
type BreakpointTracer struct {
	inner       Tracer
	breakpoints map[uint32]bool
	OnBreak     func(vm *VM, op bytecode.Opcode, ip uint32)
}

// NewBreakpointTracer wraps inner, which still receives every Trace
// call regardless of whether the instruction is a breakpoint.
func NewBreakpointTracer(inner Tracer) *BreakpointTracer {
	if inner == nil {
		inner = nopTracer{}
	}
	return &BreakpointTracer{
		inner:       inner,
		breakpoints: make(map[uint32]bool),
	}
}

// AddBreakpoint marks ip so the next Trace call at that offset invokes
// OnBreak.
func (t *BreakpointTracer) AddBreakpoint(ip uint32) {
	t.breakpoints[ip] = true
}

// RemoveBreakpoint clears a previously added breakpoint.
func (t *BreakpointTracer) RemoveBreakpoint(ip uint32) {
	delete(t.breakpoints, ip)
}

func (t *BreakpointTracer) Trace(vm *VM, op bytecode.Opcode, ip uint32) {
	if t.breakpoints[ip] && t.OnBreak != nil {
		t.OnBreak(vm, op, ip)
	}
	t.inner.Trace(vm, op, ip)
}

// Dump renders the VM's registers and live stack for a breakpoint
// report or crash diagnostic.
func (vm *VM) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ip=%d fp=%d sp=%d\nstack (top first):\n", vm.ip, vm.fp, vm.sp)
	for i := int(vm.sp) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  [%d] %s\n", i, vm.stack[i].Tag.String())
	}
	return b.String()
}
