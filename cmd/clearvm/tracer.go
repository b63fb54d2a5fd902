package main

import (
	"go.uber.org/zap"

	"github.com/clearlang/clearvm/pkg/bytecode"
	"github.com/clearlang/clearvm/pkg/vm"
)

// zapTracer is the --trace rendition of the source VM's compile-time
// DEBUG_TRACE/DEBUG_STACK flags: a structured log line per instruction
// instead of a fprintf gated by a build-time macro.
type zapTracer struct {
	log *zap.Logger
}

func newZapTracer(log *zap.Logger) *zapTracer {
	return &zapTracer{log: log}
}

func (t *zapTracer) Trace(v *vm.VM, op bytecode.Opcode, ip uint32) {
	t.log.Debug("step",
		zap.Uint32("ip", ip),
		zap.Stringer("op", op),
		zap.Uint16("sp", v.SP()),
		zap.Uint16("fp", v.FP()),
		zap.Int("stack_depth", len(v.StackSlice())),
	)
}
