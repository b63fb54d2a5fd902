// Command clearvm runs, disassembles, and assembles clearvm modules.
//
//	clearvm run <module>              execute <module>.clr.b
//	clearvm disassemble <module>      print its instruction listing
//	clearvm assemble <src> <out>      assemble a textual listing to a module
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clearlang/clearvm/pkg/asm"
	"github.com/clearlang/clearvm/pkg/bytecode"
	"github.com/clearlang/clearvm/pkg/disasm"
	"github.com/clearlang/clearvm/pkg/memtrace"
	"github.com/clearlang/clearvm/pkg/module"
	"github.com/clearlang/clearvm/pkg/value"
	"github.com/clearlang/clearvm/pkg/vm"
)

const version = "0.1.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "clearvm",
		Short:   "A virtual machine for the Clear bytecode format",
		Version: version,
	}
	root.AddCommand(newRunCmd(), newDisassembleCmd(), newAssembleCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var trace, mem bool
	var breakAt []uint32

	cmd := &cobra.Command{
		Use:   "run <module>",
		Short: "Execute a clearvm module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModule(args[0], trace, mem, breakAt)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "log every instruction executed to stderr")
	cmd.Flags().BoolVar(&mem, "mem", false, "print a heap allocation summary on exit")
	cmd.Flags().Uint32SliceVar(&breakAt, "break", nil, "log a register/stack dump when ip reaches this offset (repeatable)")
	return cmd
}

func runModule(path string, trace, mem bool, breakAt []uint32) error {
	runID := uuid.NewString()

	var logger *zap.Logger
	var err error
	if trace {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction(zap.IncreaseLevel(zap.WarnLevel))
	}
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", runID))

	path += ".clr.b"
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading module")
	}

	var opts []vm.Option
	var rec *memtrace.Recorder
	if mem {
		rec = memtrace.New()
		opts = append(opts, vm.WithMemRecorder(rec))
	}
	if trace || len(breakAt) > 0 {
		var tracer vm.Tracer = newZapTracer(logger)
		if len(breakAt) > 0 {
			bp := vm.NewBreakpointTracer(tracer)
			bp.OnBreak = func(v *vm.VM, op bytecode.Opcode, ip uint32) {
				logger.Warn("breakpoint hit", zap.Uint32("ip", ip), zap.Stringer("op", op), zap.String("dump", v.Dump()))
			}
			for _, ip := range breakAt {
				bp.AddBreakpoint(ip)
			}
			tracer = bp
		}
		opts = append(opts, vm.WithTracer(tracer))
	}

	machine := vm.New(opts...)

	mod, err := module.LoadModule(data, machine.Heap())
	if err != nil {
		fmt.Fprintf(os.Stdout, "|| load error: %v\n", err)
		machine.Close()
		return err
	}

	logger.Info("starting run", zap.String("module", path), zap.Int("code_bytes", len(mod.Code)))
	if trace {
		fmt.Printf("Running: %s\n", path)
	}

	if err := machine.Run(mod); err != nil {
		fmt.Fprintf(os.Stdout, "|| runtime error: %v\n", err)
		logger.Error("run failed", zap.Error(err), zap.String("heap", machine.Close()))
		return err
	}

	summary := machine.Close()
	logger.Info("run complete", zap.String("heap", summary))
	if mem {
		fmt.Printf("|| mem: %s\n", rec.Summary())
	}
	return nil
}

func newDisassembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disassemble <module>",
		Short: "Print a module's instruction listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "reading module")
			}
			heap := value.NewHeap(nil)
			mod, err := module.LoadModule(data, heap)
			if err != nil {
				return errors.Wrap(err, "loading module")
			}
			fmt.Print(disasm.Module(mod, heap))
			return nil
		},
	}
}

func newAssembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assemble <src> <out>",
		Short: "Assemble a textual listing into a clearvm module (development convenience, not a language compiler)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "reading source")
			}
			out, err := asm.Parse(string(src))
			if err != nil {
				return errors.Wrap(err, "assembling")
			}
			if err := os.WriteFile(args[1], out, 0o644); err != nil {
				return errors.Wrap(err, "writing module")
			}
			fmt.Printf("assembled %s -> %s (%d bytes)\n", args[0], args[1], len(out))
			return nil
		},
	}
}
