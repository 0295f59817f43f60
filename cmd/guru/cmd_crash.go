package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var crashSignal string

var faultSignals = map[string]syscall.Signal{
	"abrt": syscall.SIGABRT,
	"segv": syscall.SIGSEGV,
	"ill":  syscall.SIGILL,
	"fpe":  syscall.SIGFPE,
}

// crashCmd raises a real fault signal against this process so the signal
// bridge can intercept it and route it through the halt path.
var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Raise a fatal OS signal and let the bridge intercept it",
	RunE: func(cmd *cobra.Command, args []string) error {
		sig, ok := faultSignals[crashSignal]
		if !ok {
			return fmt.Errorf("unknown signal %q (want abrt, segv, ill or fpe)", crashSignal)
		}

		sys, err := newSystem()
		if err != nil {
			return err
		}
		_ = sys // the bridge owns the rest of this process's lifetime

		logger.Info("raising fault signal", zap.String("signal", crashSignal))
		if err := syscall.Kill(os.Getpid(), sig); err != nil {
			return fmt.Errorf("raise %s: %w", crashSignal, err)
		}

		// The bridge halts on its own goroutine; this one just waits to die.
		time.Sleep(30 * time.Second)
		return fmt.Errorf("signal %s was never delivered", crashSignal)
	},
}

func init() {
	crashCmd.Flags().StringVar(&crashSignal, "signal", "segv", "fault to raise: abrt, segv, ill or fpe")
}
