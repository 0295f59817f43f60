package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var haltTrace []string

// haltCmd reports an explicit fatal error: halt notice, crash report,
// non-zero exit.
var haltCmd = &cobra.Command{
	Use:   "halt [message]",
	Short: "Report an unconditional fatal error",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		message := "Manually requested halt."
		if len(args) > 0 {
			message = strings.Join(args, " ")
		}

		sys, err := newSystem()
		if err != nil {
			return err
		}

		// Seed the call-stack shadow so the halt log shows a trace.
		for _, frame := range haltTrace {
			sys.Trace(frame)
		}

		sys.Halt(message)
		return nil // unreachable; Halt exits the process
	},
}

func init() {
	haltCmd.Flags().StringSliceVar(&haltTrace, "trace", []string{"main", "game.Loop", "render.Frame"}, "scope names to seed the call-stack shadow with")
}
