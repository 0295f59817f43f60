package main

import (
	"fmt"
	"time"

	"github.com/Gravecat/guru-meditation/cmd/guru/ui"
	"github.com/Gravecat/guru-meditation/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	stormSeverity string
	stormCount    int
	stormInterval time.Duration
)

// stormCmd fires a burst of non-fatal reports to demonstrate cascade
// detection. With default limits, 21 warnings (or 11 errors, or 6
// criticals) inside the window trip the cascade and force a halt.
var stormCmd = &cobra.Command{
	Use:   "storm",
	Short: "Fire repeated non-fatal reports until the cascade trips (or the burst ends)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sev := report.Parse(stormSeverity)
		if !sev.Nonfatal() {
			return fmt.Errorf("severity must be warning, error or critical (got %q)", stormSeverity)
		}

		sys, err := newSystem()
		if err != nil {
			return err
		}
		defer sys.Close()

		logger.Info("starting error storm",
			zap.String("severity", sev.String()),
			zap.Int("count", stormCount),
			zap.Duration("interval", stormInterval))

		done := sys.Trace("storm.Run")
		defer done()

		for i := 1; i <= stormCount; i++ {
			// A cascade trip inside Nonfatal halts the process; lines
			// after the trip never run.
			sys.Nonfatalf(sev, "Simulated failure #%d of %d.", i, stormCount)
			if stormInterval > 0 {
				time.Sleep(stormInterval)
			}
		}

		fmt.Println(ui.Success.Render("storm finished without tripping the cascade"))
		return nil
	},
}

func init() {
	stormCmd.Flags().StringVar(&stormSeverity, "severity", "warning", "severity of each report: warning, error or critical")
	stormCmd.Flags().IntVar(&stormCount, "count", 25, "number of reports to fire")
	stormCmd.Flags().DurationVar(&stormInterval, "interval", 0, "pause between reports")
}
