package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Gravecat/guru-meditation/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd watches the config file and logs each reload. Reloads affect
// the next constructed system only; a running cascade detector is never
// retuned.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the config file and log reloads until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := config.NewWatcher(cfgPath, func(c *config.Config) {
			logger.Info("config reloaded",
				zap.String("log_file", c.LogFile),
				zap.String("presenter", c.Presenter),
				zap.Uint("cascade_threshold", c.Cascade.Threshold),
				zap.String("cascade_window", c.Cascade.Window))
		})
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		logger.Info("watching config", zap.String("path", cfgPath))

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
		<-interrupt

		stats := w.Stats()
		logger.Info("watcher stopping",
			zap.Int("reloads", stats.Reloads),
			zap.Int("errors", stats.Errors))
		return nil
	},
}
