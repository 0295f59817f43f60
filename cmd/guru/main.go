package main

import (
	"fmt"
	"os"

	"github.com/Gravecat/guru-meditation/internal/cascade"
	"github.com/Gravecat/guru-meditation/internal/config"
	"github.com/Gravecat/guru-meditation/internal/guru"
	"github.com/Gravecat/guru-meditation/internal/present"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose       bool
	cfgPath       string
	logFile       string
	presenterKind string

	// Loaded configuration
	cfg *config.Config

	// Harness logger (stderr diagnostics, separate from the system log)
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "guru",
	Short: "guru - Guru Meditation error-handling core (demo harness)",
	Long: `guru is a demo harness for the Guru Meditation error-handling core:
an embeddable fatal/non-fatal error reporter for long-running terminal
applications.

It opens the system log, hooks the fatal OS signals (abort, segfault,
illegal instruction, floating-point exception), and routes every reported
problem through the escalation engine: log-and-continue for non-fatal
errors, a forced halt when repeated failures cascade, and a red halt
notice plus crash report for fatal ones.

Use the subcommands to provoke each path deliberately.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize the harness logger
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		// Flags win over the config file.
		if logFile != "" {
			cfg.LogFile = logFile
		}
		if presenterKind != "" {
			cfg.Presenter = presenterKind
		}
		logger.Debug("configuration loaded",
			zap.String("log_file", cfg.LogFile),
			zap.String("presenter", cfg.Presenter),
			zap.Uint("cascade_threshold", cfg.Cascade.Threshold),
			zap.String("cascade_window", cfg.Cascade.Window))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

// newSystem builds and opens an error-handling system from the loaded
// config. The caller owns Close for the non-fatal paths; fatal paths exit
// the process directly.
func newSystem() (*guru.System, error) {
	detector := cascade.New(cfg.Cascade.Threshold, cfg.Cascade.WindowDuration(), nil)

	var p present.Presenter
	switch cfg.Presenter {
	case config.PresenterConsole:
		p = present.NewConsole()
	default:
		p = present.NewTTY()
	}

	sys := guru.New(
		guru.WithDetector(detector),
		guru.WithPresenter(p),
		guru.WithCrashDir(cfg.CrashDir),
	)
	if err := sys.Open(cfg.LogFile); err != nil {
		return nil, err
	}
	sys.PresentationReady(true)
	return sys, nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose harness logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "guru.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "system log path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&presenterKind, "presenter", "", "halt presenter: tty or console (overrides config)")

	rootCmd.AddCommand(stormCmd)
	rootCmd.AddCommand(crashCmd)
	rootCmd.AddCommand(haltCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
