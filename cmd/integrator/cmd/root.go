package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/V4T54L/integrator/internal/pkg/config"
	"github.com/V4T54L/integrator/internal/pkg/logger"
)

var (
	// Global flags
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "integrator",
		Short: "Integrator issues API keys to tenant/realm pairs and records integration credentials",
		// Serve by default when no subcommand is given.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
		SilenceUsage: true,
	}
)

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: $LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, text) (default: $LOG_FORMAT or json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initDBCmd)
}

// setup loads configuration and installs the default logger. Flags override the environment.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(l)
	return cfg, l, nil
}
