package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/config"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig   string
	flagVerbose  bool
	flagLogLevel string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conference-scraper",
		Short: "Extract conference details from event web pages",
		Long: `A tool that reads a conference or event web page and extracts its name,
location, dates, price and a suggested category. Use "scrape" for one-off lookups
and "serve" to run the HTTP endpoint behind the conference creation form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose (debug) logging")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newScrapeCmd(), newServeCmd())

	return cmd
}

// loadConfig reads the config file and installs the configured logger.
// --log-level overrides the file and --verbose overrides both.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagLogLevel != "" {
		if _, err := logger.ParseLevel(flagLogLevel); err != nil {
			return nil, err
		}
		cfg.Logging.Level = flagLogLevel
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	return cfg, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
