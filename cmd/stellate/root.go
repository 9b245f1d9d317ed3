package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kroma-labs/stellate-go/delivery"
)

// app is the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logPretty  bool
	getenv     func(string) string

	cfg    Config
	logger zerolog.Logger

	// sender replaces the HTTP client; set by tests.
	sender delivery.Sender
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{getenv: os.Getenv})
}

func newRootCmdFor(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stellate",
		Short: "Stellate schema sync and telemetry queue tooling",
		Long: `Operator tooling for the Stellate Go client.

Configuration is read from --config (YAML) and overridden by
STELLATE_SERVICE_NAME, STELLATE_LOGGING_TOKEN and STELLATE_SCHEMA_TOKEN.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&a.logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.logPretty, "log-pretty", false, "Human readable console logs")

	rootCmd.AddCommand(
		newSchemaCmd(a),
		newQueueCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := loadConfig(a.configPath, a.getenv)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logPretty {
		cfg.Log.Pretty = true
	}

	a.cfg = cfg
	a.logger, err = newLogger(logOut, cfg.Log)
	return err
}

func newLogger(w io.Writer, cfg LogConfig) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), err
		}
	}

	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
