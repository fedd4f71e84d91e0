package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/iwvelando/care-forecast/internal/config"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/iwvelando/care-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli carries the state shared by every subcommand.
type cli struct {
	configLocation string
	logLevel       string
	outputFormat   string

	conf   *config.Configuration
	logger *zap.Logger
	out    io.Writer
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zc zap.Config
	switch format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zc.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zc.OutputPaths = []string{loggingConfig.OutputFile}
		zc.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zc.Build()
}

// loadConfiguration reads the model configuration. A missing file at the
// default location falls back to the built-in defaults.
func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(path)
	if err == nil {
		return conf, nil
	}
	if !explicit {
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return nil, err
}

// resolveOutputFormat applies the CLI override on top of the configured format.
func (c *cli) resolveOutputFormat() (string, error) {
	outputFormat := c.conf.Output.Format
	if c.outputFormat != "" {
		outputFormat = c.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

func (c *cli) setup(cmd *cobra.Command) error {
	conf, err := loadConfiguration(c.configLocation, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", c.configLocation, err)
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initializeLogger(conf.Logging, c.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	c.conf = conf
	c.logger = logger
	if c.out == nil {
		c.out = cmd.OutOrStdout()
	}
	return nil
}

func (c *cli) teardown() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "care-forecast",
		Short:         "Continuity-of-care impact simulator and dashboard API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&c.outputFormat, "output-format", "", "type of output override: pretty, csv, json")

	root.AddCommand(
		newSimulateCommand(c),
		newSweepCommand(c),
		newOptimizeCommand(c),
		newSavingsCommand(c),
		newServeCommand(c),
	)
	return root
}

func main() {
	c := &cli{}
	if err := newRootCommand(c).Execute(); err != nil {
		if c.logger != nil {
			c.logger.Error("command failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
			c.teardown()
		} else {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"%v\"}\n", err)
		}
		os.Exit(1)
	}
}
