package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/previsio/previsio/internal/config"
	"github.com/previsio/previsio/internal/projection"
	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

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

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, loggingConfig.OutputFile)
	}

	return zapConfig.Build()
}

func main() {
	planPath := flag.String("config", constants.DefaultPlanFile, "path to the YAML plan file")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	outputFormat := flag.String("output-format", "", "override the configured output format (pretty, csv)")
	showSchedules := flag.Bool("schedules", false, "also print the per-asset and per-loan schedules")
	flag.Parse()

	conf, err := config.LoadConfiguration(*planPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load plan %s: %v\n", filepath.Clean(*planPath), err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := conf.Validate(); err != nil {
		logger.Error("plan validation failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		fmt.Fprintf(os.Stderr, "invalid plan: %v\n", err)
		os.Exit(1)
	}

	logger.Info("computing projection",
		zap.String("op", "main"),
		zap.String("plan", conf.Plan.Name),
		zap.Int("horizonMonths", conf.Plan.HorizonMonths),
	)

	result, err := projection.GetProjection(logger, *conf)
	if err != nil {
		logger.Error("projection failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		os.Exit(1)
	}

	format := conf.Output.Format
	if *outputFormat != "" {
		format = *outputFormat
	}
	switch format {
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, result)
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, result)
	default:
		fmt.Fprintf(os.Stderr, "invalid output format: %s\n", format)
		os.Exit(1)
	}

	if *showSchedules {
		for _, scenario := range result.Scenarios {
			output.ScheduleFormat(os.Stdout, scenario)
		}
	}
}
