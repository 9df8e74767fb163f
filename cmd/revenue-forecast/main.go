package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/revenue-forecast/internal/config"
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/internal/logging"
	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const defaultXLSXOutput = "revenue-forecast.xlsx"

// loadConfiguration reads configLocation, falling back to defaults plus
// environment overrides when the default file is absent.
func loadConfiguration(configLocation string) (*config.Configuration, error) {
	if configLocation == constants.DefaultConfigFile {
		if _, err := os.Stat(configLocation); os.IsNotExist(err) {
			return config.LoadDefaults()
		}
	}
	return config.LoadConfiguration(configLocation)
}

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	dataFile := flag.String("data", "", "revenue table override (csv, tsv, txt, xlsx)")
	strategyFlag := flag.String("strategy", "", "forecast strategy override: breakdown, multiplier")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, xlsx, html")
	outputFile := flag.String("output", "", "output file for xlsx and html formats")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	if *dataFile != "" {
		conf.Data.File = *dataFile
	}
	if *strategyFlag != "" {
		conf.Strategy = *strategyFlag
	}
	if *outputFormatFlag != "" {
		conf.Output.Format = *outputFormatFlag
	}
	if *outputFile != "" {
		conf.Output.File = *outputFile
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	opts, err := conf.Data.Options()
	if err != nil {
		logger.Fatal("invalid data options",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	tbl, err := table.Load(conf.Data.File, opts)
	if err != nil {
		logger.Fatal("failed to load revenue table",
			zap.String("op", "main"),
			zap.String("source", conf.Data.File),
			zap.Error(err),
		)
	}

	strategy, err := forecast.StrategyByName(conf.Strategy)
	if err != nil {
		logger.Fatal("unknown strategy",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	result, err := forecast.Compute(logger, tbl, strategy, conf.Parameters)
	if err != nil {
		fields := []zap.Field{zap.String("op", "main"), zap.Error(err)}
		if parameter := parameterOf(err); parameter != "" {
			fields = append(fields, zap.String("parameter", parameter))
		}
		logger.Fatal("failed to compute forecast", fields...)
	}

	if err := writeOutput(conf.Output, result); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.String("format", conf.Output.Format),
			zap.Error(err),
		)
	}
}
