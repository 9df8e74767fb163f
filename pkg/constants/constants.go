// Package constants provides shared constants for the revenue-forecast application.
package constants

// DateLayout is the canonical date format for loaded tables and all output.
const DateLayout = "2006-01-02"

// Chart constants
const (
	// AxisHeadroomFactor is applied to the tallest stacked bar to get the
	// upper bound of the y-axis.
	AxisHeadroomFactor = 1.1

	// MinimumAxisUpperBound is used when every stacked bar sums to zero or less.
	MinimumAxisUpperBound = 1.0

	// ChartTitle is the title of the stacked revenue chart.
	ChartTitle = "Stacked Revenue Visualization"
)

// Strategy names
const (
	// StrategyBreakdown derives the full renewals/bonus/plug breakdown.
	StrategyBreakdown = "breakdown"

	// StrategyMultiplier scales revenue by a single multiplier.
	StrategyMultiplier = "multiplier"

	// DefaultStrategy is used when no strategy is configured.
	DefaultStrategy = StrategyBreakdown
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX writes a spreadsheet to the output file
	OutputFormatXLSX = "xlsx"

	// OutputFormatHTML writes a standalone chart page to the output file
	OutputFormatHTML = "html"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultDataFile is the revenue table loaded when none is configured
	DefaultDataFile = "data/daily-revenue.csv"

	// EnvPrefix prefixes every environment variable override
	EnvPrefix = "REVENUE_FORECAST"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for revenue tables (2 MB)
	DefaultMaxUploadSizeBytes int64 = 2 * 1024 * 1024
)

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)
