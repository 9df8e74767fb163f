// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for revenue-forecast.
type Configuration struct {
	Data       DataConfig          `mapstructure:"data" yaml:"data"`
	Strategy   string              `mapstructure:"strategy" yaml:"strategy"`
	Parameters forecast.Parameters `mapstructure:"parameters" yaml:"parameters"`
	Logging    LoggingConfig       `mapstructure:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig        `mapstructure:"output" yaml:"output,omitempty"`
}

// DataConfig locates the revenue table.
type DataConfig struct {
	File      string `mapstructure:"file" yaml:"file"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet,omitempty"`         // xlsx only
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter,omitempty"` // delimited files only, "tab" for tabs
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, xlsx, html
	File   string `mapstructure:"file" yaml:"file,omitempty"`     // destination for xlsx and html
}

// DefaultConfiguration returns the configuration used when a key is absent
// from both the file and the environment.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Data:       DataConfig{File: constants.DefaultDataFile},
		Strategy:   constants.DefaultStrategy,
		Parameters: forecast.DefaultParameters(),
		Output:     OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with REVENUE_FORECAST_
// override file values, e.g. REVENUE_FORECAST_PARAMETERS_CLOSEFEEPCT.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r,
// applying the same defaults and environment overrides as LoadConfiguration.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// LoadDefaults returns the defaults with environment overrides applied, for
// when no configuration file exists.
func LoadDefaults() (*Configuration, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfiguration()
	v.SetDefault("data.file", defaults.Data.File)
	v.SetDefault("data.sheet", defaults.Data.Sheet)
	v.SetDefault("data.delimiter", defaults.Data.Delimiter)
	v.SetDefault("strategy", defaults.Strategy)
	for _, field := range defaults.Parameters.Fields() {
		v.SetDefault("parameters."+field.Key, field.Value)
	}
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.file", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Strategy = strings.ToLower(strings.TrimSpace(configuration.Strategy))
	return &configuration, nil
}

// Validate rejects configurations that cannot run.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Data.File) == "" {
		return fmt.Errorf("data.file must be set")
	}
	if err := validation.ValidateStrategy(c.Strategy); err != nil {
		return err
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := c.Data.Options(); err != nil {
		return err
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Strategy:               c.Strategy,
		CurrentMonth606Release: c.Parameters.CurrentMonth606Release,
		NewSalesExpansionBonus: c.Parameters.NewSalesExpansionBonus,
		Multiplier:             c.Parameters.Multiplier,
	}
	return validator.ValidateAll()
}

// Options converts the data settings into table loading options.
func (d DataConfig) Options() (table.Options, error) {
	opts := table.Options{Sheet: d.Sheet}

	switch delimiter := d.Delimiter; {
	case delimiter == "":
	case strings.EqualFold(delimiter, "tab"), delimiter == `\t`:
		opts.Delimiter = '\t'
	case utf8.RuneCountInString(delimiter) == 1:
		r, _ := utf8.DecodeRuneInString(delimiter)
		if r == '"' || r == '\r' || r == '\n' {
			return opts, fmt.Errorf("invalid data.delimiter %q", delimiter)
		}
		opts.Delimiter = r
	default:
		return opts, fmt.Errorf("data.delimiter must be a single character or \"tab\", got %q", delimiter)
	}
	return opts, nil
}
