package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/iwvelando/revenue-forecast/internal/chart"
	"github.com/iwvelando/revenue-forecast/internal/config"
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/export"
	"github.com/iwvelando/revenue-forecast/pkg/output"
)

// writeOutput renders result in the configured format. Pretty and CSV go to
// stdout; xlsx always goes to a file; html goes to a file when one is set.
func writeOutput(conf config.OutputConfig, result *forecast.Result) error {
	switch conf.Format {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result)
	case constants.OutputFormatCSV:
		output.CsvFormat(result)
	case constants.OutputFormatXLSX:
		path := conf.File
		if path == "" {
			path = defaultXLSXOutput
		}
		return export.SaveXLSX(path, result)
	case constants.OutputFormatHTML:
		return writeHTML(conf.File, result)
	default:
		return fmt.Errorf("unsupported output format %s", conf.Format)
	}
	return nil
}

func writeHTML(path string, result *forecast.Result) error {
	fig := chart.BuildFigure(result)
	if path == "" {
		return chart.WriteHTML(os.Stdout, fig, constants.ChartTitle)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := chart.WriteHTML(file, fig, constants.ChartTitle); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func parameterOf(err error) string {
	var computationErr *forecast.ComputationError
	if errors.As(err, &computationErr) {
		return computationErr.Parameter
	}
	return ""
}
