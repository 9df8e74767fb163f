package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/revenue-forecast/internal/chart"
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/export"
	"github.com/iwvelando/revenue-forecast/pkg/output"
	"github.com/iwvelando/revenue-forecast/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	logger        *zap.Logger
	cache         *table.Cache
	settings      *Config
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the dashboard and the
// forecast API. Tables for the configured data file are read through cache.
func NewHandler(logger *zap.Logger, cache *table.Cache, settings *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings == nil {
		settings = DefaultConfig()
	}
	if cache == nil {
		opts, _ := settings.Data.Options()
		cache = table.NewCache(logger, func(path string) (*table.Table, error) {
			return table.Load(path, opts)
		})
	}

	maxUploadSize := settings.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		cache:         cache,
		settings:      settings,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Form fields and configured defaults
	mux.HandleFunc("/api/parameters", h.handleParameters)

	// Forecast against the configured data file
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Forecast against an uploaded revenue table
	mux.HandleFunc("/api/forecast/upload", h.handleForecastUpload)

	// Spreadsheet download of a forecast
	mux.HandleFunc("/api/export", h.handleExport)

	// Re-read the configured data file
	mux.HandleFunc("/api/reload", h.handleReload)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

// forecastRequest is the JSON body of /api/forecast and /api/export. Omitted
// parameters keep their configured values.
type forecastRequest struct {
	Strategy   string          `json:"strategy,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

type forecastResponse struct {
	Source     string              `json:"source"`
	Strategy   string              `json:"strategy"`
	Columns    []string            `json:"columns"`
	Stack      []forecast.Series   `json:"stack"`
	Rows       []forecastRow       `json:"rows"`
	Figure     chart.Figure        `json:"figure"`
	MaxY       float64             `json:"maxY"`
	Axis       [2]float64          `json:"axis"`
	CSV        string              `json:"csv"`
	Parameters forecast.Parameters `json:"parameters"`
	ConfigYAML string              `json:"configYaml,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   string              `json:"duration"`
}

type forecastRow struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

type parametersResponse struct {
	Source     string           `json:"source"`
	Strategy   string           `json:"strategy"`
	Strategies []string         `json:"strategies"`
	Fields     []forecast.Field `json:"fields"`
	ConfigYAML string           `json:"configYaml,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Parameter string `json:"parameter,omitempty"`
}

// requestError reports a request value that could not be used as a parameter.
type requestError struct {
	Parameter string
	Message   string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%s %s", e.Parameter, e.Message)
}

// configSnippet is the YAML block a user can paste into config.yaml to keep
// the values currently shown in the form.
type configSnippet struct {
	Strategy   string              `yaml:"strategy"`
	Parameters forecast.Parameters `yaml:"parameters"`
}

func (h *handler) handleParameters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, parametersResponse{
		Source:     h.settings.Data.File,
		Strategy:   h.settings.Strategy,
		Strategies: []string{constants.StrategyBreakdown, constants.StrategyMultiplier},
		Fields:     h.settings.Parameters.Fields(),
		ConfigYAML: h.configYAML(h.settings.Strategy, h.settings.Parameters, "server.handleParameters"),
	})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, err := decodeForecastRequest(r.Body)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	tbl, err := h.cache.Get(h.settings.Data.File)
	if err != nil {
		h.respondForecastError(w, err, op)
		return
	}

	h.runForecast(w, tbl, req, start, op)
}

func (h *handler) handleForecastUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecastUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing revenue table file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read revenue table: %v", err), op)
		return
	}

	tbl, err := table.Parse(header.Filename, &buf, table.Options{Sheet: r.FormValue("sheet")})
	if err != nil {
		h.respondForecastError(w, err, op)
		return
	}

	req := forecastRequest{Strategy: r.FormValue("strategy")}
	if raw := strings.TrimSpace(r.FormValue("parameters")); raw != "" {
		req.Parameters = json.RawMessage(raw)
	}

	h.runForecast(w, tbl, req, start, op)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, err := decodeForecastRequest(r.Body)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	tbl, err := h.cache.Get(h.settings.Data.File)
	if err != nil {
		h.respondForecastError(w, err, op)
		return
	}

	result, _, err := h.compute(tbl, req)
	if err != nil {
		h.respondForecastError(w, err, op)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, result); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="revenue-forecast.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write workbook", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleReload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	tbl, err := h.cache.Reload(h.settings.Data.File)
	if err != nil {
		h.respondForecastError(w, err, op)
		return
	}

	h.logger.Info("revenue table reloaded",
		zap.String("op", op),
		zap.String("source", tbl.Source),
		zap.Int("rows", tbl.Len()),
	)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"source": tbl.Source,
		"rows":   tbl.Len(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func decodeForecastRequest(body io.Reader) (forecastRequest, error) {
	var req forecastRequest
	data, err := io.ReadAll(body)
	if err != nil {
		return req, fmt.Errorf("failed to read request: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to decode request: %v", err)
	}
	return req, nil
}

// mergeParameters overlays the values in raw onto base. Every key must name a
// parameter and carry a number.
func mergeParameters(base forecast.Parameters, raw json.RawMessage) (forecast.Parameters, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return base, nil
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return base, &requestError{Parameter: "parameters", Message: "must be an object of numbers"}
	}

	known := make(map[string]struct{})
	for _, field := range base.Fields() {
		known[field.Key] = struct{}{}
	}

	overrides := make(map[string]float64, len(values))
	for key, value := range values {
		if _, ok := known[key]; !ok {
			return base, &requestError{Parameter: key, Message: "is not a known parameter"}
		}
		var number *float64
		if err := json.Unmarshal(value, &number); err != nil || number == nil {
			return base, &requestError{Parameter: key, Message: "must be a number"}
		}
		overrides[key] = *number
	}

	encoded, err := json.Marshal(overrides)
	if err != nil {
		return base, err
	}
	merged := base
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return base, err
	}
	return merged, nil
}

func (h *handler) compute(tbl *table.Table, req forecastRequest) (*forecast.Result, forecast.Parameters, error) {
	params, err := mergeParameters(h.settings.Parameters, req.Parameters)
	if err != nil {
		return nil, params, err
	}

	name := strings.ToLower(strings.TrimSpace(req.Strategy))
	if name == "" {
		name = h.settings.Strategy
	}
	strategy, err := forecast.StrategyByName(name)
	if err != nil {
		return nil, params, &requestError{Parameter: "strategy", Message: err.Error()}
	}

	result, err := forecast.Compute(h.logger, tbl, strategy, params)
	if err != nil {
		return nil, params, err
	}
	return result, params, nil
}

func (h *handler) runForecast(w http.ResponseWriter, tbl *table.Table, req forecastRequest, start time.Time, op string) {
	result, params, err := h.compute(tbl, req)
	if err != nil {
		h.respondForecastError(w, err, op)
		return
	}

	validator := validation.ConfigValidator{
		Strategy:               result.Strategy,
		CurrentMonth606Release: params.CurrentMonth606Release,
		NewSalesExpansionBonus: params.NewSalesExpansionBonus,
		Multiplier:             params.Multiplier,
	}

	maxY := chart.MaxStack(result)
	elapsed := time.Since(start)

	response := forecastResponse{
		Source:     tbl.Source,
		Strategy:   result.Strategy,
		Columns:    columnNames(result),
		Stack:      result.Stack,
		Rows:       buildRows(result),
		Figure:     chart.BuildFigure(result),
		MaxY:       maxY,
		Axis:       chart.AxisRange(maxY),
		CSV:        output.CsvString(result),
		Parameters: params,
		ConfigYAML: h.configYAML(result.Strategy, params, op),
		Warnings:   validator.ValidateAll(),
		Duration:   elapsed.String(),
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.String("source", tbl.Source),
		zap.String("strategy", result.Strategy),
		zap.Int("rows", len(response.Rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) configYAML(strategy string, params forecast.Parameters, op string) string {
	data, err := yaml.Marshal(configSnippet{Strategy: strategy, Parameters: params})
	if err != nil {
		h.logger.Warn("failed to marshal parameters",
			zap.String("op", op),
			zap.Error(err),
		)
		return ""
	}
	return string(data)
}

func columnNames(result *forecast.Result) []string {
	columns := output.Columns(result)
	names := make([]string, len(columns))
	for i, column := range columns {
		names[i] = string(column)
	}
	return names
}

func buildRows(result *forecast.Result) []forecastRow {
	columns := output.Columns(result)
	rows := make([]forecastRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		values := make(map[string]float64, len(columns))
		for _, column := range columns {
			values[string(column)] = row.Value(column)
		}
		rows = append(rows, forecastRow{
			Date:   datetime.FormatDate(row.Date),
			Values: values,
		})
	}
	return rows
}

// respondForecastError maps load and computation failures onto status codes.
// No partial result is ever written.
func (h *handler) respondForecastError(w http.ResponseWriter, err error, op string) {
	var loadErr *table.LoadError
	var computationErr *forecast.ComputationError
	var reqErr *requestError

	switch {
	case errors.As(err, &loadErr):
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, loadErr.Error(), op)
	case errors.As(err, &computationErr):
		h.respondParameterError(w, computationErr.Parameter, computationErr.Error(), op)
	case errors.As(err, &reqErr):
		h.respondParameterError(w, reqErr.Parameter, reqErr.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute forecast: %v", err), op)
	}
}

func (h *handler) respondParameterError(w http.ResponseWriter, parameter, msg, op string) {
	h.logger.Warn("forecast request rejected",
		zap.String("op", op),
		zap.String("parameter", parameter),
		zap.String("error", msg),
	)

	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Parameter: parameter})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("forecast request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
