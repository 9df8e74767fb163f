package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/revenue-forecast/internal/logging"
	"github.com/iwvelando/revenue-forecast/internal/server"
	"github.com/iwvelando/revenue-forecast/internal/table"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override, e.g. :8080")
	maxUpload := flag.String("max-upload-size", "", "maximum revenue table upload size, e.g. 2M")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	settings, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(settings.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *address != "" {
		settings.Address = *address
	}
	if *maxUpload != "" {
		size, err := server.ParseSize(*maxUpload)
		if err != nil {
			logger.Fatal("invalid max upload size",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		settings.SetUploadSizeBytes(size)
	}

	opts, err := settings.Data.Options()
	if err != nil {
		logger.Fatal("invalid data options",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	cache := table.NewCache(logger, func(path string) (*table.Table, error) {
		return table.Load(path, opts)
	})

	// The dashboard reports load failures per request, so a bad table at
	// startup is only a warning.
	if tbl, err := cache.Get(settings.Data.File); err != nil {
		logger.Warn("failed to preload revenue table",
			zap.String("op", "main"),
			zap.String("source", settings.Data.File),
			zap.Error(err),
		)
	} else {
		logger.Info("revenue table loaded",
			zap.String("op", "main"),
			zap.String("source", tbl.Source),
			zap.Int("rows", tbl.Len()),
		)
	}

	srv := &http.Server{
		Addr:              settings.Address,
		Handler:           server.NewHandler(logger, cache, settings, version),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting revenue-forecast server",
		zap.String("op", "main"),
		zap.String("address", settings.Address),
		zap.String("source", settings.Data.File),
		zap.String("strategy", settings.Strategy),
		zap.Int64("maxUploadSize", settings.UploadSizeBytes()),
		zap.String("version", version),
	)

	listener, err := net.Listen("tcp", settings.Address)
	if err != nil {
		logger.Fatal("failed to listen",
			zap.String("op", "main"),
			zap.String("address", settings.Address),
			zap.Error(err),
		)
	}
	if err := serve(ctx, logger, srv, listener); err != nil {
		logger.Fatal("server error",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Info("server stopped", zap.String("op", "main"))
}

// serve runs srv on listener until ctx is done, then shuts it down. It returns
// only after in-flight requests have drained or shutdownTimeout has passed.
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server, listener net.Listener) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		logger.Info("shutdown signal received", zap.String("op", "main.serve"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}
