package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emigdal/plnpulse/config"
	"github.com/emigdal/plnpulse/internal/app"
	"github.com/emigdal/plnpulse/internal/logger"
	"github.com/emigdal/plnpulse/internal/rates"
	"github.com/emigdal/plnpulse/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the plnpulse application.
//
// Modes (selected via --mode flag):
//   - report: Generates one xlsx report per ledger CSV, either a single
//     --input file or every *.csv under --dir.
//   - api:    Starts the REST API that turns uploaded ledgers into reports.
//
// Flags:
//   - --mode:     Execution mode ("report" or "api"). Default: "report".
//   - --input:    Single ledger CSV to process.
//   - --dir:      Directory with ledger CSVs (used when --input is empty).
//   - --out:      Output directory for reports. Defaults to OUTPUT_DIR from config.
//   - --parallel: How many ledgers to process concurrently (0=auto up to CPU, max 8).
//   - --port:     Port for API mode. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "report", "Mode: report or api")
	input := flag.String("input", "", "Single ledger CSV file")
	dir := flag.String("dir", "./data/input", "Directory with ledger CSV files")
	out := flag.String("out", config.AppConfig.Report.OutputDir, "Output directory for reports")
	parallel := flag.Int("parallel", 0, "How many ledgers to process concurrently (0=auto up to CPU, max 8)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "report":
		// Report mode: run the pipeline over local ledger files
		logger.L().Info().Msg("running report generation")

		client := rates.NewClient(config.AppConfig.NBP)
		resolver := rates.NewResolver(client, config.AppConfig.NBP.MaxLookbackDays)
		svc := service.NewReportService(resolver)

		if *input != "" {
			if err := service.ProcessFile(ctx, svc, *input, *out); err != nil {
				logger.L().Fatal().Err(err).Msg("report generation failed")
			}
		} else {
			if err := service.ProcessDirectory(ctx, svc, *dir, *out, *parallel); err != nil {
				logger.L().Fatal().Err(err).Msg("report generation failed")
			}
		}
		logger.L().Info().Msg("report generation completed successfully")

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
