// Portald is the student internship portal daemon.
//
// It serves registration, the AI-driven screening interview, student
// dashboard operations, and the admin review console over an HTTP JSON
// API. All applicant state is held in memory.
//
// Configuration is loaded from an optional YAML file and PORTALD_*
// environment variables. See internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	portald
//
//	# Configure via file and environment
//	PORTALD_SERVER_PORT=9090 portald -config portald.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/marliontech/portald/internal/applicant"
	"github.com/marliontech/portald/internal/config"
	"github.com/marliontech/portald/internal/genai"
	"github.com/marliontech/portald/internal/httpapi"
	"github.com/marliontech/portald/internal/lifecycle"
	"github.com/marliontech/portald/internal/logging"
	"github.com/marliontech/portald/internal/metrics"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  portald            Start the portal daemon\n")
			fmt.Fprintf(os.Stderr, "  portald version    Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("portald by Marlion Technologies\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires configuration, logging, metrics, the lifecycle store, the
// interview collaborator, and the HTTP server, then blocks until the
// context is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting portald",
		zap.Int("port", cfg.Server.Port),
		zap.String("registration_window", cfg.Registration.WindowMin+".."+cfg.Registration.WindowMax),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	windowMin, windowMax := cfg.Window()
	store := lifecycle.NewService(applicant.DateRule{
		WindowMin: windowMin,
		WindowMax: windowMax,
		MinDays:   cfg.Registration.MinDays,
	}, logger.Named("lifecycle"), m)

	collab, err := genai.NewClient(genai.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		APIKey:  cfg.LLM.APIKey,
	}, logger.Named("genai"), m)
	if err != nil {
		return fmt.Errorf("failed to create collaborator client: %w", err)
	}

	logger.Info("Collaborator client initialized",
		zap.String("base_url", cfg.LLM.BaseURL),
		zap.String("model", cfg.LLM.Model))

	interviews := httpapi.NewInterviewSet(cfg.Interview, store, collab,
		logger.Named("interview"), m)

	srv, err := httpapi.NewServer(cfg.Server, store, interviews, collab,
		logger.Named("http"), m, registry)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
