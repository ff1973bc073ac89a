package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/StevenJWChen/layout-automation/internal/api"
	"github.com/StevenJWChen/layout-automation/internal/service"
	"github.com/StevenJWChen/layout-automation/pkg/config"
	"github.com/StevenJWChen/layout-automation/pkg/telemetry"
)

var (
	serveConfigPath string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the job service: accept solve jobs and process them in the background",
	Long: `serve loads a configuration file, connects the job repository and
artifact storage, and starts the scheduler that polls for pending solve
jobs. It also exposes a small HTTP API for submitting jobs and checking
their status.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config file")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port for the job service HTTP API")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.EnsureStorageDir(); err != nil {
		return fmt.Errorf("failed to prepare storage directory: %w", err)
	}

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Init(ctx)
	if err != nil {
		log.Warn("Failed to initialize telemetry: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer shutdownTelemetry(ctx)

	svc, err := service.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	apiServer := api.NewServer(svc, servePort, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutting down job service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down API server: %v", err)
		}
		if err := svc.Stop(); err != nil {
			log.Error("Failed to stop service: %v", err)
		}
		os.Exit(0)
	}()

	log.Info("Job service listening on :%d", servePort)
	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
