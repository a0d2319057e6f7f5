package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tournevent/carrierlink/internal/server"
	"github.com/tournevent/carrierlink/internal/telemetry"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "carrierlink",
	Short:   "Carrier integration service for DHL and GO! Express",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	RunE:  runServe,
}

var trackCmd = &cobra.Command{
	Use:   "track <carrier> <tracking-number>",
	Short: "Track a shipment once and print the result as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrack,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trackCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(context.WithoutCancel(ctx))
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(promRegistry)

	// Initialize shipper registry with all carriers
	registry, err := initShipperRegistry(cfg, logger, tracer, metrics)
	if err != nil {
		return err
	}

	logger.Info("Starting carrierlink",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Strings("carriers", registry.Names()),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port}, registry, logger, metrics, promRegistry)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	carrier, trackingNumber := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	registry, err := initShipperRegistry(cfg, logger, nil, metrics)
	if err != nil {
		return err
	}

	tracker, err := registry.Tracker(carrier)
	if err != nil {
		return err
	}
	result, err := tracker.Track(ctx, trackingNumber, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
