// Sensmask masking service. Exposes the masking engine over HTTP so
// sidecar callers can scrub payloads before logging or forwarding them.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/sensmask/pkg/api"
	"github.com/codeready-toolchain/sensmask/pkg/config"
	"github.com/codeready-toolchain/sensmask/pkg/logging"
	"github.com/codeready-toolchain/sensmask/pkg/mask"
	"github.com/codeready-toolchain/sensmask/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	rulesPath := flag.String("rules",
		getEnv("SENSMASK_RULES", "sensmask.yaml"),
		"Path to the masking rules file")
	envFile := flag.String("env-file", ".env", "Path to the .env file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", *envFile, "error", err)
	}

	httpPort := getEnv("HTTP_PORT", "8080")

	slog.Info("Starting sensmask",
		"version", version.Full(),
		"http_port", httpPort,
		"rules_path", *rulesPath)

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *rulesPath)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	maskers := mask.NewRegistry()
	engine := mask.NewEngine(mask.NewRuleResolver(cfg.Rules), maskers)

	// The service's own logs go through the masking handler too, so a
	// logged request payload can never leak what the API masks.
	handler := logging.NewMaskingHandler(
		slog.NewJSONHandler(os.Stdout, nil),
		engine,
		func() bool { return cfg.Enabled },
	)
	slog.SetDefault(slog.New(handler))

	server := api.NewServer(cfg, engine, maskers)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", ":"+httpPort)
		if err := server.Start(":" + httpPort); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
