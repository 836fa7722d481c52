// Package commands implements the CLI subcommands for the checkmate binary.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/checkmate-dev/checkmate/internal/config"
	"github.com/checkmate-dev/checkmate/internal/dispatch"
	"github.com/checkmate-dev/checkmate/internal/emailverify"
	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/policy"
	"github.com/checkmate-dev/checkmate/internal/server"
	"github.com/checkmate-dev/checkmate/internal/webhook"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CheckMate webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "Listen address")
	return cmd
}

func runServe(addr string) error {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GITHUB_TOKEN environment variable required")
	}
	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		return fmt.Errorf("WEBHOOK_SECRET environment variable required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	gw := gateway.NewRESTClient(os.Getenv("GITHUB_API_URL"), token, nil)
	verifier := emailverify.NewMXVerifier(nil)
	registry := policy.Registry(gw, verifier)
	loader := config.NewLoader(gw, logger)
	dispatcher := dispatch.New(loader, registry, logger)
	receiver := webhook.NewReceiver(secret, dispatcher, logger)
	srv := server.New(addr, receiver)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		color.Yellow("\nReceived %s, shutting down...", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		color.Green("Server stopped gracefully")
		return nil
	}
}
