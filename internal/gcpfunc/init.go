// Package gcpfunc provides shared initialization for Cloud Function handlers.
package gcpfunc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/checkmate-dev/checkmate/internal/config"
	"github.com/checkmate-dev/checkmate/internal/dispatch"
	"github.com/checkmate-dev/checkmate/internal/emailverify"
	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/policy"
	"github.com/checkmate-dev/checkmate/internal/webhook"
)

// Deps holds shared dependencies for Cloud Function handlers.
type Deps struct {
	Gateway  gateway.Gateway
	Receiver *webhook.Receiver
	Logger   *slog.Logger
}

var (
	deps     *Deps
	depsOnce sync.Once
	depsErr  error
)

// GetDeps returns the cached dependencies, initializing them on first use.
func GetDeps() (*Deps, error) {
	depsOnce.Do(func() {
		deps, depsErr = Init(context.Background())
	})
	return deps, depsErr
}

// Init creates shared dependencies from environment variables.
// Reads: GITHUB_TOKEN, WEBHOOK_SECRET, and optionally GITHUB_API_URL.
func Init(_ context.Context) (*Deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable required")
	}
	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	if webhookSecret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET environment variable required")
	}

	gw := gateway.NewRESTClient(os.Getenv("GITHUB_API_URL"), token, nil)
	verifier := emailverify.NewMXVerifier(nil)
	registry := policy.Registry(gw, verifier)
	loader := config.NewLoader(gw, logger)
	dispatcher := dispatch.New(loader, registry, logger)
	receiver := webhook.NewReceiver(webhookSecret, dispatcher, logger)

	return &Deps{
		Gateway:  gw,
		Receiver: receiver,
		Logger:   logger,
	}, nil
}
