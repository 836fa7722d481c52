// Package lambda provides shared initialization for Lambda handlers.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/checkmate-dev/checkmate/internal/config"
	"github.com/checkmate-dev/checkmate/internal/dispatch"
	"github.com/checkmate-dev/checkmate/internal/emailverify"
	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/policy"
	"github.com/checkmate-dev/checkmate/internal/webhook"
)

// Deps holds shared dependencies for Lambda handlers. Built once per
// container and reused across invocations.
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

// appSecrets is the JSON shape stored in Secrets Manager when SECRET_ARN
// is configured.
type appSecrets struct {
	GitHubToken   string `json:"githubToken"`
	WebhookSecret string `json:"webhookSecret"`
}

// Init creates shared dependencies from environment variables.
// Reads: GITHUB_TOKEN, WEBHOOK_SECRET, and optionally SECRET_ARN (a
// Secrets Manager secret overriding both) and GITHUB_API_URL.
func Init(ctx context.Context) (*Deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	token := os.Getenv("GITHUB_TOKEN")
	webhookSecret := os.Getenv("WEBHOOK_SECRET")

	if arn := os.Getenv("SECRET_ARN"); arn != "" {
		secrets, err := fetchSecrets(ctx, arn)
		if err != nil {
			return nil, fmt.Errorf("resolving SECRET_ARN: %w", err)
		}
		if secrets.GitHubToken != "" {
			token = secrets.GitHubToken
		}
		if secrets.WebhookSecret != "" {
			webhookSecret = secrets.WebhookSecret
		}
	}
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable required")
	}
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

func fetchSecrets(ctx context.Context, arn string) (appSecrets, error) {
	var secrets appSecrets

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return secrets, fmt.Errorf("loading AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(arn),
	})
	if err != nil {
		return secrets, fmt.Errorf("fetching secret: %w", err)
	}
	if out.SecretString == nil {
		return secrets, fmt.Errorf("secret %s has no string value", arn)
	}
	if err := json.Unmarshal([]byte(*out.SecretString), &secrets); err != nil {
		return secrets, fmt.Errorf("decoding secret: %w", err)
	}
	return secrets, nil
}
