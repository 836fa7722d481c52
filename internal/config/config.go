// Package config resolves per-repository bot configuration from GitHub
// contents, with a fallback to the owner's shared .github repository.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/metrics"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const configPath = ".github/checkmate.yml"

// fallbackRepo is the owner-level repository GitHub treats as the home
// for shared community health files.
const fallbackRepo = ".github"

// Loader fetches and parses repository configuration.
type Loader struct {
	gw     gateway.Gateway
	logger *slog.Logger
}

func NewLoader(gw gateway.Gateway, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{gw: gw, logger: logger}
}

// Load returns the repository's configuration, falling back to the
// owner's .github repository when the event repository carries none.
// A nil config with a nil error means no configuration exists anywhere.
func (l *Loader) Load(ctx context.Context, repo types.Repository) (*types.RepoConfig, error) {
	raw, err := l.gw.FileContent(ctx, repo, configPath)
	if errors.Is(err, gateway.ErrNotFound) {
		shared := types.Repository{
			Name:     fallbackRepo,
			FullName: repo.Owner.Login + "/" + fallbackRepo,
			Owner:    repo.Owner,
		}
		raw, err = l.gw.FileContent(ctx, shared, configPath)
		if errors.Is(err, gateway.ErrNotFound) {
			metrics.ConfigsMissing.Add(1)
			l.logger.Debug("no configuration found", "repo", repo.FullName)
			return nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading config for %s: %w", repo.FullName, err)
	}

	cfg, err := types.ParseRepoConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing config for %s: %w", repo.FullName, err)
	}
	return cfg, nil
}
