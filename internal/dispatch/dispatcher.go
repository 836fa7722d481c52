// Package dispatch routes webhook events to the configured policies. One
// dispatch loads the repository configuration, matches every configured
// policy against the event, and runs the matches concurrently with a
// settle-all join: each policy finishes on its own, and one policy's
// failure never cancels or taints a sibling.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/checkmate-dev/checkmate/internal/metrics"
	"github.com/checkmate-dev/checkmate/internal/policy"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

// ConfigLoader resolves a repository's configuration. A nil config with a
// nil error means the repository is not configured at all.
type ConfigLoader interface {
	Load(ctx context.Context, repo types.Repository) (*types.RepoConfig, error)
}

// Dispatcher is the event-routing core.
type Dispatcher struct {
	loader   ConfigLoader
	registry map[types.PolicyName]policy.Policy
	logger   *slog.Logger
}

func New(loader ConfigLoader, registry map[types.PolicyName]policy.Policy, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{loader: loader, registry: registry, logger: logger}
}

// Dispatch routes one event. Policy failures are logged per policy and
// never returned; only a configuration load failure errors the dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *types.Event) error {
	metrics.DispatchesTotal.Add(1)

	cfg, err := d.loader.Load(ctx, ev.Repo)
	if err != nil {
		return fmt.Errorf("dispatching %s: %w", ev.Delivery, err)
	}
	if cfg == nil || len(cfg.Policies) == 0 {
		d.logger.Debug("repository not configured, nothing to dispatch",
			"repo", ev.Repo.FullName, "delivery", ev.Delivery)
		return nil
	}

	// One timestamp shared by every check run created for this event.
	startedAt := time.Now().UTC()

	type invocation struct {
		name types.PolicyName
		pol  policy.Policy
		in   policy.RunInput
	}
	var matched []invocation
	for _, pc := range cfg.Policies {
		name := types.PolicyName(pc.Name)
		pol, known := d.registry[name]
		if !known {
			// forward-compatible: unknown keys are configuration noise
			d.logger.Debug("skipping unknown policy key", "policy", pc.Name, "repo", ev.Repo.FullName)
			continue
		}
		if !pol.Match(ev) {
			continue
		}
		matched = append(matched, invocation{
			name: name,
			pol:  pol,
			in:   policy.RunInput{Event: ev, Options: pc.Options, StartedAt: startedAt},
		})
	}
	if len(matched) == 0 {
		return nil
	}

	results := make([]error, len(matched))
	var wg sync.WaitGroup
	for i, inv := range matched {
		wg.Add(1)
		go func(idx int, inv invocation) {
			defer wg.Done()
			results[idx] = inv.pol.Run(ctx, inv.in)
		}(i, inv)
	}
	wg.Wait()

	for i, err := range results {
		if err != nil {
			d.logger.Error("policy run failed",
				"policy", matched[i].name,
				"repo", ev.Repo.FullName,
				"delivery", ev.Delivery,
				"error", err)
		}
	}
	return nil
}
