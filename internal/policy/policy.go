// Package policy implements the configurable pull request policies. Each
// policy matches a set of event type/action pairs and manages exactly one
// check run per invocation, from in_progress to completed.
package policy

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/checkmate-dev/checkmate/internal/emailverify"
	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/metrics"
	"github.com/checkmate-dev/checkmate/internal/report"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

// detailsURL is the documentation link attached to every check run.
const detailsURL = "https://checkmate-dev.github.io/checkmate"

// RunInput carries one policy invocation's inputs. StartedAt is shared by
// every policy dispatched for the same event.
type RunInput struct {
	Event     *types.Event
	Options   *yaml.Node // nil when the policy key carried no value
	StartedAt time.Time
}

// Policy is one configurable pull request verification behavior.
type Policy interface {
	Name() types.PolicyName
	// Match is a pure predicate over the event's type, action and payload
	// shape. No network calls, no side effects.
	Match(ev *types.Event) bool
	Run(ctx context.Context, in RunInput) error
}

// Registry builds the static policy table. Built once at startup, read-only
// thereafter; the dispatcher skips configured keys that are not in it.
func Registry(gw gateway.Gateway, verifier emailverify.Verifier) map[types.PolicyName]Policy {
	policies := []Policy{
		&ConventionalCommits{gw: gw},
		&ConventionalTitle{gw: gw},
		&SignedCommits{gw: gw, verifier: verifier},
		&TasksList{gw: gw},
		&AutoApprove{gw: gw},
		&LifecycleLabels{gw: gw},
	}
	table := make(map[types.PolicyName]Policy, len(policies))
	for _, p := range policies {
		table[p.Name()] = p
	}
	return table
}

// matchPullRequest reports whether ev is a pull_request event carrying a
// pull request payload with one of the given actions.
func matchPullRequest(ev *types.Event, actions ...string) bool {
	if ev.Type != "pull_request" || ev.PullRequest == nil {
		return false
	}
	for _, a := range actions {
		if ev.Action == a {
			return true
		}
	}
	return false
}

// decodeOptions decodes a policy's raw options node. A nil node yields the
// zero value, which is every policy's default configuration.
func decodeOptions[T any](node *yaml.Node) (T, error) {
	var opts T
	if node == nil {
		return opts, nil
	}
	if err := node.Decode(&opts); err != nil {
		return opts, fmt.Errorf("decoding policy options: %w", err)
	}
	return opts, nil
}

// runCheck runs one policy invocation under the check-run lifecycle
// contract: create the check run in_progress, compute the verdict, then
// complete the same run exactly once. A verdict error still completes the
// run, with a failure conclusion; only a create failure aborts the run
// before any check run exists.
func runCheck(ctx context.Context, gw gateway.Gateway, in RunInput, name string, verdict func(ctx context.Context) (report.Report, error)) error {
	metrics.PolicyRunsTotal.Add(1)
	ev := in.Event

	id, err := gw.CreateCheckRun(ctx, ev.Repo, types.CheckRunCreate{
		HeadSHA:    ev.PullRequest.Head.SHA,
		Name:       name,
		DetailsURL: detailsURL,
		StartedAt:  in.StartedAt,
		Status:     types.CheckInProgress,
	})
	if err != nil {
		metrics.PolicyRunsFailed.Add(1)
		return fmt.Errorf("creating check run %q: %w", name, err)
	}

	rep, err := verdict(ctx)
	if err != nil {
		metrics.PolicyRunsFailed.Add(1)
		rep = report.Failure("Check failed", err)
	}

	update := types.CheckRunUpdate{
		Name:        name,
		DetailsURL:  detailsURL,
		StartedAt:   in.StartedAt,
		Status:      types.CheckCompleted,
		Conclusion:  rep.Conclusion,
		CompletedAt: time.Now().UTC(),
		Output:      rep.Output(),
	}
	if err := gw.UpdateCheckRun(ctx, ev.Repo, id, update); err != nil {
		metrics.PolicyRunsFailed.Add(1)
		return fmt.Errorf("completing check run %q: %w", name, err)
	}
	metrics.ChecksCompleted.Add(1)
	return nil
}
