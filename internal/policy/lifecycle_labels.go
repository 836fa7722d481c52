package policy

import (
	"context"
	"fmt"

	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/lifecycle"
	"github.com/checkmate-dev/checkmate/internal/metrics"
	"github.com/checkmate-dev/checkmate/internal/report"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const lifecycleLabelsCheckName = "CheckMate Lifecycle Labels"

// LifecycleLabels keeps one repository label on the pull request matching
// its current review lifecycle state, removing stale sibling labels.
type LifecycleLabels struct {
	gw gateway.Gateway
}

func (p *LifecycleLabels) Name() types.PolicyName {
	return types.PolicyLifecycleLabels
}

func (p *LifecycleLabels) Match(ev *types.Event) bool {
	if matchPullRequest(ev, "opened", "reopened", "synchronize", "ready_for_review", "converted_to_draft", "closed") {
		return true
	}
	if ev.Type != "pull_request_review" || ev.PullRequest == nil {
		return false
	}
	return ev.Action == "submitted" || ev.Action == "dismissed"
}

func (p *LifecycleLabels) Run(ctx context.Context, in RunInput) error {
	return runCheck(ctx, p.gw, in, lifecycleLabelsCheckName, func(ctx context.Context) (report.Report, error) {
		opts, err := decodeOptions[types.LifecycleLabelsOptions](in.Options)
		if err != nil {
			return report.Report{}, err
		}

		pr := in.Event.PullRequest
		if opts.IgnoreDrafts && pr.Draft {
			return report.Report{
				Conclusion: types.ConclusionSkipped,
				Title:      "Skipped",
				Summary:    "Ignoring draft pull requests",
			}, nil
		}
		if len(opts.ConfiguredStates()) == 0 {
			return report.Report{
				Conclusion: types.ConclusionNeutral,
				Title:      "Nothing for me to do here",
				Summary:    "No lifecycle labels configured",
			}, nil
		}

		state, err := lifecycle.Classify(ctx, p.gw, in.Event)
		if err != nil {
			return report.Failure("Failed to resolve the lifecycle state", err), nil
		}

		label, ok := opts.Labels[state]
		if !ok {
			return report.Report{
				Conclusion: types.ConclusionSuccess,
				Title:      "Label not configured",
				Summary:    fmt.Sprintf("No label configured for the %s state", state),
			}, nil
		}

		repoLabels, err := p.gw.ListRepoLabels(ctx, in.Event.Repo)
		if err != nil {
			return report.Failure("Failed to list repository labels", err), nil
		}
		if !labelExists(repoLabels, label) {
			return report.Report{
				Conclusion: types.ConclusionFailure,
				Title:      "Label not found",
				Summary:    fmt.Sprintf("The %q label does not exist in this repository", label),
			}, nil
		}

		// Drop stale sibling lifecycle labels before applying the current
		// one; labels unrelated to lifecycle tracking are untouched.
		hasTarget := false
		for _, current := range pr.Labels {
			if current.Name == label {
				hasTarget = true
				continue
			}
			if !siblingLifecycleLabel(opts, state, current.Name) {
				continue
			}
			if err := p.gw.RemoveLabel(ctx, in.Event.Repo, pr.Number, current.Name); err != nil {
				return report.Failure("Failed to remove a stale lifecycle label", err), nil
			}
			metrics.LabelMutations.Add(1)
		}

		if !hasTarget {
			if err := p.gw.AddLabels(ctx, in.Event.Repo, pr.Number, []string{label}); err != nil {
				return report.Failure("Failed to add the lifecycle label", err), nil
			}
			metrics.LabelMutations.Add(1)
		}

		return report.Report{
			Conclusion: types.ConclusionSuccess,
			Title:      "All Done!",
			Summary:    "Pull request labeled",
		}, nil
	})
}

func labelExists(labels []types.Label, name string) bool {
	for _, l := range labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// siblingLifecycleLabel reports whether name is the configured label of a
// lifecycle state other than the current one.
func siblingLifecycleLabel(opts types.LifecycleLabelsOptions, current types.LifecycleState, name string) bool {
	for state, label := range opts.Labels {
		if state != current && state.Valid() && label == name {
			return true
		}
	}
	return false
}
