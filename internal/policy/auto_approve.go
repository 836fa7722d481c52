package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/metrics"
	"github.com/checkmate-dev/checkmate/internal/report"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const autoApproveCheckName = "CheckMate PR Automatic Approval"

// AutoApprove approves pull requests opened by configured users or, when
// allBots is set, by any bot sender.
type AutoApprove struct {
	gw gateway.Gateway
}

func (p *AutoApprove) Name() types.PolicyName {
	return types.PolicyAutoApprove
}

func (p *AutoApprove) Match(ev *types.Event) bool {
	return matchPullRequest(ev, "opened", "synchronize")
}

func (p *AutoApprove) Run(ctx context.Context, in RunInput) error {
	return runCheck(ctx, p.gw, in, autoApproveCheckName, func(ctx context.Context) (report.Report, error) {
		opts, err := decodeOptions[types.AutoApproveOptions](in.Options)
		if err != nil {
			return report.Report{}, err
		}

		if !approvable(opts, in.Event.Sender) {
			return report.Report{
				Conclusion: types.ConclusionNeutral,
				Title:      "No automatic approval required",
				Summary:    "Nothing for me to do here",
			}, nil
		}

		if err := p.gw.ApprovePullRequest(ctx, in.Event.Repo, in.Event.PullRequest.Number); err != nil {
			text := "Got error."
			var apiErr *gateway.APIError
			if errors.As(err, &apiErr) {
				text = fmt.Sprintf("Got status %d.", apiErr.StatusCode)
			}
			return report.Report{
				Conclusion: types.ConclusionFailure,
				Title:      "Failed to approve the PR",
				Summary:    "Automatic approval failed",
				Text:       text,
			}, nil
		}
		metrics.ApprovalsIssued.Add(1)

		return report.Report{
			Conclusion: types.ConclusionSuccess,
			Title:      "PR approved!",
			Summary:    fmt.Sprintf("%s was automatically approved", in.Event.Sender.Type),
		}, nil
	})
}

// approvable reports whether the sender qualifies for automatic approval.
func approvable(opts types.AutoApproveOptions, sender types.User) bool {
	if opts.AllBots && sender.IsBot() {
		return true
	}
	normalized := types.NormalizeLogin(sender.Login)
	for _, user := range opts.Users {
		if types.NormalizeLogin(user) == normalized {
			return true
		}
	}
	return false
}
