package policy

import (
	"context"

	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/lint"
	"github.com/checkmate-dev/checkmate/internal/report"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const conventionalTitleCheckName = "CheckMate Conventional PR Title"

// ConventionalTitle verifies the pull request title is a conventional
// commit header.
type ConventionalTitle struct {
	gw gateway.Gateway
}

func (p *ConventionalTitle) Name() types.PolicyName {
	return types.PolicyConventionalTitle
}

func (p *ConventionalTitle) Match(ev *types.Event) bool {
	return matchPullRequest(ev, "opened", "edited", "synchronize")
}

func (p *ConventionalTitle) Run(ctx context.Context, in RunInput) error {
	return runCheck(ctx, p.gw, in, conventionalTitleCheckName, func(ctx context.Context) (report.Report, error) {
		opts, err := decodeOptions[types.LintOptions](in.Options)
		if err != nil {
			return report.Report{}, err
		}

		rules := lint.Defaults().Merge(opts.Rules)
		res := lint.Lint(in.Event.PullRequest.Title, rules)

		switch {
		case !res.Valid():
			return report.Report{
				Conclusion: types.ConclusionFailure,
				Title:      "Not conventional",
				Summary:    "The PR title is not conventional",
				Text:       report.TitleLintBlock(res),
			}, nil
		case len(res.Warnings) > 0:
			return report.Report{
				Conclusion: types.ConclusionSuccess,
				Title:      "Got warnings",
				Summary:    "The PR title is conventional, with warnings",
				Text:       report.TitleLintBlock(res),
			}, nil
		default:
			return report.Report{
				Conclusion: types.ConclusionSuccess,
				Title:      "Nice!",
				Summary:    "Good job, the PR title is conventional",
			}, nil
		}
	})
}
