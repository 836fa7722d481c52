package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/lint"
	"github.com/checkmate-dev/checkmate/internal/report"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const conventionalCommitsCheckName = "CheckMate Conventional Commits"

// ConventionalCommits verifies every commit message on the pull request
// against the conventional-commit ruleset.
type ConventionalCommits struct {
	gw gateway.Gateway
}

func (p *ConventionalCommits) Name() types.PolicyName {
	return types.PolicyConventionalCommits
}

func (p *ConventionalCommits) Match(ev *types.Event) bool {
	return matchPullRequest(ev, "opened", "edited", "synchronize")
}

func (p *ConventionalCommits) Run(ctx context.Context, in RunInput) error {
	return runCheck(ctx, p.gw, in, conventionalCommitsCheckName, func(ctx context.Context) (report.Report, error) {
		opts, err := decodeOptions[types.LintOptions](in.Options)
		if err != nil {
			return report.Report{}, err
		}

		commits, err := p.gw.ListPullRequestCommits(ctx, in.Event.Repo, in.Event.PullRequest.Number)
		if err != nil {
			return report.Report{}, fmt.Errorf("listing commits: %w", err)
		}
		if len(commits) == 0 {
			return report.Report{
				Conclusion: types.ConclusionFailure,
				Title:      "No commits found",
				Summary:    "I could not find any commits on this pull request",
			}, nil
		}

		rules := lint.Defaults().Merge(opts.Rules)

		type lintStatus struct {
			commitURL string
			result    lint.Result
		}
		var errored, warned []lintStatus
		for _, commit := range commits {
			res := lint.Lint(commit.Commit.Message, rules)
			status := lintStatus{commitURL: commit.HTMLURL, result: res}
			if !res.Valid() {
				errored = append(errored, status)
			} else if len(res.Warnings) > 0 {
				warned = append(warned, status)
			}
		}

		numErrors := len(errored)
		numWarnings := len(warned)
		switch {
		case numErrors > 0:
			summary := fmt.Sprintf("Oops, looks like we got %d non-conventional commit message%s",
				numErrors, report.Plural(numErrors))
			if numWarnings > 0 {
				summary = fmt.Sprintf("Oops, looks like we got %d errors, and %d warnings",
					numErrors, numWarnings)
			}
			var blocks []string
			for _, status := range append(errored, warned...) {
				blocks = append(blocks, report.LintBlock(status.commitURL, status.result))
			}
			return report.Report{
				Conclusion: types.ConclusionFailure,
				Title:      "Linting Failed",
				Summary:    summary,
				Text:       strings.Join(blocks, "\n"),
			}, nil
		case numWarnings > 0:
			var blocks []string
			for _, status := range warned {
				blocks = append(blocks, report.LintBlock(status.commitURL, status.result))
			}
			return report.Report{
				Conclusion: types.ConclusionSuccess,
				Title:      "Linting Found Warnings",
				Summary: fmt.Sprintf("Hmmm... we got %d warning%s you might want to look at",
					numWarnings, report.Plural(numWarnings)),
				Text: strings.Join(blocks, "\n"),
			}, nil
		default:
			return report.Report{
				Conclusion: types.ConclusionSuccess,
				Title:      "Good Job!",
				Summary:    "Nothing to do here, no one told me you're a commit-message-master",
			}, nil
		}
	})
}
