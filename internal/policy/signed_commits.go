package policy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/checkmate-dev/checkmate/internal/emailverify"
	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/report"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const signedCommitsCheckName = "CheckMate Signed Commits"

// signOffTrailer matches a DCO sign-off line at the start of a line.
var signOffTrailer = regexp.MustCompile(`^Signed-off-by: (.+) <(.+)>$`)

// verifyConcurrency bounds in-flight email lookups per invocation.
const verifyConcurrency = 4

// SignedCommits verifies every human commit carries a Signed-off-by
// trailer matching the author or committer, with a deliverable email.
type SignedCommits struct {
	gw       gateway.Gateway
	verifier emailverify.Verifier
}

func (p *SignedCommits) Name() types.PolicyName {
	return types.PolicySignedCommits
}

func (p *SignedCommits) Match(ev *types.Event) bool {
	return matchPullRequest(ev, "opened", "edited", "synchronize")
}

func (p *SignedCommits) Run(ctx context.Context, in RunInput) error {
	return runCheck(ctx, p.gw, in, signedCommitsCheckName, func(ctx context.Context) (report.Report, error) {
		opts, err := decodeOptions[types.SignedCommitsOptions](in.Options)
		if err != nil {
			return report.Report{}, err
		}

		commits, err := p.gw.ListPullRequestCommits(ctx, in.Event.Repo, in.Event.PullRequest.Number)
		if err != nil {
			return report.Report{}, fmt.Errorf("listing commits: %w", err)
		}

		unsigned := make([]bool, len(commits))
		g := new(errgroup.Group)
		g.SetLimit(verifyConcurrency)
		for i, commit := range commits {
			i, commit := i, commit
			if skipIdentity(commit.Commit, opts.Ignore) {
				continue
			}
			g.Go(func() error {
				unsigned[i] = !p.verifySignOff(ctx, commit.Commit)
				return nil
			})
		}
		_ = g.Wait()

		var unsignedCommits []types.RepoCommit
		for i, commit := range commits {
			if unsigned[i] {
				unsignedCommits = append(unsignedCommits, commit)
			}
		}

		if n := len(unsignedCommits); n > 0 {
			return report.Report{
				Conclusion: types.ConclusionFailure,
				Title:      fmt.Sprintf("Found %d unsigned commit%s", n, report.Plural(n)),
				Summary:    "We need to get these commits signed",
				Text:       report.CommitList(unsignedCommits),
			}, nil
		}
		return report.Report{
			Conclusion: types.ConclusionSuccess,
			Title:      "Well Done!",
			Summary:    "All commits are signed",
		}, nil
	})
}

// skipIdentity reports whether the commit is exempt from sign-off
// verification: bot identities and configured ignore-list entries.
func skipIdentity(c types.CommitDetail, ignore types.IgnoreList) bool {
	if c.Author.IsBot() || c.Committer.IsBot() {
		return true
	}
	for _, email := range ignore.Emails {
		if strings.EqualFold(email, c.Author.Email) || strings.EqualFold(email, c.Committer.Email) {
			return true
		}
	}
	for _, name := range ignore.Names {
		if name == c.Author.Name || name == c.Committer.Name {
			return true
		}
	}
	return false
}

// verifySignOff reports whether the commit message carries at least one
// Signed-off-by trailer matching the author or committer identity, and
// every matching trailer's email is deliverable.
func (p *SignedCommits) verifySignOff(ctx context.Context, c types.CommitDetail) bool {
	var matched []types.GitIdentity
	for _, line := range strings.Split(c.Message, "\n") {
		m := signOffTrailer.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		signed := types.GitIdentity{Name: m[1], Email: m[2]}
		if signed == c.Author || signed == c.Committer {
			matched = append(matched, signed)
		}
	}
	if len(matched) == 0 {
		return false
	}
	for _, signed := range matched {
		if err := p.verifier.Verify(ctx, signed.Email); err != nil {
			return false
		}
	}
	return true
}
