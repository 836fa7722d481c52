// Package gateway defines the GitHub API surface the policies consume, and
// a REST implementation of it.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/checkmate-dev/checkmate/pkg/types"
)

// ErrNotFound marks a 404 from the API, for callers that treat absence as a
// normal condition (configuration fallback, missing branch protection).
var ErrNotFound = errors.New("not found")

// APIError is a non-success response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}

// Gateway is the GitHub API surface used by the dispatcher and policies.
// Implementations must be safe for concurrent independent calls; CheckMate
// issues no coordinated transactions.
type Gateway interface {
	// CreateCheckRun opens a check run and returns its id.
	CreateCheckRun(ctx context.Context, repo types.Repository, create types.CheckRunCreate) (int64, error)
	// UpdateCheckRun completes (or otherwise updates) an existing check run.
	UpdateCheckRun(ctx context.Context, repo types.Repository, id int64, update types.CheckRunUpdate) error

	// ListPullRequestCommits returns every commit of a pull request.
	ListPullRequestCommits(ctx context.Context, repo types.Repository, number int) ([]types.RepoCommit, error)
	// ListPullRequestReviews returns every submitted review of a pull request.
	ListPullRequestReviews(ctx context.Context, repo types.Repository, number int) ([]types.Review, error)
	// ApprovePullRequest submits an approving review on behalf of the app.
	ApprovePullRequest(ctx context.Context, repo types.Repository, number int) error

	// ListRepoLabels returns the labels defined on the repository.
	ListRepoLabels(ctx context.Context, repo types.Repository) ([]types.Label, error)
	// AddLabels attaches labels to a pull request.
	AddLabels(ctx context.Context, repo types.Repository, number int, labels []string) error
	// RemoveLabel detaches one label from a pull request.
	RemoveLabel(ctx context.Context, repo types.Repository, number int, label string) error

	// RequiredApprovals returns the approving-review count required by the
	// branch protection of the given branch. Returns ErrNotFound when the
	// branch is unprotected.
	RequiredApprovals(ctx context.Context, repo types.Repository, branch string) (int, error)

	// FileContent fetches a file from the repository's default branch.
	// Returns ErrNotFound when the file does not exist.
	FileContent(ctx context.Context, repo types.Repository, path string) ([]byte, error)
}
