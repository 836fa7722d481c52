// Package lifecycle classifies where a pull request stands in its review
// cycle. The state is recomputed fresh per event from reviews and branch
// protection, never persisted.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/checkmate-dev/checkmate/pkg/types"
)

// Source is the slice of the GitHub gateway the classifier reads from.
type Source interface {
	ListPullRequestReviews(ctx context.Context, repo types.Repository, number int) ([]types.Review, error)
	RequiredApprovals(ctx context.Context, repo types.Repository, branch string) (int, error)
}

// Classify computes the lifecycle state for the pull request carried by ev.
// Priority order, first match wins:
//
//  1. closed and merged
//  2. no reviews at all
//  3. an outstanding change request, regardless of approval count
//  4. reviews exist but none approve
//  5. approvals measured against the base branch's required count
//
// A change request always outranks approvals so a blocking reviewer is
// never overridden by quorum. Reviews are reduced to the latest per
// (reviewer, commit) pair first; a reviewer's stale verdict on the same
// commit does not outlive their later one.
func Classify(ctx context.Context, src Source, ev *types.Event) (types.LifecycleState, error) {
	pr := ev.PullRequest
	if pr == nil {
		return "", fmt.Errorf("event %s carries no pull request", ev.Delivery)
	}
	if ev.Action == "closed" && pr.Merged {
		return types.StateMerged, nil
	}

	reviews, err := src.ListPullRequestReviews(ctx, ev.Repo, pr.Number)
	if err != nil {
		return "", fmt.Errorf("listing reviews: %w", err)
	}
	latest := dedupe(reviews)
	if len(latest) == 0 {
		return types.StateReviewRequired, nil
	}

	approvals := 0
	for _, r := range latest {
		switch r.State {
		case types.ReviewChangesRequested:
			return types.StateChangesRequested, nil
		case types.ReviewApproved:
			approvals++
		}
	}
	if approvals == 0 {
		return types.StateReviewStarted, nil
	}

	// Missing or unreadable branch protection means no quorum requirement.
	required, err := src.RequiredApprovals(ctx, ev.Repo, pr.Base.Ref)
	if err != nil {
		required = 0
	}
	if approvals < required {
		return types.StateMoreReviewsRequired, nil
	}
	return types.StateApproved, nil
}

// dedupe keeps only the most recently submitted review per
// (reviewer login, commit id) pair.
func dedupe(reviews []types.Review) []types.Review {
	type key struct {
		login    string
		commitID string
	}
	latest := make(map[key]types.Review)
	var order []key
	for _, r := range reviews {
		k := key{login: r.User.Login, commitID: r.CommitID}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
			latest[k] = r
			continue
		}
		if r.SubmittedAt.After(prev.SubmittedAt) {
			latest[k] = r
		}
	}
	out := make([]types.Review, 0, len(latest))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}
