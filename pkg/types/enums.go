// Package types defines the public domain types for the CheckMate GitHub App.
package types

// CheckStatus represents the lifecycle state of a check run.
type CheckStatus string

// CheckStatus values mirror the states the checks API accepts.
const (
	CheckInProgress CheckStatus = "in_progress"
	CheckCompleted  CheckStatus = "completed"
)

// CheckConclusion is the terminal verdict of a completed check run.
type CheckConclusion string

// CheckConclusion values enumerate the verdicts CheckMate reports.
const (
	ConclusionSuccess CheckConclusion = "success"
	ConclusionFailure CheckConclusion = "failure"
	ConclusionNeutral CheckConclusion = "neutral"
	ConclusionSkipped CheckConclusion = "skipped"
)

// LifecycleState classifies where a pull request stands in its review cycle.
// States are mutually exclusive and recomputed per event, never persisted.
type LifecycleState string

const (
	StateReviewRequired      LifecycleState = "reviewRequired"
	StateChangesRequested    LifecycleState = "changesRequested"
	StateMoreReviewsRequired LifecycleState = "moreReviewsRequired"
	StateReviewStarted       LifecycleState = "reviewStarted"
	StateApproved            LifecycleState = "approved"
	StateMerged              LifecycleState = "merged"
)

// LifecycleStates lists every lifecycle state. The order is stable so label
// reconciliation and reports are deterministic.
func LifecycleStates() []LifecycleState {
	return []LifecycleState{
		StateReviewRequired,
		StateChangesRequested,
		StateMoreReviewsRequired,
		StateReviewStarted,
		StateApproved,
		StateMerged,
	}
}

// Valid reports whether s is one of the known lifecycle states.
func (s LifecycleState) Valid() bool {
	for _, known := range LifecycleStates() {
		if s == known {
			return true
		}
	}
	return false
}

// ReviewState is the submitted state of a pull request review.
type ReviewState string

// ReviewState values as returned by the reviews listing API.
const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewDismissed        ReviewState = "DISMISSED"
)

// PolicyName identifies one of the configurable pull request policies.
// The values double as the keys under "pr" in checkmate.yml.
type PolicyName string

const (
	PolicyConventionalCommits PolicyName = "conventionalCommits"
	PolicyConventionalTitle   PolicyName = "conventionalTitle"
	PolicySignedCommits       PolicyName = "signedCommits"
	PolicyTasksList           PolicyName = "tasksList"
	PolicyAutoApprove         PolicyName = "autoApprove"
	PolicyLifecycleLabels     PolicyName = "lifecycleLabels"
)

// PolicyNames lists every known policy in registration order.
func PolicyNames() []PolicyName {
	return []PolicyName{
		PolicyConventionalCommits,
		PolicyConventionalTitle,
		PolicySignedCommits,
		PolicyTasksList,
		PolicyAutoApprove,
		PolicyLifecycleLabels,
	}
}
