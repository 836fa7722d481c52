package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmate-dev/checkmate/internal/testutil"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const lifecycleOptions = `labels:
  reviewRequired: "status: needs review"
  approved: "status: approved"
  merged: "status: merged"
`

func TestLifecycleLabelsIgnoresDrafts(t *testing.T) {
	gw := testutil.NewMockGateway()
	p := &LifecycleLabels{gw: gw}
	ev := prEvent("pull_request", "opened")
	ev.PullRequest.Draft = true

	in := runInput(ev, "ignoreDrafts: true\n"+lifecycleOptions)
	require.NoError(t, p.Run(context.Background(), in))

	update := gw.CheckRuns()[0].Updates[0]
	assert.Equal(t, types.ConclusionSkipped, update.Conclusion)
	assert.Empty(t, gw.LabelChanges())
}

func TestLifecycleLabelsNoLabelsConfigured(t *testing.T) {
	gw := testutil.NewMockGateway()
	p := &LifecycleLabels{gw: gw}

	require.NoError(t, p.Run(context.Background(), runInput(prEvent("pull_request", "opened"), "")))

	update := gw.CheckRuns()[0].Updates[0]
	assert.Equal(t, types.ConclusionNeutral, update.Conclusion)
	assert.Equal(t, "Nothing for me to do here", update.Output.Title)
	assert.Empty(t, gw.LabelChanges())
}

func TestLifecycleLabelsUnrecognizedKeysOnly(t *testing.T) {
	gw := testutil.NewMockGateway()
	p := &LifecycleLabels{gw: gw}

	in := runInput(prEvent("pull_request", "opened"), "labels:\n  somethingElse: nope\n")
	require.NoError(t, p.Run(context.Background(), in))

	assert.Equal(t, types.ConclusionNeutral, gw.CheckRuns()[0].Updates[0].Conclusion)
}

func TestLifecycleLabelsStateWithoutMapping(t *testing.T) {
	gw := testutil.NewMockGateway()
	// One comment review puts the PR in reviewStarted, which has no mapping.
	gw.Reviews = []types.Review{{
		User:        types.User{Login: "alice"},
		CommitID:    "c1",
		State:       types.ReviewCommented,
		SubmittedAt: time.Now(),
	}}
	p := &LifecycleLabels{gw: gw}

	require.NoError(t, p.Run(context.Background(), runInput(prEvent("pull_request", "opened"), lifecycleOptions)))

	update := gw.CheckRuns()[0].Updates[0]
	assert.Equal(t, types.ConclusionSuccess, update.Conclusion)
	assert.Equal(t, "Label not configured", update.Output.Title)
	assert.Empty(t, gw.LabelChanges())
}

func TestLifecycleLabelsMissingRepoLabel(t *testing.T) {
	gw := testutil.NewMockGateway()
	p := &LifecycleLabels{gw: gw}

	require.NoError(t, p.Run(context.Background(), runInput(prEvent("pull_request", "opened"), lifecycleOptions)))

	update := gw.CheckRuns()[0].Updates[0]
	assert.Equal(t, types.ConclusionFailure, update.Conclusion)
	assert.Equal(t, "Label not found", update.Output.Title)
	assert.Empty(t, gw.LabelChanges())
}

func TestLifecycleLabelsAppliesLabel(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.RepoLabels = []types.Label{
		{Name: "status: needs review"},
		{Name: "status: approved"},
		{Name: "status: merged"},
	}
	p := &LifecycleLabels{gw: gw}

	require.NoError(t, p.Run(context.Background(), runInput(prEvent("pull_request", "opened"), lifecycleOptions)))

	update := gw.CheckRuns()[0].Updates[0]
	assert.Equal(t, types.ConclusionSuccess, update.Conclusion)
	assert.Equal(t, "All Done!", update.Output.Title)
	assert.Equal(t, "Pull request labeled", update.Output.Summary)

	changes := gw.LabelChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, []string{"status: needs review"}, changes[0].Added)
}

func TestLifecycleLabelsReplacesSibling(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.RepoLabels = []types.Label{
		{Name: "status: needs review"},
		{Name: "status: approved"},
		{Name: "status: merged"},
	}
	p := &LifecycleLabels{gw: gw}
	ev := prEvent("pull_request", "closed")
	ev.PullRequest.Merged = true
	ev.PullRequest.Labels = []types.Label{
		{Name: "status: approved"},
		{Name: "enhancement"},
	}

	require.NoError(t, p.Run(context.Background(), runInput(ev, lifecycleOptions)))

	changes := gw.LabelChanges()
	require.Len(t, changes, 2)
	assert.Equal(t, "status: approved", changes[0].Removed)
	assert.Equal(t, []string{"status: merged"}, changes[1].Added)
}

func TestLifecycleLabelsAlreadyLabeled(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.RepoLabels = []types.Label{{Name: "status: needs review"}}
	p := &LifecycleLabels{gw: gw}
	ev := prEvent("pull_request", "opened")
	ev.PullRequest.Labels = []types.Label{{Name: "status: needs review"}}

	require.NoError(t, p.Run(context.Background(), runInput(ev, lifecycleOptions)))

	assert.Equal(t, types.ConclusionSuccess, gw.CheckRuns()[0].Updates[0].Conclusion)
	assert.Empty(t, gw.LabelChanges())
}

func TestLifecycleLabelsRemoveFailureReportsFailure(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.RepoLabels = []types.Label{
		{Name: "status: needs review"},
		{Name: "status: approved"},
	}
	gw.Errs["RemoveLabel"] = assert.AnError
	p := &LifecycleLabels{gw: gw}
	ev := prEvent("pull_request", "opened")
	ev.PullRequest.Labels = []types.Label{{Name: "status: approved"}}

	require.NoError(t, p.Run(context.Background(), runInput(ev, lifecycleOptions)))

	runs := gw.CheckRuns()
	require.Len(t, runs, 1)
	require.Len(t, runs[0].Updates, 1)
	assert.Equal(t, types.ConclusionFailure, runs[0].Updates[0].Conclusion)
}
