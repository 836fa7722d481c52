package policy

import (
	"context"
	"fmt"

	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/internal/report"
	"github.com/checkmate-dev/checkmate/internal/tasklist"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

const tasksListCheckName = "CheckMate Tasks List"

// TasksList verifies every task-list item in the pull request body is
// checked off.
type TasksList struct {
	gw gateway.Gateway
}

func (p *TasksList) Name() types.PolicyName {
	return types.PolicyTasksList
}

func (p *TasksList) Match(ev *types.Event) bool {
	return matchPullRequest(ev, "opened", "edited", "synchronize")
}

func (p *TasksList) Run(ctx context.Context, in RunInput) error {
	return runCheck(ctx, p.gw, in, tasksListCheckName, func(_ context.Context) (report.Report, error) {
		checked, unchecked := tasklist.Split(in.Event.PullRequest.Body)

		switch {
		case len(unchecked) > 0:
			n := len(unchecked)
			return report.Report{
				Conclusion: types.ConclusionFailure,
				Title:      fmt.Sprintf("Found %d unchecked task%s", n, report.Plural(n)),
				Summary:    "I'm sure you know what to do with these",
				Text:       report.TaskList("The following tasks need to be completed", unchecked),
			}, nil
		case len(checked) > 0:
			return report.Report{
				Conclusion: types.ConclusionSuccess,
				Title:      "Well Done!",
				Summary:    "You made it through",
				Text:       report.TaskList("Here's a list of your accomplishments", checked),
			}, nil
		default:
			return report.Report{
				Conclusion: types.ConclusionSuccess,
				Title:      "Nothing for me to do here",
				Summary:    "I can't seem to find any tasks lists",
			}, nil
		}
	})
}
