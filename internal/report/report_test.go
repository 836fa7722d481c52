package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/checkmate-dev/checkmate/internal/lint"
	"github.com/checkmate-dev/checkmate/internal/tasklist"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

func TestLintBlock(t *testing.T) {
	res := lint.Result{
		Input:  "bad message",
		Errors: []lint.Problem{{Name: "type-empty", Level: 2, Message: "type may not be empty"}},
		Warnings: []lint.Problem{
			{Name: "body-leading-blank", Level: 1, Message: "body must have leading blank line"},
		},
	}

	block := LintBlock("https://github.com/acme/widget/commit/abc123", res)
	assert.Contains(t, block, "### https://github.com/acme/widget/commit/abc123")
	assert.Contains(t, block, "```\nbad message\n```")
	assert.Contains(t, block, "#### Errors")
	assert.Contains(t, block, "| type-empty | 2 | type may not be empty |")
	assert.Contains(t, block, "#### Warnings")
	assert.Contains(t, block, "| body-leading-blank | 1 |")
}

func TestLintBlock_NoProblems(t *testing.T) {
	block := LintBlock("heading", lint.Result{Input: "fine"})
	assert.NotContains(t, block, "#### Errors")
	assert.NotContains(t, block, "#### Warnings")
}

func TestTaskList(t *testing.T) {
	text := TaskList("The following tasks needs to be completed", []tasklist.Task{
		{Text: "task 2"},
	})
	assert.Equal(t, "### The following tasks needs to be completed\n- task 2", text)
}

func TestCommitList(t *testing.T) {
	text := CommitList([]types.RepoCommit{
		{HTMLURL: "https://github.com/acme/widget/commit/a"},
		{HTMLURL: "https://github.com/acme/widget/commit/b"},
	})
	assert.Equal(t, "- https://github.com/acme/widget/commit/a\n- https://github.com/acme/widget/commit/b", text)
}

func TestFailure(t *testing.T) {
	rep := Failure("Failed to list labels", errors.New("boom"))
	assert.Equal(t, types.ConclusionFailure, rep.Conclusion)
	assert.Equal(t, "Failed to list labels", rep.Title)
	assert.Contains(t, rep.Text, "boom")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "", Plural(1))
	assert.Equal(t, "s", Plural(2))
	assert.Equal(t, "s", Plural(0))
}
