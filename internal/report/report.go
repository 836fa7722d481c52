// Package report shapes policy verdicts into check-run output. Everything
// here is pure formatting; no I/O.
package report

import (
	"fmt"
	"strings"

	"github.com/checkmate-dev/checkmate/internal/lint"
	"github.com/checkmate-dev/checkmate/internal/tasklist"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

// Report is one policy's verdict, ready to complete a check run.
type Report struct {
	Conclusion types.CheckConclusion
	Title      string
	Summary    string
	Text       string
}

// Output converts the report into the checks API output record.
func (r Report) Output() types.CheckRunOutput {
	return types.CheckRunOutput{Title: r.Title, Summary: r.Summary, Text: r.Text}
}

// Failure builds a failure report from an upstream error. Used when an API
// call a policy depends on did not succeed.
func Failure(title string, err error) Report {
	return Report{
		Conclusion: types.ConclusionFailure,
		Title:      title,
		Summary:    "Something went wrong while running this check",
		Text:       fmt.Sprintf("`%v`", err),
	}
}

// LintBlock renders one lint result as a markdown segment: the linted input
// as a heading and code fence, followed by warning and error tables.
// For commit results the heading is the commit URL; for titles it is the
// title itself.
func LintBlock(heading string, res lint.Result) string {
	lines := []string{
		fmt.Sprintf("### %s", heading),
		"```",
		res.Input,
		"```",
	}
	lines = append(lines, problemTable("Warnings", res.Warnings)...)
	lines = append(lines, problemTable("Errors", res.Errors)...)
	return strings.Join(lines, "\n")
}

// TitleLintBlock renders a PR title lint result without the code fence
// duplication of the input heading.
func TitleLintBlock(res lint.Result) string {
	lines := []string{fmt.Sprintf("### %s", res.Input)}
	lines = append(lines, problemTable("Warnings", res.Warnings)...)
	lines = append(lines, problemTable("Errors", res.Errors)...)
	return strings.Join(lines, "\n")
}

func problemTable(heading string, problems []lint.Problem) []string {
	if len(problems) == 0 {
		return nil
	}
	lines := []string{
		fmt.Sprintf("#### %s", heading),
		"| name | level | message |",
		"| - | - | - |",
	}
	for _, p := range problems {
		lines = append(lines, fmt.Sprintf("| %s | %d | %s |", p.Name, p.Level, p.Message))
	}
	return lines
}

// TaskList renders tasks as a markdown list under a heading.
func TaskList(header string, tasks []tasklist.Task) string {
	lines := []string{fmt.Sprintf("### %s", header)}
	for _, task := range tasks {
		lines = append(lines, fmt.Sprintf("- %s", task.Text))
	}
	return strings.Join(lines, "\n")
}

// CommitList renders commit URLs as a markdown list.
func CommitList(commits []types.RepoCommit) string {
	lines := make([]string, 0, len(commits))
	for _, commit := range commits {
		lines = append(lines, fmt.Sprintf("- %s", commit.HTMLURL))
	}
	return strings.Join(lines, "\n")
}

// Plural returns "s" when n calls for a plural noun.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
