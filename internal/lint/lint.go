// Package lint implements conventional-commit message linting with
// commitlint-compatible named rules and severities.
package lint

import (
	"regexp"
	"sort"
	"strings"

	"github.com/checkmate-dev/checkmate/pkg/types"
)

// Rule severities.
const (
	SeverityOff     = 0
	SeverityWarning = 1
	SeverityError   = 2
)

// Problem is a single rule violation.
type Problem struct {
	Name    string
	Level   int
	Message string
}

// Result is the outcome of linting one message. A result with no errors is
// valid; warnings do not affect validity.
type Result struct {
	Input    string
	Errors   []Problem
	Warnings []Problem
}

// Valid reports whether the message passed every error-level rule.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Ruleset maps rule names to their configuration.
type Ruleset map[string]types.LintRule

// Merge returns a copy of rs with overrides applied on top. The receiver is
// not modified.
func (rs Ruleset) Merge(overrides map[string]types.LintRule) Ruleset {
	merged := make(Ruleset, len(rs)+len(overrides))
	for name, rule := range rs {
		merged[name] = rule
	}
	for name, rule := range overrides {
		merged[name] = rule
	}
	return merged
}

// Defaults returns the conventional ruleset applied when a repository does
// not configure its own rules.
func Defaults() Ruleset {
	return Ruleset{
		"type-empty":             {Severity: SeverityError, Condition: "never"},
		"type-case":              {Severity: SeverityError, Condition: "always", Value: "lower-case"},
		"type-enum":              {Severity: SeverityError, Condition: "always", Value: []any{"build", "chore", "ci", "docs", "feat", "fix", "perf", "refactor", "revert", "style", "test"}},
		"subject-empty":          {Severity: SeverityError, Condition: "never"},
		"subject-case":           {Severity: SeverityError, Condition: "never", Value: []any{"sentence-case", "start-case", "pascal-case", "upper-case"}},
		"subject-full-stop":      {Severity: SeverityError, Condition: "never", Value: "."},
		"header-max-length":      {Severity: SeverityError, Condition: "always", Value: 100},
		"header-trim":            {Severity: SeverityError, Condition: "always"},
		"body-leading-blank":     {Severity: SeverityWarning, Condition: "always"},
		"body-max-line-length":   {Severity: SeverityError, Condition: "always", Value: 100},
		"footer-leading-blank":   {Severity: SeverityWarning, Condition: "always"},
		"footer-max-line-length": {Severity: SeverityError, Condition: "always", Value: 100},
	}
}

// canonicalOrder fixes the evaluation order of the built-in rules so results
// are deterministic regardless of map iteration.
var canonicalOrder = []string{
	"type-empty",
	"type-case",
	"type-enum",
	"subject-empty",
	"subject-case",
	"subject-full-stop",
	"header-max-length",
	"header-trim",
	"body-leading-blank",
	"body-max-line-length",
	"footer-leading-blank",
	"footer-max-line-length",
}

// Lint evaluates a commit message (or PR title) against the ruleset.
// Rule names without a registered check are ignored as configuration noise.
func Lint(message string, rules Ruleset) Result {
	p := parse(message)
	res := Result{Input: message}

	for _, name := range orderedNames(rules) {
		rule := rules[name]
		if rule.Severity == SeverityOff {
			continue
		}
		check, ok := checks[name]
		if !ok {
			continue
		}
		violated, msg := check(p, rule)
		if !violated {
			continue
		}
		problem := Problem{Name: name, Level: rule.Severity, Message: msg}
		if rule.Severity == SeverityError {
			res.Errors = append(res.Errors, problem)
		} else {
			res.Warnings = append(res.Warnings, problem)
		}
	}
	return res
}

func orderedNames(rules Ruleset) []string {
	names := make([]string, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, name := range canonicalOrder {
		if _, ok := rules[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range rules {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// headerPattern splits a conventional header into type, scope, breaking
// marker and subject. A non-matching header leaves type and subject empty,
// which the type-empty and subject-empty rules then flag.
var headerPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?(!)?: (.*)$`)

// trailerPattern recognizes footer trailer lines such as
// "Signed-off-by: Jane <jane@example.com>" or "BREAKING CHANGE: ...".
var trailerPattern = regexp.MustCompile(`^(BREAKING CHANGE|[A-Za-z][A-Za-z-]*): .+$`)

type parsed struct {
	header  string
	typ     string
	scope   string
	subject string

	bodyLines   []string
	footerLines []string

	bodySeparated   bool // blank line between header and body
	footerSeparated bool // blank line between body and footer
}

func parse(message string) parsed {
	lines := strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n")

	p := parsed{header: lines[0], bodySeparated: true, footerSeparated: true}
	if m := headerPattern.FindStringSubmatch(p.header); m != nil {
		p.typ = m[1]
		p.scope = m[2]
		p.subject = m[4]
	}

	rest := lines[1:]
	if !hasContent(rest) {
		return p
	}
	p.bodySeparated = rest[0] == ""

	// The footer is the trailing run of trailer-shaped lines.
	end := len(rest) - 1
	for end >= 0 && rest[end] == "" {
		end--
	}
	start := end
	for start >= 0 && rest[start] != "" && trailerPattern.MatchString(rest[start]) {
		start--
	}
	start++
	if start <= end {
		p.footerLines = rest[start : end+1]
		p.footerSeparated = start == 0 || rest[start-1] == ""
		rest = rest[:start]
	}
	p.bodyLines = trimBlank(rest)
	return p
}

func hasContent(lines []string) bool {
	for _, line := range lines {
		if line != "" {
			return true
		}
	}
	return false
}

func trimBlank(lines []string) []string {
	start := 0
	for start < len(lines) && lines[start] == "" {
		start++
	}
	end := len(lines)
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}
