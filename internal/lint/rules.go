package lint

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/checkmate-dev/checkmate/pkg/types"
)

// checkFunc evaluates one rule against a parsed message. It returns whether
// the rule is violated and the message to report.
type checkFunc func(p parsed, rule types.LintRule) (bool, string)

var checks = map[string]checkFunc{
	"type-empty":             checkTypeEmpty,
	"type-case":              checkTypeCase,
	"type-enum":              checkTypeEnum,
	"subject-empty":          checkSubjectEmpty,
	"subject-case":           checkSubjectCase,
	"subject-full-stop":      checkSubjectFullStop,
	"header-max-length":      checkHeaderMaxLength,
	"header-trim":            checkHeaderTrim,
	"body-leading-blank":     checkBodyLeadingBlank,
	"body-max-line-length":   checkBodyMaxLineLength,
	"footer-leading-blank":   checkFooterLeadingBlank,
	"footer-max-line-length": checkFooterMaxLineLength,
}

func checkTypeEmpty(p parsed, rule types.LintRule) (bool, string) {
	empty := p.typ == ""
	if rule.Condition == "never" {
		return empty, "type may not be empty"
	}
	return !empty, "type must be empty"
}

func checkTypeCase(p parsed, rule types.LintRule) (bool, string) {
	if p.typ == "" {
		return false, ""
	}
	want := stringValue(rule.Value, "lower-case")
	matches := matchesCase(p.typ, want)
	if rule.Condition == "never" {
		return matches, fmt.Sprintf("type must not be %s", want)
	}
	return !matches, fmt.Sprintf("type must be %s", want)
}

func checkTypeEnum(p parsed, rule types.LintRule) (bool, string) {
	if p.typ == "" {
		return false, ""
	}
	allowed := stringsValue(rule.Value)
	found := false
	for _, t := range allowed {
		if p.typ == t {
			found = true
			break
		}
	}
	if rule.Condition == "never" {
		return found, fmt.Sprintf("type must not be one of [%s]", strings.Join(allowed, ", "))
	}
	return !found, fmt.Sprintf("type must be one of [%s]", strings.Join(allowed, ", "))
}

func checkSubjectEmpty(p parsed, rule types.LintRule) (bool, string) {
	empty := p.subject == ""
	if rule.Condition == "never" {
		return empty, "subject may not be empty"
	}
	return !empty, "subject must be empty"
}

func checkSubjectCase(p parsed, rule types.LintRule) (bool, string) {
	if p.subject == "" {
		return false, ""
	}
	cases := stringsValue(rule.Value)
	if len(cases) == 0 {
		return false, ""
	}
	matches := false
	for _, c := range cases {
		if matchesCase(p.subject, c) {
			matches = true
			break
		}
	}
	joined := strings.Join(cases, ", ")
	if rule.Condition == "never" {
		return matches, fmt.Sprintf("subject must not be %s", joined)
	}
	return !matches, fmt.Sprintf("subject must be %s", joined)
}

func checkSubjectFullStop(p parsed, rule types.LintRule) (bool, string) {
	if p.subject == "" {
		return false, ""
	}
	stop := stringValue(rule.Value, ".")
	ends := strings.HasSuffix(p.subject, stop)
	if rule.Condition == "never" {
		return ends, "subject may not end with full stop"
	}
	return !ends, "subject must end with full stop"
}

func checkHeaderMaxLength(p parsed, rule types.LintRule) (bool, string) {
	max := intValue(rule.Value, 100)
	// Lengths count characters, not bytes.
	length := utf8.RuneCountInString(p.header)
	if length > max {
		return true, fmt.Sprintf("header must not be longer than %d characters, current length is %d", max, length)
	}
	return false, ""
}

func checkHeaderTrim(p parsed, _ types.LintRule) (bool, string) {
	if p.header != strings.TrimSpace(p.header) {
		return true, "header must not be surrounded by whitespace"
	}
	return false, ""
}

func checkBodyLeadingBlank(p parsed, rule types.LintRule) (bool, string) {
	if len(p.bodyLines) == 0 && len(p.footerLines) == 0 {
		return false, ""
	}
	if rule.Condition == "never" {
		return p.bodySeparated, "body must not have leading blank line"
	}
	return !p.bodySeparated, "body must have leading blank line"
}

func checkBodyMaxLineLength(p parsed, rule types.LintRule) (bool, string) {
	max := intValue(rule.Value, 100)
	for _, line := range p.bodyLines {
		if utf8.RuneCountInString(line) > max {
			return true, fmt.Sprintf("body's lines must not be longer than %d characters", max)
		}
	}
	return false, ""
}

func checkFooterLeadingBlank(p parsed, rule types.LintRule) (bool, string) {
	if len(p.footerLines) == 0 {
		return false, ""
	}
	if rule.Condition == "never" {
		return p.footerSeparated, "footer must not have leading blank line"
	}
	return !p.footerSeparated, "footer must have leading blank line"
}

func checkFooterMaxLineLength(p parsed, rule types.LintRule) (bool, string) {
	max := intValue(rule.Value, 100)
	for _, line := range p.footerLines {
		if utf8.RuneCountInString(line) > max {
			return true, fmt.Sprintf("footer's lines must not be longer than %d characters", max)
		}
	}
	return false, ""
}

// matchesCase reports whether s is written in the named case style.
func matchesCase(s, style string) bool {
	switch style {
	case "lower-case", "lowercase":
		return s == strings.ToLower(s)
	case "upper-case", "uppercase":
		return s == strings.ToUpper(s) && s != strings.ToLower(s)
	case "sentence-case":
		first, rest := splitFirstRune(s)
		return unicode.IsUpper(first) && rest == strings.ToLower(rest)
	case "start-case":
		words := strings.Fields(s)
		if len(words) == 0 {
			return false
		}
		for _, w := range words {
			first, _ := splitFirstRune(w)
			if unicode.IsLetter(first) && !unicode.IsUpper(first) {
				return false
			}
		}
		return true
	case "pascal-case":
		first, _ := splitFirstRune(s)
		return !strings.Contains(s, " ") && unicode.IsUpper(first)
	case "camel-case":
		first, _ := splitFirstRune(s)
		return !strings.Contains(s, " ") && unicode.IsLower(first) && s != strings.ToLower(s)
	default:
		return false
	}
}

func splitFirstRune(s string) (rune, string) {
	for i, r := range s {
		return r, s[i+len(string(r)):]
	}
	return 0, ""
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func intValue(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

func stringsValue(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
