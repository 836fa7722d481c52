package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/checkmate-dev/checkmate/internal/lint"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

// NewLintCmd creates the lint command, which checks a commit message
// against the conventional ruleset without touching GitHub.
func NewLintCmd() *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "lint <message>",
		Short: "Lint a commit message against the conventional rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(args[0], rulesFile)
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file with rule overrides")
	return cmd
}

func runLint(message, rulesFile string) error {
	rules := lint.Defaults()
	if rulesFile != "" {
		overrides, err := loadRules(rulesFile)
		if err != nil {
			return err
		}
		rules = rules.Merge(overrides)
	}

	res := lint.Lint(message, rules)

	for _, w := range res.Warnings {
		color.Yellow("warning  %-24s %s", w.Name, w.Message)
	}
	for _, e := range res.Errors {
		color.Red("error    %-24s %s", e.Name, e.Message)
	}

	if !res.Valid() {
		return fmt.Errorf("%d error%s found", len(res.Errors), plural(len(res.Errors)))
	}
	if len(res.Warnings) > 0 {
		color.Green("valid, with %d warning%s", len(res.Warnings), plural(len(res.Warnings)))
	} else {
		color.Green("valid")
	}
	return nil
}

func loadRules(path string) (map[string]types.LintRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var doc struct {
		Rules map[string]types.LintRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	if doc.Rules == nil {
		// allow a bare rule mapping without the "rules" key
		if err := yaml.Unmarshal(data, &doc.Rules); err != nil || doc.Rules == nil {
			return nil, fmt.Errorf("no rules found in %s", path)
		}
	}
	return doc.Rules, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
