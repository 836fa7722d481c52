package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RepoConfig is the parsed checkmate.yml of one repository. Policies keeps
// the file order of the "pr" mapping; a key present with a null value is a
// valid activation that runs the policy with its defaults.
type RepoConfig struct {
	Policies []PolicyConfig
}

// PolicyConfig is one activated policy key and its raw options node. The
// options schema is policy-specific, so each policy decodes its own node.
type PolicyConfig struct {
	Name    string
	Options *yaml.Node // nil when the key carried no value
}

// ParseRepoConfig decodes checkmate.yml. The "pr" section is captured as a
// raw node first so key order and null-valued keys survive; option decoding
// happens later, inside each policy.
func ParseRepoConfig(data []byte) (*RepoConfig, error) {
	var doc struct {
		PR yaml.Node `yaml:"pr"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := &RepoConfig{}
	if doc.PR.Kind != yaml.MappingNode {
		// no "pr" section, or "pr: null" - nothing activated
		return cfg, nil
	}
	for i := 0; i+1 < len(doc.PR.Content); i += 2 {
		key := doc.PR.Content[i]
		value := doc.PR.Content[i+1]
		pc := PolicyConfig{Name: key.Value}
		if value.Tag != "!!null" {
			pc.Options = value
		}
		cfg.Policies = append(cfg.Policies, pc)
	}
	return cfg, nil
}

// LintRule is a commitlint-style rule tuple: [severity, condition, value].
// Severity 0 disables the rule, 1 reports a warning, 2 reports an error.
// Condition is "always" or "never". Value is rule-specific and optional.
type LintRule struct {
	Severity  int
	Condition string
	Value     any
}

// UnmarshalYAML decodes the sequence form used in checkmate.yml, e.g.
// "header-max-length: [2, always, 80]".
func (r *LintRule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) < 2 {
		return fmt.Errorf("lint rule must be a [severity, condition, value] sequence")
	}
	if err := node.Content[0].Decode(&r.Severity); err != nil {
		return fmt.Errorf("lint rule severity: %w", err)
	}
	if err := node.Content[1].Decode(&r.Condition); err != nil {
		return fmt.Errorf("lint rule condition: %w", err)
	}
	if r.Severity < 0 || r.Severity > 2 {
		return fmt.Errorf("lint rule severity must be 0, 1 or 2, got %d", r.Severity)
	}
	if r.Condition != "always" && r.Condition != "never" {
		return fmt.Errorf("lint rule condition must be %q or %q, got %q", "always", "never", r.Condition)
	}
	if len(node.Content) > 2 {
		if err := node.Content[2].Decode(&r.Value); err != nil {
			return fmt.Errorf("lint rule value: %w", err)
		}
	}
	return nil
}

// LintOptions configures the conventionalCommits and conventionalTitle
// policies. Rules extend and override the default conventional ruleset.
type LintOptions struct {
	Rules map[string]LintRule `yaml:"rules"`
}

// IgnoreList exempts commit identities from signed-commit verification.
type IgnoreList struct {
	Emails []string `yaml:"emails"`
	Names  []string `yaml:"names"`
}

// SignedCommitsOptions configures the signedCommits policy.
type SignedCommitsOptions struct {
	Ignore IgnoreList `yaml:"ignore"`
}

// TasksListOptions configures the tasksList policy. Currently empty;
// reserved so the key can grow options without a schema break.
type TasksListOptions struct{}

// AutoApproveOptions configures the autoApprove policy.
type AutoApproveOptions struct {
	AllBots bool     `yaml:"allBots"`
	Users   []string `yaml:"users"`
}

// LifecycleLabelsOptions configures the lifecycleLabels policy. Labels maps
// a lifecycle state to the repository label representing it; partial maps
// are allowed.
type LifecycleLabelsOptions struct {
	IgnoreDrafts bool                      `yaml:"ignoreDrafts"`
	Labels       map[LifecycleState]string `yaml:"labels"`
}

// ConfiguredStates returns the lifecycle states that have a recognized label
// mapping, in the stable LifecycleStates order. Keys that are not lifecycle
// states are treated as configuration noise and ignored.
func (o LifecycleLabelsOptions) ConfiguredStates() []LifecycleState {
	var states []LifecycleState
	for _, s := range LifecycleStates() {
		if _, ok := o.Labels[s]; ok {
			states = append(states, s)
		}
	}
	return states
}
