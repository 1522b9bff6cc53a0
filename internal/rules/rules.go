// Package rules loads optional per-environment notification overrides from a
// YAML file checked into the repository.
package rules

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Rule overrides how a single environment is announced.
type Rule struct {
	// Label replaces the derived environment label when set.
	Label string `yaml:"label"`
	// Channel redirects the message away from the default channel when set.
	Channel string `yaml:"channel"`
}

// Rules is the parsed rules file.
type Rules struct {
	Environments map[string]Rule `yaml:"environments"`
}

// Load parses the rules file at path. An empty path means no rules; a path
// that cannot be read or parsed is a configuration error.
func Load(path string) (*Rules, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: reading %s: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("rules: parsing %s: %w", path, err)
	}
	return &r, nil
}

// ForEnvironment returns the overrides for an environment, matching the name
// case-insensitively. A nil receiver carries no overrides.
func (r *Rules) ForEnvironment(environment string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	if rule, ok := r.Environments[environment]; ok {
		return rule, true
	}
	for name, rule := range r.Environments {
		if strings.EqualFold(name, environment) {
			return rule, true
		}
	}
	return Rule{}, false
}
