// Package tags derives packer tags from the minimized DiE attribute.
//
// The marker-to-tag mapping is data, not code: an ordered YAML table loaded
// once at startup. Adding a new packer signature means editing the table,
// never this package.
package tags

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"sample-pipeline/file-detection/internal/model"
)

// Rule maps one DiE text marker to one sample tag. Pattern is a regular
// expression, matched case-insensitively against the DiE filetype and each
// match description.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Key     string `yaml:"key"`   // packer_type | packer_name
	Value   string `yaml:"value"` // tag value to emit
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

type compiledRule struct {
	re    *regexp.Regexp
	key   string
	value string
}

// Table is the compiled, ordered rule set. Immutable after construction;
// rule order is match priority.
type Table struct {
	rules []compiledRule
}

// Load reads and compiles a rule table from a YAML file.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f ruleFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return Compile(f.Rules)
}

// Compile validates and compiles rules, preserving their order.
func Compile(rules []Rule) (*Table, error) {
	t := &Table{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if r.Key != model.TagKeyPackerType && r.Key != model.TagKeyPackerName {
			return nil, fmt.Errorf("rule %d: unknown tag key %q", i, r.Key)
		}
		if r.Pattern == "" || r.Value == "" {
			return nil, fmt.Errorf("rule %d: pattern and value are required", i)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		t.rules = append(t.rules, compiledRule{re: re, key: r.Key, value: r.Value})
	}
	return t, nil
}

// Len reports the number of compiled rules (for startup logging).
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
