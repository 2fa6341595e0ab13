package curate

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Category classifies low-value content. Rules, not code, decide what falls
// into each category: patterns vary too much between cities to hard-code.
type Category string

const (
	CategoryCover           Category = "cover"
	CategoryTOC             Category = "toc"
	CategoryBlank           Category = "blank"
	CategorySeparator       Category = "separator"
	CategoryWatermark       Category = "watermark"
	CategoryPagination      Category = "pagination"
	CategoryRevisionList    Category = "revision_list"
	CategoryAcknowledgments Category = "acknowledgments"
	CategoryLegalNotice     Category = "legal_notice"
	CategoryDecoration      Category = "decoration"

	// Context-dependent categories: kept or dropped according to the
	// caller's IncludeContextSections flag rather than unconditionally.
	CategoryPADD         Category = "padd"
	CategoryPresentation Category = "presentation"
)

// ContextDependent reports whether the category is only filtered when the
// caller asked for context sections to be excluded.
func (c Category) ContextDependent() bool {
	return c == CategoryPADD || c == CategoryPresentation
}

// Scope controls what a matching rule removes.
type Scope string

const (
	// ScopePage drops the whole page when any of its blocks match.
	ScopePage Scope = "page"
	// ScopeBlock drops only the matching block.
	ScopeBlock Scope = "block"
)

// Rule is one denylist entry: a pattern matched against normalized block
// text. Patterns are written in lowercase since matching happens after case
// folding.
type Rule struct {
	Category Category `yaml:"category"`
	Match    string   `yaml:"match"`
	Scope    Scope    `yaml:"scope"`

	re *regexp.Regexp
}

// RuleSet is a compiled set of curation rules for one city.
type RuleSet struct {
	rules []Rule
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// Compile validates and compiles a rule list.
func Compile(rules []Rule) (*RuleSet, error) {
	compiled := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d: missing category", i)
		}
		if r.Match == "" {
			return nil, fmt.Errorf("rule %d (%s): missing match pattern", i, r.Category)
		}
		if r.Scope == "" {
			r.Scope = ScopeBlock
		}
		if r.Scope != ScopePage && r.Scope != ScopeBlock {
			return nil, fmt.Errorf("rule %d (%s): unknown scope %q", i, r.Category, r.Scope)
		}
		re, err := regexp.Compile(r.Match)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): invalid pattern: %w", i, r.Category, err)
		}
		r.re = re
		compiled = append(compiled, r)
	}
	return &RuleSet{rules: compiled}, nil
}

// LoadRules reads a per-city YAML rule file.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}
	rs, err := Compile(f.Rules)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return rs, nil
}

//go:embed rules/default.yaml
var defaultRulesYAML []byte

// DefaultRules returns the built-in rule set used when a city has no rule
// file configured.
func DefaultRules() (*RuleSet, error) {
	var f rulesFile
	if err := yaml.Unmarshal(defaultRulesYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse embedded default rules: %w", err)
	}
	return Compile(f.Rules)
}
