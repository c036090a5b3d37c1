// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"
)

// Rule is one named pattern in a heuristic rule set. Rules are data, not
// control flow: the classifier walks the active rule set, so new producer
// quirks are handled by editing rules rather than code.
type Rule struct {
	// Name identifies the rule in dumps and rule files.
	Name string `yaml:"name"`

	// Pattern is an RE2 regular expression.
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

// RuleSet holds the classifier's pattern rules, in match order.
type RuleSet struct {
	// EquationFamilies match font family names used by math typesetting.
	// A matching line is an equation regardless of its size tier.
	EquationFamilies []Rule `yaml:"equation_families"`

	// CodeTokens match line text that looks like source code: indentation,
	// assignment and operator symbols, delimiters, language keywords.
	CodeTokens []Rule `yaml:"code_tokens"`
}

// DefaultRules returns the built-in rule sets. The equation families cover
// the math fonts common across Office and TeX producers; the code tokens
// mirror what lecture slides actually paste in.
func DefaultRules() RuleSet {
	rs := RuleSet{
		EquationFamilies: []Rule{
			{Name: "cambria-math", Pattern: `(?i)cambria ?math`},
			{Name: "mt-extra", Pattern: `(?i)mt-?extra`},
			{Name: "symbol", Pattern: `(?i)^(.*\+)?symbol`},
			{Name: "math-italic", Pattern: `(?i)math[- ]?italic`},
			{Name: "stix-math", Pattern: `(?i)stix.*math`},
			{Name: "latin-modern-math", Pattern: `(?i)latin ?modern ?math`},
			{Name: "cmmi", Pattern: `(?i)(^|\+)cm(mi|sy|ex)`},
		},
		CodeTokens: []Rule{
			{Name: "indent", Pattern: `^\s{4,}\S`},
			{Name: "assignment", Pattern: `(=|:=|<-|->|\+=|==)`},
			{Name: "terminator", Pattern: `[;{}]\s*$`},
			{Name: "call-or-index", Pattern: `\w+\s*[(\[][^)\]]*[)\]]`},
			{Name: "keyword", Pattern: `\b(def|return|if|else|elif|for|while|func|var|int|float|double|void|import|include|print|printf)\b`},
			{Name: "comment", Pattern: `^\s*(#|//|/\*)`},
		},
	}
	if err := rs.compile(); err != nil {
		// The built-in patterns are validated by tests; a failure here is
		// a programming error.
		panic(err)
	}
	return rs
}

// LoadRules reads a YAML rule file and compiles it. Missing sections fall
// back to the built-in defaults so a file can override just one set.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rules: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rules: %w", err)
	}
	def := DefaultRules()
	if len(rs.EquationFamilies) == 0 {
		rs.EquationFamilies = def.EquationFamilies
	}
	if len(rs.CodeTokens) == 0 {
		rs.CodeTokens = def.CodeTokens
	}
	if err := rs.compile(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

func (rs *RuleSet) compile() error {
	for _, set := range [][]Rule{rs.EquationFamilies, rs.CodeTokens} {
		for i := range set {
			re, err := regexp.Compile(set[i].Pattern)
			if err != nil {
				return fmt.Errorf("rule %q: %w", set[i].Name, err)
			}
			set[i].re = re
		}
	}
	return nil
}

// IsEquationFamily reports whether a font family name matches any equation
// family rule.
func (rs RuleSet) IsEquationFamily(family string) bool {
	for _, r := range rs.EquationFamilies {
		if r.re.MatchString(family) {
			return true
		}
	}
	return false
}

// MatchesCodeToken reports whether line text matches any code token rule.
func (rs RuleSet) MatchesCodeToken(text string) bool {
	for _, r := range rs.CodeTokens {
		if r.re.MatchString(text) {
			return true
		}
	}
	return false
}
