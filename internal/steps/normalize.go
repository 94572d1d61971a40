package steps

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// MatchTimeout bounds the time spent evaluating a single rule against a value.
const MatchTimeout = time.Second

// PatternRule is a regex replacement applied by a normalization step.
type PatternRule struct {
	Match     string  `json:"match"     validate:"required"`
	Replace   *string `json:"replace"   validate:"required"`
	IsDefault bool    `json:"isDefault"`
}

// NormalizeArgs describes a normalization step.
type NormalizeArgs struct {
	AttributeName string        `json:"attribute_name" validate:"required"`
	Patterns      []PatternRule `json:"patterns"       validate:"required,dive"`
}

// Rule is a normalization rule as stored in a mutation.
type Rule struct {
	Match     string `json:"match"`
	Replace   string `json:"replace"`
	IsDefault bool   `json:"isDefault"`
}

// Mutation rewrites an input field into an output field.
type Mutation struct {
	InputField  string `json:"inputField"`
	OutputField string `json:"outputField"`
	Rules       []Rule `json:"rules"`
}

// NormalizeConfig is the configuration of a Regex step.
type NormalizeConfig struct {
	Mutations []Mutation `json:"mutations"`
}

// Normalize generates a normalization step rewriting the extracted value into normalized_value.
// Every rule must compile.
func (b *Builder) Normalize(args NormalizeArgs) (*Generated[NormalizeConfig], error) {
	rules, err := compileRules(args.Patterns)
	if err != nil {
		return nil, err
	}

	stored := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		stored = append(stored, rule.Rule)
	}

	return &Generated[NormalizeConfig]{
		Title:   "Normalization step configured",
		Summary: fmt.Sprintf("Applying %d regex pattern(s) to standardize values.", len(stored)),
		Config: NormalizeConfig{
			Mutations: []Mutation{{
				InputField:  "value",
				OutputField: "normalized_value",
				Rules:       stored,
			}},
		},
	}, nil
}

type compiledRule struct {
	Rule
	re *regexp2.Regexp
}

func compileRules(patterns []PatternRule) ([]compiledRule, error) {
	rules := make([]compiledRule, 0, len(patterns))

	for i, pattern := range patterns {
		re, err := regexp2.Compile(pattern.Match, regexp2.None)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPattern, "pattern %d %q: %s", i+1, pattern.Match, err)
		}

		re.MatchTimeout = MatchTimeout

		replace := ""
		if pattern.Replace != nil {
			replace = *pattern.Replace
		}

		rules = append(rules, compiledRule{
			Rule: Rule{Match: pattern.Match, Replace: replace, IsDefault: pattern.IsDefault},
			re:   re,
		})
	}

	return rules, nil
}

// apply rewrites value with every matching rule. Default rules are only used when no other
// rule matched.
func apply(rules []compiledRule, value string) (string, error) {
	res, matched, err := applyRules(rules, value, false)
	if err != nil || matched {
		return res, err
	}

	res, _, err = applyRules(rules, value, true)

	return res, err
}

func applyRules(rules []compiledRule, value string, defaults bool) (string, bool, error) {
	matched := false

	for _, rule := range rules {
		if rule.IsDefault != defaults {
			continue
		}

		ok, err := rule.re.MatchString(value)
		if err != nil {
			return "", false, errors.Wrapf(err, "unable to match %q", rule.Match)
		}

		if !ok {
			continue
		}

		value, err = rule.re.Replace(value, rule.Replace, -1, -1)
		if err != nil {
			return "", false, errors.Wrapf(err, "unable to apply %q", rule.Match)
		}

		matched = true
	}

	return value, matched, nil
}
