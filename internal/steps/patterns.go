package steps

import (
	"fmt"
	"strings"
)

// SuggestPatternsArgs describes the attribute to suggest normalization rules for.
type SuggestPatternsArgs struct {
	AttributeType string `json:"attribute_type"`
	DesiredOutput string `json:"desired_output"`
	CommonErrors  string `json:"common_errors"`
}

// SuggestPatterns lists the rules of the pattern family matching the attribute type.
func (b *Builder) SuggestPatterns(args SuggestPatternsArgs) string {
	family := b.catalog.Patterns(args.AttributeType)

	out := &strings.Builder{}
	fmt.Fprintf(out, "# Suggested Normalization Patterns\n\n**Attribute Type:** %s\n**Desired Output:** %s\n\n## Recommended Patterns:\n\n",
		args.AttributeType, args.DesiredOutput)

	for i, pattern := range family.Patterns {
		fmt.Fprintf(out, "%d. **%s**\n", i+1, pattern.Description)
		fmt.Fprintf(out, "   - Match: `%s`\n", pattern.Match)
		fmt.Fprintf(out, "   - Replace: `%s`\n\n", pattern.Replace)
	}

	out.WriteString("---\n\nThese patterns will handle common variations. You can:\n- Use all suggested patterns\n- Pick specific ones\n- Add your own custom patterns\n")

	return out.String()
}

// TestPatternsArgs pairs normalization rules with sample values.
type TestPatternsArgs struct {
	Patterns []PatternRule `json:"patterns" validate:"required,dive"`
	Samples  []string      `json:"samples"  validate:"required"`
}

// SampleResult is the outcome of normalizing one sample.
type SampleResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Changed reports whether a rule rewrote the sample.
func (r SampleResult) Changed() bool {
	return r.Input != r.Output
}

// TestPatterns runs the rules over each sample the way a normalization step would.
func (b *Builder) TestPatterns(args TestPatternsArgs) ([]SampleResult, error) {
	rules, err := compileRules(args.Patterns)
	if err != nil {
		return nil, err
	}

	res := make([]SampleResult, 0, len(args.Samples))
	for _, sample := range args.Samples {
		out, err := apply(rules, sample)
		if err != nil {
			return nil, err
		}

		res = append(res, SampleResult{Input: sample, Output: out})
	}

	return res, nil
}

// FormatSampleResults renders pattern test results as a numbered list.
func FormatSampleResults(patterns int, results []SampleResult) string {
	out := &strings.Builder{}
	fmt.Fprintf(out, "# Pattern Test Results\n\nApplied %d pattern(s) to %d sample(s).\n\n", patterns, len(results))

	changed := 0
	for i, result := range results {
		fmt.Fprintf(out, "%d. `%s` → `%s`", i+1, result.Input, result.Output)
		if result.Changed() {
			changed++
		} else {
			out.WriteString(" (unchanged)")
		}
		out.WriteString("\n")
	}

	fmt.Fprintf(out, "\n%d of %d sample(s) rewritten.\n", changed, len(results))

	return out.String()
}
