package steps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/camp-builder/internal/steps"
)

func TestSuggestPatternsPercentage(t *testing.T) {
	t.Parallel()

	got := steps.NewBuilder(nil).SuggestPatterns(steps.SuggestPatternsArgs{
		AttributeType: "Percentage",
		DesiredOutput: "12.5",
	})

	expected := "# Suggested Normalization Patterns\n\n" +
		"**Attribute Type:** Percentage\n" +
		"**Desired Output:** 12.5\n\n" +
		"## Recommended Patterns:\n\n" +
		"1. **Remove % sign, keep number**\n" +
		"   - Match: `(\\d+\\.?\\d*)%`\n" +
		"   - Replace: `$1`\n\n" +
		"2. **Remove 'percent' word**\n" +
		"   - Match: `^(\\d+\\.?\\d*)\\s*percent`\n" +
		"   - Replace: `$1`\n\n" +
		"3. **Ensure decimal format**\n" +
		"   - Match: `^(\\d+)$`\n" +
		"   - Replace: `$1.0`\n\n" +
		"---\n\n" +
		"These patterns will handle common variations. You can:\n" +
		"- Use all suggested patterns\n" +
		"- Pick specific ones\n" +
		"- Add your own custom patterns\n"
	assert.Equal(t, expected, got)
}

func TestSuggestPatternsFamilies(t *testing.T) {
	t.Parallel()

	builder := steps.NewBuilder(nil)

	assert.Contains(t, builder.SuggestPatterns(steps.SuggestPatternsArgs{AttributeType: "bool"}), "8. **Convert n to False**")
	assert.Contains(t, builder.SuggestPatterns(steps.SuggestPatternsArgs{AttributeType: "float"}), "1. **Remove commas/spaces from numbers**")

	text := builder.SuggestPatterns(steps.SuggestPatternsArgs{AttributeType: "brand"})
	assert.Contains(t, text, "1. **Trim whitespace**")
	assert.Contains(t, text, "2. **Collapse multiple spaces**")
	assert.NotContains(t, text, "3. **")
}

func TestTestPatterns(t *testing.T) {
	t.Parallel()

	builder := steps.NewBuilder(nil)

	tcs := map[string]struct {
		patterns []steps.PatternRule
		samples  []string
		want     []string
	}{
		"boolean": {
			patterns: []steps.PatternRule{
				{Match: "^1$", Replace: strPtr("True")},
				{Match: "(?i)^yes$", Replace: strPtr("True")},
				{Match: "(?i)^no$", Replace: strPtr("False")},
			},
			samples: []string{"1", "YES", "No", "maybe"},
			want:    []string{"True", "True", "False", "maybe"},
		},
		"percentage": {
			patterns: []steps.PatternRule{
				{Match: `(\d+\.?\d*)%`, Replace: strPtr("$1")},
				{Match: `^(\d+)$`, Replace: strPtr("$1.0")},
			},
			samples: []string{"13.5%", "12%", "14"},
			want:    []string{"13.5", "12.0", "14.0"},
		},
		"text": {
			patterns: []steps.PatternRule{
				{Match: `^\s+|\s+$`, Replace: strPtr("")},
				{Match: `\s{2,}`, Replace: strPtr(" ")},
			},
			samples: []string{"  red   wine  "},
			want:    []string{"red wine"},
		},
		"default only when nothing matched": {
			patterns: []steps.PatternRule{
				{Match: `^\d+$`, Replace: strPtr("number")},
				{Match: `.+`, Replace: strPtr("other"), IsDefault: true},
			},
			samples: []string{"42", "abc"},
			want:    []string{"number", "other"},
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := builder.TestPatterns(steps.TestPatternsArgs{Patterns: tc.patterns, Samples: tc.samples})
			require.NoError(t, err)
			require.Len(t, res, len(tc.samples))

			for i, sample := range res {
				assert.Equal(t, tc.samples[i], sample.Input)
				assert.Equal(t, tc.want[i], sample.Output, tc.samples[i])
			}
		})
	}
}

func TestTestPatternsInvalid(t *testing.T) {
	t.Parallel()

	_, err := steps.NewBuilder(nil).TestPatterns(steps.TestPatternsArgs{
		Patterns: []steps.PatternRule{{Match: "[", Replace: strPtr("")}},
		Samples:  []string{"x"},
	})
	require.ErrorIs(t, err, steps.ErrInvalidPattern)
}

func TestFormatSampleResults(t *testing.T) {
	t.Parallel()

	got := steps.FormatSampleResults(2, []steps.SampleResult{
		{Input: "1", Output: "True"},
		{Input: "maybe", Output: "maybe"},
	})

	expected := "# Pattern Test Results\n\n" +
		"Applied 2 pattern(s) to 2 sample(s).\n\n" +
		"1. `1` → `True`\n" +
		"2. `maybe` → `maybe` (unchanged)\n\n" +
		"1 of 2 sample(s) rewritten.\n"
	assert.Equal(t, expected, got)
}
