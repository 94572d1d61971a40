package steps_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/camp-builder/internal/steps"
)

func TestPreviewStepCount(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		normalize bool
		audit     bool
		total     string
	}{
		"minimal":   {total: "**Total Steps:** 3\n"},
		"normalize": {normalize: true, total: "**Total Steps:** 4\n"},
		"audit":     {audit: true, total: "**Total Steps:** 4\n"},
		"full":      {normalize: true, audit: true, total: "**Total Steps:** 5\n"},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			args := steps.DefaultPreviewArgs()
			args.AttributeName = "alcohol_content"
			args.Description = "Extract ABV from wine"
			args.IncludeNormalize = tc.normalize
			args.IncludeAudit = tc.audit

			got, err := steps.NewBuilder(nil).Preview(args)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(got, "# Pipeline Preview: alcohol_content\n\n**Goal:** Extract ABV from wine\n"))
			assert.Contains(t, got, tc.total)
			assert.Contains(t, got, "CAMP PIPELINE STRUCTURE")
			assert.Contains(t, got, "📥 INPUT")
			assert.Contains(t, got, "🤖 EXTRACT")
			assert.Contains(t, got, "📤 PUBLISH")
			assert.Equal(t, tc.normalize, strings.Contains(got, "🔧 NORMALIZE"))
			assert.Equal(t, tc.audit, strings.Contains(got, "✓ AUDIT"))
			assert.True(t, strings.HasSuffix(got, "• Or describe what you'd like to change\n"))
		})
	}
}

func TestASCIIDiagramOrder(t *testing.T) {
	t.Parallel()

	diagram := steps.ASCIIDiagram(true, true)

	input := strings.Index(diagram, "INPUT")
	normalize := strings.Index(diagram, "NORMALIZE")
	audit := strings.Index(diagram, "AUDIT")
	publish := strings.Index(diagram, "PUBLISH")

	assert.Less(t, input, normalize)
	assert.Less(t, normalize, audit)
	assert.Less(t, audit, publish)
	assert.True(t, strings.HasPrefix(diagram, "\n┌"))
	assert.True(t, strings.HasSuffix(diagram, "└──────────────────┘\n"))
}

func TestPreviewDOT(t *testing.T) {
	t.Parallel()

	args := steps.DefaultPreviewArgs()
	args.AttributeName = "organic"
	args.Description = "Flag organic products"
	args.IncludeAudit = true
	args.Format = steps.DOTFormat

	got, err := steps.NewBuilder(nil).Preview(args)
	require.NoError(t, err)

	assert.Contains(t, got, "**Total Steps:** 4\n")
	assert.Contains(t, got, "```dot\nstrict digraph {\n")
	assert.Contains(t, got, `"input" -> "extract";`)
	assert.Contains(t, got, `"extract" -> "audit";`)
	assert.Contains(t, got, `"audit" -> "publish";`)
	assert.NotContains(t, got, `"normalize"`)
	assert.NotContains(t, got, "CAMP PIPELINE STRUCTURE")
}

func TestPreviewUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := steps.NewBuilder(nil).Preview(steps.PreviewArgs{AttributeName: "a", Format: "svg"})
	require.ErrorIs(t, err, steps.ErrUnknownFormat)
}

func TestStages(t *testing.T) {
	t.Parallel()

	names := func(stages []steps.Stage) []string {
		res := []string{}
		for _, stage := range stages {
			res = append(res, stage.Name)
		}

		return res
	}

	assert.Equal(t, []string{"input", "extract", "publish"}, names(steps.Stages(false, false)))
	assert.Equal(t, []string{"input", "extract", "normalize", "audit", "publish"}, names(steps.Stages(true, true)))
}
