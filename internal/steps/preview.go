package steps

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/camp-builder/pkg/pipeline/drawer"
)

// Diagram formats.
const (
	ASCIIFormat = "ascii"
	DOTFormat   = "dot"
)

// PreviewArgs describes the pipeline to preview.
type PreviewArgs struct {
	Description      string `json:"description"`
	AttributeName    string `json:"attribute_name"    validate:"required"`
	IncludeNormalize bool   `json:"include_normalize"`
	IncludeAudit     bool   `json:"include_audit"`
	Format           string `json:"format"            validate:"oneof=ascii dot"`
}

// DefaultPreviewArgs returns the preview arguments used when a field is omitted.
func DefaultPreviewArgs() PreviewArgs {
	return PreviewArgs{Format: ASCIIFormat}
}

// Stage is one step of a previewed pipeline.
type Stage struct {
	Name  string
	Label string
	Kind  drawer.StepKind
}

// Stages lists the steps of a pipeline: input and extract, then the optional normalize and
// audit steps, then publish.
func Stages(includeNormalize, includeAudit bool) []Stage {
	stages := []Stage{
		{Name: "input", Label: `INPUT\nSnowflake Query`, Kind: drawer.InputKind},
		{Name: "extract", Label: `EXTRACT\nLLM Extraction`, Kind: drawer.ExtractKind},
	}

	if includeNormalize {
		stages = append(stages, Stage{Name: "normalize", Label: `NORMALIZE\nRegex Patterns`, Kind: drawer.NormalizeKind})
	}

	if includeAudit {
		stages = append(stages, Stage{Name: "audit", Label: `AUDIT\nQuality Check`, Kind: drawer.AuditKind})
	}

	return append(stages, Stage{Name: "publish", Label: `PUBLISH\nSnowflake Catalog`, Kind: drawer.PublishKind})
}

// Preview renders the structure of the pipeline for the user to confirm.
func (b *Builder) Preview(args PreviewArgs) (string, error) {
	stages := Stages(args.IncludeNormalize, args.IncludeAudit)

	var diagram string

	switch args.Format {
	case ASCIIFormat, "":
		diagram = ASCIIDiagram(args.IncludeNormalize, args.IncludeAudit)
	case DOTFormat:
		dot, err := DOTDiagram(stages)
		if err != nil {
			return "", err
		}

		diagram = "```dot\n" + dot + "```"
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", args.Format)
	}

	out := &strings.Builder{}
	fmt.Fprintf(out, "# Pipeline Preview: %s\n\n**Goal:** %s\n**Total Steps:** %d\n\n%s\n\n",
		args.AttributeName, args.Description, len(stages), diagram)
	out.WriteString(previewQuestion)

	return out.String(), nil
}

// ASCIIDiagram draws the pipeline with box characters.
func ASCIIDiagram(includeNormalize, includeAudit bool) string {
	out := &strings.Builder{}
	out.WriteString(diagramHeader)
	out.WriteString(diagramInputExtract)

	if includeNormalize {
		out.WriteString(diagramNormalize)
	}

	if includeAudit {
		out.WriteString(diagramAudit)
	}

	out.WriteString(diagramPublish)

	return out.String()
}

// DOTDiagram draws the stages as a Graphviz chain.
func DOTDiagram(stages []Stage) (string, error) {
	drw := drawer.NewDOTDrawer()

	for i, stage := range stages {
		err := drw.AddStep(stage.Name, stage.Label, stage.Kind)
		if err != nil {
			return "", err
		}

		if i == 0 {
			continue
		}

		err = drw.AddLink(stages[i-1].Name, stage.Name)
		if err != nil {
			return "", err
		}
	}

	buf := &bytes.Buffer{}

	err := drw.Draw(buf)
	if err != nil {
		return "", errors.Wrap(err, "unable to draw pipeline")
	}

	return buf.String(), nil
}

const (
	diagramHeader = `
┌─────────────────────────────────────────────────────────────────────────┐
│                        CAMP PIPELINE STRUCTURE                          │
└─────────────────────────────────────────────────────────────────────────┘

`

	diagramInputExtract = `
  ┌──────────────────┐        ┌──────────────────┐
  │   📥 INPUT       │  ───▶  │  🤖 EXTRACT      │
  │                  │        │                  │
  │ Snowflake Query  │        │  LLM Extraction  │
  └──────────────────┘        └──────────────────┘
`

	diagramNormalize = `
                                        │
                                        ▼
                              ┌──────────────────┐
                              │ 🔧 NORMALIZE     │
                              │                  │
                              │  Regex Patterns  │
                              └──────────────────┘
`

	diagramAudit = `
                                        │
                                        ▼
                              ┌──────────────────┐
                              │  ✓ AUDIT         │
                              │                  │
                              │  Quality Check   │
                              └──────────────────┘
`

	diagramPublish = `
                                        │
                                        ▼
                              ┌──────────────────┐
                              │  📤 PUBLISH      │
                              │                  │
                              │ Snowflake Catalog│
                              └──────────────────┘
`
)

const previewQuestion = `─────────────────────────────────────────────────────────────

**Does this pipeline structure work for you?**

Reply with:
• "Yes" - I'll build this pipeline step-by-step
• "Add normalization" - Include a regex normalization step
• "Add audit" - Include a quality assurance step
• Or describe what you'd like to change
`
