package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/camp-builder/internal/catalog"
	"github.com/askiada/camp-builder/internal/steps"
	"github.com/askiada/camp-builder/pkg/pipeline"
)

const helloText = `🚀 CAMP Pipeline Builder

Build CAMP pipelines conversationally. I can:

📋 Preview structure • Generate configs • Walk you step-by-step
🤖 Suggest models • Auto-generate regex patterns
🔧 List models • Explain modes • Show step types

Example: "Extract alcohol content from wine products"
`

const assemblyFooter = `---

**Pipeline is ready!**

This pipeline is:
- ✅ Not scheduled (manual runs only)
- ✅ Connected with proper step flow
- ✅ Ready to import into CAMP

You can now copy the configurations and import them into CAMP.
`

const (
	stepConfigOpen  = "<step_config>\n"
	stepConfigClose = "\n</step_config>"
)

func formatAssembly(asm *pipeline.Assembly[json.RawMessage]) (string, error) {
	orch, err := steps.EncodeJSON(asm.Orchestration)
	if err != nil {
		return "", err
	}

	out := &strings.Builder{}
	fmt.Fprintf(out, "# Complete Pipeline Assembly\n\n## Pipeline: %s\n\n%s\n\n## Pipeline Orchestration JSON\n\n```json\n%s\n```\n\n## Individual Step Configurations\n\n",
		asm.Name, asm.Description, orch)

	for i, cfg := range asm.Configs {
		buf := &bytes.Buffer{}

		err = json.Indent(buf, cfg, "", "  ")
		if err != nil {
			return "", errors.Wrapf(ErrInvalidArgument, "step %d is not valid JSON", i+1)
		}

		fmt.Fprintf(out, "### Step %d Configuration\n\n```json\n%s\n```\n\n", i+1, buf.String())
	}

	out.WriteString(assemblyFooter)

	return out.String(), nil
}

func formatModels(models []catalog.Model) string {
	out := &strings.Builder{}
	out.WriteString("# Available CAMP Models\n\n")

	for _, model := range models {
		fmt.Fprintf(out, "**%s** (Used in %d pipelines)\n", model.ID, model.Usage)
		fmt.Fprintf(out, "  - %s\n\n", model.Description)
	}

	return out.String()
}

func formatModes(modes []catalog.Mode, usage []catalog.ModeUsage) string {
	out := &strings.Builder{}
	out.WriteString("# CAMP Operation Modes\n\n")

	for _, mode := range modes {
		fmt.Fprintf(out, "**%s:** %s\n\n", mode.Name, mode.Description)
	}

	out.WriteString("## Usage Statistics:\n")

	for _, stat := range usage {
		fmt.Fprintf(out, "- %s: %d pipelines - %s\n", stat.Combination, stat.Pipelines, stat.Note)
	}

	return out.String()
}

func formatStepTypes(stepTypes []catalog.StepType) string {
	out := &strings.Builder{}
	out.WriteString("# Available CAMP Step Types\n\n")

	for _, stepType := range stepTypes {
		fmt.Fprintf(out, "**%s:** %s\n\n", stepType.Kind, stepType.Label)
	}

	return out.String()
}

// ExtractStepConfig returns the configuration enclosed in the step_config tags of a generator
// output.
func ExtractStepConfig(text string) (json.RawMessage, bool) {
	_, rest, ok := strings.Cut(text, stepConfigOpen)
	if !ok {
		return nil, false
	}

	cfg, _, ok := strings.Cut(rest, stepConfigClose)
	if !ok {
		return nil, false
	}

	return json.RawMessage(cfg), true
}
