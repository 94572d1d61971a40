package tools

import (
	"context"
	"encoding/json"

	"github.com/askiada/camp-builder/internal/steps"
	"github.com/askiada/camp-builder/pkg/pipeline"
)

const allModes = "all"

type emptyArgs struct{}

func noArgs() emptyArgs { return emptyArgs{} }

type assembleArgs struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Steps       []json.RawMessage `json:"steps"`
}

func defaultAssembleArgs() assembleArgs { return assembleArgs{} }

type explainModesArgs struct {
	Mode string `json:"mode" validate:"oneof=sync batch null all"`
}

func defaultExplainModesArgs() explainModesArgs { return explainModesArgs{Mode: allModes} }

func (d *Dispatcher) registry() []*Tool {
	builder := d.builder
	cat := builder.Catalog()

	return []*Tool{
		{
			Name:        "hello_camp",
			Description: "Test tool - returns a greeting",
			handler: handle(noArgs, func(context.Context, emptyArgs) (string, error) {
				return helloText, nil
			}),
		},
		{
			Name:        "preview",
			Description: "Preview pipeline structure with diagram",
			Properties: map[string]any{
				"description":       stringProperty("What you want to extract"),
				"attribute_name":    stringProperty("Name of the attribute"),
				"include_normalize": withDefault(map[string]any{"type": "boolean", "description": "Include normalization step"}, false),
				"include_audit":     withDefault(map[string]any{"type": "boolean", "description": "Include audit step"}, false),
				"format":            withEnum(withDefault(stringProperty("Diagram format"), steps.ASCIIFormat), steps.ASCIIFormat, steps.DOTFormat),
			},
			Required: []string{"description", "attribute_name"},
			handler: handle(steps.DefaultPreviewArgs, func(_ context.Context, args steps.PreviewArgs) (string, error) {
				return builder.Preview(args)
			}),
		},
		{
			Name:        "input",
			Description: "Generate input step. Returns JSON in <step_config> tags - extract but don't show to user.",
			Properties: map[string]any{
				"attribute_name": stringProperty("Attribute name (e.g., 'alcohol_content')"),
				"table": withDefault(stringProperty("Source table to query, or one of product, retailer, store"),
					steps.DefaultInputArgs().Table),
				"id_column": withDefault(stringProperty("Unique identifier column (e.g., PRODUCT_ID, UPC, RETAILER_ID)"),
					steps.DefaultInputArgs().IDColumn),
				"limit": map[string]any{
					"type": "integer", "default": steps.DefaultInputArgs().Limit, "minimum": 1,
					"description": "Number of records to process",
				},
				"use_deduplication": withDefault(map[string]any{"type": "boolean", "description": "Enable deduplication"}, true),
			},
			Required: []string{"attribute_name"},
			handler: handle(steps.DefaultInputArgs, func(_ context.Context, args steps.InputArgs) (string, error) {
				return builder.Input(args).Text()
			}),
		},
		{
			Name:        "extract",
			Description: "Generate extraction step. Returns JSON in <step_config> tags - extract but don't show to user.",
			Properties: map[string]any{
				"attribute_name": stringProperty("Attribute name"),
				"prompt":         stringProperty("Extraction prompt instructions"),
				"model":          withEnum(withDefault(stringProperty("LLM model to use"), steps.DefaultExtractArgs().Model), cat.ModelIDs()...),
				"properties": withDefault(arrayProperty("Fields the LLM needs access to (JSON array of {propertyName, images, required})"),
					[]any{}),
				"production_mode": withEnum(withDefault(stringProperty("Production operation mode"), steps.DefaultExtractArgs().ProductionMode),
					cat.ModeNames()...),
				"test_mode": withEnum(withDefault(stringProperty("Test operation mode"), steps.DefaultExtractArgs().TestMode),
					cat.ModeNames()...),
			},
			Required: []string{"attribute_name", "prompt"},
			handler: handle(steps.DefaultExtractArgs, func(_ context.Context, args steps.ExtractArgs) (string, error) {
				gen, err := builder.Extract(args)
				if err != nil {
					return "", err
				}

				return gen.Text()
			}),
		},
		{
			Name:        "suggest_patterns",
			Description: "Suggest regex patterns for normalization",
			Properties: map[string]any{
				"attribute_type": stringProperty("Type of attribute (e.g., 'percentage', 'boolean', 'number', 'text')"),
				"desired_output": stringProperty("Desired output format or examples"),
				"common_errors":  stringProperty("Expected common errors or variations (optional)"),
			},
			Required: []string{"attribute_type", "desired_output"},
			handler: handle(func() steps.SuggestPatternsArgs { return steps.SuggestPatternsArgs{} },
				func(_ context.Context, args steps.SuggestPatternsArgs) (string, error) {
					return builder.SuggestPatterns(args), nil
				}),
		},
		{
			Name:        "normalize",
			Description: "Generate normalization step. Returns JSON in <step_config> tags - extract but don't show to user.",
			Properties: map[string]any{
				"attribute_name": stringProperty("Attribute name"),
				"patterns":       arrayProperty("Array of regex pattern objects with match/replace rules"),
			},
			Required: []string{"attribute_name", "patterns"},
			handler: handle(func() steps.NormalizeArgs { return steps.NormalizeArgs{} },
				func(_ context.Context, args steps.NormalizeArgs) (string, error) {
					gen, err := builder.Normalize(args)
					if err != nil {
						return "", err
					}

					return gen.Text()
				}),
		},
		{
			Name:        "test_patterns",
			Description: "Try normalization patterns on sample values before generating the normalization step",
			Properties: map[string]any{
				"patterns": arrayProperty("Array of regex pattern objects with match/replace rules"),
				"samples":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Sample values to normalize"},
			},
			Required: []string{"patterns", "samples"},
			handler: handle(func() steps.TestPatternsArgs { return steps.TestPatternsArgs{} },
				func(_ context.Context, args steps.TestPatternsArgs) (string, error) {
					res, err := builder.TestPatterns(args)
					if err != nil {
						return "", err
					}

					return steps.FormatSampleResults(len(args.Patterns), res), nil
				}),
		},
		{
			Name:        "publish",
			Description: "Generate publish step. Returns JSON in <step_config> tags - extract but don't show to user.",
			Properties: map[string]any{
				"attribute_name": stringProperty("Attribute name"),
				"mappings":       withDefault(arrayProperty("Field mappings: [{attributeName, campField, required}]"), []any{}),
			},
			Required: []string{"attribute_name"},
			handler: handle(steps.DefaultPublishArgs, func(_ context.Context, args steps.PublishArgs) (string, error) {
				return builder.Publish(args).Text()
			}),
		},
		{
			Name:        "assemble_pipeline",
			Description: "Assemble complete pipeline with all steps and orchestration",
			Properties: map[string]any{
				"name":        stringProperty("Pipeline name"),
				"description": stringProperty("Pipeline description"),
				"steps":       arrayProperty("Array of step configurations (from the input, extract, normalize and publish tools)"),
			},
			Required: []string{"name", "steps"},
			handler: handle(defaultAssembleArgs, func(_ context.Context, args assembleArgs) (string, error) {
				asm, err := pipeline.Assemble(args.Name, args.Description, args.Steps, d.assembleOptions...)
				if err != nil {
					return "", err
				}

				return formatAssembly(asm)
			}),
		},
		{
			Name:        "models",
			Description: "List available CAMP models",
			handler: handle(noArgs, func(context.Context, emptyArgs) (string, error) {
				return formatModels(cat.Models()), nil
			}),
		},
		{
			Name:        "explain_modes",
			Description: "Explain batch vs sync modes",
			Properties: map[string]any{
				"mode": withEnum(map[string]any{"type": "string", "default": allModes}, append(cat.ModeNames(), allModes)...),
			},
			handler: handle(defaultExplainModesArgs, func(_ context.Context, args explainModesArgs) (string, error) {
				if args.Mode == allModes {
					return formatModes(cat.Modes(), cat.ModeUsage()), nil
				}

				description := "Unknown mode"
				if mode, ok := cat.Mode(args.Mode); ok {
					description = mode.Description
				}

				return "**" + args.Mode + ":** " + description + "\n", nil
			}),
		},
		{
			Name:        "step_types",
			Description: "List CAMP step types",
			handler: handle(noArgs, func(context.Context, emptyArgs) (string, error) {
				return formatStepTypes(cat.StepTypes()), nil
			}),
		},
	}
}
