package steps

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

const (
	nullMode            = "null"
	costAttributionID   = "catalog-ops"
	defaultModel        = "gpt-5-mini"
	defaultTestModeName = "sync"
)

// Property is a product field the model can read. A decoded property is encoded back as it was
// received, so keys specific to a CAMP deployment survive.
type Property struct {
	PropertyName string `json:"propertyName" validate:"required"`
	Images       bool   `json:"images"`
	Required     bool   `json:"required"`

	raw json.RawMessage
}

type propertyRecord struct {
	PropertyName string `json:"propertyName"`
	Images       bool   `json:"images"`
	Required     bool   `json:"required"`
}

// UnmarshalJSON keeps the record as given. images and required are only read when they are booleans.
func (p *Property) UnmarshalJSON(raw []byte) error {
	head := struct {
		PropertyName string          `json:"propertyName"`
		Images       json.RawMessage `json:"images"`
		Required     json.RawMessage `json:"required"`
	}{}

	err := json.Unmarshal(raw, &head)
	if err != nil {
		return errors.Wrap(err, "property must be an object with a string propertyName")
	}

	*p = Property{
		PropertyName: head.PropertyName,
		Images:       isTrue(head.Images),
		Required:     isTrue(head.Required),
		raw:          append(json.RawMessage(nil), raw...),
	}

	return nil
}

// MarshalJSON writes the decoded record, or propertyName, images and required for a property
// built in code.
func (p Property) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}

	return json.Marshal(propertyRecord{PropertyName: p.PropertyName, Images: p.Images, Required: p.Required})
}

func isTrue(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}

// ExtractArgs describes an LLM extraction step.
type ExtractArgs struct {
	AttributeName  string     `json:"attribute_name"  validate:"required"`
	Prompt         string     `json:"prompt"          validate:"required"`
	Model          string     `json:"model"           validate:"required"`
	Properties     []Property `json:"properties"      validate:"dive"`
	ProductionMode string     `json:"production_mode" validate:"oneof=sync batch null"`
	TestMode       string     `json:"test_mode"       validate:"oneof=sync batch null"`
}

// DefaultExtractArgs returns the extraction arguments used when a field is omitted.
func DefaultExtractArgs() ExtractArgs {
	return ExtractArgs{
		Model:          defaultModel,
		Properties:     []Property{},
		ProductionMode: "batch",
		TestMode:       defaultTestModeName,
	}
}

// ExtractConfig is the configuration of a LLMPromptTemplate step.
type ExtractConfig struct {
	Model                    string     `json:"model"`
	Prompt                   string     `json:"prompt"`
	Properties               []Property `json:"properties"`
	CostAttributionSourceID  string     `json:"costAttributionSourceId"`
	FlattenOutput            bool       `json:"flattenOutput"`
	ProductionOperationModel *string    `json:"productionOperationModel"`
	TestOperationModel       string     `json:"testOperationModel"`
	OutputPrefix             string     `json:"outputPrefix"`
	UsePrefix                bool       `json:"usePrefix"`
}

// Extract generates an extraction step. A "null" production mode leaves the pipeline default in
// place while a "null" test mode falls back to sync.
func (b *Builder) Extract(args ExtractArgs) (*Generated[ExtractConfig], error) {
	if _, ok := b.catalog.Model(args.Model); !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "%q", args.Model)
	}

	var production *string
	if args.ProductionMode != nullMode {
		mode := args.ProductionMode
		production = &mode
	}

	test := args.TestMode
	if test == nullMode {
		test = defaultTestModeName
	}

	properties := args.Properties
	if properties == nil {
		properties = []Property{}
	}

	return &Generated[ExtractConfig]{
		Title:   "Extraction step configured",
		Summary: fmt.Sprintf("Using **%s** with %d field(s) configured.", args.Model, len(properties)),
		Config: ExtractConfig{
			Model:                    args.Model,
			Prompt:                   args.Prompt,
			Properties:               properties,
			CostAttributionSourceID:  costAttributionID,
			FlattenOutput:            true,
			ProductionOperationModel: production,
			TestOperationModel:       test,
		},
	}, nil
}
