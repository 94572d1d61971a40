package steps

import "fmt"

// Mapping routes a pipeline output field to a catalog attribute.
type Mapping struct {
	AttributeName string `json:"attributeName" validate:"required"`
	CampField     string `json:"campField"     validate:"required"`
	Required      bool   `json:"required"`
}

// PublishArgs describes a publish step.
type PublishArgs struct {
	AttributeName string    `json:"attribute_name" validate:"required"`
	Mappings      []Mapping `json:"mappings"       validate:"dive"`
}

// DefaultPublishArgs returns the publish arguments used when a field is omitted.
func DefaultPublishArgs() PublishArgs {
	return PublishArgs{Mappings: []Mapping{}}
}

// PublishConfig is the configuration of a PublishToSnowflake step.
type PublishConfig struct {
	Data            []Mapping `json:"data"`
	ProductIDField  string    `json:"productIdField"`
	RetailerIDField string    `json:"retailerIdField"`
	LocaleField     string    `json:"localeField"`
	UseRetailerID   bool      `json:"useRetailerId"`
	UseLocale       bool      `json:"useLocale"`
}

// DefaultMappings publishes the normalized value of the attribute with the model reasoning and
// raw value.
func DefaultMappings(attributeName string) []Mapping {
	return []Mapping{
		{AttributeName: attributeName, CampField: "normalized_value"},
		{AttributeName: "camp_ai_reasoning", CampField: "reasoning"},
		{AttributeName: "camp_ai_value", CampField: "value"},
	}
}

// Publish generates a publish step. Without mappings the default ones are used.
func (b *Builder) Publish(args PublishArgs) *Generated[PublishConfig] {
	mappings := args.Mappings
	if len(mappings) == 0 {
		mappings = DefaultMappings(args.AttributeName)
	}

	return &Generated[PublishConfig]{
		Title:   "Publish step configured",
		Summary: fmt.Sprintf("Publishing %d field(s) to Snowflake catalog.", len(mappings)),
		Config: PublishConfig{
			Data:           mappings,
			ProductIDField: "entity_id",
		},
	}
}
