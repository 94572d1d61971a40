// Package catalog holds the reference tables of the CAMP platform: models, step types,
// operation modes, default source tables and normalization pattern families.
//
// The tables are embedded as YAML and decoded once. Every accessor returns a copy.
package catalog

import (
	_ "embed"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// ErrInvalidCatalog is returned when the catalog document is missing a table.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Model is an LLM available to extraction steps.
type Model struct {
	ID          string `yaml:"id"`
	Usage       int    `yaml:"usage"`
	Description string `yaml:"description"`
}

// StepType is a kind of CAMP step.
type StepType struct {
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
}

// Mode is an operation mode of an extraction step.
type Mode struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ModeUsage counts the pipelines using a production/test mode combination.
type ModeUsage struct {
	Combination string `yaml:"combination"`
	Pipelines   int    `yaml:"pipelines"`
	Note        string `yaml:"note"`
}

// Pattern is a suggested normalization rule.
type Pattern struct {
	Match       string `yaml:"match"`
	Replace     string `yaml:"replace"`
	Description string `yaml:"description"`
}

// PatternFamily groups the suggestions for one kind of attribute.
type PatternFamily struct {
	Family   string    `yaml:"family"`
	Aliases  []string  `yaml:"aliases"`
	Fallback bool      `yaml:"fallback"`
	Patterns []Pattern `yaml:"patterns"`
}

// Catalog is the decoded set of reference tables.
type Catalog struct {
	models    []Model
	stepTypes []StepType
	modes     []Mode
	modeUsage []ModeUsage
	tables    map[string]string
	families  []PatternFamily
	fallback  PatternFamily
}

type document struct {
	Models          []Model           `yaml:"models"`
	StepTypes       []StepType        `yaml:"step_types"`
	Modes           []Mode            `yaml:"modes"`
	ModeUsage       []ModeUsage       `yaml:"mode_usage"`
	Tables          map[string]string `yaml:"tables"`
	PatternFamilies []PatternFamily   `yaml:"pattern_families"`
}

// Load decodes a catalog document.
func Load(raw []byte) (*Catalog, error) {
	doc := document{}

	err := yaml.Unmarshal(raw, &doc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode catalog")
	}

	switch {
	case len(doc.Models) == 0:
		return nil, errors.Wrap(ErrInvalidCatalog, "no models")
	case len(doc.StepTypes) == 0:
		return nil, errors.Wrap(ErrInvalidCatalog, "no step types")
	case len(doc.Modes) == 0:
		return nil, errors.Wrap(ErrInvalidCatalog, "no modes")
	}

	cat := &Catalog{
		models:    doc.Models,
		stepTypes: doc.StepTypes,
		modes:     doc.Modes,
		modeUsage: doc.ModeUsage,
		tables:    doc.Tables,
	}

	fallbacks := 0
	for _, family := range doc.PatternFamilies {
		if family.Fallback {
			cat.fallback = family
			fallbacks++

			continue
		}

		cat.families = append(cat.families, family)
	}

	if fallbacks != 1 {
		return nil, errors.Wrapf(ErrInvalidCatalog, "expected one fallback pattern family, got %d", fallbacks)
	}

	return cat, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(embedded)
})

// Default returns the embedded catalog. It panics if the embedded document is invalid.
func Default() *Catalog {
	cat, err := loadDefault()
	if err != nil {
		panic(err)
	}

	return cat
}

// Models returns the models sorted by usage, most used first. Models with the same usage keep
// their catalog order.
func (c *Catalog) Models() []Model {
	res := make([]Model, len(c.models))
	copy(res, c.models)

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Usage > res[j].Usage
	})

	return res
}

// ModelIDs returns the model identifiers in catalog order.
func (c *Catalog) ModelIDs() []string {
	res := make([]string, 0, len(c.models))
	for _, model := range c.models {
		res = append(res, model.ID)
	}

	return res
}

// Model looks a model up by identifier.
func (c *Catalog) Model(id string) (Model, bool) {
	for _, model := range c.models {
		if model.ID == id {
			return model, true
		}
	}

	return Model{}, false
}

// StepTypes returns the step types in catalog order.
func (c *Catalog) StepTypes() []StepType {
	res := make([]StepType, len(c.stepTypes))
	copy(res, c.stepTypes)

	return res
}

// Modes returns the operation modes in catalog order.
func (c *Catalog) Modes() []Mode {
	res := make([]Mode, len(c.modes))
	copy(res, c.modes)

	return res
}

// ModeNames returns the operation mode names in catalog order.
func (c *Catalog) ModeNames() []string {
	res := make([]string, 0, len(c.modes))
	for _, mode := range c.modes {
		res = append(res, mode.Name)
	}

	return res
}

// Mode looks an operation mode up by name.
func (c *Catalog) Mode(name string) (Mode, bool) {
	for _, mode := range c.modes {
		if mode.Name == name {
			return mode, true
		}
	}

	return Mode{}, false
}

// ModeUsage returns the mode combination statistics.
func (c *Catalog) ModeUsage() []ModeUsage {
	res := make([]ModeUsage, len(c.modeUsage))
	copy(res, c.modeUsage)

	return res
}

// Table resolves an entity kind (product, retailer, store) to its default source table.
func (c *Catalog) Table(kind string) (string, bool) {
	table, ok := c.tables[strings.ToLower(kind)]

	return table, ok
}

// Patterns returns the suggestions for an attribute type. The lookup is case insensitive and
// unknown types get the text family.
func (c *Catalog) Patterns(attributeType string) PatternFamily {
	key := strings.ToLower(attributeType)

	for _, family := range c.families {
		for _, alias := range family.Aliases {
			if alias == key {
				return family.clone()
			}
		}
	}

	return c.fallback.clone()
}

func (f PatternFamily) clone() PatternFamily {
	res := f
	res.Aliases = append([]string(nil), f.Aliases...)
	res.Patterns = append([]Pattern(nil), f.Patterns...)

	return res
}
