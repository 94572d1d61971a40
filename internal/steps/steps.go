// Package steps generates the configuration of each CAMP pipeline step from a small argument
// record, along with the message shown to the user.
package steps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/camp-builder/internal/catalog"
)

var (
	// ErrUnknownModel is returned when an extraction step names a model missing from the catalog.
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidPattern is returned when a normalization rule does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrUnknownFormat is returned when a preview asks for an unsupported diagram format.
	ErrUnknownFormat = errors.New("unknown diagram format")
)

// Builder generates step configurations against a catalog.
type Builder struct {
	catalog *catalog.Catalog
}

// NewBuilder creates a builder. A nil catalog selects the embedded one.
func NewBuilder(cat *catalog.Catalog) *Builder {
	if cat == nil {
		cat = catalog.Default()
	}

	return &Builder{catalog: cat}
}

// Catalog returns the catalog used by the builder.
func (b *Builder) Catalog() *catalog.Catalog {
	return b.catalog
}

// Generated is a step configuration and the summary describing it.
type Generated[C any] struct {
	Title   string
	Summary string
	Config  C
}

// Text renders the confirmation message. The configuration is enclosed in step_config tags so
// the caller can pick it up without showing it.
func (g *Generated[C]) Text() (string, error) {
	raw, err := EncodeJSON(g.Config)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("✓ %s\n\n%s\n\n<step_config>\n%s\n</step_config>\n", g.Title, g.Summary, raw), nil
}

// EncodeJSON indents v with two spaces and leaves HTML characters unescaped.
func EncodeJSON(v any) (string, error) {
	buf := &bytes.Buffer{}

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode json")
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
