package drawer

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint
)

// StepKind selects the fill colour of a step.
type StepKind string

const (
	InputKind     StepKind = "input"
	ExtractKind   StepKind = "extract"
	NormalizeKind StepKind = "normalize"
	AuditKind     StepKind = "audit"
	PublishKind   StepKind = "publish"
)

var palette = map[StepKind][3]uint8{
	InputKind:     {173, 216, 230},
	ExtractKind:   {221, 160, 221},
	NormalizeKind: {255, 218, 185},
	AuditKind:     {144, 238, 144},
	PublishKind:   {255, 250, 205},
}

var defaultFill = [3]uint8{211, 211, 211}

// DOTDrawer renders a pipeline as a Graphviz DOT digraph.
// Steps and links are written in the order they were added.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	steps []string
	links [][2]string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer() *DOTDrawer {
	return &DOTDrawer{
		graph: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name, label string, kind StepKind) error {
	fill, err := fillColour(kind)
	if err != nil {
		return err
	}

	err = d.graph.AddVertex(name,
		graph.VertexAttribute("label", label),
		graph.VertexAttribute("shape", "box"),
		graph.VertexAttribute("style", "filled,rounded"),
		graph.VertexAttribute("fillcolor", fill),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	d.steps = append(d.steps, name)

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	d.links = append(d.links, [2]string{parentName, childrenName})

	return nil
}

// Draw writes the DOT description of the pipeline graph.
func (d *DOTDrawer) Draw(wrt io.Writer) error {
	desc, err := d.description(GraphAttribute("rankdir", "TB"))
	if err != nil {
		return errors.Wrap(err, "unable to describe graph")
	}

	return renderDOT(wrt, desc)
}

func fillColour(kind StepKind) (string, error) {
	rgb, ok := palette[kind]
	if !ok {
		rgb = defaultFill
	}

	colour, err := colors.RGB(rgb[0], rgb[1], rgb[2]) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

//nolint:lll //this is a template
const dotTemplate = `strict digraph {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range .Statements}}
	"{{.Source}}" {{if .Target}}-> "{{.Target}}"{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	Attributes map[string]string
	Statements []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	SourceWeight     int
}

// GraphAttribute sets a graph level attribute of the DOT output.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func (d *DOTDrawer) description(options ...func(*description)) (description, error) {
	desc := description{
		Attributes: make(map[string]string),
		Statements: make([]statement, 0, len(d.steps)+len(d.links)),
	}

	for _, option := range options {
		option(&desc)
	}

	for _, name := range d.steps {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(properties.Attributes))
		for k, v := range properties.Attributes {
			attributes[k] = escape(v)
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           escape(name),
			SourceAttributes: attributes,
			SourceWeight:     properties.Weight,
		})
	}

	for _, link := range d.links {
		desc.Statements = append(desc.Statements, statement{
			Source: escape(link[0]),
			Target: escape(link[1]),
		})
	}

	return desc, nil
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
