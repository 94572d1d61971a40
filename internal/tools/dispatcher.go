// Package tools exposes the pipeline builder operations as named tools with a JSON schema,
// independent of the transport carrying the calls.
package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/askiada/camp-builder/internal/steps"
	"github.com/askiada/camp-builder/pkg/pipeline"
)

const unknownToolLabel = "unknown"

// Dispatcher routes tool calls to their handler.
type Dispatcher struct {
	builder         *steps.Builder
	assembleOptions []pipeline.AssembleOption
	logger          *zap.Logger
	metrics         *Metrics

	tools  []*Tool
	byName map[string]*Tool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(d *Dispatcher)

// WithBuilder sets the step builder. A nil builder is ignored.
func WithBuilder(builder *steps.Builder) DispatcherOption {
	return func(d *Dispatcher) {
		if builder != nil {
			d.builder = builder
		}
	}
}

// WithAssembleOptions sets the options used when assembling a pipeline.
func WithAssembleOptions(opts ...pipeline.AssembleOption) DispatcherOption {
	return func(d *Dispatcher) {
		d.assembleOptions = opts
	}
}

// WithLogger sets the logger of the dispatcher. A nil logger is ignored.
func WithLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics sets the metrics recording the calls. A nil value is ignored.
func WithMetrics(metrics *Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		if metrics != nil {
			d.metrics = metrics
		}
	}
}

// NewDispatcher creates a dispatcher serving every tool.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		builder: steps.NewBuilder(nil),
		logger:  zap.NewNop(),
		metrics: NewMetrics(),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.tools = d.registry()
	d.byName = make(map[string]*Tool, len(d.tools))
	for _, tool := range d.tools {
		d.byName[tool.Name] = tool
	}

	return d
}

// Tools returns the tools in registration order.
func (d *Dispatcher) Tools() []Tool {
	res := make([]Tool, 0, len(d.tools))
	for _, tool := range d.tools {
		res = append(res, *tool)
	}

	return res
}

// Tool looks a tool up by name.
func (d *Dispatcher) Tool(name string) (Tool, bool) {
	tool, ok := d.byName[name]
	if !ok {
		return Tool{}, false
	}

	return *tool, true
}

// Metrics returns the metrics recording the calls.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Call runs a tool. args holds the JSON object of arguments; empty or null means no argument.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	start := time.Now()
	logger := d.logger.With(zap.String("tool", name), zap.String("call_id", xid.New().String()))

	text, err := d.call(ctx, name, args)
	elapsed := time.Since(start)

	label := name
	if errors.Is(err, ErrUnknownTool) {
		label = unknownToolLabel
	}

	outcome := outcomeOf(err)
	d.metrics.observe(label, outcome, elapsed)

	fields := []zap.Field{zap.String("outcome", outcome), zap.Duration("duration", elapsed)}

	switch outcome {
	case OutcomeOK:
		logger.Info("tool call", fields...)
	case OutcomeContractViolation:
		logger.Warn("tool call rejected", append(fields, zap.Error(err))...)
	default:
		logger.Error("tool call failed", append(fields, zap.Error(err))...)
	}

	return text, err
}

func (d *Dispatcher) call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	err := ctx.Err()
	if err != nil {
		return "", errors.Wrap(err, "call cancelled")
	}

	tool, ok := d.byName[name]
	if !ok {
		return "", errors.Wrapf(ErrUnknownTool, "%q", name)
	}

	keys, err := argumentKeys(args)
	if err != nil {
		return "", err
	}

	err = checkRequired(keys, tool.Required)
	if err != nil {
		return "", err
	}

	return tool.handler(ctx, args)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case IsContractViolation(err):
		return OutcomeContractViolation
	default:
		return OutcomeError
	}
}
