package tools

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

type handlerFunc func(ctx context.Context, raw json.RawMessage) (string, error)

// Tool is an operation exposed to the conversational client.
type Tool struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string

	handler handlerFunc
}

// InputSchema returns the JSON schema of the tool arguments.
func (t Tool) InputSchema() map[string]any {
	properties := t.Properties
	if properties == nil {
		properties = map[string]any{}
	}

	required := t.Required
	if required == nil {
		required = []string{}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// InputSchemaJSON returns the encoded JSON schema of the tool arguments.
func (t Tool) InputSchemaJSON() (json.RawMessage, error) {
	raw, err := json.Marshal(t.InputSchema())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to encode schema of %s", t.Name)
	}

	return raw, nil
}

// handle decodes and validates the arguments of a call before running fn.
func handle[T any](defaults func() T, fn func(ctx context.Context, args T) (string, error)) handlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		args, err := ValidateArguments(raw, defaults())
		if err != nil {
			return "", err
		}

		return fn(ctx, args)
	}
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func arrayProperty(description string) map[string]any {
	return map[string]any{"type": "array", "description": description}
}

func withDefault(property map[string]any, value any) map[string]any {
	property["default"] = value

	return property
}

func withEnum(property map[string]any, values ...string) map[string]any {
	property["enum"] = values

	return property
}
