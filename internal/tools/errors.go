package tools

import (
	"github.com/pkg/errors"

	"github.com/askiada/camp-builder/internal/steps"
	"github.com/askiada/camp-builder/pkg/pipeline"
)

var (
	// ErrUnknownTool is returned when no tool is registered under the requested name.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrMissingArgument is returned when a required argument is absent or null.
	ErrMissingArgument = errors.New("missing required argument")
	// ErrInvalidArgument is returned when the arguments cannot be decoded or fail validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

var contractViolations = []error{
	ErrUnknownTool,
	ErrMissingArgument,
	ErrInvalidArgument,
	steps.ErrUnknownModel,
	steps.ErrInvalidPattern,
	steps.ErrUnknownFormat,
	pipeline.ErrNameMustBeSet,
	pipeline.ErrStepsMustBeSet,
}

// IsContractViolation reports whether err was caused by the caller rather than by the tool.
func IsContractViolation(err error) bool {
	for _, target := range contractViolations {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
