package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrNameMustBeSet          = errors.New("name must be set")
	ErrStepsMustBeSet         = errors.New("steps must be set")
	ErrOrchestrationMustBeSet = errors.New("orchestration must be set")
	ErrMissingStepID          = errors.New("pipeline step id must be set")
	ErrDuplicateStepID        = errors.New("duplicate pipeline step id")
	ErrFirstStepMismatch      = errors.New("first pipeline step id does not match the first step")
	ErrTerminalStep           = errors.New("exactly the last step must be terminal")
	ErrUnknownRuleType        = errors.New("unknown next steps rule type")
	ErrBrokenLink             = errors.New("broken step link")
)
