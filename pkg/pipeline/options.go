package pipeline

import "github.com/askiada/camp-builder/pkg/pipeline/model"

type assembler struct {
	ids             IDSource
	stepVersionBase int
	hoursInterval   int
}

func newAssembler(opts ...AssembleOption) *assembler {
	asm := &assembler{
		ids:             UUIDSource{},
		stepVersionBase: model.DefaultStepVersionBase,
		hoursInterval:   model.DefaultHoursInterval,
	}
	for _, opt := range opts {
		opt(asm)
	}

	return asm
}

type AssembleOption func(a *assembler)

// WithIDSource replaces the UUID source used for pipeline step ids.
func WithIDSource(ids IDSource) AssembleOption {
	return func(a *assembler) {
		if ids != nil {
			a.ids = ids
		}
	}
}

// WithStepVersionBase sets the placeholder version id of the first step.
func WithStepVersionBase(base int) AssembleOption {
	return func(a *assembler) {
		a.stepVersionBase = base
	}
}

// WithHoursInterval sets the schedule interval written to the orchestration.
func WithHoursInterval(hours int) AssembleOption {
	return func(a *assembler) {
		a.hoursInterval = hours
	}
}
