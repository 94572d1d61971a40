package pipeline

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/askiada/camp-builder/pkg/pipeline/model"
)

// Assembly is a pipeline ready to be imported into CAMP.
type Assembly[C any] struct {
	Name          string
	Description   string
	Orchestration *model.Orchestration
	// Configs holds the step configurations in chain order, as given to Assemble.
	Configs []C
}

// Assemble links steps into an orchestration chain.
// A nil steps slice is a missing argument, an empty one yields an orchestration without steps.
func Assemble[C any](name, description string, steps []C, opts ...AssembleOption) (*Assembly[C], error) {
	if name == "" {
		return nil, ErrNameMustBeSet
	}
	if steps == nil {
		return nil, ErrStepsMustBeSet
	}

	asm := newAssembler(opts...)
	orch := asm.orchestration(len(steps))

	err := Validate(orch)
	if err != nil {
		return nil, errors.Wrap(err, "assembled orchestration is inconsistent")
	}

	return &Assembly[C]{
		Name:          name,
		Description:   description,
		Orchestration: orch,
		Configs:       steps,
	}, nil
}

func (a *assembler) orchestration(total int) *model.Orchestration {
	ids := make([]string, total)
	for i := range ids {
		ids[i] = a.ids.Next()
	}

	orch := &model.Orchestration{
		EnableSchedule: false,
		HoursInterval:  a.hoursInterval,
		Steps:          make([]model.StepNode, total),
	}
	if total > 0 {
		first := ids[0]
		orch.FirstPipelineStepID = &first
	}

	for i := range orch.Steps {
		orch.Steps[i] = a.node(i, ids)
	}

	return orch
}

// node builds the step at position idx. It only looks ahead at the id of the following step.
func (a *assembler) node(idx int, ids []string) model.StepNode {
	node := model.StepNode{
		PipelineStepID:     ids[idx],
		StepID:             strconv.Itoa(idx + 1),
		StepVersionID:      strconv.Itoa(a.stepVersionBase + idx),
		Version:            model.StepVersion,
		Type:               model.TaskStepType,
		AttributeOverrides: map[string]any{},
	}
	if idx < len(ids)-1 {
		node.NextStepsRule = model.NewSingleNextStep(ids[idx+1])
	}

	return node
}
