package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/camp-builder/pkg/pipeline/model"
)

// Validate checks that orch is a well formed chain: every step has a distinct id, the first
// step id points at the first step, each non terminal step links to the step that follows it
// and only the last step is terminal.
func Validate(orch *model.Orchestration) error {
	if orch == nil {
		return ErrOrchestrationMustBeSet
	}

	if len(orch.Steps) == 0 {
		if orch.FirstPipelineStepID != nil {
			return errors.Wrapf(ErrFirstStepMismatch, "orchestration has no steps but starts at %s", *orch.FirstPipelineStepID)
		}

		return nil
	}

	first := orch.Steps[0].PipelineStepID
	if orch.FirstPipelineStepID == nil || *orch.FirstPipelineStepID != first {
		return errors.Wrapf(ErrFirstStepMismatch, "expected %s", first)
	}

	last := orch.Steps[len(orch.Steps)-1]
	if !last.IsTerminal() {
		return errors.Wrapf(ErrTerminalStep, "last step %s links to %s", last.StepID, last.NextStepsRule.NextStep)
	}

	gra, err := chainGraph(orch.Steps)
	if err != nil {
		return err
	}

	path, err := graph.ShortestPath(gra, first, last.PipelineStepID)
	if err != nil {
		return errors.Wrapf(ErrBrokenLink, "last step %s is not reachable from the first step: %s", last.StepID, err)
	}

	if len(path) != len(orch.Steps) {
		return errors.Wrapf(ErrBrokenLink, "chain visits %d of %d steps", len(path), len(orch.Steps))
	}

	for i, id := range path {
		if orch.Steps[i].PipelineStepID != id {
			return errors.Wrapf(ErrBrokenLink, "step %s is out of order", orch.Steps[i].StepID)
		}
	}

	return nil
}

// chainGraph adds every step as a vertex and every next step rule as an edge.
func chainGraph(steps []model.StepNode) (graph.Graph[string, string], error) {
	gra := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for i, step := range steps {
		if step.PipelineStepID == "" {
			return nil, errors.Wrapf(ErrMissingStepID, "step at position %d", i+1)
		}

		err := gra.AddVertex(step.PipelineStepID)
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, errors.Wrapf(ErrDuplicateStepID, "%s", step.PipelineStepID)
		}
		if err != nil {
			return nil, errors.Wrap(err, "unable to add vertex")
		}
	}

	for i, step := range steps {
		rule := step.NextStepsRule
		if rule == nil {
			if i < len(steps)-1 {
				return nil, errors.Wrapf(ErrTerminalStep, "step %s has no next step", step.StepID)
			}

			continue
		}

		if rule.Type != model.SingleNextStepRule {
			return nil, errors.Wrapf(ErrUnknownRuleType, "step %s: %q", step.StepID, rule.Type)
		}

		if len(rule.PossibleNextSteps) != 1 || rule.PossibleNextSteps[0] != rule.NextStep {
			return nil, errors.Wrapf(ErrBrokenLink, "possible next steps of step %s do not match %s", step.StepID, rule.NextStep)
		}

		err := gra.AddEdge(step.PipelineStepID, rule.NextStep)
		if err != nil {
			return nil, errors.Wrapf(ErrBrokenLink, "step %s links to %s: %s", step.StepID, rule.NextStep, err)
		}
	}

	return gra, nil
}
