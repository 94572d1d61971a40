package pipeline_test

import (
	"encoding/json"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/camp-builder/pkg/pipeline"
	"github.com/askiada/camp-builder/pkg/pipeline/model"
)

type stepConfig map[string]any

func configs(total int) []stepConfig {
	res := make([]stepConfig, total)
	for i := range res {
		res[i] = stepConfig{"index": i}
	}

	return res
}

func TestAssembleNilName(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Assemble("", "d", configs(1))
	require.ErrorIs(t, err, pipeline.ErrNameMustBeSet)
}

func TestAssembleNilSteps(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Assemble[stepConfig]("x", "d", nil)
	require.ErrorIs(t, err, pipeline.ErrStepsMustBeSet)
}

func TestAssembleNoSteps(t *testing.T) {
	t.Parallel()

	asm, err := pipeline.Assemble("x", "d", []stepConfig{})
	require.NoError(t, err)

	orch := asm.Orchestration
	assert.Nil(t, orch.FirstPipelineStepID)
	assert.NotNil(t, orch.Steps)
	assert.Empty(t, orch.Steps)
	assert.False(t, orch.EnableSchedule)
	assert.Equal(t, model.DefaultHoursInterval, orch.HoursInterval)
	assert.Nil(t, orch.CronError)

	raw, err := json.Marshal(orch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstPipelineStepId":null,"enableSchedule":false,"hoursInterval":24,"cronError":null,"steps":[]}`, string(raw))
}

func TestAssembleSingleStep(t *testing.T) {
	t.Parallel()

	asm, err := pipeline.Assemble("x", "d", configs(1))
	require.NoError(t, err)

	orch := asm.Orchestration
	require.Len(t, orch.Steps, 1)
	require.NotNil(t, orch.FirstPipelineStepID)
	assert.Equal(t, orch.Steps[0].PipelineStepID, *orch.FirstPipelineStepID)
	assert.Nil(t, orch.Steps[0].NextStepsRule)
	assert.True(t, orch.Steps[0].IsTerminal())
	assert.Equal(t, "1", orch.Steps[0].StepID)
	assert.Equal(t, "1000", orch.Steps[0].StepVersionID)
}

func TestAssembleWineABV(t *testing.T) {
	t.Parallel()

	cfgA := stepConfig{"query": "SELECT 1"}
	cfgB := stepConfig{"model": "gpt-5-mini"}
	cfgC := stepConfig{"data": []any{}}

	asm, err := pipeline.Assemble("wine-abv", "", []stepConfig{cfgA, cfgB, cfgC})
	require.NoError(t, err)

	assert.Equal(t, "wine-abv", asm.Name)
	assert.Empty(t, asm.Description)
	assert.Equal(t, []stepConfig{cfgA, cfgB, cfgC}, asm.Configs)

	steps := asm.Orchestration.Steps
	require.Len(t, steps, 3)
	assert.Equal(t, "1", steps[0].StepID)
	assert.Equal(t, "2", steps[1].StepID)
	assert.Equal(t, "3", steps[2].StepID)
	require.NotNil(t, steps[0].NextStepsRule)
	assert.Equal(t, steps[1].PipelineStepID, steps[0].NextStepsRule.NextStep)
	assert.Equal(t, steps[2].PipelineStepID, steps[1].NextStepsRule.NextStep)
	assert.Nil(t, steps[2].NextStepsRule)
	assert.Equal(t, steps[0].PipelineStepID, *asm.Orchestration.FirstPipelineStepID)
}

func TestAssembleChain(t *testing.T) {
	t.Parallel()

	for _, total := range []int{0, 1, 2, 3, 5, 10, 64} {
		total := total
		t.Run(strconv.Itoa(total), func(t *testing.T) {
			t.Parallel()

			asm, err := pipeline.Assemble("chain", "", configs(total))
			require.NoError(t, err)

			steps := asm.Orchestration.Steps
			require.Len(t, steps, total)

			seen := map[string]struct{}{}
			terminals := 0
			for i, step := range steps {
				seen[step.PipelineStepID] = struct{}{}
				assert.Equal(t, strconv.Itoa(i+1), step.StepID)
				assert.Equal(t, strconv.Itoa(1000+i), step.StepVersionID)
				assert.Equal(t, model.StepVersion, step.Version)
				assert.Equal(t, model.TaskStepType, step.Type)
				assert.NotNil(t, step.AttributeOverrides)
				assert.Empty(t, step.AttributeOverrides)

				if step.IsTerminal() {
					terminals++

					continue
				}

				require.Less(t, i, total-1, "only the last step is terminal")
				assert.Equal(t, model.SingleNextStepRule, step.NextStepsRule.Type)
				assert.Equal(t, steps[i+1].PipelineStepID, step.NextStepsRule.NextStep)
				assert.Equal(t, []string{steps[i+1].PipelineStepID}, step.NextStepsRule.PossibleNextSteps)
			}

			assert.Len(t, seen, total)
			if total == 0 {
				assert.Nil(t, asm.Orchestration.FirstPipelineStepID)
				assert.Zero(t, terminals)

				return
			}

			assert.Equal(t, 1, terminals)
			assert.True(t, steps[total-1].IsTerminal())
			assert.Equal(t, steps[0].PipelineStepID, *asm.Orchestration.FirstPipelineStepID)
			assert.NoError(t, pipeline.Validate(asm.Orchestration))
		})
	}
}

func TestAssembleTwiceSameShape(t *testing.T) {
	t.Parallel()

	first, err := pipeline.Assemble("x", "d", configs(4))
	require.NoError(t, err)
	second, err := pipeline.Assemble("x", "d", configs(4))
	require.NoError(t, err)

	for i := range first.Orchestration.Steps {
		assert.NotEqual(t, first.Orchestration.Steps[i].PipelineStepID, second.Orchestration.Steps[i].PipelineStepID)
	}

	ignoreIDs := cmp.Options{
		cmpopts.IgnoreFields(model.Orchestration{}, "FirstPipelineStepID"),
		cmpopts.IgnoreFields(model.StepNode{}, "PipelineStepID"),
		cmpopts.IgnoreFields(model.NextStepsRule{}, "NextStep", "PossibleNextSteps"),
	}
	assert.Empty(t, cmp.Diff(first.Orchestration, second.Orchestration, ignoreIDs))
}

func TestAssembleOptions(t *testing.T) {
	t.Parallel()

	asm, err := pipeline.Assemble("x", "d", configs(3),
		pipeline.WithIDSource(pipeline.NewSequenceSource("step")),
		pipeline.WithStepVersionBase(5000),
		pipeline.WithHoursInterval(12),
	)
	require.NoError(t, err)

	orch := asm.Orchestration
	assert.Equal(t, 12, orch.HoursInterval)
	assert.Equal(t, "step-1", *orch.FirstPipelineStepID)
	assert.Equal(t, []string{"step-1", "step-2", "step-3"}, []string{
		orch.Steps[0].PipelineStepID,
		orch.Steps[1].PipelineStepID,
		orch.Steps[2].PipelineStepID,
	})
	assert.Equal(t, []string{"5000", "5001", "5002"}, []string{
		orch.Steps[0].StepVersionID,
		orch.Steps[1].StepVersionID,
		orch.Steps[2].StepVersionID,
	})
}

func TestAssembleNilIDSourceKeepsDefault(t *testing.T) {
	t.Parallel()

	asm, err := pipeline.Assemble("x", "d", configs(2), pipeline.WithIDSource(nil))
	require.NoError(t, err)
	assert.Len(t, asm.Orchestration.Steps[0].PipelineStepID, 36)
}

type constantSource string

func (c constantSource) Next() string { return string(c) }

func TestAssembleCollidingIDSource(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Assemble("x", "d", configs(2), pipeline.WithIDSource(constantSource("same")))
	require.ErrorIs(t, err, pipeline.ErrDuplicateStepID)

	asm, err := pipeline.Assemble("x", "d", configs(1), pipeline.WithIDSource(constantSource("same")))
	require.NoError(t, err, "a single step cannot collide")
	assert.Equal(t, "same", *asm.Orchestration.FirstPipelineStepID)
}

func TestAssembleJSONShape(t *testing.T) {
	t.Parallel()

	asm, err := pipeline.Assemble("x", "d", configs(2), pipeline.WithIDSource(pipeline.NewSequenceSource("id")))
	require.NoError(t, err)

	raw, err := json.Marshal(asm.Orchestration)
	require.NoError(t, err)

	expected := `{
		"firstPipelineStepId": "id-1",
		"enableSchedule": false,
		"hoursInterval": 24,
		"cronError": null,
		"steps": [
			{
				"pipelineStepId": "id-1",
				"stepId": "1",
				"stepVersionId": "1000",
				"version": "1",
				"type": "task",
				"attributeOverrides": {},
				"nextStepsRule": {"type": "singleNextStep", "nextStep": "id-2", "possibleNextSteps": ["id-2"]}
			},
			{
				"pipelineStepId": "id-2",
				"stepId": "2",
				"stepVersionId": "1001",
				"version": "1",
				"type": "task",
				"attributeOverrides": {},
				"nextStepsRule": null
			}
		]
	}`
	assert.JSONEq(t, expected, string(raw))
}

func TestAssembleConcurrent(t *testing.T) {
	t.Parallel()

	const (
		workers = 32
		total   = 8
	)

	sources := map[string]pipeline.IDSource{
		"uuid":     pipeline.UUIDSource{},
		"xid":      pipeline.XIDSource{},
		"sequence": pipeline.NewSequenceSource("seq"),
	}

	for name, src := range sources {
		src := src
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var (
				mu  sync.Mutex
				wg  sync.WaitGroup
				ids = map[string]struct{}{}
			)

			wg.Add(workers)
			for w := 0; w < workers; w++ {
				go func() {
					defer wg.Done()

					asm, err := pipeline.Assemble("x", "", configs(total), pipeline.WithIDSource(src))
					assert.NoError(t, err)
					if err != nil {
						return
					}

					mu.Lock()
					defer mu.Unlock()
					for _, step := range asm.Orchestration.Steps {
						ids[step.PipelineStepID] = struct{}{}
					}
				}()
			}
			wg.Wait()

			assert.Len(t, ids, workers*total)
		})
	}
}
