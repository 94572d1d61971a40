package model

type ruleType string

const (
	// SingleNextStepRule links a step to exactly one following step.
	SingleNextStepRule ruleType = "singleNextStep"
)

const (
	// TaskStepType marks a step node as an executable task.
	TaskStepType = "task"
	// StepVersion is the version literal carried by every step node.
	StepVersion = "1"
	// DefaultHoursInterval is the schedule interval of a new orchestration.
	DefaultHoursInterval = 24
	// DefaultStepVersionBase is the first placeholder step version id.
	DefaultStepVersionBase = 1000
)

// NextStepsRule points a step node at the node that follows it.
type NextStepsRule struct {
	Type              ruleType `json:"type"`
	NextStep          string   `json:"nextStep"`
	PossibleNextSteps []string `json:"possibleNextSteps"`
}

// NewSingleNextStep returns a rule pointing at next.
func NewSingleNextStep(next string) *NextStepsRule {
	return &NextStepsRule{
		Type:              SingleNextStepRule,
		NextStep:          next,
		PossibleNextSteps: []string{next},
	}
}

// StepNode is one entry of the orchestration chain.
type StepNode struct {
	PipelineStepID     string         `json:"pipelineStepId"`
	StepID             string         `json:"stepId"`
	StepVersionID      string         `json:"stepVersionId"`
	Version            string         `json:"version"`
	Type               string         `json:"type"`
	AttributeOverrides map[string]any `json:"attributeOverrides"`
	// NextStepsRule is nil on the terminal node.
	NextStepsRule *NextStepsRule `json:"nextStepsRule"`
}

// IsTerminal reports whether no step follows this node.
func (n *StepNode) IsTerminal() bool {
	return n.NextStepsRule == nil
}

// Orchestration describes how the steps of a pipeline are linked and scheduled.
type Orchestration struct {
	// FirstPipelineStepID is nil when the orchestration has no steps.
	FirstPipelineStepID *string    `json:"firstPipelineStepId"`
	EnableSchedule      bool       `json:"enableSchedule"`
	HoursInterval       int        `json:"hoursInterval"`
	CronError           *string    `json:"cronError"`
	Steps               []StepNode `json:"steps"`
}
