package models

// ExecutionState is the lifecycle state of one workflow run.
type ExecutionState string

const (
	ExecutionStateRunning   ExecutionState = "running"
	ExecutionStateCompleted ExecutionState = "completed"
	ExecutionStateFailed    ExecutionState = "failed"
)

// Executor checkpoint labels, in order.
const (
	StepInitializing    = "Initializing workflow execution"
	StepProcessingQuery = "Processing user query"
	StepRetrieving      = "Retrieving knowledge"
	StepGenerating      = "Generating AI response"
	StepFormatting      = "Formatting output"
	StepCompleted       = "Execution completed"
	StepFailed          = "Execution failed"
)

// ExecutionStatus tracks one run of the executor. It is created fresh per
// invocation and mutated through the fixed checkpoints; only the final chat
// message derived from it is persisted.
type ExecutionStatus struct {
	ExecutionID string           `json:"execution_id"`
	Status      ExecutionState   `json:"status"`
	Progress    int              `json:"progress"`
	CurrentStep string           `json:"current_step"`
	Result      *ExecutionResult `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// ExecutionResult is attached to a completed ExecutionStatus.
type ExecutionResult struct {
	Response       string         `json:"response"`
	Format         string         `json:"format"`
	ExecutionTime  string         `json:"execution_time"`
	ComponentsUsed map[string]int `json:"components_used"`
}

// Fail moves the status to its terminal failed state. Progress is left
// untouched so callers can see how far the run got.
func (s *ExecutionStatus) Fail(message string) {
	s.Status = ExecutionStateFailed
	s.Error = message
}

// Advance moves the status to the next checkpoint.
func (s *ExecutionStatus) Advance(progress int, step string) {
	s.Progress = progress
	s.CurrentStep = step
}
