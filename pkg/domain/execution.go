package domain

import "time"

// ExecutionStatus is the state of a whole workflow execution.
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionCompleted || s == ExecutionFailed || s == ExecutionCancelled
}

// StepStatus is the state of a single step within an execution.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// WorkflowStepExecution tracks one step of an execution.
type WorkflowStepExecution struct {
	StepID    string     `json:"step_id"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Result    any        `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// WorkflowResults aggregates the outputs of every completed step.
type WorkflowResults struct {
	Slides           []Slide            `json:"slides,omitempty"`
	Content          string             `json:"content,omitempty"`
	Changes          []FormattingChange `json:"changes,omitempty"`
	ElementsModified int                `json:"elements_modified"`
	Suggestions      []Suggestion       `json:"suggestions,omitempty"`
	Analyses         []ContentAnalysis  `json:"analyses,omitempty"`
	Validation       []ValidationIssue  `json:"validation,omitempty"`
	Warnings         []string           `json:"warnings,omitempty"`
}

// WorkflowExecution is the runtime record of one workflow invocation.
type WorkflowExecution struct {
	ID         string                  `json:"id"`
	WorkflowID string                  `json:"workflow_id"`
	Status     ExecutionStatus         `json:"status"`
	StartTime  time.Time               `json:"start_time"`
	EndTime    *time.Time              `json:"end_time,omitempty"`
	Steps      []WorkflowStepExecution `json:"steps"`
	Results    *WorkflowResults        `json:"results,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// Step returns the tracking record of a step, or nil.
func (e *WorkflowExecution) Step(stepID string) *WorkflowStepExecution {
	for i := range e.Steps {
		if e.Steps[i].StepID == stepID {
			return &e.Steps[i]
		}
	}
	return nil
}

// Clone returns a copy that shares no mutable state with the original.
// Step results are treated as immutable once recorded and are shared.
func (e *WorkflowExecution) Clone() *WorkflowExecution {
	if e == nil {
		return nil
	}
	out := *e
	out.EndTime = cloneTime(e.EndTime)
	out.Steps = make([]WorkflowStepExecution, len(e.Steps))
	for i, s := range e.Steps {
		s.StartTime = cloneTime(s.StartTime)
		s.EndTime = cloneTime(s.EndTime)
		out.Steps[i] = s
	}
	if e.Results != nil {
		r := e.Results.Clone()
		out.Results = &r
	}
	return &out
}

// Clone deep-copies the aggregated results.
func (r WorkflowResults) Clone() WorkflowResults {
	out := r
	out.Slides = CloneSlides(r.Slides)
	out.Changes = append([]FormattingChange(nil), r.Changes...)
	out.Suggestions = append([]Suggestion(nil), r.Suggestions...)
	out.Analyses = append([]ContentAnalysis(nil), r.Analyses...)
	out.Validation = append([]ValidationIssue(nil), r.Validation...)
	out.Warnings = append([]string(nil), r.Warnings...)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
