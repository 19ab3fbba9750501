package domain

// StepType selects the handler a workflow step is dispatched to.
type StepType string

const (
	StepGenerate  StepType = "generate"
	StepFormat    StepType = "format"
	StepAnalyze   StepType = "analyze"
	StepTransform StepType = "transform"
	StepValidate  StepType = "validate"
)

// StepTypes lists every step variant. Handler tables must cover all of them.
var StepTypes = []StepType{StepGenerate, StepFormat, StepAnalyze, StepTransform, StepValidate}

// Valid reports whether t is a known step type.
func (t StepType) Valid() bool {
	for _, known := range StepTypes {
		if t == known {
			return true
		}
	}
	return false
}

// WorkflowStep is one unit of work in a workflow.
// Dependencies name other steps of the same workflow that must run first.
type WorkflowStep struct {
	ID           string         `json:"id" yaml:"id" mapstructure:"id"`
	Name         string         `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Type         StepType       `json:"type" yaml:"type" mapstructure:"type"`
	Parameters   map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
	Dependencies []string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty" mapstructure:"dependencies"`
	Optional     bool           `json:"optional,omitempty" yaml:"optional,omitempty" mapstructure:"optional"`
}

// Workflow is a named, reusable pipeline of dependency-ordered steps.
type Workflow struct {
	ID          string         `json:"id" yaml:"id" mapstructure:"id"`
	Name        string         `json:"name" yaml:"name" mapstructure:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`
	Tags        []string       `json:"tags,omitempty" yaml:"tags,omitempty" mapstructure:"tags"`
	Steps       []WorkflowStep `json:"steps" yaml:"steps" mapstructure:"steps"`
}

// Step returns the step with the given ID.
func (w *Workflow) Step(id string) (WorkflowStep, bool) {
	for _, s := range w.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return WorkflowStep{}, false
}

// Clone returns a deep copy of the workflow definition.
func (w Workflow) Clone() Workflow {
	out := w
	out.Tags = append([]string(nil), w.Tags...)
	out.Steps = make([]WorkflowStep, len(w.Steps))
	for i, s := range w.Steps {
		cp := s
		cp.Dependencies = append([]string(nil), s.Dependencies...)
		if s.Parameters != nil {
			cp.Parameters = cloneMap(s.Parameters)
		}
		out.Steps[i] = cp
	}
	return out
}
