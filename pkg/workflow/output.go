package workflow

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
)

// Output is the result of a step handler. The set of outputs is closed:
// each variant knows how to fold itself into the execution results.
type Output interface {
	// StepType reports which kind of step produced the output.
	StepType() domain.StepType
	fold(run *Run)
}

// GenerateOutput replaces the working slides with generated ones.
type GenerateOutput struct {
	Content  string         `json:"content,omitempty"`
	Slides   []domain.Slide `json:"slides,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (GenerateOutput) StepType() domain.StepType { return domain.StepGenerate }

func (o GenerateOutput) fold(run *Run) {
	if len(o.Slides) > 0 {
		run.Slides = domain.CloneSlides(o.Slides)
	}
	if o.Content != "" {
		run.Results.Content = o.Content
	}
}

// FormatOutput carries formatted slides and their audit trail.
type FormatOutput struct {
	Result formatting.Result `json:"result"`
	Slides []domain.Slide    `json:"-"`
}

func (FormatOutput) StepType() domain.StepType { return domain.StepFormat }

func (o FormatOutput) fold(run *Run) {
	run.Slides = domain.CloneSlides(o.Slides)
	run.Results.Changes = append(run.Results.Changes, o.Result.Changes...)
	run.Results.ElementsModified += o.Result.ElementsModified
	run.Results.Warnings = append(run.Results.Warnings, o.Result.Warnings...)
	for _, e := range o.Result.Errors {
		run.Results.Warnings = append(run.Results.Warnings, "formatting: "+e)
	}
}

// AnalyzeOutput carries suggestions and quality scores.
type AnalyzeOutput struct {
	Suggestions []domain.Suggestion      `json:"suggestions"`
	Analyses    []domain.ContentAnalysis `json:"analyses"`
	Warnings    []string                 `json:"warnings,omitempty"`
}

func (AnalyzeOutput) StepType() domain.StepType { return domain.StepAnalyze }

func (o AnalyzeOutput) fold(run *Run) {
	run.Results.Suggestions = append(run.Results.Suggestions, o.Suggestions...)
	run.Results.Analyses = append(run.Results.Analyses, o.Analyses...)
	run.Results.Warnings = append(run.Results.Warnings, o.Warnings...)
}

// TransformOutput replaces the working slides with transformed ones.
type TransformOutput struct {
	Operations []string       `json:"operations"`
	Changed    int            `json:"changed"`
	Slides     []domain.Slide `json:"-"`
}

func (TransformOutput) StepType() domain.StepType { return domain.StepTransform }

func (o TransformOutput) fold(run *Run) {
	run.Slides = domain.CloneSlides(o.Slides)
}

// ValidateOutput lists the problems found in the working slides.
type ValidateOutput struct {
	Valid  bool                     `json:"valid"`
	Issues []domain.ValidationIssue `json:"issues,omitempty"`
}

func (ValidateOutput) StepType() domain.StepType { return domain.StepValidate }

func (o ValidateOutput) fold(run *Run) {
	run.Results.Validation = append(run.Results.Validation, o.Issues...)
}

// Run is the working state of one execution, shared by its steps.
type Run struct {
	ExecutionID string
	Workflow    domain.Workflow
	Context     Context
	// Slides is the working copy; handlers must not modify it in place.
	Slides  []domain.Slide
	Results *domain.WorkflowResults
}

func (r *Run) warnf(format string, args ...any) {
	r.Results.Warnings = append(r.Results.Warnings, fmt.Sprintf(format, args...))
}
