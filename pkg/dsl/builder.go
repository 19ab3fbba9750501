package dsl

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
)

// Builder manages the workflow construction.
type Builder struct {
	wf    domain.Workflow
	steps []*StepBuilder
	index map[string]*StepBuilder
}

// New creates a new workflow builder.
func New(id string) *Builder {
	return &Builder{
		wf:    domain.Workflow{ID: id, Name: id},
		index: make(map[string]*StepBuilder),
	}
}

// Named sets the display name.
func (b *Builder) Named(name string) *Builder {
	b.wf.Name = name
	return b
}

// Describe sets the description.
func (b *Builder) Describe(description string) *Builder {
	b.wf.Description = description
	return b
}

// Category sets the catalog category.
func (b *Builder) Category(category string) *Builder {
	b.wf.Category = category
	return b
}

// Tags appends search tags.
func (b *Builder) Tags(tags ...string) *Builder {
	b.wf.Tags = append(b.wf.Tags, tags...)
	return b
}

// Step adds a step to the workflow, in declaration order.
// If the step already exists, it returns the existing builder.
func (b *Builder) Step(id string) *StepBuilder {
	if sb, ok := b.index[id]; ok {
		return sb
	}
	sb := &StepBuilder{step: domain.WorkflowStep{ID: id, Name: id}}
	b.index[id] = sb
	b.steps = append(b.steps, sb)
	return sb
}

// Build compiles the workflow. It rejects steps without a type and
// dependencies on undeclared steps; cycles are left to the planner.
func (b *Builder) Build() (domain.Workflow, error) {
	wf := b.wf
	wf.Steps = make([]domain.WorkflowStep, 0, len(b.steps))
	for _, sb := range b.steps {
		if sb.step.Type == "" {
			return domain.Workflow{}, fmt.Errorf("workflow '%s': step '%s' has no type", wf.ID, sb.step.ID)
		}
		for _, dep := range sb.step.Dependencies {
			if _, ok := b.index[dep]; !ok {
				return domain.Workflow{}, fmt.Errorf("workflow '%s': step '%s' depends on unknown step '%s'", wf.ID, sb.step.ID, dep)
			}
		}
		wf.Steps = append(wf.Steps, sb.Build())
	}
	return wf.Clone(), nil
}

// MustBuild is like Build but panics on error. Intended for static catalogs.
func (b *Builder) MustBuild() domain.Workflow {
	wf, err := b.Build()
	if err != nil {
		panic(err)
	}
	return wf
}

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step domain.WorkflowStep
}

// Named sets the display name of the step.
func (s *StepBuilder) Named(name string) *StepBuilder {
	s.step.Name = name
	return s
}

// Generate makes this a generate step requesting the given content type.
func (s *StepBuilder) Generate(kind string) *StepBuilder {
	s.step.Type = domain.StepGenerate
	return s.Param("type", kind)
}

// Format makes this a format step with the given scope ("slide" or "presentation").
func (s *StepBuilder) Format(scope string) *StepBuilder {
	s.step.Type = domain.StepFormat
	return s.Param("scope", scope)
}

// Analyze makes this an analyze step over the whole presentation.
func (s *StepBuilder) Analyze() *StepBuilder {
	s.step.Type = domain.StepAnalyze
	return s
}

// Transform makes this a transform step running the given operations in order.
func (s *StepBuilder) Transform(operations ...string) *StepBuilder {
	s.step.Type = domain.StepTransform
	ops := make([]any, len(operations))
	for i, op := range operations {
		ops[i] = op
	}
	return s.Param("operations", ops)
}

// Validate makes this a validate step.
func (s *StepBuilder) Validate() *StepBuilder {
	s.step.Type = domain.StepValidate
	return s
}

// Param sets a step parameter.
func (s *StepBuilder) Param(key string, value any) *StepBuilder {
	if s.step.Parameters == nil {
		s.step.Parameters = make(map[string]any)
	}
	s.step.Parameters[key] = value
	return s
}

// After declares dependencies on other steps.
func (s *StepBuilder) After(steps ...string) *StepBuilder {
	s.step.Dependencies = append(s.step.Dependencies, steps...)
	return s
}

// Optional marks the step as optional: its failure does not abort the execution.
func (s *StepBuilder) Optional() *StepBuilder {
	s.step.Optional = true
	return s
}

// Build returns the underlying domain.WorkflowStep.
func (s *StepBuilder) Build() domain.WorkflowStep {
	return s.step
}
