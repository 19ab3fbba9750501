package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/mitchellh/mapstructure"
)

// Severity of a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one problem spotted in a workflow definition.
type Finding struct {
	StepID   string
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	if f.StepID == "" {
		return fmt.Sprintf("%s: %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("%s: step '%s': %s", f.Severity, f.StepID, f.Message)
}

// Lint inspects a structurally valid workflow for mistakes the engine
// tolerates at run time: unknown or mistyped parameters, unsupported
// scopes and operations, repeated dependencies and required steps that
// consume the output of optional ones.
func Lint(w domain.Workflow) []Finding {
	var findings []Finding
	byID := make(map[string]domain.WorkflowStep, len(w.Steps))
	for _, s := range w.Steps {
		byID[s.ID] = s
	}

	for _, step := range w.Steps {
		findings = append(findings, lintParams(step)...)

		seen := make(map[string]bool, len(step.Dependencies))
		for _, dep := range step.Dependencies {
			if seen[dep] {
				findings = append(findings, Finding{step.ID, SeverityWarning, fmt.Sprintf("dependency '%s' listed twice", dep)})
			}
			seen[dep] = true
		}

		if !step.Optional {
			if opt := optionalAncestor(step, byID); opt != "" {
				findings = append(findings, Finding{step.ID, SeverityWarning,
					fmt.Sprintf("required step runs after optional step '%s' and may see partial results", opt)})
			}
		}
	}
	return findings
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// optionalAncestor walks dependencies breadth-first and returns the first
// optional step found upstream of step, or "".
func optionalAncestor(step domain.WorkflowStep, byID map[string]domain.WorkflowStep) string {
	visited := map[string]bool{step.ID: true}
	queue := append([]string(nil), step.Dependencies...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		dep, ok := byID[id]
		if !ok {
			continue
		}
		if dep.Optional {
			return dep.ID
		}
		queue = append(queue, dep.Dependencies...)
	}
	return ""
}

func lintParams(step domain.WorkflowStep) []Finding {
	var target any
	switch step.Type {
	case domain.StepGenerate:
		target = &workflow.GenerateParams{}
	case domain.StepFormat:
		target = &workflow.FormatParams{}
	case domain.StepAnalyze:
		target = &workflow.AnalyzeParams{}
	case domain.StepTransform:
		target = &workflow.TransformParams{}
	case domain.StepValidate:
		target = &workflow.ValidateParams{}
	default:
		return []Finding{{step.ID, SeverityError, fmt.Sprintf("unknown step type '%s'", step.Type)}}
	}

	md := &mapstructure.Metadata{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		Metadata:         md,
	})
	if err != nil {
		return []Finding{{step.ID, SeverityError, err.Error()}}
	}
	if err := dec.Decode(step.Parameters); err != nil {
		return []Finding{{step.ID, SeverityError, "invalid parameters: " + err.Error()}}
	}

	var findings []Finding
	if len(md.Unused) > 0 {
		unused := slices.Sorted(slices.Values(md.Unused))
		findings = append(findings, Finding{step.ID, SeverityWarning,
			fmt.Sprintf("unknown parameters: %s", strings.Join(unused, ", "))})
	}

	switch p := target.(type) {
	case *workflow.FormatParams:
		findings = append(findings, lintScope(step.ID, p.Scope)...)
	case *workflow.AnalyzeParams:
		findings = append(findings, lintScope(step.ID, p.Scope)...)
	case *workflow.TransformParams:
		ops := p.Operations
		if p.Operation != "" {
			ops = append([]string{p.Operation}, ops...)
		}
		known := workflow.Operations()
		for _, op := range ops {
			if !slices.Contains(known, op) {
				findings = append(findings, Finding{step.ID, SeverityError, fmt.Sprintf("unknown transform operation '%s'", op)})
			}
		}
	}
	return findings
}

func lintScope(stepID, scope string) []Finding {
	switch scope {
	case "", workflow.ScopeSlide, workflow.ScopePresentation:
		return nil
	}
	return []Finding{{stepID, SeverityError, fmt.Sprintf("unknown scope '%s'", scope)}}
}
