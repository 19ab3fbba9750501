package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
)

// ExecutionOverlay colours steps by the state they reached in one execution.
type ExecutionOverlay struct {
	Steps map[string]domain.StepStatus
}

// OverlayFrom builds an overlay from an execution record. A nil execution yields nil.
func OverlayFrom(exec *domain.WorkflowExecution) *ExecutionOverlay {
	if exec == nil {
		return nil
	}
	o := &ExecutionOverlay{Steps: make(map[string]domain.StepStatus, len(exec.Steps))}
	for _, s := range exec.Steps {
		o.Steps[s.StepID] = s.Status
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the step dependency graph.
// Shapes follow the step type:
// - generate: [[Subroutine]]
// - analyze: {{Hexagon}}
// - transform: [/Parallelogram/]
// - validate: {Rhombus}
// - format and anything else: [Rectangle]
// Edges run from a dependency to its dependent; optional steps are reached by dotted edges.
func GenerateMermaid(w domain.Workflow, overlay *ExecutionOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, step := range w.Steps {
		safeID := sanitizeMermaidID(step.ID)
		opener, closer := shapeFor(step.Type)

		label := step.ID
		if step.Name != "" && step.Name != step.ID {
			label = step.Name
		}
		label = strings.ReplaceAll(label, "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s <br/> %s\"%s\n", safeID, opener, label, step.Type, closer)

		arrow := "-->"
		if step.Optional {
			arrow = "-.->"
		}
		for _, dep := range step.Dependencies {
			fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(dep), arrow, safeID)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Execution Overlay\n")
		// color:#000 keeps labels readable on both light and dark themes
		sb.WriteString("    classDef completed fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef skipped fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef running fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		// Steps are walked in declaration order so output is stable.
		for _, step := range w.Steps {
			status, ok := overlay.Steps[step.ID]
			if !ok || status == domain.StepPending {
				continue
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(step.ID), status)
		}
	}

	return sb.String()
}

func shapeFor(t domain.StepType) (string, string) {
	switch t {
	case domain.StepGenerate:
		return "[[", "]]"
	case domain.StepAnalyze:
		return "{{", "}}"
	case domain.StepTransform:
		return "[/", "/]"
	case domain.StepValidate:
		return "{", "}"
	default:
		return "[", "]"
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
