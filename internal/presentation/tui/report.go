package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
)

// SuggestionReport renders suggestions ordered as given, plus any rule warnings.
func SuggestionReport(suggestions []domain.Suggestion, warnings []string) string {
	var sb strings.Builder
	sb.WriteString("# Suggestions\n\n")
	if len(suggestions) == 0 {
		sb.WriteString("_No suggestions. The slide looks good._\n")
	}
	for i, s := range suggestions {
		fmt.Fprintf(&sb, "%d. **%s** (%s, priority %d, confidence %.0f%%)\n", i+1, s.Title, s.Category, s.Priority, s.Confidence*100)
		if s.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", s.Description)
		}
	}
	writeWarnings(&sb, warnings)
	return sb.String()
}

// AnalysisReport renders the quality scores and accessibility checks of a slide.
func AnalysisReport(a domain.ContentAnalysis) string {
	var sb strings.Builder
	sb.WriteString("# Analysis\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Readability | %.0f |\n", a.Readability)
	fmt.Fprintf(&sb, "| Engagement | %.0f |\n", a.Engagement)
	fmt.Fprintf(&sb, "| Visual balance | %.0f |\n", a.VisualBalance)
	fmt.Fprintf(&sb, "| Words | %d |\n", a.WordCount)
	fmt.Fprintf(&sb, "| Characters | %d |\n", a.CharCount)

	if len(a.Accessibility) > 0 {
		sb.WriteString("\n## Accessibility\n\n")
		for _, c := range a.Accessibility {
			fmt.Fprintf(&sb, "- `%s` %s: %s\n", c.Status, c.Type, c.Message)
			if c.Suggestion != "" {
				fmt.Fprintf(&sb, "  - %s\n", c.Suggestion)
			}
		}
	}
	return sb.String()
}

// FormattingReport lists every change a formatting pass made or would make.
func FormattingReport(r formatting.Result) string {
	var sb strings.Builder
	sb.WriteString("# Formatting\n\n")
	fmt.Fprintf(&sb, "Elements modified: **%d**\n\n", r.ElementsModified)
	for _, c := range r.Changes {
		fmt.Fprintf(&sb, "- %s\n", formatting.Describe(c))
	}
	writeWarnings(&sb, r.Warnings)
	if len(r.Errors) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	return sb.String()
}

// ExecutionReport summarises a workflow execution step by step.
func ExecutionReport(exec *domain.WorkflowExecution) string {
	if exec == nil {
		return "_No execution._\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", exec.WorkflowID)
	fmt.Fprintf(&sb, "Execution `%s` is **%s**", exec.ID, exec.Status)
	if exec.EndTime != nil {
		fmt.Fprintf(&sb, " after %s", exec.EndTime.Sub(exec.StartTime).Round(time.Millisecond))
	}
	sb.WriteString("\n\n")
	if exec.Error != "" {
		fmt.Fprintf(&sb, "> %s\n\n", exec.Error)
	}

	sb.WriteString("| Step | Status | Error |\n|---|---|---|\n")
	for _, s := range exec.Steps {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", s.StepID, s.Status, strings.ReplaceAll(s.Error, "|", "\\|"))
	}

	res := exec.Results
	if res == nil {
		return sb.String()
	}
	if len(res.Slides) > 0 {
		sb.WriteString("\n## Slides\n\n")
		for i, sl := range res.Slides {
			title := sl.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, title)
		}
	}
	if len(res.Changes) > 0 {
		fmt.Fprintf(&sb, "\n## Changes (%d elements)\n\n", res.ElementsModified)
		for _, c := range res.Changes {
			fmt.Fprintf(&sb, "- %s\n", formatting.Describe(c))
		}
	}
	if len(res.Suggestions) > 0 {
		sb.WriteString("\n## Suggestions\n\n")
		for _, s := range res.Suggestions {
			fmt.Fprintf(&sb, "- **%s** (%s)\n", s.Title, s.Category)
		}
	}
	if len(res.Validation) > 0 {
		sb.WriteString("\n## Validation\n\n")
		for _, v := range res.Validation {
			fmt.Fprintf(&sb, "- %s %s\n", strings.Trim(v.SlideID+"/"+v.ElementID, "/"), v.Message)
		}
	}
	writeWarnings(&sb, res.Warnings)
	return sb.String()
}

func writeWarnings(sb *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	sb.WriteString("\n## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(sb, "- %s\n", w)
	}
}
