package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWorkflowNotFound is returned when a workflow ID is not in the catalog.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrExecutionNotFound is returned when an execution ID is not in the execution log.
var ErrExecutionNotFound = errors.New("execution not found")

// ErrRuleNotFound is returned when removing or looking up an unknown rule.
var ErrRuleNotFound = errors.New("rule not found")

// ErrInvalidWorkflow marks structurally invalid workflow definitions.
var ErrInvalidWorkflow = errors.New("invalid workflow")

// ValidationError reports invalid input at a public boundary (e.g. unknown workflow id).
type ValidationError struct {
	Subject string // what was being validated, e.g. "workflow"
	ID      string
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("invalid %s '%s': %s", e.Subject, e.ID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CircularDependencyError reports a workflow whose step graph cannot be ordered.
type CircularDependencyError struct {
	WorkflowID string
	// Unresolved lists every step that could not be scheduled, in declaration order.
	Unresolved []string
	// Cycle is one witness cycle, first node repeated at the end.
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	msg := fmt.Sprintf("workflow '%s' has circular step dependencies", e.WorkflowID)
	if len(e.Cycle) > 0 {
		msg += ": " + strings.Join(e.Cycle, " -> ")
	}
	if len(e.Unresolved) > 0 {
		msg += fmt.Sprintf(" (unresolved: %s)", strings.Join(e.Unresolved, ", "))
	}
	return msg
}

func (e *CircularDependencyError) Unwrap() error { return ErrInvalidWorkflow }

// RuleApplicationError reports a rule whose condition or transform failed.
type RuleApplicationError struct {
	RuleID    string
	ElementID string
	Phase     string // "condition" or "apply"
	Err       error
}

func (e *RuleApplicationError) Error() string {
	if e.ElementID == "" {
		return fmt.Sprintf("rule '%s' failed during %s: %v", e.RuleID, e.Phase, e.Err)
	}
	return fmt.Sprintf("rule '%s' failed during %s on element '%s': %v", e.RuleID, e.Phase, e.ElementID, e.Err)
}

func (e *RuleApplicationError) Unwrap() error { return e.Err }

// StepExecutionError reports a step handler failure.
type StepExecutionError struct {
	StepID string
	Type   StepType
	Err    error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step '%s' (%s) failed: %v", e.StepID, e.Type, e.Err)
}

func (e *StepExecutionError) Unwrap() error { return e.Err }
