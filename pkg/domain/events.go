package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventExecutionStart  EventType = "execution_start"
	EventExecutionFinish EventType = "execution_finish"
	EventStepStart       EventType = "step_start"
	EventStepFinish      EventType = "step_finish"
	EventRuleError       EventType = "rule_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ExecutionEvent represents the start or end of a workflow execution.
type ExecutionEvent struct {
	EventBase
	ExecutionID string          `json:"execution_id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      ExecutionStatus `json:"status"`
	Duration    time.Duration   `json:"duration,omitempty"`
}

// StepEvent represents the start or end of a step.
type StepEvent struct {
	EventBase
	ExecutionID string        `json:"execution_id"`
	WorkflowID  string        `json:"workflow_id"`
	StepID      string        `json:"step_id"`
	StepType    StepType      `json:"step_type"`
	Optional    bool          `json:"optional,omitempty"`
	Status      StepStatus    `json:"status"`
	Duration    time.Duration `json:"duration,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// RuleEvent represents a rule that failed and was contained.
type RuleEvent struct {
	EventBase
	Engine    string `json:"engine"` // "formatting" or "suggestion"
	RuleID    string `json:"rule_id"`
	ElementID string `json:"element_id,omitempty"`
	Error     string `json:"error"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every field is optional.
type LifecycleHooks struct {
	OnExecutionStart  func(context.Context, *ExecutionEvent)
	OnExecutionFinish func(context.Context, *ExecutionEvent)
	OnStepStart       func(context.Context, *StepEvent)
	OnStepFinish      func(context.Context, *StepEvent)
	OnRuleError       func(context.Context, *RuleEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnExecutionStart:  chain(h.OnExecutionStart, other.OnExecutionStart),
		OnExecutionFinish: chain(h.OnExecutionFinish, other.OnExecutionFinish),
		OnStepStart:       chain(h.OnStepStart, other.OnStepStart),
		OnStepFinish:      chain(h.OnStepFinish, other.OnStepFinish),
		OnRuleError:       chain(h.OnRuleError, other.OnRuleError),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
