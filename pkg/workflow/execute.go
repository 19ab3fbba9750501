package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrCancelled is returned when an execution stops early because it was
// cancelled or its context ended.
var ErrCancelled = errors.New("execution cancelled")

// ExecuteWorkflow runs a catalog workflow to completion and returns the final
// execution snapshot.
//
// An unknown workflow ID yields a *domain.ValidationError and no execution.
// Every other failure returns the execution together with the error: a step
// graph that cannot be ordered fails before any step runs, a failing required
// step is reported as *domain.StepExecutionError, and cancellation as
// ErrCancelled.
func (e *Engine) ExecuteWorkflow(ctx context.Context, workflowID string, input Context) (*domain.WorkflowExecution, error) {
	w, ok := e.GetWorkflow(workflowID)
	if !ok {
		return nil, &domain.ValidationError{Subject: "workflow", ID: workflowID, Reason: "not found", Err: domain.ErrWorkflowNotFound}
	}

	exec := &domain.WorkflowExecution{
		ID:         e.newID(),
		WorkflowID: w.ID,
		Status:     domain.ExecutionPending,
		StartTime:  e.now(),
		Steps:      make([]domain.WorkflowStepExecution, len(w.Steps)),
	}
	for i, s := range w.Steps {
		exec.Steps[i] = domain.WorkflowStepExecution{StepID: s.ID, Status: domain.StepPending}
	}
	e.mu.Lock()
	e.executions[exec.ID] = exec
	e.order = append(e.order, exec.ID)
	e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
		attribute.String("workflow.id", w.ID),
		attribute.String("execution.id", exec.ID),
		attribute.Int("workflow.steps", len(w.Steps)),
	))
	defer span.End()

	logger := e.logger.With("execution_id", exec.ID, "workflow_id", w.ID)
	e.mu.Lock()
	exec.Status = domain.ExecutionRunning
	e.mu.Unlock()
	logger.Info("execution started")
	e.emitExecution(ctx, domain.EventExecutionStart, exec, 0)

	order, err := Plan(w)
	if err != nil {
		logger.Error("workflow rejected", "err", err)
		return e.finish(ctx, span, exec, nil, err)
	}

	run := &Run{
		ExecutionID: exec.ID,
		Workflow:    w,
		Context:     input,
		Slides:      domain.CloneSlides(input.Slides),
		Results:     &domain.WorkflowResults{},
	}

	for pos, idx := range order {
		if err := e.interrupted(ctx, exec); err != nil {
			e.skip(exec, w, order[pos:])
			logger.Warn("execution stopped", "err", err, "remaining", len(order)-pos)
			return e.finish(ctx, span, exec, run, err)
		}

		step := w.Steps[idx]
		if err := e.runStep(ctx, exec, run, step); err != nil {
			if step.Optional {
				logger.Warn("optional step failed", "step_id", step.ID, "err", err)
				run.warnf("optional step '%s' failed: %v", step.ID, err)
				continue
			}
			logger.Error("required step failed", "step_id", step.ID, "err", err)
			if e.status(exec) == domain.ExecutionCancelled {
				e.skip(exec, w, order[pos+1:])
			}
			return e.finish(ctx, span, exec, run, &domain.StepExecutionError{StepID: step.ID, Type: step.Type, Err: err})
		}
	}

	// a cancel that lands during the last step still wins
	if e.status(exec) == domain.ExecutionCancelled {
		return e.finish(ctx, span, exec, run, ErrCancelled)
	}
	logger.Info("execution completed")
	return e.finish(ctx, span, exec, run, nil)
}

// interrupted reports whether scheduling must stop before the next step.
func (e *Engine) interrupted(ctx context.Context, exec *domain.WorkflowExecution) error {
	if e.status(exec) == domain.ExecutionCancelled {
		return ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}

func (e *Engine) status(exec *domain.WorkflowExecution) domain.ExecutionStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return exec.Status
}

// skip marks steps that will never be scheduled.
func (e *Engine) skip(exec *domain.WorkflowExecution, w domain.Workflow, remaining []int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, idx := range remaining {
		if s := exec.Step(w.Steps[idx].ID); s != nil && s.Status == domain.StepPending {
			s.Status = domain.StepSkipped
		}
	}
}

func (e *Engine) runStep(ctx context.Context, exec *domain.WorkflowExecution, run *Run, step domain.WorkflowStep) error {
	ctx, span := e.tracer.Start(ctx, "workflow.step", trace.WithAttributes(
		attribute.String("step.id", step.ID),
		attribute.String("step.type", string(step.Type)),
		attribute.Bool("step.optional", step.Optional),
	))
	defer span.End()

	start := e.now()
	e.updateStep(exec, step.ID, func(s *domain.WorkflowStepExecution) {
		s.Status = domain.StepRunning
		s.StartTime = &start
	})
	e.emitStep(ctx, domain.EventStepStart, exec, step, domain.StepRunning, 0, nil)

	out, err := e.dispatch(ctx, step, run)
	if out != nil {
		out.fold(run)
	}

	end := e.now()
	status := domain.StepCompleted
	if err != nil {
		status = domain.StepFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.updateStep(exec, step.ID, func(s *domain.WorkflowStepExecution) {
		s.Status = status
		s.EndTime = &end
		if err != nil {
			s.Error = err.Error()
		}
		if out != nil {
			s.Result = out
		}
	})
	e.emitStep(ctx, domain.EventStepFinish, exec, step, status, end.Sub(start), err)
	return err
}

// dispatch calls the handler of the step type, containing panics.
func (e *Engine) dispatch(ctx context.Context, step domain.WorkflowStep, run *Run) (out Output, err error) {
	h, ok := e.handlers[step.Type]
	if !ok {
		return nil, fmt.Errorf("no handler for step type %q", step.Type)
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, step, run)
}

func (e *Engine) updateStep(exec *domain.WorkflowExecution, stepID string, fn func(*domain.WorkflowStepExecution)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s := exec.Step(stepID); s != nil {
		fn(s)
	}
}

// finish moves the execution to its terminal state, archives it and returns
// a snapshot. A nil run means no step was ever scheduled.
func (e *Engine) finish(ctx context.Context, span trace.Span, exec *domain.WorkflowExecution, run *Run, cause error) (*domain.WorkflowExecution, error) {
	end := e.now()

	e.mu.Lock()
	switch {
	case exec.Status == domain.ExecutionCancelled:
		// cancelled while a step was in flight
	case errors.Is(cause, ErrCancelled):
		exec.Status = domain.ExecutionCancelled
	case cause != nil:
		exec.Status = domain.ExecutionFailed
	default:
		exec.Status = domain.ExecutionCompleted
	}
	if exec.EndTime == nil {
		exec.EndTime = &end
	}
	if cause != nil {
		exec.Error = cause.Error()
	}
	if run != nil && exec.Status != domain.ExecutionFailed {
		run.Results.Slides = run.Slides
		exec.Results = run.Results
	}
	snapshot := exec.Clone()
	e.mu.Unlock()

	span.SetAttributes(attribute.String("execution.status", string(snapshot.Status)))
	if cause != nil {
		span.RecordError(cause)
		span.SetStatus(codes.Error, cause.Error())
	}
	e.emitExecution(ctx, domain.EventExecutionFinish, snapshot, end.Sub(snapshot.StartTime))

	if e.store != nil {
		if err := e.store.Save(ctx, snapshot); err != nil {
			e.logger.Warn("failed to archive execution", "execution_id", snapshot.ID, "err", err)
		}
	}
	return snapshot, cause
}

func (e *Engine) emitExecution(ctx context.Context, t domain.EventType, exec *domain.WorkflowExecution, d time.Duration) {
	hook := e.hooks.OnExecutionStart
	if t == domain.EventExecutionFinish {
		hook = e.hooks.OnExecutionFinish
	}
	if hook == nil {
		return
	}
	e.mu.RLock()
	status := exec.Status
	e.mu.RUnlock()
	hook(ctx, &domain.ExecutionEvent{
		EventBase:   domain.EventBase{Timestamp: e.now(), Type: t},
		ExecutionID: exec.ID,
		WorkflowID:  exec.WorkflowID,
		Status:      status,
		Duration:    d,
	})
}

func (e *Engine) emitStep(ctx context.Context, t domain.EventType, exec *domain.WorkflowExecution, step domain.WorkflowStep, status domain.StepStatus, d time.Duration, err error) {
	hook := e.hooks.OnStepStart
	if t == domain.EventStepFinish {
		hook = e.hooks.OnStepFinish
	}
	if hook == nil {
		return
	}
	ev := &domain.StepEvent{
		EventBase:   domain.EventBase{Timestamp: e.now(), Type: t},
		ExecutionID: exec.ID,
		WorkflowID:  exec.WorkflowID,
		StepID:      step.ID,
		StepType:    step.Type,
		Optional:    step.Optional,
		Status:      status,
		Duration:    d,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	hook(ctx, ev)
}
