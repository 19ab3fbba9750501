package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/lectern/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecutionStart: func(ctx context.Context, e *domain.ExecutionEvent) {
			logger.InfoContext(ctx, "execution_start",
				"execution_id", e.ExecutionID,
				"workflow_id", e.WorkflowID,
			)
		},
		OnExecutionFinish: func(ctx context.Context, e *domain.ExecutionEvent) {
			level := slog.LevelInfo
			if e.Status == domain.ExecutionFailed {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "execution_finish",
				"execution_id", e.ExecutionID,
				"workflow_id", e.WorkflowID,
				"status", e.Status,
				"duration", e.Duration,
			)
		},
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_start",
				"execution_id", e.ExecutionID,
				"step_id", e.StepID,
				"type", e.StepType,
			)
		},
		OnStepFinish: func(ctx context.Context, e *domain.StepEvent) {
			attrs := []any{
				"execution_id", e.ExecutionID,
				"step_id", e.StepID,
				"type", e.StepType,
				"status", e.Status,
				"duration", e.Duration,
			}
			if e.Error != "" {
				logger.WarnContext(ctx, "step_finish", append(attrs, "error", e.Error, "optional", e.Optional)...)
				return
			}
			logger.DebugContext(ctx, "step_finish", attrs...)
		},
		OnRuleError: func(ctx context.Context, e *domain.RuleEvent) {
			logger.WarnContext(ctx, "rule_error",
				"engine", e.Engine,
				"rule_id", e.RuleID,
				"element_id", e.ElementID,
				"error", e.Error,
			)
		},
	}
}
