package observability

import (
	"context"
	"errors"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lectern"

// Metrics holds the collectors fed by Hooks.
type Metrics struct {
	ExecutionsStarted  *prometheus.CounterVec
	ExecutionsFinished *prometheus.CounterVec
	ExecutionDuration  *prometheus.HistogramVec
	StepsFinished      *prometheus.CounterVec
	StepDuration       *prometheus.HistogramVec
	RuleErrors         *prometheus.CounterVec
	ActiveExecutions   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExecutionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_executions_started_total",
			Help:      "Workflow executions started.",
		}, []string{"workflow_id"}),
		ExecutionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_executions_finished_total",
			Help:      "Workflow executions finished, by terminal status.",
		}, []string{"workflow_id", "status"}),
		ExecutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_execution_duration_seconds",
			Help:      "Wall time of workflow executions.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"workflow_id"}),
		StepsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_steps_finished_total",
			Help:      "Workflow steps finished, by step type and status.",
		}, []string{"step_type", "status"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_step_duration_seconds",
			Help:      "Wall time of workflow steps.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step_type"}),
		RuleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_errors_total",
			Help:      "Rule failures contained by the engines.",
		}, []string{"engine", "rule_id"}),
		ActiveExecutions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workflow_executions_active",
			Help:      "Workflow executions currently running.",
		}),
	}

	m.ExecutionsStarted = register(reg, m.ExecutionsStarted)
	m.ExecutionsFinished = register(reg, m.ExecutionsFinished)
	m.ExecutionDuration = register(reg, m.ExecutionDuration)
	m.StepsFinished = register(reg, m.StepsFinished)
	m.StepDuration = register(reg, m.StepDuration)
	m.RuleErrors = register(reg, m.RuleErrors)
	m.ActiveExecutions = register(reg, m.ActiveExecutions)
	return m
}

// register returns the collector already registered under the same
// descriptor, or c once registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecutionStart: func(_ context.Context, e *domain.ExecutionEvent) {
			m.ExecutionsStarted.WithLabelValues(e.WorkflowID).Inc()
			m.ActiveExecutions.Inc()
		},
		OnExecutionFinish: func(_ context.Context, e *domain.ExecutionEvent) {
			m.ExecutionsFinished.WithLabelValues(e.WorkflowID, string(e.Status)).Inc()
			m.ExecutionDuration.WithLabelValues(e.WorkflowID).Observe(e.Duration.Seconds())
			m.ActiveExecutions.Dec()
		},
		OnStepFinish: func(_ context.Context, e *domain.StepEvent) {
			m.StepsFinished.WithLabelValues(string(e.StepType), string(e.Status)).Inc()
			m.StepDuration.WithLabelValues(string(e.StepType)).Observe(e.Duration.Seconds())
		},
		OnRuleError: func(_ context.Context, e *domain.RuleEvent) {
			m.RuleErrors.WithLabelValues(e.Engine, e.RuleID).Inc()
		},
	}
}
