package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/generator"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_WorkflowRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	wb, err := lectern.New(context.Background(),
		lectern.WithGenerator(generator.NewTemplate()),
		lectern.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)

	_, err = wb.Run(context.Background(), workflow.CreatePresentation, workflow.Context{Topic: "Rivers"})
	require.NoError(t, err)
	_, err = wb.Run(context.Background(), workflow.QuickOutline, workflow.Context{})
	require.Error(t, err, "template generator refuses an empty topic")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExecutionsStarted.WithLabelValues(workflow.CreatePresentation)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExecutionsFinished.WithLabelValues(workflow.CreatePresentation, "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExecutionsFinished.WithLabelValues(workflow.QuickOutline, "failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveExecutions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepsFinished.WithLabelValues("format", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepsFinished.WithLabelValues("generate", "failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ExecutionDuration))
}

func TestMetrics_RuleErrors(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks()

	hooks.OnRuleError(context.Background(), &domain.RuleEvent{Engine: "formatting", RuleID: "broken"})
	hooks.OnRuleError(context.Background(), &domain.RuleEvent{Engine: "formatting", RuleID: "broken"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RuleErrors.WithLabelValues("formatting", "broken")))
}

func TestMetrics_ReRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := observability.NewMetrics(reg)
	second := observability.NewMetrics(reg)

	second.ExecutionsStarted.WithLabelValues("w").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(first.ExecutionsStarted.WithLabelValues("w")))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	wb, err := lectern.New(context.Background(), lectern.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, err)

	_, err = wb.Run(context.Background(), workflow.QuickOutline, workflow.Context{Topic: "x"})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"execution_start"`)
	assert.Contains(t, out, `"msg":"step_finish"`)
	assert.Contains(t, out, `"status":"failed"`)
}
