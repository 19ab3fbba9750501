package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recorder is a validate handler that remembers the order steps ran in.
type recorder struct {
	mu    sync.Mutex
	order []string
	fail  map[string]error
	hook  func(step domain.WorkflowStep, run *workflow.Run)
}

func (r *recorder) Handle(_ context.Context, step domain.WorkflowStep, run *workflow.Run) (workflow.Output, error) {
	r.mu.Lock()
	r.order = append(r.order, step.ID)
	r.mu.Unlock()
	if r.hook != nil {
		r.hook(step, run)
	}
	if err := r.fail[step.ID]; err != nil {
		return nil, err
	}
	return workflow.ValidateOutput{Valid: true}, nil
}

func stepOf(id string, deps ...string) domain.WorkflowStep {
	return domain.WorkflowStep{ID: id, Type: domain.StepValidate, Dependencies: deps}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("exec-%d", n)
	}
}

func newEngine(t *testing.T, rec *recorder, ws ...domain.Workflow) *workflow.Engine {
	t.Helper()
	e, err := workflow.New(context.Background(),
		workflow.WithWorkflows(ws...),
		workflow.WithHandler(domain.StepValidate, rec),
		workflow.WithIDGenerator(sequentialIDs()),
	)
	require.NoError(t, err)
	return e
}

func TestExecuteWorkflow_TopologicalOrder(t *testing.T) {
	rec := &recorder{}
	e := newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{
		stepOf("C", "A", "B"),
		stepOf("B", "A"),
		stepOf("A"),
	}})

	exec, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, rec.order)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	assert.NotNil(t, exec.EndTime)
	require.NotNil(t, exec.Results)
	for _, s := range exec.Steps {
		assert.Equal(t, domain.StepCompleted, s.Status, s.StepID)
		assert.NotNil(t, s.StartTime)
		assert.NotNil(t, s.EndTime)
	}
}

func TestExecuteWorkflow_CycleRejected(t *testing.T) {
	rec := &recorder{}
	e := newEngine(t, rec, domain.Workflow{ID: "loop", Steps: []domain.WorkflowStep{
		stepOf("A", "B"),
		stepOf("B", "A"),
	}})

	exec, err := e.ExecuteWorkflow(context.Background(), "loop", workflow.Context{})
	require.Error(t, err)

	var cycle *domain.CircularDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.ElementsMatch(t, []string{"A", "B"}, cycle.Unresolved)
	assert.ErrorIs(t, err, domain.ErrInvalidWorkflow)

	require.NotNil(t, exec)
	assert.Empty(t, rec.order, "no step may run")
	assert.Equal(t, domain.ExecutionFailed, exec.Status)
	assert.Nil(t, exec.Results)
	assert.Contains(t, exec.Error, "circular")
	for _, s := range exec.Steps {
		assert.Equal(t, domain.StepPending, s.Status)
	}
}

func TestExecuteWorkflow_UnknownDependency(t *testing.T) {
	rec := &recorder{}
	e := newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{stepOf("A", "ghost")}})

	exec, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ExecutionFailed, exec.Status)
	assert.Empty(t, rec.order)
}

func TestExecuteWorkflow_UnknownWorkflow(t *testing.T) {
	e := newEngine(t, &recorder{})

	exec, err := e.ExecuteWorkflow(context.Background(), "nope", workflow.Context{})
	assert.Nil(t, exec)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nope", verr.ID)
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
	assert.Empty(t, e.GetExecutions())
}

func TestExecuteWorkflow_OptionalFailureContinues(t *testing.T) {
	rec := &recorder{fail: map[string]error{"A": errors.New("boom")}}
	optional := stepOf("A")
	optional.Optional = true
	e := newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{optional, stepOf("B", "A")}})

	exec, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, rec.order)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	assert.Equal(t, domain.StepFailed, exec.Step("A").Status)
	assert.Equal(t, "boom", exec.Step("A").Error)
	assert.Equal(t, domain.StepCompleted, exec.Step("B").Status)
	require.NotNil(t, exec.Results)
	require.Len(t, exec.Results.Warnings, 1)
	assert.Contains(t, exec.Results.Warnings[0], "boom")
}

func TestExecuteWorkflow_RequiredFailureAborts(t *testing.T) {
	rec := &recorder{fail: map[string]error{"B": errors.New("broken")}}
	e := newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{
		stepOf("A"), stepOf("B", "A"), stepOf("C", "B"), stepOf("D"),
	}})

	exec, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})

	var stepErr *domain.StepExecutionError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "B", stepErr.StepID)
	assert.Equal(t, domain.StepValidate, stepErr.Type)

	assert.Equal(t, []string{"A", "B"}, rec.order)
	assert.Equal(t, domain.ExecutionFailed, exec.Status)
	assert.Equal(t, domain.StepCompleted, exec.Step("A").Status)
	assert.Equal(t, domain.StepFailed, exec.Step("B").Status)
	assert.Equal(t, domain.StepPending, exec.Step("C").Status)
	assert.Equal(t, domain.StepPending, exec.Step("D").Status)
	assert.Nil(t, exec.Results)
	assert.NotNil(t, exec.EndTime)
}

func TestExecuteWorkflow_HandlerPanicIsContained(t *testing.T) {
	rec := &recorder{hook: func(step domain.WorkflowStep, _ *workflow.Run) {
		if step.ID == "A" {
			panic("kaboom")
		}
	}}
	e := newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{stepOf("A")}})

	exec, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, domain.ExecutionFailed, exec.Status)
}

func TestCancelExecution(t *testing.T) {
	var e *workflow.Engine
	rec := &recorder{}
	rec.hook = func(step domain.WorkflowStep, run *workflow.Run) {
		if step.ID == "A" {
			assert.True(t, e.CancelExecution(run.ExecutionID))
			assert.False(t, e.CancelExecution(run.ExecutionID), "already cancelled")
		}
	}
	e = newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{
		stepOf("A"), stepOf("B", "A"), stepOf("C", "B"),
	}})

	exec, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.ErrorIs(t, err, workflow.ErrCancelled)

	assert.Equal(t, []string{"A"}, rec.order, "the step in flight completes, nothing else is scheduled")
	assert.Equal(t, domain.ExecutionCancelled, exec.Status)
	assert.NotNil(t, exec.EndTime)
	assert.Equal(t, domain.StepCompleted, exec.Step("A").Status)
	assert.Equal(t, domain.StepSkipped, exec.Step("B").Status)
	assert.Equal(t, domain.StepSkipped, exec.Step("C").Status)

	assert.False(t, e.CancelExecution(exec.ID), "terminal executions cannot be cancelled")
	assert.False(t, e.CancelExecution("unknown"))
}

func TestCancelExecution_DuringFailingStep(t *testing.T) {
	var e *workflow.Engine
	rec := &recorder{fail: map[string]error{"A": errors.New("boom")}}
	rec.hook = func(step domain.WorkflowStep, run *workflow.Run) {
		if step.ID == "A" {
			assert.True(t, e.CancelExecution(run.ExecutionID))
		}
	}
	e = newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{
		stepOf("A"), stepOf("B", "A"), stepOf("C", "B"),
	}})

	exec, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.Error(t, err)

	assert.Equal(t, domain.ExecutionCancelled, exec.Status)
	assert.Equal(t, domain.StepFailed, exec.Step("A").Status)
	assert.Equal(t, domain.StepSkipped, exec.Step("B").Status)
	assert.Equal(t, domain.StepSkipped, exec.Step("C").Status)
}

func TestExecuteWorkflow_StartEventIsRunning(t *testing.T) {
	var started domain.ExecutionStatus
	e, err := workflow.New(context.Background(),
		workflow.WithWorkflows(domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{stepOf("A")}}),
		workflow.WithHandler(domain.StepValidate, &recorder{}),
		workflow.WithHooks(domain.LifecycleHooks{
			OnExecutionStart: func(_ context.Context, ev *domain.ExecutionEvent) { started = ev.Status },
		}),
	)
	require.NoError(t, err)

	_, err = e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionRunning, started)
}

func TestExecuteWorkflow_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{hook: func(domain.WorkflowStep, *workflow.Run) { cancel() }}
	e := newEngine(t, rec, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{stepOf("A"), stepOf("B")}})

	exec, err := e.ExecuteWorkflow(ctx, "wf", workflow.Context{})
	require.ErrorIs(t, err, workflow.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.ExecutionCancelled, exec.Status)
	assert.Equal(t, domain.StepSkipped, exec.Step("B").Status)
}

func TestExecutionLog_Snapshots(t *testing.T) {
	e := newEngine(t, &recorder{}, domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{stepOf("A")}})

	first, err := e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.NoError(t, err)
	_, err = e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.NoError(t, err)

	all := e.GetExecutions()
	require.Len(t, all, 2)
	assert.Equal(t, "exec-1", all[0].ID)
	assert.Equal(t, "exec-2", all[1].ID)

	first.Status = domain.ExecutionFailed
	got, ok := e.GetExecution("exec-1")
	require.True(t, ok)
	assert.Equal(t, domain.ExecutionCompleted, got.Status, "callers get copies")

	_, ok = e.GetExecution("missing")
	assert.False(t, ok)
}

func TestCatalog(t *testing.T) {
	e, err := workflow.New(context.Background())
	require.NoError(t, err)

	all := e.GetWorkflows()
	require.Len(t, all, 5)
	assert.Equal(t, workflow.CreatePresentation, all[0].ID)

	byCat := e.GetWorkflowsByCategory("GENERATION")
	require.Len(t, byCat, 2)
	assert.Equal(t, workflow.QuickOutline, byCat[1].ID)

	found := e.SearchWorkflows("A11Y")
	require.Len(t, found, 1)
	assert.Equal(t, workflow.AccessibilityAudit, found[0].ID)
	assert.Len(t, e.SearchWorkflows("  "), 5)
	assert.Len(t, e.SearchWorkflows("outline"), 1)
	assert.Empty(t, e.SearchWorkflows("zzz"))

	custom := domain.Workflow{ID: workflow.QuickOutline, Name: "Replaced", Steps: []domain.WorkflowStep{stepOf("v")}}
	require.NoError(t, e.AddWorkflow(custom))
	got, ok := e.GetWorkflow(workflow.QuickOutline)
	require.True(t, ok)
	assert.Equal(t, "Replaced", got.Name)
	assert.Equal(t, workflow.QuickOutline, e.GetWorkflows()[4].ID, "replacement keeps its slot")

	got.Steps[0].ID = "mutated"
	again, _ := e.GetWorkflow(workflow.QuickOutline)
	assert.Equal(t, "v", again.Steps[0].ID)

	assert.True(t, e.RemoveWorkflow(workflow.QuickOutline))
	assert.False(t, e.RemoveWorkflow(workflow.QuickOutline))
	assert.Len(t, e.GetWorkflows(), 4)
}

func TestAddWorkflow_RejectsMalformed(t *testing.T) {
	e, err := workflow.New(context.Background(), workflow.WithWorkflows())
	require.NoError(t, err)

	tests := []struct {
		name string
		wf   domain.Workflow
	}{
		{"missing id", domain.Workflow{Steps: []domain.WorkflowStep{stepOf("a")}}},
		{"no steps", domain.Workflow{ID: "x"}},
		{"step without id", domain.Workflow{ID: "x", Steps: []domain.WorkflowStep{{Type: domain.StepFormat}}}},
		{"bad type", domain.Workflow{ID: "x", Steps: []domain.WorkflowStep{{ID: "a", Type: "render"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.AddWorkflow(tt.wf)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, domain.ErrInvalidWorkflow)
		})
	}
	assert.Empty(t, e.GetWorkflows())
}

func TestNew_LoaderAndStore(t *testing.T) {
	loaded := domain.Workflow{ID: "from-loader", Steps: []domain.WorkflowStep{stepOf("a")}}
	store := memory.NewStore()

	e, err := workflow.New(context.Background(),
		workflow.WithWorkflows(),
		workflow.WithLoader(memory.NewLoader(loaded)),
		workflow.WithExecutionStore(store),
		workflow.WithHandler(domain.StepValidate, &recorder{}),
	)
	require.NoError(t, err)

	exec, err := e.ExecuteWorkflow(context.Background(), "from-loader", workflow.Context{})
	require.NoError(t, err)

	archived, err := store.Load(context.Background(), exec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, archived.Status)
}

func TestNew_LoaderError(t *testing.T) {
	_, err := workflow.New(context.Background(), workflow.WithLoader(failingLoader{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load workflows")
}

type failingLoader struct{}

func (failingLoader) LoadWorkflows(context.Context) ([]domain.Workflow, error) {
	return nil, errors.New("disk on fire")
}

func TestExecuteWorkflow_HooksAndTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	var mu sync.Mutex
	var events []domain.EventType
	record := func(t domain.EventType) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, t)
	}
	hooks := domain.LifecycleHooks{
		OnExecutionStart:  func(_ context.Context, e *domain.ExecutionEvent) { record(e.Type) },
		OnExecutionFinish: func(_ context.Context, e *domain.ExecutionEvent) { record(e.Type) },
		OnStepStart:       func(_ context.Context, e *domain.StepEvent) { record(e.Type) },
		OnStepFinish:      func(_ context.Context, e *domain.StepEvent) { record(e.Type) },
	}

	e, err := workflow.New(context.Background(),
		workflow.WithWorkflows(domain.Workflow{ID: "wf", Steps: []domain.WorkflowStep{stepOf("A"), stepOf("B", "A")}}),
		workflow.WithHandler(domain.StepValidate, &recorder{}),
		workflow.WithHooks(hooks),
		workflow.WithTracerProvider(tp),
	)
	require.NoError(t, err)

	_, err = e.ExecuteWorkflow(context.Background(), "wf", workflow.Context{})
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{
		domain.EventExecutionStart,
		domain.EventStepStart, domain.EventStepFinish,
		domain.EventStepStart, domain.EventStepFinish,
		domain.EventExecutionFinish,
	}, events)

	spans := sr.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "workflow.step", spans[0].Name())
	assert.Equal(t, "workflow.step", spans[1].Name())
	assert.Equal(t, "workflow.execute", spans[2].Name())
	assert.Equal(t, spans[2].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

// mockGenerator is a testify mock of ports.ContentGenerator.
type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.GenerationResponse), args.Error(1)
}

var _ ports.ContentGenerator = (*mockGenerator)(nil)

func generatedDeck() []domain.Slide {
	return []domain.Slide{
		{ID: "s1", Elements: []domain.ContentElement{
			{ID: "t1", Type: domain.ElementTitle, W: 12, H: 2, Props: map[string]any{"text": "  Go Concurrency\x07 "}},
		}},
		{ID: "s2", Elements: []domain.ContentElement{
			{ID: "t2", Type: domain.ElementTitle, W: 12, H: 2, Props: map[string]any{"text": "Goroutines"}},
			{ID: "b2", Type: domain.ElementBullets, Y: 3, W: 12, H: 6, Props: map[string]any{"items": []any{"cheap", "scheduled"}}},
		}},
		{ID: "s3", Elements: []domain.ContentElement{
			{ID: "t3", Type: domain.ElementTitle, W: 12, H: 2, Props: map[string]any{"text": "Summary"}},
		}},
	}
}

func TestCreatePresentation_EndToEnd(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req domain.GenerationRequest) bool {
		return req.Type == domain.GeneratePresentation &&
			req.Context.Topic == "Go" &&
			req.Options.Audience == "engineers" &&
			req.Options.Tone == "casual"
	})).Return(domain.GenerationResponse{Success: true, Content: "outline", Slides: generatedDeck()}, nil).Once()

	e, err := workflow.New(context.Background(), workflow.WithGenerator(gen))
	require.NoError(t, err)

	exec, err := e.ExecuteWorkflow(context.Background(), workflow.CreatePresentation, workflow.Context{
		Topic:    "Go",
		Audience: "engineers",
		Options:  domain.GenerationOptions{Tone: "casual"},
	})
	require.NoError(t, err)
	gen.AssertExpectations(t)

	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	res := exec.Results
	require.NotNil(t, res)
	require.Len(t, res.Slides, 3)
	assert.Equal(t, "outline", res.Content)
	assert.Equal(t, "Go Concurrency", res.Slides[0].Elements[0].StringProp(domain.PropText))
	fontSize, _ := res.Slides[0].Elements[0].NumberProp(domain.PropFontSize)
	assert.Equal(t, 44.0, fontSize, "title slide gets the large title size")
	assert.NotEmpty(t, res.Changes)
	assert.Positive(t, res.ElementsModified)
	assert.Len(t, res.Analyses, 3)

	formatResult, ok := exec.Step("format").Result.(workflow.FormatOutput)
	require.True(t, ok)
	assert.True(t, formatResult.Result.Success)
}

func TestGenerateStep_Failures(t *testing.T) {
	t.Run("no generator", func(t *testing.T) {
		e, err := workflow.New(context.Background())
		require.NoError(t, err)

		exec, err := e.ExecuteWorkflow(context.Background(), workflow.QuickOutline, workflow.Context{Topic: "x"})
		require.ErrorIs(t, err, workflow.ErrNoGenerator)
		assert.Equal(t, domain.StepFailed, exec.Step("generate").Status)
		assert.Equal(t, domain.StepPending, exec.Step("ids").Status)
	})

	t.Run("unsuccessful response", func(t *testing.T) {
		gen := &mockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).
			Return(domain.GenerationResponse{Success: false, Error: "quota exceeded"}, nil)

		e, err := workflow.New(context.Background(), workflow.WithGenerator(gen))
		require.NoError(t, err)

		_, err = e.ExecuteWorkflow(context.Background(), workflow.QuickOutline, workflow.Context{Topic: "x"})
		require.ErrorIs(t, err, workflow.ErrGenerationFailed)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("transport error", func(t *testing.T) {
		gen := &mockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).
			Return(domain.GenerationResponse{}, errors.New("connection refused"))

		e, err := workflow.New(context.Background(), workflow.WithGenerator(gen))
		require.NoError(t, err)

		_, err = e.ExecuteWorkflow(context.Background(), workflow.QuickOutline, workflow.Context{Topic: "x"})
		var stepErr *domain.StepExecutionError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, domain.StepGenerate, stepErr.Type)
	})
}

func TestImproveSlide_SlideScope(t *testing.T) {
	e, err := workflow.New(context.Background())
	require.NoError(t, err)

	deck := []domain.Slide{
		{ID: "a", Elements: []domain.ContentElement{{ID: "x", Type: domain.ElementText, W: 6, H: 2, Props: map[string]any{"text": "hello"}}}},
		{ID: "b", Elements: []domain.ContentElement{{ID: "y", Type: domain.ElementText, W: 6, H: 2, Props: map[string]any{"text": "world"}}}},
	}
	exec, err := e.ExecuteWorkflow(context.Background(), workflow.ImproveSlide, workflow.Context{Slides: deck, SlideIndex: 1})
	require.NoError(t, err)

	for _, c := range exec.Results.Changes {
		assert.Equal(t, "b", c.SlideID)
	}
	require.Len(t, exec.Results.Analyses, 1)
	assert.Equal(t, "b", exec.Results.Analyses[0].SlideID)
	for _, s := range exec.Results.Suggestions {
		assert.NotEmpty(t, s.RuleID)
	}
	assert.Equal(t, "hello", deck[0].Elements[0].StringProp(domain.PropText), "input deck untouched")
	_, hasSize := deck[1].Elements[0].Props[domain.PropFontSize]
	assert.False(t, hasSize, "input deck untouched")

	_, err = e.ExecuteWorkflow(context.Background(), workflow.ImproveSlide, workflow.Context{Slides: deck, SlideIndex: 7})
	require.ErrorIs(t, err, workflow.ErrSlideIndex)
}

func TestAccessibilityAudit_ReportsIssues(t *testing.T) {
	e, err := workflow.New(context.Background())
	require.NoError(t, err)

	deck := []domain.Slide{{ID: "s", Elements: []domain.ContentElement{
		{ID: "img", Type: domain.ElementImage, X: 10, W: 4, H: 2},
	}}}
	exec, err := e.ExecuteWorkflow(context.Background(), workflow.AccessibilityAudit, workflow.Context{Slides: deck})
	require.NoError(t, err)

	require.NotEmpty(t, exec.Results.Validation)
	assert.Equal(t, "img", exec.Results.Validation[0].ElementID)
	require.Len(t, exec.Results.Analyses, 1)

	var altFailed bool
	for _, c := range exec.Results.Analyses[0].Accessibility {
		if c.Type == "alt-text" && c.Status == domain.CheckFail {
			altFailed = true
		}
	}
	assert.True(t, altFailed)
}
