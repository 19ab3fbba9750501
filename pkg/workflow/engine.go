package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/suggestion"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/lectern/pkg/workflow"

// Context is the caller-supplied input of an execution.
type Context struct {
	Topic    string `json:"topic,omitempty"`
	Audience string `json:"audience,omitempty"`
	// Slides is the initial deck. It is copied before any step runs.
	Slides []domain.Slide `json:"slides,omitempty"`
	// SlideIndex is the default target of slide-scoped steps.
	SlideIndex int                      `json:"slide_index,omitempty"`
	Options    domain.GenerationOptions `json:"options,omitempty"`
	Extra      map[string]any           `json:"extra,omitempty"`
}

// Engine owns a workflow catalog and the log of its executions.
// Create one per session.
type Engine struct {
	mu         sync.RWMutex
	workflows  []domain.Workflow
	executions map[string]*domain.WorkflowExecution
	order      []string

	handlers  map[domain.StepType]Handler
	formatter *formatting.Engine
	suggester *suggestion.Engine
	generator ports.ContentGenerator
	store     ports.ExecutionStore
	loader    ports.WorkflowLoader
	seed      []domain.Workflow

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	tracer trace.Tracer
	now    func() time.Time
	newID  func() string
}

// Option configures the Engine.
type Option func(*Engine)

// WithFormatter sets the formatting engine used by format steps.
func WithFormatter(f *formatting.Engine) Option {
	return func(e *Engine) { e.formatter = f }
}

// WithSuggester sets the suggestion engine used by analyze steps.
func WithSuggester(s *suggestion.Engine) Option {
	return func(e *Engine) { e.suggester = s }
}

// WithGenerator sets the content generator used by generate steps.
func WithGenerator(g ports.ContentGenerator) Option {
	return func(e *Engine) { e.generator = g }
}

// WithHandler overrides the handler of a step type.
func WithHandler(t domain.StepType, h Handler) Option {
	return func(e *Engine) {
		if e.handlers == nil {
			e.handlers = make(map[domain.StepType]Handler)
		}
		e.handlers[t] = h
	}
}

// WithWorkflows replaces the default catalog.
func WithWorkflows(ws ...domain.Workflow) Option {
	return func(e *Engine) { e.seed = ws }
}

// WithLoader adds the workflows of loader to the catalog at construction.
// Loaded workflows replace catalog entries with the same ID.
func WithLoader(l ports.WorkflowLoader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithExecutionStore archives every finished execution.
func WithExecutionStore(s ports.ExecutionStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithTracerProvider sets the OpenTelemetry provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracer = tp.Tracer(tracerName) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the execution ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an Engine. Missing engines get their defaults. It fails if a
// step type is left without a handler or the loader fails.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		executions: make(map[string]*domain.WorkflowExecution),
		logger:     logging.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
		seed:       DefaultWorkflows(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.formatter == nil {
		e.formatter = formatting.New(formatting.WithLogger(e.logger))
	}
	if e.suggester == nil {
		e.suggester = suggestion.New(suggestion.WithLogger(e.logger))
	}

	defaults := map[domain.StepType]Handler{
		domain.StepGenerate:  GenerateHandler(e.generator),
		domain.StepFormat:    FormatHandler(e.formatter),
		domain.StepAnalyze:   AnalyzeHandler(e.suggester),
		domain.StepTransform: TransformHandler(),
		domain.StepValidate:  ValidateHandler(),
	}
	for t, h := range e.handlers {
		defaults[t] = h
	}
	e.handlers = defaults
	for _, t := range domain.StepTypes {
		if e.handlers[t] == nil {
			return nil, fmt.Errorf("no handler for step type %q", t)
		}
	}

	for _, w := range e.seed {
		if err := e.AddWorkflow(w); err != nil {
			return nil, err
		}
	}
	if e.loader != nil {
		loaded, err := e.loader.LoadWorkflows(ctx)
		if err != nil {
			return nil, fmt.Errorf("load workflows: %w", err)
		}
		for _, w := range loaded {
			if err := e.AddWorkflow(w); err != nil {
				return nil, err
			}
		}
		e.logger.Debug("workflows loaded", "count", len(loaded))
	}
	return e, nil
}

// Formatter returns the formatting engine used by format steps.
func (e *Engine) Formatter() *formatting.Engine { return e.formatter }

// Suggester returns the suggestion engine used by analyze steps.
func (e *Engine) Suggester() *suggestion.Engine { return e.suggester }

// AddWorkflow validates and registers w, replacing a workflow with the same ID
// in place. Only structure is checked here; dependency problems are reported
// when the workflow is executed.
func (e *Engine) AddWorkflow(w domain.Workflow) error {
	if err := checkStructure(w); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.workflows {
		if e.workflows[i].ID == w.ID {
			e.workflows[i] = w.Clone()
			return nil
		}
	}
	e.workflows = append(e.workflows, w.Clone())
	return nil
}

func checkStructure(w domain.Workflow) error {
	invalid := func(reason string) error {
		return &domain.ValidationError{Subject: "workflow", ID: w.ID, Reason: reason, Err: domain.ErrInvalidWorkflow}
	}
	if strings.TrimSpace(w.ID) == "" {
		return invalid("missing id")
	}
	if len(w.Steps) == 0 {
		return invalid("no steps")
	}
	for i, s := range w.Steps {
		if s.ID == "" {
			return invalid(fmt.Sprintf("step %d has no id", i+1))
		}
		if !s.Type.Valid() {
			return invalid(fmt.Sprintf("step '%s' has unknown type %q", s.ID, s.Type))
		}
	}
	return nil
}

// RemoveWorkflow unregisters a workflow and reports whether it existed.
func (e *Engine) RemoveWorkflow(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.workflows {
		if e.workflows[i].ID == id {
			e.workflows = append(e.workflows[:i], e.workflows[i+1:]...)
			return true
		}
	}
	return false
}

// GetWorkflows returns a copy of the catalog in registration order.
func (e *Engine) GetWorkflows() []domain.Workflow {
	return e.filter(func(domain.Workflow) bool { return true })
}

// GetWorkflow returns a copy of a workflow.
func (e *Engine) GetWorkflow(id string) (domain.Workflow, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	w, ok := e.lookup(id)
	if !ok {
		return domain.Workflow{}, false
	}
	return w.Clone(), true
}

func (e *Engine) lookup(id string) (domain.Workflow, bool) {
	for _, w := range e.workflows {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Workflow{}, false
}

// GetWorkflowsByCategory returns the workflows of a category.
func (e *Engine) GetWorkflowsByCategory(category string) []domain.Workflow {
	return e.filter(func(w domain.Workflow) bool { return strings.EqualFold(w.Category, category) })
}

// SearchWorkflows matches query case-insensitively against name,
// description and tags. An empty query matches everything.
func (e *Engine) SearchWorkflows(query string) []domain.Workflow {
	q := strings.ToLower(strings.TrimSpace(query))
	return e.filter(func(w domain.Workflow) bool {
		if q == "" ||
			strings.Contains(strings.ToLower(w.Name), q) ||
			strings.Contains(strings.ToLower(w.Description), q) {
			return true
		}
		for _, tag := range w.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

func (e *Engine) filter(keep func(domain.Workflow) bool) []domain.Workflow {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Workflow, 0, len(e.workflows))
	for _, w := range e.workflows {
		if keep(w) {
			out = append(out, w.Clone())
		}
	}
	return out
}

// GetExecution returns a snapshot of an execution.
func (e *Engine) GetExecution(id string) (*domain.WorkflowExecution, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	exec, ok := e.executions[id]
	if !ok {
		return nil, false
	}
	return exec.Clone(), true
}

// GetExecutions returns snapshots of every execution, oldest first.
func (e *Engine) GetExecutions() []*domain.WorkflowExecution {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*domain.WorkflowExecution, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.executions[id].Clone())
	}
	return out
}

// CancelExecution marks a running execution as cancelled. It is advisory:
// the step in flight completes, and no further steps are scheduled.
// It reports false when the execution is unknown or not running.
func (e *Engine) CancelExecution(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	exec, ok := e.executions[id]
	if !ok || exec.Status != domain.ExecutionRunning {
		return false
	}
	end := e.now()
	exec.Status = domain.ExecutionCancelled
	exec.EndTime = &end
	e.logger.Info("execution cancelled", "execution_id", id, "workflow_id", exec.WorkflowID)
	return true
}
