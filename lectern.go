package lectern

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/lectern/internal/logging"
	loamAdapter "github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/suggestion"
	"github.com/aretw0/lectern/pkg/workflow"
	"go.opentelemetry.io/otel/trace"
)

// Workbench is the high-level entry point of the library.
// It owns one suggestion engine, one formatting engine and one workflow
// engine sharing the same rules, so a single Workbench should serve one
// editing session.
type Workbench struct {
	Name string

	suggester *suggestion.Engine
	formatter *formatting.Engine
	workflows *workflow.Engine

	workflowDir string
	loader      ports.WorkflowLoader
	generator   ports.ContentGenerator
	store       ports.ExecutionStore
	tracer      trace.TracerProvider
	hooks       domain.LifecycleHooks
	logger      *slog.Logger

	suggestionOpts []suggestion.Option
	formattingOpts []formatting.Option
	workflowOpts   []workflow.Option
}

// Option configures a Workbench.
type Option func(*Workbench)

// WithName labels the workbench in logs.
func WithName(name string) Option {
	return func(w *Workbench) { w.Name = name }
}

// WithLogger sets the structured logger shared by the engines.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workbench) { w.logger = logger }
}

// WithLifecycleHooks registers observability hooks on every engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Workbench) { w.hooks = w.hooks.Merge(hooks) }
}

// WithGenerator sets the content generator used by generate steps.
func WithGenerator(g ports.ContentGenerator) Option {
	return func(w *Workbench) { w.generator = g }
}

// WithLoader adds workflow definitions from a custom source on top of the
// built-in catalog.
func WithLoader(l ports.WorkflowLoader) Option {
	return func(w *Workbench) { w.loader = l }
}

// WithWorkflowDir loads extra workflow definitions from a Loam directory.
// It is ignored when WithLoader is also given.
func WithWorkflowDir(dir string) Option {
	return func(w *Workbench) { w.workflowDir = dir }
}

// WithExecutionStore archives finished executions.
func WithExecutionStore(s ports.ExecutionStore) Option {
	return func(w *Workbench) { w.store = s }
}

// WithTracerProvider sets the OpenTelemetry provider for workflow spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(w *Workbench) { w.tracer = tp }
}

// WithSuggestionConfig replaces the suggestion engine defaults.
func WithSuggestionConfig(cfg suggestion.Config) Option {
	return func(w *Workbench) {
		w.suggestionOpts = append(w.suggestionOpts, suggestion.WithConfig(cfg))
	}
}

// WithFormattingSettings replaces the formatting engine defaults.
func WithFormattingSettings(s formatting.Settings) Option {
	return func(w *Workbench) {
		w.formattingOpts = append(w.formattingOpts, formatting.WithSettings(s))
	}
}

// WithWorkflowOptions passes options straight to the workflow engine.
func WithWorkflowOptions(opts ...workflow.Option) Option {
	return func(w *Workbench) { w.workflowOpts = append(w.workflowOpts, opts...) }
}

// New builds a Workbench. Without a generator, generate steps fail with
// workflow.ErrNoGenerator.
func New(ctx context.Context, opts ...Option) (*Workbench, error) {
	w := &Workbench{}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.NewNop()
	}

	if w.loader == nil && w.workflowDir != "" {
		abs, err := filepath.Abs(w.workflowDir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		loader, err := loamAdapter.Open(abs)
		if err != nil {
			return nil, err
		}
		w.loader = loader
		if w.Name == "" {
			w.Name = filepath.Base(abs)
		}
	}
	if w.Name != "" {
		w.logger = w.logger.With("workbench", w.Name)
	}

	w.suggester = suggestion.New(append([]suggestion.Option{
		suggestion.WithLogger(w.logger),
		suggestion.WithHooks(w.hooks),
	}, w.suggestionOpts...)...)
	w.formatter = formatting.New(append([]formatting.Option{
		formatting.WithLogger(w.logger),
		formatting.WithHooks(w.hooks),
	}, w.formattingOpts...)...)

	wfOpts := []workflow.Option{
		workflow.WithFormatter(w.formatter),
		workflow.WithSuggester(w.suggester),
		workflow.WithLogger(w.logger),
		workflow.WithHooks(w.hooks),
	}
	if w.generator != nil {
		wfOpts = append(wfOpts, workflow.WithGenerator(w.generator))
	}
	if w.loader != nil {
		wfOpts = append(wfOpts, workflow.WithLoader(w.loader))
	}
	if w.store != nil {
		wfOpts = append(wfOpts, workflow.WithExecutionStore(w.store))
	}
	if w.tracer != nil {
		wfOpts = append(wfOpts, workflow.WithTracerProvider(w.tracer))
	}
	engine, err := workflow.New(ctx, append(wfOpts, w.workflowOpts...)...)
	if err != nil {
		return nil, err
	}
	w.workflows = engine
	return w, nil
}

// Suggester returns the suggestion engine.
func (w *Workbench) Suggester() *suggestion.Engine { return w.suggester }

// Formatter returns the formatting engine.
func (w *Workbench) Formatter() *formatting.Engine { return w.formatter }

// Workflows returns the workflow engine.
func (w *Workbench) Workflows() *workflow.Engine { return w.workflows }

// Suggest scores the slide at index within a deck of total slides.
func (w *Workbench) Suggest(slide domain.Slide, index, total int, audience string) suggestion.Result {
	ctx := suggestion.ForSlide(slide, index, total)
	ctx.Audience = audience
	return w.suggester.GenerateSuggestions(ctx)
}

// Analyze computes readability, engagement, balance and accessibility for a slide.
func (w *Workbench) Analyze(slide domain.Slide) domain.ContentAnalysis {
	return suggestion.AnalyzeContent(slide)
}

// ContentChanged runs realtime evaluation after an edit.
func (w *Workbench) ContentChanged(slide domain.Slide, index, total int) suggestion.RealtimeResult {
	return w.suggester.OnContentChanged(suggestion.ForSlide(slide, index, total))
}

// FormatSlide returns a formatted copy of slide. The argument is left untouched.
func (w *Workbench) FormatSlide(slide domain.Slide, index, total int) (domain.Slide, formatting.Result) {
	out := slide.Clone()
	res := w.formatter.FormatSlide(&out, formatting.Context{
		Position:   domain.ClassifyPosition(index, total),
		SlideIndex: index,
		SlideCount: total,
	})
	return out, res
}

// FormatPresentation returns a formatted copy of the deck.
func (w *Workbench) FormatPresentation(p domain.Presentation) (domain.Presentation, formatting.Result) {
	out := p
	out.Slides = domain.CloneSlides(p.Slides)
	res := w.formatter.FormatPresentation(out.Slides, formatting.Context{})
	return out, res
}

// Preview lists the changes FormatPresentation would make.
func (w *Workbench) Preview(p domain.Presentation) []domain.FormattingChange {
	return w.formatter.PreviewPresentation(p.Slides, formatting.Context{})
}

// Run executes a workflow from the catalog.
func (w *Workbench) Run(ctx context.Context, workflowID string, input workflow.Context) (*domain.WorkflowExecution, error) {
	return w.workflows.ExecuteWorkflow(ctx, workflowID, input)
}

// Cancel requests cancellation of a running execution.
func (w *Workbench) Cancel(executionID string) bool {
	return w.workflows.CancelExecution(executionID)
}
