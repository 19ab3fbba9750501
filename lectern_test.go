package lectern_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/generator"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/suggestion"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textOnlySlide() domain.Slide {
	return domain.Slide{
		ID: "s1",
		Elements: []domain.ContentElement{
			{ID: "body", Type: domain.ElementText, X: 1, Y: 3, W: 10, H: 4, Props: map[string]any{domain.PropText: "Plants turn light into sugar."}},
		},
	}
}

func TestWorkbench_WorkflowDir(t *testing.T) {
	// 0. Setup temp catalog
	dir := t.TempDir()
	doc := []byte(`---
id: tidy
name: Tidy
category: formatting
steps:
  - id: ids
    type: transform
    parameters:
      operation: ensure-ids
  - id: format
    type: format
    depends_on: [ids]
---
Assign ids then format.`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tidy.md"), doc, 0644))

	// 1. Initialization
	store := memory.NewStore()
	wb, err := lectern.New(context.Background(),
		lectern.WithWorkflowDir(dir),
		lectern.WithExecutionStore(store),
	)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), wb.Name)

	// 2. Built-in and loaded workflows coexist
	_, ok := wb.Workflows().GetWorkflow(workflow.CreatePresentation)
	assert.True(t, ok)
	tidy, ok := wb.Workflows().GetWorkflow("tidy")
	require.True(t, ok)
	assert.Equal(t, "Assign ids then format.", tidy.Description)

	// 3. Run it
	exec, err := wb.Run(context.Background(), "tidy", workflow.Context{Slides: []domain.Slide{textOnlySlide()}})
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	require.NotNil(t, exec.Results)
	assert.NotEmpty(t, exec.Results.Changes)

	archived, err := store.Load(context.Background(), exec.ID)
	require.NoError(t, err)
	assert.Equal(t, "tidy", archived.WorkflowID)
}

func TestWorkbench_SuggestAndFormat(t *testing.T) {
	wb, err := lectern.New(context.Background())
	require.NoError(t, err)

	slide := textOnlySlide()

	res := wb.Suggest(slide, 1, 3, "students")
	var ids []string
	for _, s := range res.Suggestions {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "add-title")

	analysis := wb.Analyze(slide)
	assert.GreaterOrEqual(t, analysis.Readability, 0.0)

	formatted, fres := wb.FormatSlide(slide, 1, 3)
	assert.True(t, fres.Success)
	size, ok := formatted.Elements[0].NumberProp(domain.PropFontSize)
	require.True(t, ok)
	assert.Equal(t, 18.0, size)
	_, touched := slide.Elements[0].Prop(domain.PropFontSize)
	assert.False(t, touched, "input slide must not be mutated")

	// Preview reports exactly what FormatPresentation does.
	deck := domain.Presentation{ID: "p", Slides: []domain.Slide{slide}}
	preview := wb.Preview(deck)
	out, pres := wb.FormatPresentation(deck)
	assert.Equal(t, preview, pres.Changes)
	assert.NotEqual(t, deck.Slides[0].Elements[0].Props, out.Slides[0].Elements[0].Props)
}

func TestWorkbench_AutoApply(t *testing.T) {
	cfg := suggestion.DefaultConfig()
	cfg.AutoApply = true
	wb, err := lectern.New(context.Background(), lectern.WithSuggestionConfig(cfg))
	require.NoError(t, err)

	out := wb.ContentChanged(textOnlySlide(), 1, 3)
	require.NotNil(t, out.Slide)
	assert.True(t, out.Slide.HasType(domain.ElementTitle))
}

func TestWorkbench_Hooks(t *testing.T) {
	var started, steps atomic.Int32
	hooks := domain.LifecycleHooks{
		OnExecutionStart: func(context.Context, *domain.ExecutionEvent) { started.Add(1) },
		OnStepFinish:     func(context.Context, *domain.StepEvent) { steps.Add(1) },
	}

	wb, err := lectern.New(context.Background(),
		lectern.WithGenerator(generator.NewTemplate()),
		lectern.WithLifecycleHooks(hooks),
	)
	require.NoError(t, err)

	exec, err := wb.Run(context.Background(), workflow.CreatePresentation, workflow.Context{Topic: "Tides"})
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, int32(4), steps.Load())
}

func TestWorkbench_NoGenerator(t *testing.T) {
	wb, err := lectern.New(context.Background())
	require.NoError(t, err)

	exec, err := wb.Run(context.Background(), workflow.QuickOutline, workflow.Context{Topic: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrNoGenerator)
	assert.Equal(t, domain.ExecutionFailed, exec.Status)
	assert.False(t, wb.Cancel(exec.ID), "finished executions cannot be cancelled")
}

func TestWorkbench_BadWorkflowDir(t *testing.T) {
	_, err := lectern.New(context.Background(), lectern.WithWorkflowDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
}
