package workflow_test

import (
	"context"
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/schema"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "hello", "hello"},
		{"trims", "  hello \n", "hello"},
		{"strips control", "he\x1b[31mllo\x00", "he[31mllo"},
		{"keeps newlines and tabs", "a\n\tb", "a\n\tb"},
		{"repairs utf8", "caf\xe9", "caf�"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workflow.NormalizeText(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := workflow.NormalizeText("too long", 3)
	assert.ErrorIs(t, err, workflow.ErrTextTooLarge)
}

func transformHandler(t *testing.T, params map[string]any, slides []domain.Slide) (workflow.TransformOutput, error) {
	t.Helper()
	run := &workflow.Run{Slides: slides, Results: &domain.WorkflowResults{}}
	out, err := workflow.TransformHandler().Handle(context.Background(),
		domain.WorkflowStep{ID: "t", Type: domain.StepTransform, Parameters: params}, run)
	if err != nil {
		return workflow.TransformOutput{}, err
	}
	return out.(workflow.TransformOutput), nil
}

func TestTransform_Operations(t *testing.T) {
	deck := []domain.Slide{{
		ID:    "s",
		Title: " Intro\x07",
		Elements: []domain.ContentElement{
			{ID: "low", Type: domain.ElementText, X: 0, Y: 6, Props: map[string]any{"text": "b"}},
			{Type: domain.ElementBullets, X: 3, Y: 1, Props: map[string]any{"items": []any{" one ", "two"}}},
			{ID: "left", Type: domain.ElementText, X: 0, Y: 1, Props: map[string]any{"text": "a"}},
		},
	}}

	out, err := transformHandler(t, map[string]any{
		"operations": []any{workflow.OpNormalizeText, workflow.OpEnsureIDs, workflow.OpSortByPosition},
	}, deck)
	require.NoError(t, err)

	s := out.Slides[0]
	assert.Equal(t, "Intro", s.Title)
	require.Len(t, s.Elements, 3)
	assert.Equal(t, "left", s.Elements[0].ID)
	assert.NotEmpty(t, s.Elements[1].ID)
	assert.Equal(t, []any{"one", "two"}, s.Elements[1].Props["items"])
	assert.Equal(t, "low", s.Elements[2].ID)
	// title + one item + one id + one reordered slide
	assert.Equal(t, 4, out.Changed)

	assert.Equal(t, " Intro\x07", deck[0].Title, "input untouched")
	assert.Empty(t, deck[0].Elements[1].ID, "input untouched")
}

func TestTransform_DefaultsAndErrors(t *testing.T) {
	deck := []domain.Slide{{ID: "s", Title: "  x  "}}

	out, err := transformHandler(t, nil, deck)
	require.NoError(t, err)
	assert.Equal(t, []string{workflow.OpNormalizeText}, out.Operations)
	assert.Equal(t, "x", out.Slides[0].Title)

	_, err = transformHandler(t, map[string]any{"operation": "explode"}, deck)
	assert.ErrorIs(t, err, workflow.ErrUnknownOperation)

	_, err = transformHandler(t, map[string]any{"maxTextSize": "2"}, deck)
	assert.ErrorIs(t, err, workflow.ErrTextTooLarge)
}

func TestTransform_NormalizeErrorNamesFirstProp(t *testing.T) {
	for range 20 {
		deck := []domain.Slide{{ID: "s", Elements: []domain.ContentElement{
			{ID: "e", Type: domain.ElementText, Props: map[string]any{
				"zeta":  "far too long",
				"text":  "also too long",
				"alpha": "too long as well",
			}},
		}}}
		_, err := transformHandler(t, map[string]any{"maxTextSize": 4}, deck)
		require.ErrorIs(t, err, workflow.ErrTextTooLarge)
		assert.Contains(t, err.Error(), "element 'e' alpha:")
	}
}

func TestValidateSlides(t *testing.T) {
	t.Run("empty deck", func(t *testing.T) {
		issues := workflow.ValidateSlides(nil, workflow.ValidateParams{}, nil)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "no slides")
	})

	t.Run("structural issues", func(t *testing.T) {
		deck := []domain.Slide{{
			ID: "s",
			Elements: []domain.ContentElement{
				{ID: "a", Type: domain.ElementText, W: 4, H: 2, Props: map[string]any{"text": "ok"}},
				{ID: "a", Type: domain.ElementText, W: 4, H: 2, Props: map[string]any{"text": "dup"}},
				{ID: "b", Type: "hologram", W: 1, H: 1},
				{ID: "c", Type: domain.ElementText, W: 0, H: 2, Props: map[string]any{"text": 3}},
			},
		}}
		issues := workflow.ValidateSlides(deck, workflow.ValidateParams{RequireTitle: true, MaxElements: 3}, nil)

		var msgs []string
		for _, is := range issues {
			msgs = append(msgs, is.ElementID+": "+is.Message)
		}
		assert.Contains(t, msgs, ": slide has no title")
		assert.Contains(t, msgs, ": slide has 4 elements, limit is 3")
		assert.Contains(t, msgs, "a: duplicate element id")
		assert.Contains(t, msgs, "c: element has non-positive size 0x2")
		assert.Len(t, issues, 6, "%v", msgs)
	})

	t.Run("extra schemas", func(t *testing.T) {
		deck := []domain.Slide{{ID: "s", Elements: []domain.ContentElement{
			{ID: "q", Type: domain.ElementQuiz, W: 4, H: 4, Props: map[string]any{}},
		}}}
		extra := map[string]schema.Schema{domain.ElementQuiz: {"answer": schema.Int()}}
		issues := workflow.ValidateSlides(deck, workflow.ValidateParams{}, extra)
		require.Len(t, issues, 1)
		assert.Equal(t, "q", issues[0].ElementID)
		assert.Contains(t, issues[0].Message, "answer")
	})
}

func TestValidateStep_StrictKeepsIssues(t *testing.T) {
	e, err := workflow.New(context.Background(), workflow.WithWorkflows(domain.Workflow{
		ID: "strict",
		Steps: []domain.WorkflowStep{{
			ID:         "check",
			Type:       domain.StepValidate,
			Optional:   true,
			Parameters: map[string]any{"strict": "true", "schemas": map[string]any{"text": map[string]any{"level": "int"}}},
		}},
	}))
	require.NoError(t, err)

	deck := []domain.Slide{{ID: "s", Elements: []domain.ContentElement{
		{ID: "t", Type: domain.ElementText, W: 4, H: 2, Props: map[string]any{"text": "hi"}},
	}}}
	exec, err := e.ExecuteWorkflow(context.Background(), "strict", workflow.Context{Slides: deck})
	require.NoError(t, err, "optional step failure does not fail the execution")

	assert.Equal(t, domain.StepFailed, exec.Step("check").Status)
	assert.Contains(t, exec.Step("check").Error, workflow.ErrValidationFailed.Error())
	require.Len(t, exec.Results.Validation, 1)
	assert.Contains(t, exec.Results.Validation[0].Message, "level")
}
