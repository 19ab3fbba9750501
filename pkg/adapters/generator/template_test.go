package generator_test

import (
	"context"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/generator"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ContentGenerator = (*generator.Template)(nil)

func TestTemplate_Presentation(t *testing.T) {
	g := generator.NewTemplate()
	resp, err := g.Generate(context.Background(), domain.GenerationRequest{
		Type:    domain.GeneratePresentation,
		Context: domain.GenerationContext{Topic: "Fractions"},
		Options: domain.GenerationOptions{SlideCount: 4, Audience: "kids"},
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.Slides, 4)

	assert.Equal(t, "Fractions", resp.Slides[0].Title)
	assert.Len(t, resp.Slides[0].Elements, 2, "audience adds a subtitle")
	assert.Equal(t, "Overview", resp.Slides[1].Title)
	assert.Equal(t, "Key concepts", resp.Slides[2].Title)
	assert.Equal(t, "Summary", resp.Slides[3].Title)
	assert.Contains(t, resp.Content, "# Fractions")
	assert.Equal(t, "template", resp.Metadata["generator"])
}

func TestTemplate_Outline(t *testing.T) {
	resp, err := generator.NewTemplate().Generate(context.Background(), domain.GenerationRequest{
		Type:    domain.GenerateOutline,
		Context: domain.GenerationContext{Topic: "Go"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Slides, generator.DefaultSlideCount)
	for _, s := range resp.Slides {
		assert.Len(t, s.Elements, 1)
		assert.Equal(t, domain.ElementTitle, s.Elements[0].Type)
	}
}

func TestTemplate_SlideAndText(t *testing.T) {
	g := generator.NewTemplate()
	ctx := context.Background()

	resp, err := g.Generate(ctx, domain.GenerationRequest{
		Type:    domain.GenerateSlide,
		Context: domain.GenerationContext{Topic: "Go", Slides: []domain.Slide{{ID: "slide-1"}}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Slides, 1)
	assert.Equal(t, "slide-2", resp.Slides[0].ID)

	resp, err = g.Generate(ctx, domain.GenerationRequest{
		Type:    domain.GenerateText,
		Context: domain.GenerationContext{Topic: "Go"},
		Options: domain.GenerationOptions{Purpose: "onboarding"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slides)
	assert.Equal(t, "Go explained for everyone. Goal: onboarding.", resp.Content)
}

func TestTemplate_Failures(t *testing.T) {
	g := generator.NewTemplate()

	resp, err := g.Generate(context.Background(), domain.GenerationRequest{Type: domain.GeneratePresentation})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "topic is required", resp.Error)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, domain.GenerationRequest{Context: domain.GenerationContext{Topic: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}
