package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
)

// DefaultSlideCount is used when a request does not specify one.
const DefaultSlideCount = 5

// Template drafts placeholder content without calling out of process.
// Output depends only on the request, which makes it suitable for tests,
// demos and offline editing.
type Template struct {
	// Sections names the content slides in order. Missing names are numbered.
	Sections []string
}

// NewTemplate returns a Template with the default section names.
func NewTemplate() *Template {
	return &Template{Sections: []string{"Overview", "Key concepts", "Examples", "Common pitfalls", "Practice"}}
}

// Generate implements ports.ContentGenerator.
func (g *Template) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.GenerationResponse{}, err
	}
	topic := strings.TrimSpace(req.Context.Topic)
	if topic == "" {
		return domain.GenerationResponse{Success: false, Error: "topic is required"}, nil
	}

	meta := map[string]any{"generator": "template", "type": req.Type}
	switch req.Type {
	case domain.GenerateText:
		return domain.GenerationResponse{Success: true, Content: g.paragraph(topic, req.Options), Metadata: meta}, nil
	case domain.GenerateSlide:
		n := len(req.Context.Slides) + 1
		slide := contentSlide(fmt.Sprintf("slide-%d", n), g.section(n-1), topic)
		return domain.GenerationResponse{Success: true, Slides: []domain.Slide{slide}, Metadata: meta}, nil
	}

	count := req.Options.SlideCount
	if count <= 0 {
		count = DefaultSlideCount
	}
	if count < 2 {
		count = 2
	}

	slides := make([]domain.Slide, 0, count)
	slides = append(slides, titleSlide(topic, req.Options.Audience))
	var outline strings.Builder
	fmt.Fprintf(&outline, "# %s\n", topic)
	for i := 1; i < count-1; i++ {
		name := g.section(i - 1)
		slides = append(slides, contentSlide(fmt.Sprintf("slide-%d", i+1), name, topic))
		fmt.Fprintf(&outline, "%d. %s\n", i, name)
	}
	slides = append(slides, closingSlide(fmt.Sprintf("slide-%d", count), topic))
	fmt.Fprintf(&outline, "%d. Summary\n", count-1)

	if req.Type == domain.GenerateOutline {
		// outlines carry titles only
		for i := range slides {
			slides[i].Elements = slides[i].Elements[:1]
		}
	}
	return domain.GenerationResponse{Success: true, Content: outline.String(), Slides: slides, Metadata: meta}, nil
}

func (g *Template) section(i int) string {
	if i < len(g.Sections) {
		return g.Sections[i]
	}
	return fmt.Sprintf("Part %d", i+1)
}

func (g *Template) paragraph(topic string, opts domain.GenerationOptions) string {
	audience := opts.Audience
	if audience == "" {
		audience = "everyone"
	}
	text := fmt.Sprintf("%s explained for %s.", topic, audience)
	if opts.Purpose != "" {
		text += " Goal: " + opts.Purpose + "."
	}
	return text
}

func titleSlide(topic, audience string) domain.Slide {
	els := []domain.ContentElement{
		{ID: "slide-1-title", Type: domain.ElementTitle, X: 1, Y: 4, W: 10, H: 2, Props: map[string]any{domain.PropText: topic}},
	}
	if audience != "" {
		els = append(els, domain.ContentElement{
			ID: "slide-1-subtitle", Type: domain.ElementText, X: 2, Y: 7, W: 8, H: 1,
			Props: map[string]any{domain.PropText: "For " + audience},
		})
	}
	return domain.Slide{ID: "slide-1", Title: topic, Elements: els}
}

func contentSlide(id, name, topic string) domain.Slide {
	return domain.Slide{
		ID:    id,
		Title: name,
		Elements: []domain.ContentElement{
			{ID: id + "-title", Type: domain.ElementTitle, X: 0, Y: 0, W: 12, H: 2, Props: map[string]any{domain.PropText: name}},
			{ID: id + "-bullets", Type: domain.ElementBullets, X: 1, Y: 3, W: 10, H: 6, Props: map[string]any{
				domain.PropItems: []any{
					fmt.Sprintf("What %s means for %s", name, topic),
					"One concrete example",
					"One question to discuss",
				},
			}},
		},
	}
}

func closingSlide(id, topic string) domain.Slide {
	return domain.Slide{
		ID:    id,
		Title: "Summary",
		Elements: []domain.ContentElement{
			{ID: id + "-title", Type: domain.ElementTitle, X: 0, Y: 0, W: 12, H: 2, Props: map[string]any{domain.PropText: "Summary"}},
			{ID: id + "-text", Type: domain.ElementText, X: 1, Y: 3, W: 10, H: 4, Props: map[string]any{
				domain.PropText: fmt.Sprintf("Review the key ideas of %s.", topic),
			}},
		},
	}
}
