package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/suggestion"
)

var (
	// ErrNoGenerator is returned by generate steps when no ContentGenerator is configured.
	ErrNoGenerator = errors.New("no content generator configured")
	// ErrGenerationFailed wraps a generator response with Success == false.
	ErrGenerationFailed = errors.New("content generation failed")
	// ErrNoSlides is returned by steps that need content when the deck is empty.
	ErrNoSlides = errors.New("no slides to process")
	// ErrSlideIndex is returned when a slide-scoped step targets a missing slide.
	ErrSlideIndex = errors.New("slide index out of range")
)

// Handler executes one type of workflow step against the working state.
// Handlers must not modify run; their Output is folded in by the engine.
// An Output returned alongside an error is still folded, so partial results
// such as validation issues survive a failed step.
type Handler interface {
	Handle(ctx context.Context, step domain.WorkflowStep, run *Run) (Output, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, step domain.WorkflowStep, run *Run) (Output, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, step domain.WorkflowStep, run *Run) (Output, error) {
	return f(ctx, step, run)
}

// GenerateHandler calls gen for new content. A nil generator fails every step.
func GenerateHandler(gen ports.ContentGenerator) Handler {
	return HandlerFunc(func(ctx context.Context, step domain.WorkflowStep, run *Run) (Output, error) {
		if gen == nil {
			return nil, ErrNoGenerator
		}
		var p GenerateParams
		if err := DecodeParams(step, &p); err != nil {
			return nil, err
		}

		req := buildRequest(p, run)
		resp, err := gen.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		if !resp.Success {
			reason := resp.Error
			if reason == "" {
				reason = "generator reported failure"
			}
			return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, reason)
		}

		out := GenerateOutput{Content: resp.Content, Metadata: resp.Metadata}
		switch req.Type {
		case domain.GenerateSlide:
			if len(resp.Slides) > 0 {
				out.Slides = append(domain.CloneSlides(run.Slides), resp.Slides...)
			}
		case domain.GenerateText:
			// text generation never touches the deck
		default:
			out.Slides = resp.Slides
		}
		return out, nil
	})
}

func buildRequest(p GenerateParams, run *Run) domain.GenerationRequest {
	opts := run.Context.Options
	if p.Tone != "" {
		opts.Tone = p.Tone
	}
	if p.Length != "" {
		opts.Length = p.Length
	}
	if p.Purpose != "" {
		opts.Purpose = p.Purpose
	}
	if p.SlideCount > 0 {
		opts.SlideCount = p.SlideCount
	}
	audience := firstNonEmpty(p.Audience, run.Context.Audience, opts.Audience)
	opts.Audience = audience

	return domain.GenerationRequest{
		Type: firstNonEmpty(p.Type, domain.GeneratePresentation),
		Context: domain.GenerationContext{
			Topic:    firstNonEmpty(p.Topic, run.Context.Topic),
			Audience: audience,
			Slides:   domain.CloneSlides(run.Slides),
			Extra:    run.Context.Extra,
		},
		Options: opts,
	}
}

// FormatHandler runs the formatting engine over the working slides.
func FormatHandler(f *formatting.Engine) Handler {
	return HandlerFunc(func(_ context.Context, step domain.WorkflowStep, run *Run) (Output, error) {
		var p FormatParams
		if err := DecodeParams(step, &p); err != nil {
			return nil, err
		}
		slides := domain.CloneSlides(run.Slides)
		if len(slides) == 0 {
			return nil, ErrNoSlides
		}
		fctx := formatting.Context{Theme: f.Settings().Theme}

		var res formatting.Result
		switch firstNonEmpty(p.Scope, ScopePresentation) {
		case ScopePresentation:
			res = f.FormatPresentation(slides, fctx)
		case ScopeSlide:
			i, err := slideIndex(p.SlideIndex, run)
			if err != nil {
				return nil, err
			}
			fctx.Position = domain.ClassifyPosition(i, len(slides))
			fctx.SlideIndex = i
			fctx.SlideCount = len(slides)
			res = f.FormatSlide(&slides[i], fctx)
		default:
			return nil, fmt.Errorf("unknown scope %q", p.Scope)
		}
		return FormatOutput{Result: res, Slides: slides}, nil
	})
}

// AnalyzeHandler runs the suggestion engine and the content scorer.
func AnalyzeHandler(s *suggestion.Engine) Handler {
	return HandlerFunc(func(_ context.Context, step domain.WorkflowStep, run *Run) (Output, error) {
		var p AnalyzeParams
		if err := DecodeParams(step, &p); err != nil {
			return nil, err
		}
		if len(run.Slides) == 0 {
			return nil, ErrNoSlides
		}

		indexes := make([]int, 0, len(run.Slides))
		switch firstNonEmpty(p.Scope, ScopePresentation) {
		case ScopePresentation:
			for i := range run.Slides {
				indexes = append(indexes, i)
			}
		case ScopeSlide:
			i, err := slideIndex(p.SlideIndex, run)
			if err != nil {
				return nil, err
			}
			indexes = append(indexes, i)
		default:
			return nil, fmt.Errorf("unknown scope %q", p.Scope)
		}

		out := AnalyzeOutput{}
		for _, i := range indexes {
			slide := run.Slides[i]
			if boolOr(p.Suggestions, true) {
				sctx := suggestion.ForSlide(slide, i, len(run.Slides))
				sctx.Audience = run.Context.Audience
				res := s.GenerateSuggestions(sctx)
				out.Suggestions = append(out.Suggestions, res.Suggestions...)
				out.Warnings = append(out.Warnings, res.Warnings...)
			}
			if boolOr(p.Analysis, true) {
				out.Analyses = append(out.Analyses, suggestion.AnalyzeContent(slide))
			}
		}
		return out, nil
	})
}

// TransformHandler applies structural transform operations.
func TransformHandler() Handler { return HandlerFunc(handleTransform) }

// ValidateHandler checks the working slides.
func ValidateHandler() Handler { return HandlerFunc(handleValidate) }

func slideIndex(p *int, run *Run) (int, error) {
	i := run.Context.SlideIndex
	if p != nil {
		i = *p
	}
	if i < 0 || i >= len(run.Slides) {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrSlideIndex, i, len(run.Slides))
	}
	return i, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
