package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/schema"
)

// ErrValidationFailed is returned by strict validate steps that found issues.
var ErrValidationFailed = errors.New("content validation failed")

func handleValidate(_ context.Context, step domain.WorkflowStep, run *Run) (Output, error) {
	var p ValidateParams
	if err := DecodeParams(step, &p); err != nil {
		return nil, err
	}
	extra := make(map[string]schema.Schema, len(p.Schemas))
	for _, elType := range sortedKeys(p.Schemas) {
		s, err := schema.ParseTypeMap(p.Schemas[elType])
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", elType, err)
		}
		extra[elType] = s
	}

	issues := ValidateSlides(run.Slides, p, extra)
	out := ValidateOutput{Valid: len(issues) == 0, Issues: issues}
	if p.Strict && !out.Valid {
		return out, fmt.Errorf("%w: %d issue(s), first: %s", ErrValidationFailed, len(issues), issues[0].Message)
	}
	return out, nil
}

// ValidateSlides checks a deck for structural problems. extra adds prop
// schemas per element type on top of the built-in ones.
func ValidateSlides(slides []domain.Slide, p ValidateParams, extra map[string]schema.Schema) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	add := func(slideID, elementID, format string, args ...any) {
		issues = append(issues, domain.ValidationIssue{
			SlideID:   slideID,
			ElementID: elementID,
			Message:   fmt.Sprintf(format, args...),
		})
	}

	if len(slides) == 0 {
		add("", "", "presentation has no slides")
		return issues
	}

	seen := make(map[string]bool)
	for i := range slides {
		slide := &slides[i]
		if slide.ID == "" {
			add("", "", "slide %d has no id", i+1)
		}
		if p.RequireTitle && slide.Title == "" && !slide.HasType(domain.ElementTitle) {
			add(slide.ID, "", "slide has no title")
		}
		if p.MaxElements > 0 && len(slide.Elements) > p.MaxElements {
			add(slide.ID, "", "slide has %d elements, limit is %d", len(slide.Elements), p.MaxElements)
		}
		for j := range slide.Elements {
			el := slide.Elements[j]
			if el.ID == "" {
				add(slide.ID, "", "element %d has no id", j+1)
			} else if seen[el.ID] {
				add(slide.ID, el.ID, "duplicate element id")
			} else {
				seen[el.ID] = true
			}
			if el.W <= 0 || el.H <= 0 {
				add(slide.ID, el.ID, "element has non-positive size %gx%g", el.W, el.H)
			}
			if el.X < 0 || el.Y < 0 || el.X+el.W > domain.GridSize || el.Y+el.H > domain.GridSize {
				add(slide.ID, el.ID, "element exceeds the %gx%g grid", domain.GridSize, domain.GridSize)
			}
			if err := schema.ValidateElement(el, extra[el.Type]); err != nil {
				for _, e := range schema.ValidationErrors(err) {
					add(slide.ID, el.ID, "%v", e)
				}
			}
		}
	}
	return issues
}

// sortedKeys is used for deterministic iteration over parameter maps.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
