package suggestion

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
)

// DefaultRules returns the built-in suggestion catalog.
func DefaultRules() []Rule {
	return []Rule{
		titleMissing(),
		missingAltText(),
		smallFont(),
		textHeavy(),
		noVisuals(),
		tooManyElements(),
		unbalancedLayout(),
		conclusionQuiz(),
	}
}

func titleMissing() Rule {
	return RuleFunc{
		RuleID:       "title-missing",
		RuleName:     "Missing slide title",
		RuleCategory: domain.CategoryContent,
		RulePriority: domain.PriorityHigh,
		When: func(_ domain.Suggestion, c Context) bool {
			return !c.Slide.HasType(domain.ElementTitle)
		},
		Do: func(s domain.Suggestion, c Context) (domain.Suggestion, error) {
			text := c.Slide.Title
			if text == "" {
				text = "Slide title"
			}
			s.ID = "add-title"
			s.Title = "Add a slide title"
			s.Description = "Slides without a title are harder to scan and navigate."
			s.Confidence = 0.9
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionAddElement,
				Description: "Insert a title element at the top of the slide",
				Parameters: map[string]any{
					"type":  domain.ElementTitle,
					"x":     0.0,
					"y":     0.0,
					"w":     domain.GridSize,
					"h":     2.0,
					"props": map[string]any{domain.PropText: text},
				},
			}
			return s, nil
		},
	}
}

func missingAltText() Rule {
	return RuleFunc{
		RuleID:       "missing-alt-text",
		RuleName:     "Images without alternative text",
		RuleCategory: domain.CategoryAccessibility,
		RulePriority: domain.PriorityHigh,
		When: func(_ domain.Suggestion, c Context) bool {
			return len(imagesWithoutAlt(c.Slide)) > 0
		},
		Do: func(s domain.Suggestion, c Context) (domain.Suggestion, error) {
			ids := imagesWithoutAlt(c.Slide)
			s.ID = "add-alt-text"
			s.Title = "Describe your images"
			s.Description = fmt.Sprintf("%d image(s) have no alternative text for screen readers.", len(ids))
			s.Confidence = 0.95
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionUpdateElements,
				Description: "Add a placeholder description to each image",
				Parameters: map[string]any{
					"elementIds": ids,
					"props":      map[string]any{domain.PropAlt: "Image description"},
				},
			}
			return s, nil
		},
	}
}

func smallFont() Rule {
	return RuleFunc{
		RuleID:       "small-font",
		RuleName:     "Text below minimum size",
		RuleCategory: domain.CategoryAccessibility,
		RulePriority: domain.PriorityMedium,
		When: func(_ domain.Suggestion, c Context) bool {
			return len(smallTextElements(c.Slide)) > 0
		},
		Do: func(s domain.Suggestion, c Context) (domain.Suggestion, error) {
			s.ID = "increase-font-size"
			s.Title = "Increase font size"
			s.Description = fmt.Sprintf("Text smaller than %gpt is hard to read from a distance.", MinReadableFont)
			s.Confidence = 0.85
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionUpdateElements,
				Description: "Raise small text to the minimum readable size",
				Parameters: map[string]any{
					"elementIds": smallTextElements(c.Slide),
					"props":      map[string]any{domain.PropFontSize: MinReadableFont},
				},
			}
			return s, nil
		},
	}
}

func textHeavy() Rule {
	return RuleFunc{
		RuleID:       "text-heavy",
		RuleName:     "Too much text",
		RuleCategory: domain.CategoryContent,
		RulePriority: domain.PriorityMedium,
		When: func(_ domain.Suggestion, c Context) bool {
			return len([]rune(SlideText(c.Slide))) > MaxSlideText
		},
		Do: func(s domain.Suggestion, c Context) (domain.Suggestion, error) {
			s.ID = "split-slide"
			s.Title = "Split this slide"
			s.Description = fmt.Sprintf("The slide carries more than %d characters of text.", MaxSlideText)
			s.Confidence = 0.8
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionSplitSlide,
				Description: "Move part of the text to a new slide",
				Parameters:  map[string]any{"slideId": c.Slide.ID},
			}
			return s, nil
		},
	}
}

func noVisuals() Rule {
	return RuleFunc{
		RuleID:       "no-visuals",
		RuleName:     "Text-only slide",
		RuleCategory: domain.CategoryEngagement,
		RulePriority: domain.PriorityMedium,
		When: func(_ domain.Suggestion, c Context) bool {
			hasText := false
			for i := range c.Slide.Elements {
				if c.Slide.Elements[i].IsTextual() && c.Slide.Elements[i].Type != domain.ElementTitle {
					hasText = true
					break
				}
			}
			return hasText && !c.Slide.HasType(domain.ElementImage, domain.ElementChart, domain.ElementVideo)
		},
		Do: func(s domain.Suggestion, _ Context) (domain.Suggestion, error) {
			s.ID = "add-visual"
			s.Title = "Add a visual"
			s.Description = "An image or chart makes the slide more engaging."
			s.Confidence = 0.7
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionAddElement,
				Description: "Insert an image placeholder on the right half",
				Parameters: map[string]any{
					"type":  domain.ElementImage,
					"x":     7.0,
					"y":     3.0,
					"w":     5.0,
					"h":     5.0,
					"props": map[string]any{domain.PropAlt: "Illustration"},
				},
			}
			return s, nil
		},
	}
}

func tooManyElements() Rule {
	return RuleFunc{
		RuleID:       "too-many-elements",
		RuleName:     "Cluttered slide",
		RuleCategory: domain.CategoryLayout,
		RulePriority: domain.PriorityMedium,
		When: func(_ domain.Suggestion, c Context) bool {
			return len(c.Slide.Elements) > MaxElements
		},
		Do: func(s domain.Suggestion, c Context) (domain.Suggestion, error) {
			s.ID = "simplify-layout"
			s.Title = "Simplify the layout"
			s.Description = fmt.Sprintf("The slide has %d elements; keep it to %d or fewer.", len(c.Slide.Elements), MaxElements)
			s.Confidence = 0.75
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionRearrange,
				Description: "Group or remove secondary elements",
				Parameters:  map[string]any{"slideId": c.Slide.ID},
			}
			return s, nil
		},
	}
}

func unbalancedLayout() Rule {
	return RuleFunc{
		RuleID:       "unbalanced-layout",
		RuleName:     "Unbalanced layout",
		RuleCategory: domain.CategoryLayout,
		RulePriority: domain.PriorityLow,
		When: func(_ domain.Suggestion, c Context) bool {
			return len(c.Slide.Elements) > 0 && VisualBalance(c.Slide) < UnbalancedBelow
		},
		Do: func(s domain.Suggestion, c Context) (domain.Suggestion, error) {
			s.ID = "rebalance-layout"
			s.Title = "Rebalance the layout"
			s.Description = "Content is concentrated on one side of the slide."
			s.Confidence = 0.65
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionRearrange,
				Description: "Move elements toward the centre",
				Parameters:  map[string]any{"slideId": c.Slide.ID, "balance": VisualBalance(c.Slide)},
			}
			return s, nil
		},
	}
}

func conclusionQuiz() Rule {
	return RuleFunc{
		RuleID:       "conclusion-quiz",
		RuleName:     "Check understanding at the end",
		RuleCategory: domain.CategoryEngagement,
		RulePriority: domain.PriorityLow,
		When: func(_ domain.Suggestion, c Context) bool {
			return c.Position == domain.PositionConclusion &&
				!c.Slide.HasType(domain.ElementQuiz, domain.ElementInteractive)
		},
		Do: func(s domain.Suggestion, _ Context) (domain.Suggestion, error) {
			s.ID = "add-quiz"
			s.Title = "Add a knowledge check"
			s.Description = "A short quiz on the closing slide reinforces the key points."
			s.Confidence = 0.6
			s.Action = domain.SuggestionAction{
				Type:        domain.ActionAddElement,
				Description: "Insert a quiz element",
				Parameters: map[string]any{
					"type":  domain.ElementQuiz,
					"x":     2.0,
					"y":     8.0,
					"w":     8.0,
					"h":     3.0,
					"props": map[string]any{domain.PropText: "Quick check"},
				},
			}
			return s, nil
		},
	}
}

func imagesWithoutAlt(slide domain.Slide) []string {
	var ids []string
	for i := range slide.Elements {
		el := &slide.Elements[i]
		if el.Type == domain.ElementImage && el.StringProp(domain.PropAlt) == "" {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

func smallTextElements(slide domain.Slide) []string {
	var ids []string
	for i := range slide.Elements {
		el := &slide.Elements[i]
		if !el.IsTextual() {
			continue
		}
		if size, ok := el.NumberProp(domain.PropFontSize); ok && size < MinReadableFont {
			ids = append(ids, el.ID)
		}
	}
	return ids
}
