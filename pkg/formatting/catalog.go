package formatting

import (
	"github.com/aretw0/lectern/pkg/domain"
)

// Default font sizes in points.
const (
	TitleFontSize      = 32.0
	TitleSlideFontSize = 44.0
	HeadingFontSize    = 24.0
	BodyFontSize       = 18.0
	MinFontSize        = 14.0
	MinElementSize     = 1.0
	MinContrastRatio   = 4.5
)

// DefaultRules returns the built-in formatting catalog. The rules only fill
// in missing properties or repair violations, so repeated runs converge.
func DefaultRules() []Rule {
	return []Rule{
		minimumSize(),
		clampToGrid(),
		titleFontSize(),
		bodyFontSize(),
		minimumFontSize(),
		fontFamily(),
		lineHeight(),
		textColor(),
		contrastFix(),
		titleAlignment(),
		conclusionEmphasis(),
	}
}

func isTitle(el *domain.ContentElement) bool {
	return el.Type == domain.ElementTitle || el.Type == domain.ElementHeading
}

func isBody(el *domain.ContentElement) bool {
	return el.Type == domain.ElementText || el.Type == domain.ElementBullets
}

func missing(el *domain.ContentElement, key string) bool {
	_, ok := el.Prop(key)
	return !ok
}

func titleFontSize() Rule {
	return RuleFunc{
		RuleID:       "title-font-size",
		RuleName:     "Title font size",
		RuleCategory: domain.CategoryTypography,
		RulePriority: domain.PriorityHigh,
		When: func(el *domain.ContentElement, _ Context) bool {
			return isTitle(el) && missing(el, domain.PropFontSize)
		},
		Do: func(el *domain.ContentElement, c Context) (*domain.ContentElement, error) {
			switch {
			case el.Type == domain.ElementHeading:
				el.SetProp(domain.PropFontSize, HeadingFontSize)
			case c.Position == domain.PositionTitle:
				el.SetProp(domain.PropFontSize, TitleSlideFontSize)
			default:
				el.SetProp(domain.PropFontSize, TitleFontSize)
			}
			return el, nil
		},
	}
}

func bodyFontSize() Rule {
	return RuleFunc{
		RuleID:       "body-font-size",
		RuleName:     "Body font size",
		RuleCategory: domain.CategoryTypography,
		RulePriority: domain.PriorityHigh - 10,
		When: func(el *domain.ContentElement, _ Context) bool {
			return isBody(el) && missing(el, domain.PropFontSize)
		},
		Do: func(el *domain.ContentElement, _ Context) (*domain.ContentElement, error) {
			el.SetProp(domain.PropFontSize, BodyFontSize)
			return el, nil
		},
	}
}

func minimumFontSize() Rule {
	return RuleFunc{
		RuleID:       "minimum-font-size",
		RuleName:     "Minimum readable font size",
		RuleCategory: domain.CategoryTypography,
		RulePriority: domain.PriorityHigh - 20,
		When: func(el *domain.ContentElement, _ Context) bool {
			size, ok := el.NumberProp(domain.PropFontSize)
			return el.IsTextual() && ok && size < MinFontSize
		},
		Do: func(el *domain.ContentElement, _ Context) (*domain.ContentElement, error) {
			el.SetProp(domain.PropFontSize, MinFontSize)
			return el, nil
		},
	}
}

func fontFamily() Rule {
	return RuleFunc{
		RuleID:       "font-family",
		RuleName:     "Theme font family",
		RuleCategory: domain.CategoryTypography,
		RulePriority: domain.PriorityMedium + 20,
		When: func(el *domain.ContentElement, c Context) bool {
			return el.IsTextual() && c.Theme.FontFamily != "" && missing(el, domain.PropFontFamily)
		},
		Do: func(el *domain.ContentElement, c Context) (*domain.ContentElement, error) {
			el.SetProp(domain.PropFontFamily, c.Theme.FontFamily)
			return el, nil
		},
	}
}

func lineHeight() Rule {
	return RuleFunc{
		RuleID:       "line-height",
		RuleName:     "Comfortable line height",
		RuleCategory: domain.CategorySpacing,
		RulePriority: domain.PriorityMedium + 10,
		When: func(el *domain.ContentElement, c Context) bool {
			return isBody(el) && c.Theme.LineHeight > 0 && missing(el, domain.PropLineHeight)
		},
		Do: func(el *domain.ContentElement, c Context) (*domain.ContentElement, error) {
			el.SetProp(domain.PropLineHeight, c.Theme.LineHeight)
			return el, nil
		},
	}
}

func textColor() Rule {
	return RuleFunc{
		RuleID:       "text-color",
		RuleName:     "Theme text colour",
		RuleCategory: domain.CategoryColors,
		RulePriority: domain.PriorityMedium + 10,
		When: func(el *domain.ContentElement, c Context) bool {
			return el.IsTextual() && missing(el, domain.PropColor) && themeColor(el, c.Theme) != ""
		},
		Do: func(el *domain.ContentElement, c Context) (*domain.ContentElement, error) {
			el.SetProp(domain.PropColor, themeColor(el, c.Theme))
			return el, nil
		},
	}
}

func themeColor(el *domain.ContentElement, t Theme) string {
	if isTitle(el) && t.TitleColor != "" {
		return t.TitleColor
	}
	return t.TextColor
}

// contrastFix replaces a text colour that fails WCAG AA against its
// background with black or white, whichever contrasts more.
func contrastFix() Rule {
	return RuleFunc{
		RuleID:       "contrast-fix",
		RuleName:     "Text contrast",
		RuleCategory: domain.CategoryColors,
		RulePriority: domain.PriorityMedium,
		When: func(el *domain.ContentElement, c Context) bool {
			if !el.IsTextual() {
				return false
			}
			fg, ok := ParseHexColor(el.StringProp(domain.PropColor))
			if !ok {
				return false
			}
			bg, ok := background(el, c.Theme)
			if !ok {
				return false
			}
			return ContrastRatio(fg, bg) < MinContrastRatio
		},
		Do: func(el *domain.ContentElement, c Context) (*domain.ContentElement, error) {
			bg, _ := background(el, c.Theme)
			el.SetProp(domain.PropColor, BestTextColor(bg))
			return el, nil
		},
	}
}

func background(el *domain.ContentElement, t Theme) (RGB, bool) {
	if bg, ok := ParseHexColor(el.StringProp(domain.PropBackground)); ok {
		return bg, true
	}
	return ParseHexColor(t.BackgroundColor)
}

func minimumSize() Rule {
	return RuleFunc{
		RuleID:       "minimum-size",
		RuleName:     "Minimum element size",
		RuleCategory: domain.CategoryLayout,
		RulePriority: domain.PriorityHigh + 20,
		When: func(el *domain.ContentElement, _ Context) bool {
			return el.W < MinElementSize || el.H < MinElementSize
		},
		Do: func(el *domain.ContentElement, _ Context) (*domain.ContentElement, error) {
			if el.W < MinElementSize {
				el.W = MinElementSize
			}
			if el.H < MinElementSize {
				el.H = MinElementSize
			}
			return el, nil
		},
	}
}

func clampToGrid() Rule {
	return RuleFunc{
		RuleID:       "clamp-to-grid",
		RuleName:     "Keep element on the slide",
		RuleCategory: domain.CategoryLayout,
		RulePriority: domain.PriorityHigh + 10,
		When: func(el *domain.ContentElement, _ Context) bool {
			return el.X < 0 || el.Y < 0 ||
				el.W > domain.GridSize || el.H > domain.GridSize ||
				el.X+el.W > domain.GridSize || el.Y+el.H > domain.GridSize
		},
		Do: func(el *domain.ContentElement, _ Context) (*domain.ContentElement, error) {
			el.W = clamp(el.W, 0, domain.GridSize)
			el.H = clamp(el.H, 0, domain.GridSize)
			el.X = clamp(el.X, 0, domain.GridSize-el.W)
			el.Y = clamp(el.Y, 0, domain.GridSize-el.H)
			return el, nil
		},
	}
}

func titleAlignment() Rule {
	return RuleFunc{
		RuleID:       "title-alignment",
		RuleName:     "Title alignment",
		RuleCategory: domain.CategoryAlignment,
		RulePriority: domain.PriorityMedium,
		When: func(el *domain.ContentElement, _ Context) bool {
			return el.Type == domain.ElementTitle && missing(el, domain.PropTextAlign)
		},
		Do: func(el *domain.ContentElement, c Context) (*domain.ContentElement, error) {
			align := "left"
			if c.Position == domain.PositionTitle {
				align = "center"
			}
			el.SetProp(domain.PropTextAlign, align)
			return el, nil
		},
	}
}

func conclusionEmphasis() Rule {
	return RuleFunc{
		RuleID:       "conclusion-emphasis",
		RuleName:     "Emphasize closing title",
		RuleCategory: domain.CategoryTypography,
		RulePriority: domain.PriorityLow,
		When: func(el *domain.ContentElement, c Context) bool {
			return c.Position == domain.PositionConclusion &&
				el.Type == domain.ElementTitle &&
				missing(el, domain.PropFontWeight)
		},
		Do: func(el *domain.ContentElement, _ Context) (*domain.ContentElement, error) {
			el.SetProp(domain.PropFontWeight, "bold")
			return el, nil
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
