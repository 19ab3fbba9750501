package suggestion

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/lectern/pkg/domain"
)

// Scoring thresholds.
const (
	MaxSentenceLength = 100
	LongWordLength    = 8
	LongWordRatio     = 0.3
	MaxSlideText      = 500
	MaxElements       = 8
	MinReadableFont   = 14.0
	UnbalancedBelow   = 0.5
	defaultHeadingLvl = 2
	accessAltText     = "alt-text"
	accessHeadings    = "heading-structure"
	accessFontSize    = "font-size"
)

// AnalyzeContent computes the quality scores of a slide.
func AnalyzeContent(slide domain.Slide) domain.ContentAnalysis {
	text := SlideText(slide)
	return domain.ContentAnalysis{
		SlideID:       slide.ID,
		Readability:   Readability(slide),
		Engagement:    Engagement(slide),
		VisualBalance: VisualBalance(slide),
		Accessibility: AccessibilityChecks(slide),
		WordCount:     len(strings.Fields(text)),
		CharCount:     utf8.RuneCountInString(text),
	}
}

// SlideText concatenates the readable text of every element.
func SlideText(slide domain.Slide) string {
	parts := make([]string, 0, len(slide.Elements))
	for i := range slide.Elements {
		if t := slide.Elements[i].TextContent(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// Readability starts at 1 and subtracts for long sentences, long words and
// overall text volume.
func Readability(slide domain.Slide) float64 {
	score := 1.0

	longSentences := false
	var words, longWords, total int
	for i := range slide.Elements {
		text := slide.Elements[i].TextContent()
		if text == "" {
			continue
		}
		total += utf8.RuneCountInString(text)
		if averageSentenceLength(text) > MaxSentenceLength {
			longSentences = true
		}
		for _, w := range strings.Fields(text) {
			w = strings.TrimFunc(w, unicode.IsPunct)
			if w == "" {
				continue
			}
			words++
			if utf8.RuneCountInString(w) > LongWordLength {
				longWords++
			}
		}
	}

	if longSentences {
		score -= 0.1
	}
	if words > 0 && float64(longWords)/float64(words) > LongWordRatio {
		score -= 0.1
	}
	if total > MaxSlideText {
		score -= 0.2
	}
	return clamp01(score)
}

func averageSentenceLength(text string) float64 {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	var count, chars int
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		count++
		chars += utf8.RuneCountInString(s)
	}
	if count == 0 {
		return 0
	}
	return float64(chars) / float64(count)
}

// Engagement rewards visual and interactive content and penalises clutter.
func Engagement(slide domain.Slide) float64 {
	score := 0.5
	if slide.HasType(domain.ElementImage) {
		score += 0.2
	}
	if slide.HasType(domain.ElementChart) {
		score += 0.2
	}
	if slide.HasType(domain.ElementQuiz, domain.ElementInteractive) {
		score += 0.3
	}
	if slide.HasType(domain.ElementTitle) {
		score += 0.1
	}
	if hasBullets(slide) {
		score += 0.1
	}
	if len(slide.Elements) > MaxElements {
		score -= 0.2
	}
	return clamp01(score)
}

func hasBullets(slide domain.Slide) bool {
	for i := range slide.Elements {
		el := &slide.Elements[i]
		if el.Type == domain.ElementBullets {
			return true
		}
		if _, ok := el.Prop(domain.PropItems); ok {
			return true
		}
		for _, line := range strings.Split(el.StringProp(domain.PropText), "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "* ") {
				return true
			}
		}
	}
	return false
}

// VisualBalance scores how close the centroid of element centres is to the
// middle of the grid. An empty slide is perfectly balanced.
func VisualBalance(slide domain.Slide) float64 {
	if len(slide.Elements) == 0 {
		return 1
	}
	var sx, sy float64
	for i := range slide.Elements {
		cx, cy := slide.Elements[i].Center()
		sx += cx
		sy += cy
	}
	n := float64(len(slide.Elements))
	mid := domain.GridSize / 2
	dist := math.Hypot(sx/n-mid, sy/n-mid)
	maxDist := math.Sqrt(2 * mid * mid)
	return clamp01(1 - dist/maxDist)
}

// AccessibilityChecks reports missing alt text, skipped heading levels and
// small fonts. Categories without findings get a single pass entry.
func AccessibilityChecks(slide domain.Slide) []domain.AccessibilityCheck {
	var alt, headings, fonts []domain.AccessibilityCheck

	prevLevel := 0
	for i := range slide.Elements {
		el := &slide.Elements[i]

		if el.Type == domain.ElementImage && strings.TrimSpace(el.StringProp(domain.PropAlt)) == "" {
			alt = append(alt, domain.AccessibilityCheck{
				Type:       accessAltText,
				Status:     domain.CheckFail,
				Message:    fmt.Sprintf("image '%s' has no alternative text", el.ID),
				Suggestion: "Describe the image content in the alt property",
				ElementID:  el.ID,
			})
		}

		if level := headingLevel(el); level > 0 {
			if prevLevel > 0 && level > prevLevel+1 {
				headings = append(headings, domain.AccessibilityCheck{
					Type:       accessHeadings,
					Status:     domain.CheckWarning,
					Message:    fmt.Sprintf("heading level jumps from %d to %d", prevLevel, level),
					Suggestion: fmt.Sprintf("Use level %d instead", prevLevel+1),
					ElementID:  el.ID,
				})
			}
			prevLevel = level
		}

		if el.IsTextual() {
			if size, ok := el.NumberProp(domain.PropFontSize); ok && size < MinReadableFont {
				fonts = append(fonts, domain.AccessibilityCheck{
					Type:       accessFontSize,
					Status:     domain.CheckWarning,
					Message:    fmt.Sprintf("font size %g is below %g", size, MinReadableFont),
					Suggestion: fmt.Sprintf("Use at least %gpt", MinReadableFont),
					ElementID:  el.ID,
				})
			}
		}
	}

	checks := make([]domain.AccessibilityCheck, 0, len(alt)+len(headings)+len(fonts)+3)
	checks = appendOrPass(checks, alt, accessAltText, "all images have alternative text")
	checks = appendOrPass(checks, headings, accessHeadings, "heading levels are consecutive")
	checks = appendOrPass(checks, fonts, accessFontSize, "all text is at least 14pt")
	return checks
}

func appendOrPass(dst, found []domain.AccessibilityCheck, kind, msg string) []domain.AccessibilityCheck {
	if len(found) > 0 {
		return append(dst, found...)
	}
	return append(dst, domain.AccessibilityCheck{Type: kind, Status: domain.CheckPass, Message: msg})
}

func headingLevel(el *domain.ContentElement) int {
	switch el.Type {
	case domain.ElementTitle:
		return 1
	case domain.ElementHeading:
		if lvl, ok := el.NumberProp(domain.PropLevel); ok && lvl >= 1 {
			return int(lvl)
		}
		return defaultHeadingLvl
	}
	return 0
}
