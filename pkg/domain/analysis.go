package domain

// CheckStatus is the outcome of a single accessibility check.
type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckWarning CheckStatus = "warning"
	CheckFail    CheckStatus = "fail"
)

// AccessibilityCheck reports one accessibility finding.
type AccessibilityCheck struct {
	Type       string      `json:"type"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	ElementID  string      `json:"element_id,omitempty"`
}

// ContentAnalysis holds the independent quality scores of a slide.
type ContentAnalysis struct {
	SlideID       string               `json:"slide_id,omitempty"`
	Readability   float64              `json:"readability"`
	Engagement    float64              `json:"engagement"`
	VisualBalance float64              `json:"visual_balance"`
	Accessibility []AccessibilityCheck `json:"accessibility"`
	WordCount     int                  `json:"word_count"`
	CharCount     int                  `json:"char_count"`
}
