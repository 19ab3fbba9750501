package domain

// FormattingChange records one property touched by a formatting rule.
type FormattingChange struct {
	SlideID   string `json:"slide_id,omitempty"`
	ElementID string `json:"element_id"`
	Property  string `json:"property"`
	OldValue  any    `json:"old_value"`
	NewValue  any    `json:"new_value"`
	Reason    string `json:"reason"`
}

// ValidationIssue is a single problem found by a validate step.
type ValidationIssue struct {
	SlideID   string `json:"slide_id,omitempty"`
	ElementID string `json:"element_id,omitempty"`
	Message   string `json:"message"`
}
