package domain

// Suggestion action types.
const (
	ActionAddElement     = "add_element"
	ActionUpdateElement  = "update_element"
	ActionUpdateElements = "update_elements"
	ActionSplitSlide     = "split_slide"
	ActionRearrange      = "rearrange_layout"
)

// SuggestionAction describes what applying a suggestion would do.
type SuggestionAction struct {
	Type        string         `json:"type" yaml:"type"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
}

// Suggestion is a recommended, not-yet-applied change.
// It never mutates the content it was derived from.
type Suggestion struct {
	ID          string           `json:"id"`
	RuleID      string           `json:"rule_id"`
	Type        string           `json:"type"`
	Category    Category         `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Confidence  float64          `json:"confidence"`
	Priority    int              `json:"priority"`
	Action      SuggestionAction `json:"action"`
}
