package domain

// Category groups rules so engines can enable or disable them as a set.
type Category string

// Suggestion categories.
const (
	CategoryContent       Category = "content"
	CategoryLayout        Category = "layout"
	CategoryStyle         Category = "style"
	CategoryAccessibility Category = "accessibility"
	CategoryEngagement    Category = "engagement"
)

// Formatting categories. Layout is shared with suggestions.
const (
	CategoryTypography Category = "typography"
	CategoryColors     Category = "colors"
	CategorySpacing    Category = "spacing"
	CategoryAlignment  Category = "alignment"
)

// Rule priorities used by the built-in catalogs.
const (
	PriorityLow    = 10
	PriorityMedium = 50
	PriorityHigh   = 100
)
