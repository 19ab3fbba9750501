package domain

// Generation request types.
const (
	GenerateOutline      = "outline"
	GeneratePresentation = "presentation"
	GenerateSlide        = "slide"
	GenerateText         = "text"
)

// GenerationContext describes what the content is about.
type GenerationContext struct {
	Topic    string         `json:"topic"`
	Audience string         `json:"audience,omitempty"`
	Slides   []Slide        `json:"slides,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// GenerationOptions tunes the generated output.
type GenerationOptions struct {
	Tone       string `json:"tone,omitempty"`
	Length     string `json:"length,omitempty"`
	Audience   string `json:"audience,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	SlideCount int    `json:"slide_count,omitempty"`
}

// GenerationRequest is sent to the external content generator.
type GenerationRequest struct {
	Type    string            `json:"type"`
	Context GenerationContext `json:"context"`
	Options GenerationOptions `json:"options"`
}

// GenerationResponse is returned by the external content generator.
type GenerationResponse struct {
	Success  bool           `json:"success"`
	Content  string         `json:"content,omitempty"`
	Slides   []Slide        `json:"slides,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
