package workflow

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Scopes accepted by format and analyze steps.
const (
	ScopeSlide        = "slide"
	ScopePresentation = "presentation"
)

// GenerateParams configures a generate step.
type GenerateParams struct {
	Type       string `mapstructure:"type"`
	Topic      string `mapstructure:"topic"`
	Audience   string `mapstructure:"audience"`
	Tone       string `mapstructure:"tone"`
	Length     string `mapstructure:"length"`
	Purpose    string `mapstructure:"purpose"`
	SlideCount int    `mapstructure:"slideCount"`
}

// FormatParams configures a format step.
type FormatParams struct {
	Scope      string `mapstructure:"scope"`
	SlideIndex *int   `mapstructure:"slideIndex"`
}

// AnalyzeParams configures an analyze step.
type AnalyzeParams struct {
	Scope       string `mapstructure:"scope"`
	SlideIndex  *int   `mapstructure:"slideIndex"`
	Suggestions *bool  `mapstructure:"suggestions"`
	Analysis    *bool  `mapstructure:"analysis"`
}

// TransformParams configures a transform step.
type TransformParams struct {
	Operation   string   `mapstructure:"operation"`
	Operations  []string `mapstructure:"operations"`
	MaxTextSize int      `mapstructure:"maxTextSize"`
}

// ValidateParams configures a validate step.
type ValidateParams struct {
	RequireTitle bool `mapstructure:"requireTitle"`
	MaxElements  int  `mapstructure:"maxElements"`
	// Strict turns any issue into a step failure.
	Strict bool `mapstructure:"strict"`
	// Schemas adds prop constraints per element type, as schema type strings.
	Schemas map[string]map[string]string `mapstructure:"schemas"`
}

// DecodeParams decodes step parameters into target. Numeric strings,
// json.Number and float values are accepted for numeric fields.
func DecodeParams(step domain.WorkflowStep, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(step.Parameters); err != nil {
		return fmt.Errorf("step '%s': invalid parameters: %w", step.ID, err)
	}
	return nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
