package suggestion

import (
	"errors"
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// ErrUnsupportedAction is returned for actions that need a human (split, rearrange).
var ErrUnsupportedAction = errors.New("suggestion action cannot be applied automatically")

type updateParams struct {
	ElementID  string         `mapstructure:"elementId"`
	ElementIDs []string       `mapstructure:"elementIds"`
	Props      map[string]any `mapstructure:"props"`
}

// CanApply reports whether ApplySuggestion supports the suggestion's action.
func CanApply(s domain.Suggestion) bool {
	switch s.Action.Type {
	case domain.ActionAddElement, domain.ActionUpdateElement, domain.ActionUpdateElements:
		return true
	}
	return false
}

// ApplySuggestion returns a copy of slide with the suggestion's action applied.
// The input slide is not modified. Added elements are flagged isNew.
func ApplySuggestion(slide domain.Slide, s domain.Suggestion) (domain.Slide, error) {
	out := slide.Clone()

	switch s.Action.Type {
	case domain.ActionAddElement:
		var el domain.ContentElement
		if err := decode(s.Action.Parameters, &el); err != nil {
			return slide, fmt.Errorf("suggestion '%s': %w", s.ID, err)
		}
		if el.Type == "" {
			return slide, fmt.Errorf("suggestion '%s': element type is required", s.ID)
		}
		if el.ID == "" {
			el.ID = uuid.NewString()
		}
		el = el.Clone()
		el.SetProp(domain.PropIsNew, true)
		out.Elements = append(out.Elements, el)

	case domain.ActionUpdateElement, domain.ActionUpdateElements:
		var p updateParams
		if err := decode(s.Action.Parameters, &p); err != nil {
			return slide, fmt.Errorf("suggestion '%s': %w", s.ID, err)
		}
		ids := p.ElementIDs
		if p.ElementID != "" {
			ids = append(ids, p.ElementID)
		}
		if len(ids) == 0 {
			return slide, fmt.Errorf("suggestion '%s': no target elements", s.ID)
		}
		for _, id := range ids {
			el := out.Element(id)
			if el == nil {
				return slide, fmt.Errorf("suggestion '%s': element '%s' not found", s.ID, id)
			}
			for k, v := range p.Props {
				el.SetProp(k, v)
			}
		}

	default:
		return slide, fmt.Errorf("%w: %s", ErrUnsupportedAction, s.Action.Type)
	}

	return out, nil
}

func decode(input map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
