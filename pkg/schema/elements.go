package schema

import (
	"fmt"
	"sort"

	"github.com/aretw0/lectern/pkg/domain"
)

var textProps = Schema{
	domain.PropFontSize:   Optional(Number()),
	domain.PropFontFamily: Optional(String()),
	domain.PropFontWeight: Optional(String()),
	domain.PropColor:      Optional(Color()),
	domain.PropBackground: Optional(Color()),
	domain.PropLineHeight: Optional(Number()),
	domain.PropTextAlign:  Optional(Enum("left", "center", "right", "justify")),
}

var elementSchemas = map[string]Schema{
	domain.ElementTitle:       textProps.Merge(Schema{domain.PropText: String()}),
	domain.ElementHeading:     textProps.Merge(Schema{domain.PropText: String(), domain.PropLevel: Optional(Int())}),
	domain.ElementText:        textProps.Merge(Schema{domain.PropText: String()}),
	domain.ElementBullets:     textProps.Merge(Schema{domain.PropItems: Slice(String())}),
	domain.ElementImage:       {domain.PropSrc: Optional(String()), domain.PropAlt: Optional(String())},
	domain.ElementChart:       {"data": Optional(Slice(Number())), "labels": Optional(Slice(String()))},
	domain.ElementQuiz:        {domain.PropText: Optional(String()), "options": Optional(Slice(String()))},
	domain.ElementInteractive: {},
	domain.ElementShape:       {domain.PropBackground: Optional(Color())},
	domain.ElementVideo:       {domain.PropSrc: Optional(String())},
}

// ElementTypes lists the element types with a built-in schema.
func ElementTypes() []string {
	out := make([]string, 0, len(elementSchemas))
	for k := range elementSchemas {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ForElement returns the built-in prop schema for an element type.
func ForElement(elementType string) (Schema, bool) {
	s, ok := elementSchemas[elementType]
	return s, ok
}

// ValidateElement checks an element's type and props against the built-in
// schema merged with extra. Unknown element types are rejected.
func ValidateElement(el domain.ContentElement, extra Schema) error {
	s, ok := ForElement(el.Type)
	if !ok {
		return &AggregateError{Errors: []error{
			&ValidationError{Key: "type", Reason: fmt.Sprintf("unknown element type %q", el.Type), Value: el.Type},
		}}
	}
	return Validate(s.Merge(extra), el.Props)
}
