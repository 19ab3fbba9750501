package domain

// Slide is an ordered list of content elements.
type Slide struct {
	ID       string           `json:"id" yaml:"id"`
	Title    string           `json:"title,omitempty" yaml:"title,omitempty"`
	Notes    string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Elements []ContentElement `json:"elements" yaml:"elements"`
}

// Presentation is an ordered deck of slides.
type Presentation struct {
	ID     string  `json:"id" yaml:"id"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Slides []Slide `json:"slides" yaml:"slides"`
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	if s.Elements != nil {
		out.Elements = make([]ContentElement, len(s.Elements))
		for i, el := range s.Elements {
			out.Elements[i] = el.Clone()
		}
	}
	return out
}

// HasType reports whether any element has one of the given types.
func (s *Slide) HasType(types ...string) bool {
	for i := range s.Elements {
		for _, t := range types {
			if s.Elements[i].Type == t {
				return true
			}
		}
	}
	return false
}

// CountType returns the number of elements of the given type.
func (s *Slide) CountType(t string) int {
	n := 0
	for i := range s.Elements {
		if s.Elements[i].Type == t {
			n++
		}
	}
	return n
}

// Element returns a pointer to the element with the given ID, or nil.
func (s *Slide) Element(id string) *ContentElement {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i]
		}
	}
	return nil
}

// CloneSlides deep-copies a deck.
func CloneSlides(slides []Slide) []Slide {
	if slides == nil {
		return nil
	}
	out := make([]Slide, len(slides))
	for i, s := range slides {
		out[i] = s.Clone()
	}
	return out
}

// SlidePosition classifies where a slide sits in a presentation.
type SlidePosition string

const (
	PositionTitle      SlidePosition = "title"
	PositionContent    SlidePosition = "content"
	PositionConclusion SlidePosition = "conclusion"
)

// ClassifyPosition maps a slide index to its position.
// Index 0 is always the title slide; the last index of a multi-slide deck is the conclusion.
func ClassifyPosition(index, total int) SlidePosition {
	switch {
	case index == 0:
		return PositionTitle
	case index == total-1:
		return PositionConclusion
	default:
		return PositionContent
	}
}
