package domain

import (
	"encoding/json"
	"strconv"
)

// Element types understood by the default rule catalogs.
const (
	ElementTitle       = "title"
	ElementHeading     = "heading"
	ElementText        = "text"
	ElementBullets     = "bullets"
	ElementImage       = "image"
	ElementChart       = "chart"
	ElementQuiz        = "quiz"
	ElementInteractive = "interactive"
	ElementShape       = "shape"
	ElementVideo       = "video"
)

// Well-known property keys.
const (
	PropText         = "text"
	PropItems        = "items"
	PropFontSize     = "fontSize"
	PropFontFamily   = "fontFamily"
	PropFontWeight   = "fontWeight"
	PropColor        = "color"
	PropBackground   = "backgroundColor"
	PropLineHeight   = "lineHeight"
	PropTextAlign    = "textAlign"
	PropAlt          = "alt"
	PropSrc          = "src"
	PropLevel        = "level"
	PropUserModified = "userModified"
	PropIsNew        = "isNew"
)

// GridSize is the side length of the square coordinate space elements live in.
const GridSize = 12.0

// ContentElement is an atomic positioned unit of slide content.
// Position and size are expressed in grid units.
type ContentElement struct {
	ID    string         `json:"id" yaml:"id" mapstructure:"id"`
	Type  string         `json:"type" yaml:"type" mapstructure:"type"`
	X     float64        `json:"x" yaml:"x" mapstructure:"x"`
	Y     float64        `json:"y" yaml:"y" mapstructure:"y"`
	W     float64        `json:"w" yaml:"w" mapstructure:"w"`
	H     float64        `json:"h" yaml:"h" mapstructure:"h"`
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty" mapstructure:"props"`
}

// Prop returns the raw property value and whether it is set.
func (e *ContentElement) Prop(key string) (any, bool) {
	if e.Props == nil {
		return nil, false
	}
	v, ok := e.Props[key]
	return v, ok
}

// StringProp returns the property as a string, or "" if absent or not a string.
func (e *ContentElement) StringProp(key string) string {
	v, _ := e.Prop(key)
	s, _ := v.(string)
	return s
}

// NumberProp returns the property as a float64 when it holds any numeric type.
func (e *ContentElement) NumberProp(key string) (float64, bool) {
	v, ok := e.Prop(key)
	if !ok {
		return 0, false
	}
	return AsFloat(v)
}

// BoolProp reports whether the property is set to true.
func (e *ContentElement) BoolProp(key string) bool {
	v, _ := e.Prop(key)
	b, _ := v.(bool)
	return b
}

// SetProp assigns a property, allocating the map on first use.
func (e *ContentElement) SetProp(key string, value any) {
	if e.Props == nil {
		e.Props = make(map[string]any)
	}
	e.Props[key] = value
}

// Center returns the centre point of the element's bounding box.
func (e *ContentElement) Center() (float64, float64) {
	return e.X + e.W/2, e.Y + e.H/2
}

// IsTextual reports whether the element carries readable text.
func (e *ContentElement) IsTextual() bool {
	switch e.Type {
	case ElementTitle, ElementHeading, ElementText, ElementBullets:
		return true
	}
	return false
}

// TextContent returns the readable text of the element.
// Bullet items are joined with newlines.
func (e *ContentElement) TextContent() string {
	if s := e.StringProp(PropText); s != "" {
		return s
	}
	v, ok := e.Prop(PropItems)
	if !ok {
		return ""
	}
	var out string
	switch items := v.(type) {
	case []string:
		for i, it := range items {
			if i > 0 {
				out += "\n"
			}
			out += it
		}
	case []any:
		for i, it := range items {
			if i > 0 {
				out += "\n"
			}
			if s, ok := it.(string); ok {
				out += s
			}
		}
	}
	return out
}

// Clone returns a deep copy of the element, including nested props.
func (e ContentElement) Clone() ContentElement {
	out := e
	if e.Props != nil {
		out.Props = cloneMap(e.Props)
	}
	return out
}

// AsFloat converts any numeric value (including json.Number and numeric strings
// produced by strict decoders) to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []int:
		return append([]int(nil), t...)
	default:
		return v
	}
}
