package schema

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		typ   Type
		ok    []any
		notOK []any
	}{
		{String(), []any{"a", ""}, []any{1, nil}},
		{Int(), []any{1, int64(2), 3.0, json.Number("4")}, []any{1.5, "1", json.Number("1.5")}},
		{Number(), []any{1, 1.5, float32(2), json.Number("2.5")}, []any{"1", true}},
		{Bool(), []any{true}, []any{"true"}},
		{Color(), []any{"#fff", "#1F2937"}, []any{"fff", "#12", "#GGGGGG", 1}},
		{Enum("left", "center"), []any{"left"}, []any{"up", 1}},
		{Slice(String()), []any{[]string{"a"}, []any{"a", "b"}}, []any{"a", []any{"a", 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			for _, v := range tt.ok {
				assert.NoError(t, tt.typ.Validate(v), "%v", v)
			}
			for _, v := range tt.notOK {
				assert.Error(t, tt.typ.Validate(v), "%v", v)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]string{
		"string":    "string",
		"float":     "number",
		"[int]":     "[int]",
		"color?":    "color?",
		"(b|a)":     "(a|b)",
		"[(x|y)]?":  "[(x|y)]?",
		" number? ": "number?",
	}
	for in, want := range tests {
		typ, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, typ.Name(), in)
	}

	_, err := ParseType("uuid")
	assert.Error(t, err)
	_, err = ParseTypeMap(map[string]string{"a": "[nope]"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Schema{
		"text":     String(),
		"fontSize": Optional(Number()),
		"level":    Int(),
	}

	assert.NoError(t, Validate(s, map[string]any{"text": "a", "level": 1}))
	assert.NoError(t, Validate(nil, nil))

	err := Validate(s, map[string]any{"fontSize": "big", "extra": true})
	errs := ValidationErrors(err)
	require.Len(t, errs, 3)

	// Reported in key order.
	var keys []string
	for _, e := range errs {
		var vErr *ValidationError
		require.ErrorAs(t, e, &vErr)
		keys = append(keys, vErr.Key)
	}
	assert.Equal(t, []string{"fontSize", "level", "text"}, keys)

	var single *ValidationError
	assert.ErrorAs(t, err, &single)
}

func TestValidateElement(t *testing.T) {
	ok := domain.ContentElement{ID: "t", Type: domain.ElementTitle, Props: map[string]any{"text": "Hi", "color": "#000"}}
	assert.NoError(t, ValidateElement(ok, nil))

	bad := domain.ContentElement{ID: "t", Type: domain.ElementTitle, Props: map[string]any{"color": "black"}}
	assert.Len(t, ValidationErrors(ValidateElement(bad, nil)), 2)

	extra := Schema{"src": String()}
	img := domain.ContentElement{ID: "i", Type: domain.ElementImage}
	assert.NoError(t, ValidateElement(img, nil))
	assert.Error(t, ValidateElement(img, extra))

	assert.Error(t, ValidateElement(domain.ContentElement{Type: "hologram"}, nil))
	assert.Contains(t, ElementTypes(), domain.ElementBullets)
}

func TestSchemaJSON(t *testing.T) {
	s := Schema{"text": String(), "size": Optional(Number())}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"string","size":"number?"}`, string(data))

	var back Schema
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "number?", back["size"].Name())
	assert.True(t, IsOptional(back["size"]))
}

func TestAggregateError_String(t *testing.T) {
	err := &AggregateError{Errors: []error{
		&ValidationError{Key: "a", Reason: "required"},
		&ValidationError{Key: "b", Reason: "bad", Value: 1},
	}}
	assert.Equal(t, "2 validation errors:\n  1. field \"a\": required\n  2. field \"b\": bad (got int)\n", err.Error())
}
