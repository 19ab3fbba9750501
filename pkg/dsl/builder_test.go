package dsl

import (
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	// 1. Build the workflow using DSL
	b := New("polish").
		Named("Polish").
		Describe("Format and review").
		Category("formatting").
		Tags("format", "review")

	b.Step("normalize").Transform("normalize-text", "ensure-ids")
	b.Step("format").Format("presentation").After("normalize")
	b.Step("review").Analyze().After("format").Optional()

	// 2. Compile
	wf, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 3. Verify
	if wf.ID != "polish" || wf.Name != "Polish" || wf.Category != "formatting" {
		t.Errorf("unexpected workflow header: %+v", wf)
	}
	if len(wf.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", wf.Tags)
	}
	if len(wf.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(wf.Steps))
	}
	if wf.Steps[0].ID != "normalize" || wf.Steps[2].ID != "review" {
		t.Errorf("steps not in declaration order: %+v", wf.Steps)
	}

	format := wf.Steps[1]
	if format.Type != domain.StepFormat {
		t.Errorf("Expected type 'format', got '%s'", format.Type)
	}
	if format.Parameters["scope"] != "presentation" {
		t.Errorf("Expected scope param, got %v", format.Parameters)
	}
	if len(format.Dependencies) != 1 || format.Dependencies[0] != "normalize" {
		t.Errorf("Expected dependency on normalize, got %v", format.Dependencies)
	}

	ops, ok := wf.Steps[0].Parameters["operations"].([]any)
	if !ok || len(ops) != 2 || ops[0] != "normalize-text" {
		t.Errorf("Expected operations list, got %#v", wf.Steps[0].Parameters["operations"])
	}
	if !wf.Steps[2].Optional {
		t.Error("Expected review step to be optional")
	}
}

func TestBuilder_StepIsReused(t *testing.T) {
	b := New("wf")
	b.Step("a").Validate()
	b.Step("a").Param("strict", true)

	wf, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(wf.Steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(wf.Steps))
	}
	if wf.Steps[0].Parameters["strict"] != true {
		t.Errorf("Expected strict param on reused step")
	}
}

func TestBuilder_Errors(t *testing.T) {
	b := New("wf")
	b.Step("untyped")
	if _, err := b.Build(); err == nil {
		t.Error("Expected error for step without type")
	}

	b = New("wf")
	b.Step("a").Analyze().After("ghost")
	if _, err := b.Build(); err == nil {
		t.Error("Expected error for unknown dependency")
	}
}

func TestBuilder_BuildIsolated(t *testing.T) {
	b := New("wf")
	b.Step("gen").Generate("outline")

	first := b.MustBuild()
	first.Steps[0].Parameters["type"] = "mutated"

	second := b.MustBuild()
	if second.Steps[0].Parameters["type"] != "outline" {
		t.Errorf("Build results share state: %v", second.Steps[0].Parameters)
	}
}
