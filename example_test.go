package lectern_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/generator"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/workflow"
)

// ExampleNew runs a built-in workflow against the offline template generator.
func ExampleNew() {
	ctx := context.Background()

	// 1. Build a workbench with a generator for generate steps
	wb, err := lectern.New(ctx, lectern.WithGenerator(generator.NewTemplate()))
	if err != nil {
		log.Fatal(err)
	}

	// 2. Run the outline workflow
	exec, err := wb.Run(ctx, workflow.QuickOutline, workflow.Context{Topic: "Volcanoes"})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Status:", exec.Status)
	fmt.Println("Slides:", len(exec.Results.Slides))
	fmt.Println("First:", exec.Results.Slides[0].Title)
	// Output:
	// Status: completed
	// Slides: 5
	// First: Volcanoes
}

// ExampleWorkbench_FormatSlide shows the formatting engine filling in a
// missing title size.
func ExampleWorkbench_FormatSlide() {
	wb, err := lectern.New(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	slide := domain.Slide{
		ID: "s2",
		Elements: []domain.ContentElement{
			{ID: "t", Type: domain.ElementTitle, X: 0, Y: 0, W: 12, H: 2, Props: map[string]any{domain.PropText: "Agenda"}},
		},
	}

	// Slide 2 of 3 is a content slide.
	formatted, res := wb.FormatSlide(slide, 1, 3)
	size, _ := formatted.Elements[0].NumberProp(domain.PropFontSize)

	fmt.Println("Success:", res.Success)
	fmt.Println("Font size:", size)
	_, untouched := slide.Elements[0].Prop(domain.PropFontSize)
	fmt.Println("Original touched:", untouched)
	// Output:
	// Success: true
	// Font size: 32
	// Original touched: false
}
