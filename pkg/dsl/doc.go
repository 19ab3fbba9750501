/*
Package dsl provides a Go DSL for programmatically constructing Lectern workflows.

It lets developers define step pipelines with a type-safe, fluent builder
instead of YAML or Markdown files, which is convenient for built-in catalogs,
dynamic workflows and unit tests.

Example usage:

	package main

	import (
		"github.com/aretw0/lectern/pkg/dsl"
	)

	func main() {
		b := dsl.New("polish").
			Named("Polish presentation").
			Category("formatting").
			Tags("format", "review")

		b.Step("normalize").Transform("normalize-text", "ensure-ids")

		b.Step("format").
			Format("presentation").
			After("normalize")

		b.Step("review").
			Analyze().
			After("format").
			Optional()

		wf, err := b.Build()
		// ... pass wf to workflow.WithWorkflows(...)
	}
*/
package dsl
