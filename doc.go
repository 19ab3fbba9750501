/*
Package lectern is the rule evaluation and workflow orchestration core of an
AI-assisted slide and course editor.

It bundles three engines that share one domain model (pkg/domain):

  - Suggestion engine (pkg/suggestion): scores a slide and proposes improvements.
  - Formatting engine (pkg/formatting): rewrites elements deterministically
    according to prioritized formatting rules.
  - Workflow engine (pkg/workflow): runs multi-step, dependency-ordered
    workflows composing the two engines with an external content generator.

# Usage

A Workbench wires the three engines for one editing session:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/lectern"
		"github.com/aretw0/lectern/pkg/adapters/generator"
		"github.com/aretw0/lectern/pkg/workflow"
	)

	func main() {
		ctx := context.Background()
		wb, err := lectern.New(ctx, lectern.WithGenerator(generator.NewTemplate()))
		if err != nil {
			log.Fatal(err)
		}

		exec, err := wb.Run(ctx, workflow.CreatePresentation, workflow.Context{Topic: "Photosynthesis"})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(exec.Status, len(exec.Results.Slides))
	}

Workflow definitions beyond the built-in catalog can be loaded from a
directory of Markdown/YAML/JSON files (WithWorkflowDir) or supplied by any
ports.WorkflowLoader. Finished executions can be archived through a
ports.ExecutionStore (memory or Redis adapters).

# Concurrency

The engines are safe for concurrent use, but a workflow execution mutates
its own copy of the deck only. Use pkg/session to serialise work on the
same session across goroutines or replicas.
*/
package lectern
