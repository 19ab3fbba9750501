// Package workflow runs multi-step, dependency-ordered pipelines over slide
// content.
//
// A Workflow is a catalog entry of typed steps. ExecuteWorkflow plans the step
// graph (rejecting cycles before anything runs), then dispatches each step in
// order to the handler registered for its type: generate calls the external
// ContentGenerator, format and analyze call the formatting and suggestion
// engines, transform and validate operate on the working copy of the slides.
//
// Every handler returns an Output that folds itself into the shared
// domain.WorkflowResults. A failing optional step is recorded and skipped
// over; a failing required step stops the execution, leaving the remaining
// steps pending.
//
// Engines are meant to be created per session; all catalog and execution log
// access is guarded so queries and CancelExecution are safe during a run.
package workflow
