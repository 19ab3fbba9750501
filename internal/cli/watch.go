package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/lectern/internal/validator"
	loamAdapter "github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/workflow"
)

// ErrInvalidWorkflows is returned by Check when at least one document fails.
var ErrInvalidWorkflows = errors.New("invalid workflows found")

var errLint = errors.New("lint errors")

// CheckResult is the validation outcome of one workflow document.
type CheckResult struct {
	ID       string
	Steps    int
	Findings []validator.Finding
	Err      error
}

// CheckWorkflows validates the structure and step ordering of every loaded
// workflow, then lints the ones that pass. Lint errors fail the workflow.
func CheckWorkflows(ctx context.Context, loader ports.WorkflowLoader) ([]CheckResult, error) {
	loaded, err := loader.LoadWorkflows(ctx)
	if err != nil {
		return nil, err
	}
	engine, err := workflow.New(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]CheckResult, 0, len(loaded))
	for _, w := range loaded {
		res := CheckResult{ID: w.ID, Steps: len(w.Steps)}
		if err := engine.AddWorkflow(w); err != nil {
			res.Err = err
		} else if _, err := workflow.Plan(w); err != nil {
			res.Err = err
		} else {
			res.Findings = validator.Lint(w)
			if validator.HasErrors(res.Findings) {
				res.Err = errLint
			}
		}
		results = append(results, res)
	}
	return results, nil
}

func writeCheck(w io.Writer, results []CheckResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "  ✗ %s: %v\n", r.ID, r.Err)
		} else {
			fmt.Fprintf(w, "  ✓ %s (%d steps)\n", r.ID, r.Steps)
		}
		for _, f := range r.Findings {
			fmt.Fprintf(w, "      %s\n", f)
		}
	}
	return failed
}

// Check validates a workflow directory once.
func Check(ctx context.Context, opts Options, s Streams) error {
	if opts.Dir == "" {
		return fmt.Errorf("--dir is required")
	}
	loader, err := loamAdapter.Open(opts.Dir)
	if err != nil {
		return err
	}
	results, err := CheckWorkflows(ctx, loader)
	if err != nil {
		return err
	}
	if failed := writeCheck(s.Out, results); failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidWorkflows, failed, len(results))
	}
	return nil
}

// Watch re-validates the workflow directory whenever a document changes, until ctx is done.
func Watch(ctx context.Context, opts Options, s Streams, getenv func(string) string) error {
	if opts.Dir == "" {
		return fmt.Errorf("--dir is required")
	}
	_, logger, err := Setup(opts, getenv)
	if err != nil {
		return err
	}
	loader, err := loamAdapter.Open(opts.Dir)
	if err != nil {
		return err
	}

	logger.Info("Starting Watcher", "path", opts.Dir)
	printSystemMessage(s.Out, "Watching '%s' for changes.", opts.Dir)

	recheck := func() {
		results, err := CheckWorkflows(ctx, loader)
		if err != nil {
			logger.Error("Workflow load failed", "err", err)
			printSystemMessage(s.Out, "Load failed: %v", err)
			return
		}
		writeCheck(s.Out, results)
	}
	recheck()

	events, err := loader.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			printSystemMessage(s.Out, "Watcher stopped.")
			return nil
		case id, ok := <-events:
			if !ok {
				return nil
			}
			changed := []string{id}
			// Editors often write several events per save; coalesce them.
			changed = append(changed, drain(events, 100*time.Millisecond)...)
			logger.Info("Change detected, revalidating", "documents", changed)
			printSystemMessage(s.Out, "Change detected in '%s'.", strings.Join(dedupe(changed), "', '"))
			recheck()
		}
	}
}

func drain(ch <-chan string, window time.Duration) []string {
	var out []string
	timer := time.NewTimer(window)
	defer timer.Stop()
	for {
		select {
		case id, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, id)
		case <-timer.C:
			return out
		}
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
