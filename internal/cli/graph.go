package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/lectern/internal/presentation/graph"
	"github.com/aretw0/lectern/pkg/domain"
)

// GraphOptions configures the graph command.
type GraphOptions struct {
	Options
	WorkflowID string
	// ExecutionPath is a JSON execution record (as printed by run --json) used as overlay.
	ExecutionPath string
}

// Graph prints a Mermaid diagram of a workflow's step graph.
func Graph(ctx context.Context, opts GraphOptions, s Streams, getenv func(string) string) error {
	cfg, logger, err := Setup(opts.Options, getenv)
	if err != nil {
		return err
	}
	wb, err := NewWorkbench(ctx, opts.Options, cfg, logger)
	if err != nil {
		return err
	}
	w, ok := wb.Workflows().GetWorkflow(opts.WorkflowID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, opts.WorkflowID)
	}

	var overlay *graph.ExecutionOverlay
	if opts.ExecutionPath != "" {
		data, err := os.ReadFile(opts.ExecutionPath)
		if err != nil {
			return fmt.Errorf("read execution: %w", err)
		}
		var exec domain.WorkflowExecution
		if err := json.Unmarshal(data, &exec); err != nil {
			return fmt.Errorf("parse execution: %w", err)
		}
		overlay = graph.OverlayFrom(&exec)
	}

	fmt.Fprint(s.Out, graph.GenerateMermaid(w, overlay))
	return nil
}
