package ports

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// WorkflowLoader supplies workflow definitions to the workflow engine.
// This allows the catalog source (Loam, memory, ...) to be decoupled.
type WorkflowLoader interface {
	// LoadWorkflows returns every workflow definition, in a stable order.
	LoadWorkflows(ctx context.Context) ([]domain.Workflow, error)
}
