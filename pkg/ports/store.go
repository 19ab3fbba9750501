package ports

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// ExecutionStore archives finished workflow executions.
// The engines never read from it while running; it exists so executions can
// be inspected after the in-memory log of a session is gone.
type ExecutionStore interface {
	// Save persists the execution under its ID, replacing any previous copy.
	Save(ctx context.Context, exec *domain.WorkflowExecution) error

	// Load retrieves an execution.
	// Returns domain.ErrExecutionNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.WorkflowExecution, error)

	// Delete removes an execution. Deleting a missing execution is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all archived executions, oldest first.
	List(ctx context.Context) ([]string, error)
}
