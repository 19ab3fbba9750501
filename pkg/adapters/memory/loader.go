package memory

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// Loader implements ports.WorkflowLoader over a fixed set of workflows.
type Loader struct {
	workflows []domain.Workflow
}

// NewLoader creates a Loader returning copies of ws, in order.
func NewLoader(ws ...domain.Workflow) *Loader {
	l := &Loader{workflows: make([]domain.Workflow, len(ws))}
	for i, w := range ws {
		l.workflows[i] = w.Clone()
	}
	return l
}

// LoadWorkflows returns copies of the workflows.
func (l *Loader) LoadWorkflows(ctx context.Context) ([]domain.Workflow, error) {
	out := make([]domain.Workflow, len(l.workflows))
	for i, w := range l.workflows {
		out[i] = w.Clone()
	}
	return out, nil
}
