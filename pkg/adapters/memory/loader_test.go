package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	contract "github.com/aretw0/lectern/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	loader := memory.NewLoader(
		domain.Workflow{ID: "one", Steps: []domain.WorkflowStep{{ID: "a", Type: domain.StepAnalyze}}},
		domain.Workflow{ID: "two", Steps: []domain.WorkflowStep{
			{ID: "a", Type: domain.StepTransform},
			{ID: "b", Type: domain.StepValidate, Dependencies: []string{"a"}},
		}},
	)

	contract.WorkflowLoaderContractTest(t, loader, map[string]int{"one": 1, "two": 2})
}

func TestInMemoryLoader_ReturnsCopies(t *testing.T) {
	src := domain.Workflow{ID: "one", Steps: []domain.WorkflowStep{{ID: "a", Type: domain.StepAnalyze}}}
	loader := memory.NewLoader(src)
	src.Steps[0].ID = "changed"

	first, err := loader.LoadWorkflows(context.Background())
	require.NoError(t, err)
	first[0].Steps[0].ID = "mutated"

	second, err := loader.LoadWorkflows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].Steps[0].ID)
}
