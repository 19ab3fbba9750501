// Package tests holds reusable contract suites for ports implementations.
package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ExecutionStoreContractTest verifies that an adapter complies with ports.ExecutionStore.
func ExecutionStoreContractTest(t *testing.T, store ports.ExecutionStore) {
	t.Helper()
	ctx := context.Background()
	prefix := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	sample := func(id string) *domain.WorkflowExecution {
		start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		end := start.Add(time.Second)
		return &domain.WorkflowExecution{
			ID:         id,
			WorkflowID: "wf",
			Status:     domain.ExecutionCompleted,
			StartTime:  start,
			EndTime:    &end,
			Steps: []domain.WorkflowStepExecution{
				{StepID: "a", Status: domain.StepCompleted, StartTime: &start, EndTime: &end},
				{StepID: "b", Status: domain.StepFailed, Error: "boom"},
			},
			Results: &domain.WorkflowResults{ElementsModified: 2, Warnings: []string{"w"}},
		}
	}

	// 1. Save and Load
	t.Run("Save_Load", func(t *testing.T) {
		id := prefix + "-1"
		require.NoError(t, store.Save(ctx, sample(id)))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, domain.ExecutionCompleted, loaded.Status)
		require.Len(t, loaded.Steps, 2)
		assert.Equal(t, domain.StepFailed, loaded.Steps[1].Status)
		assert.Equal(t, "boom", loaded.Steps[1].Error)
		require.NotNil(t, loaded.Results)
		assert.Equal(t, 2, loaded.Results.ElementsModified)
		require.NotNil(t, loaded.EndTime)
		assert.True(t, sample(id).EndTime.Equal(*loaded.EndTime))
	})

	// 2. Load missing
	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrExecutionNotFound)
	})

	// 3. Saved copies are isolated from later mutation
	t.Run("Save_Isolated", func(t *testing.T) {
		id := prefix + "-iso"
		exec := sample(id)
		require.NoError(t, store.Save(ctx, exec))
		exec.Status = domain.ExecutionFailed

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ExecutionCompleted, loaded.Status)
	})

	// 4. Delete
	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-del"
		require.NoError(t, store.Save(ctx, sample(id)))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrExecutionNotFound)
		assert.NoError(t, store.Delete(ctx, id))
	})

	// 5. List
	t.Run("List", func(t *testing.T) {
		id1, id2 := prefix+"-l1", prefix+"-l2"
		require.NoError(t, store.Save(ctx, sample(id1)))
		require.NoError(t, store.Save(ctx, sample(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// WorkflowLoaderContractTest verifies that an adapter complies with ports.WorkflowLoader.
// expected maps workflow IDs to their number of steps.
func WorkflowLoaderContractTest(t *testing.T, loader ports.WorkflowLoader, expected map[string]int) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadWorkflows", func(t *testing.T) {
		got, err := loader.LoadWorkflows(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading workflows: %v", err)
		}
		if len(got) != len(expected) {
			t.Fatalf("expected %d workflows, got %d", len(expected), len(got))
		}
		for _, w := range got {
			steps, ok := expected[w.ID]
			if !ok {
				t.Errorf("unexpected workflow %q", w.ID)
				continue
			}
			if len(w.Steps) != steps {
				t.Errorf("workflow %q: expected %d steps, got %d", w.ID, steps, len(w.Steps))
			}
		}
	})

	t.Run("LoadWorkflows_Stable", func(t *testing.T) {
		first, err := loader.LoadWorkflows(ctx)
		require.NoError(t, err)
		second, err := loader.LoadWorkflows(ctx)
		require.NoError(t, err)

		var a, b []string
		for _, w := range first {
			a = append(a, w.ID)
		}
		for _, w := range second {
			b = append(b, w.ID)
		}
		assert.Equal(t, a, b)
	})
}
