package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/file"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	tests.ExecutionStoreContractTest(t, file.New(t.TempDir()))
}

func TestFileStore_AtomicWrite(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	exec := &domain.WorkflowExecution{ID: "run-1", WorkflowID: "wf", Status: domain.ExecutionRunning}
	require.NoError(t, store.Save(ctx, exec))
	exec.Status = domain.ExecutionCompleted
	require.NoError(t, store.Save(ctx, exec))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "run-1.json", entries[0].Name())

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, loaded.Status)
}

func TestFileStore_ListSkipsOnlyTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.WorkflowExecution{ID: "tmp-report", WorkflowID: "wf"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".run-2-123456.tmp"), []byte("{"), 0644))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tmp-report"}, ids)

	loaded, err := store.Load(ctx, "tmp-report")
	require.NoError(t, err)
	assert.Equal(t, "wf", loaded.WorkflowID)
}

func TestFileStore_InvalidIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		err := store.Save(ctx, &domain.WorkflowExecution{ID: id})
		assert.ErrorIs(t, err, file.ErrInvalidID, id)
		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, file.ErrInvalidID, id)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_DefaultDir(t *testing.T) {
	assert.Equal(t, file.DefaultDir, file.New("").BasePath)
}
