package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/lectern"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(func(ctx context.Context, id string) (*lectern.Workbench, error) {
		return &lectern.Workbench{Name: id}, nil
	})
	ctx := context.Background()
	count := 1000

	// 1. Create and delete many sessions
	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		if _, err := mgr.Get(ctx, sid); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if err := mgr.Delete(ctx, sid); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}

	// 2. Every lock must have been released
	if n := len(mgr.locks); n != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", n)
	}
	if n := len(mgr.benches); n != 0 {
		t.Errorf("Expected no workbenches, got %d", n)
	}
}
