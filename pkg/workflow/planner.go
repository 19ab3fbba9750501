package workflow

import (
	"container/heap"
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
)

// Plan returns the step indices of w in execution order.
//
// Ordering is Kahn's algorithm over the dependency graph with ready steps
// taken in declaration order, so the result is stable for a given definition.
// Duplicate step IDs and unknown dependencies yield a *domain.ValidationError.
// A cycle yields a *domain.CircularDependencyError naming every step that
// could not be scheduled and one witness cycle.
func Plan(w domain.Workflow) ([]int, error) {
	n := len(w.Steps)
	index := make(map[string]int, n)
	for i, s := range w.Steps {
		if s.ID == "" {
			return nil, &domain.ValidationError{Subject: "workflow", ID: w.ID, Reason: fmt.Sprintf("step %d has no id", i), Err: domain.ErrInvalidWorkflow}
		}
		if _, dup := index[s.ID]; dup {
			return nil, &domain.ValidationError{Subject: "workflow", ID: w.ID, Reason: fmt.Sprintf("duplicate step id '%s'", s.ID), Err: domain.ErrInvalidWorkflow}
		}
		index[s.ID] = i
	}

	// outgoing[dep] lists the steps that wait on dep.
	outgoing := make([][]int, n)
	indeg := make([]int, n)
	for i, s := range w.Steps {
		seen := make(map[int]bool, len(s.Dependencies))
		for _, dep := range s.Dependencies {
			j, ok := index[dep]
			if !ok {
				return nil, &domain.ValidationError{
					Subject: "workflow",
					ID:      w.ID,
					Reason:  fmt.Sprintf("step '%s' depends on unknown step '%s'", s.ID, dep),
					Err:     domain.ErrInvalidWorkflow,
				}
			}
			if seen[j] {
				continue
			}
			seen[j] = true
			outgoing[j] = append(outgoing[j], i)
			indeg[i]++
		}
	}

	ready := &indexHeap{}
	for i := range indeg {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		order = append(order, i)
		for _, m := range outgoing[i] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}

	if len(order) == n {
		return order, nil
	}

	scheduled := make([]bool, n)
	for _, i := range order {
		scheduled[i] = true
	}
	var unresolved []string
	for i, s := range w.Steps {
		if !scheduled[i] {
			unresolved = append(unresolved, s.ID)
		}
	}
	return nil, &domain.CircularDependencyError{
		WorkflowID: w.ID,
		Unresolved: unresolved,
		Cycle:      findCycle(w, outgoing),
	}
}

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// findCycle walks the graph depth-first in declaration order and returns the
// first cycle found as step IDs, with the first step repeated at the end.
func findCycle(w domain.Workflow, outgoing [][]int) []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(w.Steps))
	parent := make([]int, len(w.Steps))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range outgoing[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back edge u -> v closes v ... u -> v.
				cycle = append(cycle, v)
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range w.Steps {
		if color[i] == white && dfs(i) {
			break
		}
	}
	if len(cycle) == 0 {
		return nil
	}

	out := make([]string, len(cycle))
	for i := range cycle {
		out[i] = w.Steps[cycle[len(cycle)-1-i]].ID
	}
	return out
}
