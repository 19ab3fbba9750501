package rules

import (
	"sort"
	"sync"

	"github.com/aretw0/lectern/pkg/domain"
)

// Gate decides whether rules of a category may be evaluated.
type Gate func(domain.Category) bool

// AllowAll is a Gate that enables every category.
func AllowAll(domain.Category) bool { return true }

// AllowList returns a Gate enabling only the given categories.
// An empty list enables everything.
func AllowList(categories ...domain.Category) Gate {
	if len(categories) == 0 {
		return AllowAll
	}
	set := make(map[domain.Category]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return func(c domain.Category) bool {
		_, ok := set[c]
		return ok
	}
}

// Registry holds rules in registration order and hands them out sorted.
// It is safe for concurrent use.
type Registry[C, T any] struct {
	mu    sync.RWMutex
	rules []Rule[C, T]
}

// NewRegistry creates a registry pre-populated with the given rules.
func NewRegistry[C, T any](initial ...Rule[C, T]) *Registry[C, T] {
	r := &Registry[C, T]{}
	for _, rule := range initial {
		r.Add(rule)
	}
	return r
}

// Add registers a rule. A rule with an existing ID replaces the old one
// in place, keeping its original registration slot.
func (r *Registry[C, T]) Add(rule Rule[C, T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rules {
		if existing.ID() == rule.ID() {
			r.rules[i] = rule
			return
		}
	}
	r.rules = append(r.rules, rule)
}

// Remove unregisters a rule by ID and reports whether it was present.
func (r *Registry[C, T]) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rules {
		if existing.ID() == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the rule with the given ID.
func (r *Registry[C, T]) Get(id string) (Rule[C, T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, existing := range r.rules {
		if existing.ID() == id {
			return existing, true
		}
	}
	return nil, false
}

// Len returns the number of registered rules.
func (r *Registry[C, T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Rules returns a snapshot sorted by priority descending.
// Equal priorities keep registration order.
func (r *Registry[C, T]) Rules() []Rule[C, T] {
	r.mu.RLock()
	out := make([]Rule[C, T], len(r.rules))
	copy(out, r.rules)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() > out[j].Priority()
	})
	return out
}

// Enabled returns the sorted rules whose category passes the gate.
func (r *Registry[C, T]) Enabled(gate Gate) []Rule[C, T] {
	all := r.Rules()
	if gate == nil {
		return all
	}
	out := all[:0]
	for _, rule := range all {
		if gate(rule.Category()) {
			out = append(out, rule)
		}
	}
	return out
}

// Infos describes the sorted rule set.
func (r *Registry[C, T]) Infos() []Info {
	sorted := r.Rules()
	out := make([]Info, len(sorted))
	for i, rule := range sorted {
		out[i] = Describe(rule)
	}
	return out
}
