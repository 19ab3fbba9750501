package rules

import "github.com/aretw0/lectern/pkg/domain"

// Rule is a prioritized condition + transform pair.
//
// Condition must be a pure predicate. Apply returns the transformed target;
// implementations may mutate and return the target they were given.
type Rule[C, T any] interface {
	ID() string
	Name() string
	Category() domain.Category
	Priority() int
	Condition(target T, ctx C) bool
	Apply(target T, ctx C) (T, error)
}

// Func implements Rule from plain functions.
// A nil When always matches; a nil Do returns the target unchanged.
type Func[C, T any] struct {
	RuleID       string
	RuleName     string
	RuleCategory domain.Category
	RulePriority int
	When         func(target T, ctx C) bool
	Do           func(target T, ctx C) (T, error)
}

func (f Func[C, T]) ID() string                { return f.RuleID }
func (f Func[C, T]) Category() domain.Category { return f.RuleCategory }
func (f Func[C, T]) Priority() int             { return f.RulePriority }

func (f Func[C, T]) Name() string {
	if f.RuleName == "" {
		return f.RuleID
	}
	return f.RuleName
}

func (f Func[C, T]) Condition(target T, ctx C) bool {
	if f.When == nil {
		return true
	}
	return f.When(target, ctx)
}

func (f Func[C, T]) Apply(target T, ctx C) (T, error) {
	if f.Do == nil {
		return target, nil
	}
	return f.Do(target, ctx)
}

// Info is a serializable description of a registered rule.
type Info struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category domain.Category `json:"category"`
	Priority int             `json:"priority"`
}

// Describe returns the public metadata of a rule.
func Describe[C, T any](r Rule[C, T]) Info {
	return Info{ID: r.ID(), Name: r.Name(), Category: r.Category(), Priority: r.Priority()}
}
