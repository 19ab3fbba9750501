package rules

import (
	"errors"
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
)

// Phases reported in domain.RuleApplicationError.
const (
	PhaseCondition = "condition"
	PhaseApply     = "apply"
)

// ErrPanic wraps values recovered from a panicking rule.
var ErrPanic = errors.New("rule panicked")

// Check evaluates the rule's condition, converting a panic into an error.
func Check[C, T any](rule Rule[C, T], target T, ctx C, elementID string) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = ruleError(rule, elementID, PhaseCondition, fmt.Errorf("%w: %v", ErrPanic, rec))
		}
	}()
	return rule.Condition(target, ctx), nil
}

// Invoke applies the rule. Returned errors and panics are wrapped in
// *domain.RuleApplicationError; on failure the zero T is returned.
func Invoke[C, T any](rule Rule[C, T], target T, ctx C, elementID string) (out T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			out = zero
			err = ruleError(rule, elementID, PhaseApply, fmt.Errorf("%w: %v", ErrPanic, rec))
		}
	}()
	res, applyErr := rule.Apply(target, ctx)
	if applyErr != nil {
		var zero T
		return zero, ruleError(rule, elementID, PhaseApply, applyErr)
	}
	return res, nil
}

// Evaluate runs Check and, when it holds, Invoke.
// matched reports whether the condition held.
func Evaluate[C, T any](rule Rule[C, T], target T, ctx C, elementID string) (out T, matched bool, err error) {
	ok, err := Check(rule, target, ctx, elementID)
	if err != nil || !ok {
		return target, false, err
	}
	out, err = Invoke(rule, target, ctx, elementID)
	return out, true, err
}

func ruleError[C, T any](rule Rule[C, T], elementID, phase string, err error) error {
	return &domain.RuleApplicationError{
		RuleID:    rule.ID(),
		ElementID: elementID,
		Phase:     phase,
		Err:       err,
	}
}
