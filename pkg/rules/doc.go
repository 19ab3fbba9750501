// Package rules provides the condition + transform abstraction shared by the
// suggestion and formatting engines.
//
// A Rule is evaluated against a target T under a context C. Engines hold rules
// in a Registry, which keeps them ordered by priority (descending) with ties
// broken by registration order, and gate them by category before the
// condition is ever evaluated.
//
// Rule code is untrusted: Check and Invoke convert both returned errors and
// panics into *domain.RuleApplicationError so a single broken rule never
// aborts a batch.
package rules
