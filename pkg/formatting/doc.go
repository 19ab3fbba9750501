// Package formatting rewrites slide elements according to prioritized rules
// and records an audit trail of every property it touches.
//
// Each element is evaluated against the enabled rules in priority order.
// A rule works on a copy of the element; when it succeeds the copy is diffed
// against the current element and one domain.FormattingChange is recorded per
// changed field before the copy replaces it. A rule that fails leaves the
// element untouched and is reported in Result.Errors.
package formatting
