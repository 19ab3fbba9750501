package formatting

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Describe renders a change as a single readable line. String values are
// shown as an inline diff using [-removed-] and {+added+} markers.
func Describe(c domain.FormattingChange) string {
	target := c.ElementID
	if c.SlideID != "" {
		target = c.SlideID + "/" + c.ElementID
	}

	var delta string
	oldStr, oldIsStr := c.OldValue.(string)
	newStr, newIsStr := c.NewValue.(string)
	switch {
	case c.OldValue == nil:
		delta = fmt.Sprintf("set to %v", c.NewValue)
	case c.NewValue == nil:
		delta = fmt.Sprintf("removed (was %v)", c.OldValue)
	case oldIsStr && newIsStr:
		delta = InlineDiff(oldStr, newStr)
	default:
		delta = fmt.Sprintf("%v -> %v", c.OldValue, c.NewValue)
	}

	if c.Reason == "" {
		return fmt.Sprintf("%s.%s: %s", target, c.Property, delta)
	}
	return fmt.Sprintf("%s.%s: %s (%s)", target, c.Property, delta, c.Reason)
}

// InlineDiff renders a character diff of two strings.
func InlineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		}
	}
	return b.String()
}
