package domain

import (
	"reflect"
	"sort"
)

// Geometry pseudo-properties reported in FormattingChange.Property.
const (
	PropX = "x"
	PropY = "y"
	PropW = "w"
	PropH = "h"
)

// DiffElement lists every property that differs between before and after.
// Geometry comes first, then props in key order. A prop removed by after is
// reported with a nil NewValue; a prop added is reported with a nil OldValue.
func DiffElement(before, after *ContentElement, reason string) []FormattingChange {
	if before == nil || after == nil {
		return nil
	}

	var changes []FormattingChange
	add := func(prop string, oldVal, newVal any) {
		changes = append(changes, FormattingChange{
			ElementID: after.ID,
			Property:  prop,
			OldValue:  oldVal,
			NewValue:  newVal,
			Reason:    reason,
		})
	}

	// 1. Geometry
	if before.X != after.X {
		add(PropX, before.X, after.X)
	}
	if before.Y != after.Y {
		add(PropY, before.Y, after.Y)
	}
	if before.W != after.W {
		add(PropW, before.W, after.W)
	}
	if before.H != after.H {
		add(PropH, before.H, after.H)
	}

	// 2. Props, over the sorted union of keys
	keys := make(map[string]struct{}, len(before.Props)+len(after.Props))
	for k := range before.Props {
		keys[k] = struct{}{}
	}
	for k := range after.Props {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		oldVal, hadOld := before.Props[k]
		newVal, hasNew := after.Props[k]
		if hadOld && hasNew && reflect.DeepEqual(oldVal, newVal) {
			continue
		}
		add(k, oldVal, newVal)
	}

	return changes
}
