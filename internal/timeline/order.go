// Package timeline orders sequence conditions for display.
package timeline

import (
	"cmp"
	"slices"

	"github.com/rcliao/onboard/internal/model"
)

// Order returns the conditions in timeline order:
//  1. before-start conditions, latest day first (stable ascending sort by days, then reversed)
//  2. after-start conditions, ascending by days (stable)
//  3. to-do triggered conditions, input order
//  4. conditions without trigger, then any unknown type, input order
//
// The result is a permutation of steps; the input slice is not modified.
// A condition without days sorts after every condition that has one.
func Order(steps []model.Condition) []model.Condition {
	var before, after, todo, without, other []model.Condition
	for _, s := range steps {
		switch s.ConditionType {
		case model.ConditionBefore:
			before = append(before, s)
		case model.ConditionAfter:
			after = append(after, s)
		case model.ConditionToDo:
			todo = append(todo, s)
		case model.ConditionWithout:
			without = append(without, s)
		default:
			other = append(other, s)
		}
	}

	slices.SortStableFunc(before, compareDays)
	slices.Reverse(before)
	slices.SortStableFunc(after, compareDays)

	out := make([]model.Condition, 0, len(steps))
	out = append(out, before...)
	out = append(out, after...)
	out = append(out, todo...)
	out = append(out, without...)
	out = append(out, other...)
	return out
}

func compareDays(a, b model.Condition) int {
	switch {
	case a.Days == nil && b.Days == nil:
		return 0
	case a.Days == nil:
		return 1
	case b.Days == nil:
		return -1
	}
	return cmp.Compare(*a.Days, *b.Days)
}
