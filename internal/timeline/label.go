package timeline

import (
	"fmt"
	"strings"

	"github.com/rcliao/onboard/internal/model"
)

// Label describes when a condition fires, e.g. "3 days before start".
func Label(c model.Condition) string {
	switch c.ConditionType {
	case model.ConditionBefore:
		return dayLabel(c.Days, "before start")
	case model.ConditionAfter:
		return dayLabel(c.Days, "after start")
	case model.ConditionToDo:
		if len(c.ConditionToDo) == 0 {
			return "after to-do completion"
		}
		names := make([]string, len(c.ConditionToDo))
		for i, it := range c.ConditionToDo {
			names[i] = it.Name
			if names[i] == "" {
				names[i] = fmt.Sprintf("#%d", it.ID)
			}
		}
		return "after completing " + strings.Join(names, ", ")
	case model.ConditionWithout:
		return "without trigger"
	}
	return c.ConditionType.String()
}

func dayLabel(d *int, suffix string) string {
	if d == nil {
		return "? days " + suffix
	}
	if *d == 1 {
		return "1 day " + suffix
	}
	return fmt.Sprintf("%d days %s", *d, suffix)
}
