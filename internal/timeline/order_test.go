package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/onboard/internal/model"
)

func days(n int) *int { return &n }

func step(id int, t model.ConditionType, d *int) model.Condition {
	return model.Condition{ID: id, ConditionType: t, Days: d}
}

func ids(steps []model.Condition) []int {
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = s.ID
	}
	return out
}

func TestOrder_MixedExample(t *testing.T) {
	in := []model.Condition{
		step(1, model.ConditionBefore, days(3)),
		step(2, model.ConditionBefore, days(1)),
		step(3, model.ConditionToDo, nil),
		step(4, model.ConditionAfter, days(5)),
		step(5, model.ConditionAfter, days(2)),
	}

	assert.Equal(t, []int{1, 2, 5, 4, 3}, ids(Order(in)))
}

func TestOrder_BeforeOnlyIsStableSortReversed(t *testing.T) {
	in := []model.Condition{
		step(1, model.ConditionBefore, days(2)),
		step(2, model.ConditionBefore, days(5)),
		step(3, model.ConditionBefore, days(2)),
		step(4, model.ConditionBefore, days(1)),
	}

	// ascending stable: 4, 1, 3, 2 -> reversed: 2, 3, 1, 4
	assert.Equal(t, []int{2, 3, 1, 4}, ids(Order(in)))
}

func TestOrder_AfterOnlyIsStableAscending(t *testing.T) {
	in := []model.Condition{
		step(1, model.ConditionAfter, days(7)),
		step(2, model.ConditionAfter, days(0)),
		step(3, model.ConditionAfter, days(7)),
		step(4, model.ConditionAfter, days(3)),
	}

	assert.Equal(t, []int{2, 4, 1, 3}, ids(Order(in)))
}

func TestOrder_ToDoOnlyKeepsInputOrder(t *testing.T) {
	in := []model.Condition{
		step(9, model.ConditionToDo, days(4)),
		step(3, model.ConditionToDo, nil),
		step(7, model.ConditionToDo, days(1)),
	}

	assert.Equal(t, []int{9, 3, 7}, ids(Order(in)))
}

func TestOrder_WithoutAndUnknownGoLast(t *testing.T) {
	in := []model.Condition{
		step(1, model.ConditionType(42), nil),
		step(2, model.ConditionWithout, nil),
		step(3, model.ConditionToDo, nil),
		step(4, model.ConditionAfter, days(1)),
	}

	assert.Equal(t, []int{4, 3, 2, 1}, ids(Order(in)))
}

func TestOrder_MissingDays(t *testing.T) {
	in := []model.Condition{
		step(1, model.ConditionAfter, nil),
		step(2, model.ConditionAfter, days(4)),
		step(3, model.ConditionBefore, days(2)),
		step(4, model.ConditionBefore, nil),
	}

	// missing days sort last ascending, so first once the before group is reversed
	assert.Equal(t, []int{4, 3, 2, 1}, ids(Order(in)))
}

func TestOrder_IsPermutationAndDoesNotMutateInput(t *testing.T) {
	in := []model.Condition{
		step(1, model.ConditionAfter, days(3)),
		step(2, model.ConditionToDo, nil),
		step(3, model.ConditionBefore, days(1)),
		step(4, model.ConditionWithout, nil),
		step(5, model.ConditionBefore, days(8)),
		step(6, model.ConditionAfter, days(-1)),
	}
	before := ids(in)

	out := Order(in)

	assert.Len(t, out, len(in))
	assert.ElementsMatch(t, before, ids(out))
	assert.Equal(t, before, ids(in))
}

func TestOrder_Empty(t *testing.T) {
	assert.Empty(t, Order(nil))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		c    model.Condition
		want string
	}{
		{step(1, model.ConditionBefore, days(3)), "3 days before start"},
		{step(1, model.ConditionAfter, days(1)), "1 day after start"},
		{step(1, model.ConditionAfter, nil), "? days after start"},
		{step(1, model.ConditionToDo, nil), "after to-do completion"},
		{model.Condition{ConditionType: model.ConditionToDo, ConditionToDo: []model.Item{{ID: 3, Name: "Sign contract"}, {ID: 8}}}, "after completing Sign contract, #8"},
		{step(1, model.ConditionWithout, nil), "without trigger"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.c))
	}
}
