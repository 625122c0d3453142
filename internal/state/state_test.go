package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/onboard/internal/model"
)

func days(n int) *int { return &n }

func timelineIDs(s *Sequences) []int {
	out := make([]int, len(s.Timeline))
	for i, c := range s.Timeline {
		out[i] = c.ID
	}
	return out
}

func loaded() *Sequences {
	s := &Sequences{}
	s.SetSequence(model.Sequence{
		ID:   7,
		Name: "Engineering",
		Conditions: []model.Condition{
			{ID: 1, ConditionType: model.ConditionAfter, Days: days(5)},
			{ID: 2, ConditionType: model.ConditionToDo},
			{ID: 3, ConditionType: model.ConditionBefore, Days: days(2)},
			{ID: 4, ConditionType: model.ConditionAfter, Days: days(1)},
		},
	})
	return s
}

func TestSetSequenceOrders(t *testing.T) {
	s := loaded()
	assert.Equal(t, 7, s.SequenceID)
	assert.Equal(t, "Engineering", s.Name)
	assert.Equal(t, []int{3, 4, 1, 2}, timelineIDs(s))
}

func TestAddTimelineItemReorders(t *testing.T) {
	s := loaded()
	s.AddTimelineItem(model.Condition{ID: 5, ConditionType: model.ConditionBefore, Days: days(10)})
	s.AddTimelineItem(model.Condition{ID: 6, ConditionType: model.ConditionAfter, Days: days(3)})

	assert.Equal(t, []int{5, 3, 4, 6, 1, 2}, timelineIDs(s))
}

func TestRemoveTimelineItem(t *testing.T) {
	s := loaded()
	require.NoError(t, s.RemoveTimelineItem(1))
	assert.Equal(t, []int{3, 1, 2}, timelineIDs(s))

	err := s.RemoveTimelineItem(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	err = s.RemoveTimelineItem(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestChangeConditionDayReorders(t *testing.T) {
	s := loaded()
	// condition 4 (index 1) moves from day 1 to day 9
	require.NoError(t, s.ChangeConditionDay(1, "9"))
	assert.Equal(t, []int{3, 1, 4, 2}, timelineIDs(s))
	assert.Equal(t, 9, *s.Timeline[2].Days)
}

func TestChangeConditionDayLenient(t *testing.T) {
	s := loaded()
	require.NoError(t, s.ChangeConditionDay(1, "abc"))

	// day 1 cleared; a missing offset sorts after the others
	assert.Equal(t, []int{3, 1, 4, 2}, timelineIDs(s))
	assert.Nil(t, s.Timeline[2].Days)

	require.NoError(t, s.ChangeConditionDay(0, "12 days"))
	assert.Equal(t, 12, *s.Timeline[0].Days)
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"4", days(4)},
		{" -3", days(-3)},
		{"+2", days(2)},
		{"7days", days(7)},
		{"", nil},
		{"-", nil},
		{"x1", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDay(tt.in), tt.in)
	}
}

func TestChangeConditionCopiesList(t *testing.T) {
	s := loaded()
	todos := []model.Item{{ID: 11, Name: "Sign contract"}, {ID: 12}}

	require.NoError(t, s.ChangeCondition(3, todos))
	todos[0].ID = 99

	assert.Equal(t, 11, s.Timeline[3].ConditionToDo[0].ID)
	assert.Len(t, s.Timeline[3].ConditionToDo, 2)

	assert.ErrorIs(t, s.ChangeCondition(4, nil), ErrIndexOutOfRange)
}

func TestAddAndRemoveItem(t *testing.T) {
	s := loaded()

	require.NoError(t, s.AddItem(0, "to_do", model.Item{ID: 1, Name: "Laptop"}))
	require.NoError(t, s.AddItem(0, "to_do", model.Item{ID: 2, Name: "Badge photo"}))
	require.NoError(t, s.AddItem(0, "external_messages", model.Item{ID: 3, Name: "Welcome"}))
	assert.Equal(t, []int{3, 4, 1, 2}, timelineIDs(s))
	assert.Len(t, s.Timeline[0].ToDo, 2)

	require.NoError(t, s.RemoveItem(0, "to_do", 1))
	require.Len(t, s.Timeline[0].ToDo, 1)
	assert.Equal(t, 2, s.Timeline[0].ToDo[0].ID)

	// message sub-kinds resolve to the external messages bucket
	require.NoError(t, s.RemoveItem(0, "slack_messages", 3))
	assert.Empty(t, s.Timeline[0].ExternalMessages)

	assert.Error(t, s.AddItem(0, "snacks", model.Item{ID: 1}))
	assert.ErrorIs(t, s.AddItem(9, "to_do", model.Item{ID: 1}), ErrIndexOutOfRange)
}

func TestToggles(t *testing.T) {
	s := &Sequences{}
	s.TogglePreboarding()
	s.ToggleAutoAdd()
	assert.True(t, s.HasPreboarding)
	assert.True(t, s.HasAutoAdd)

	s.TogglePreboarding()
	assert.False(t, s.HasPreboarding)

	s.ResetAutoAdd()
	s.ResetPreboarding()
	assert.False(t, s.HasAutoAdd)
	assert.False(t, s.HasPreboarding)
}

func TestSequencePayload(t *testing.T) {
	s := loaded()
	s.ToggleAutoAdd()
	s.SetName("Engineering v2")

	seq := s.Sequence()
	assert.Equal(t, 7, seq.ID)
	assert.Equal(t, "Engineering v2", seq.Name)
	assert.True(t, seq.AutoAdd)
	assert.Len(t, seq.Conditions, 4)
	assert.Equal(t, "Engineering v2", s.Collection.Name)

	s.ResetItem()
	assert.Empty(t, s.Collection.Name)
	assert.NotNil(t, s.Collection.ToDo)
}

func TestEmployees(t *testing.T) {
	e := &Employees{}
	e.SetAll([]model.Employee{{ID: 1, FirstName: "Ada"}, {ID: 2, FirstName: "Linus"}})

	e.ToggleSlackLoading(1)
	e.ToggleEmailLoading(2)
	e.SetSlackID(2)
	e.SetHasPassword(1)
	e.ToggleSlackLoading(42)

	assert.True(t, e.All[0].SlackLoading)
	assert.True(t, e.All[1].EmailLoading)
	require.NotNil(t, e.All[1].SlackUserID)
	assert.Equal(t, "set", *e.All[1].SlackUserID)
	assert.True(t, e.All[0].HasPassword)

	e.UnsetSlackID(2)
	assert.Nil(t, e.All[1].SlackUserID)
}

func TestAppNotices(t *testing.T) {
	a := &App{}
	a.ShowSnackbar("Saved")
	a.ShowSnackbar("Saved")
	a.ShowSnackbar("")
	a.ShowSnackbar("Removed")

	assert.Equal(t, []string{"Saved", "Removed"}, a.Drain())
	assert.Empty(t, a.Drain())
}
