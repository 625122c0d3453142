// Package state holds the application state containers mutated by commands.
//
// Each container is a plain struct passed by reference; all changes go
// through its methods so that invariants (such as timeline order) hold
// after every mutation.
package state

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rcliao/onboard/internal/model"
	"github.com/rcliao/onboard/internal/timeline"
)

// ErrIndexOutOfRange is returned when a timeline position does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Sequences is the sequence editor state.
type Sequences struct {
	All            []model.Sequence  `json:"all,omitempty"`
	SequenceID     int               `json:"sequence_id"`
	Name           string            `json:"name"`
	Timeline       []model.Condition `json:"timeline"`
	Collection     model.Collection  `json:"collection"`
	HasPreboarding bool              `json:"has_preboarding"`
	HasAutoAdd     bool              `json:"has_auto_add"`
}

// SetAll replaces the list of known sequences.
func (s *Sequences) SetAll(all []model.Sequence) {
	s.All = all
}

// SetSequence loads a sequence into the editor, ordering its timeline.
func (s *Sequences) SetSequence(seq model.Sequence) {
	s.SequenceID = seq.ID
	s.Name = seq.Name
	s.HasAutoAdd = seq.AutoAdd
	s.Timeline = timeline.Order(seq.Conditions)
}

// SetTimeline replaces the timeline and orders it.
func (s *Sequences) SetTimeline(steps []model.Condition) {
	s.Timeline = timeline.Order(steps)
}

// Sequence returns the editor contents as a sequence payload.
func (s *Sequences) Sequence() model.Sequence {
	return model.Sequence{
		ID:         s.SequenceID,
		Name:       s.Name,
		AutoAdd:    s.HasAutoAdd,
		Conditions: slices.Clone(s.Timeline),
	}
}

// SetName renames the sequence being composed.
func (s *Sequences) SetName(name string) {
	s.Name = name
	s.Collection.Name = name
}

// SetCollection replaces the picked items of a new sequence.
func (s *Sequences) SetCollection(c model.Collection) {
	s.Collection = c
}

// ResetItem clears the picked items of a new sequence.
func (s *Sequences) ResetItem() {
	s.Collection = model.Collection{
		Preboarding: []model.Item{},
		ToDo:        []model.Item{},
		Resources:   []model.Item{},
	}
}

// TogglePreboarding flips whether the sequence includes preboarding pages.
func (s *Sequences) TogglePreboarding() { s.HasPreboarding = !s.HasPreboarding }

// ResetPreboarding clears the preboarding flag.
func (s *Sequences) ResetPreboarding() { s.HasPreboarding = false }

// ToggleAutoAdd flips whether the sequence is added to new hires automatically.
func (s *Sequences) ToggleAutoAdd() { s.HasAutoAdd = !s.HasAutoAdd }

// ResetAutoAdd clears the auto-add flag.
func (s *Sequences) ResetAutoAdd() { s.HasAutoAdd = false }

// AddTimelineItem appends a condition and reorders the timeline.
func (s *Sequences) AddTimelineItem(c model.Condition) {
	s.Timeline = timeline.Order(append(s.Timeline, c))
}

// RemoveTimelineItem removes the condition at index.
func (s *Sequences) RemoveTimelineItem(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.Timeline = slices.Delete(s.Timeline, index, index+1)
	return nil
}

// AddItem appends item to a bucket of the condition at block, then reorders.
func (s *Sequences) AddItem(block int, bucket string, item model.Item) error {
	if err := s.checkIndex(block); err != nil {
		return err
	}
	items, err := s.Timeline[block].Bucket(bucket)
	if err != nil {
		return err
	}
	*items = append(*items, item)
	s.Timeline = timeline.Order(s.Timeline)
	return nil
}

// RemoveItem drops every item with id from a bucket of the condition at block.
// Slack, text and email messages all live in the external messages bucket.
func (s *Sequences) RemoveItem(block int, bucket string, id int) error {
	if err := s.checkIndex(block); err != nil {
		return err
	}
	items, err := s.Timeline[block].Bucket(bucket)
	if err != nil {
		return err
	}
	*items = slices.DeleteFunc(slices.Clone(*items), func(it model.Item) bool { return it.ID == id })
	return nil
}

// ChangeConditionDay sets the day offset of the condition at index and
// reorders. Unparsable input clears the offset instead of failing.
func (s *Sequences) ChangeConditionDay(index int, day string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.Timeline[index].Days = parseDay(day)
	s.Timeline = timeline.Order(s.Timeline)
	return nil
}

// ChangeCondition replaces the to-do items whose completion triggers the
// condition at index. Referenced items are not checked for existence.
func (s *Sequences) ChangeCondition(index int, conditions []model.Item) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.Timeline[index].ConditionToDo = slices.Clone(conditions)
	return nil
}

func (s *Sequences) checkIndex(i int) error {
	if i < 0 || i >= len(s.Timeline) {
		return fmt.Errorf("%w: %d (timeline has %d steps)", ErrIndexOutOfRange, i, len(s.Timeline))
	}
	return nil
}

// parseDay reads a leading integer the way a lenient form field would:
// "12", "12 days" and " -3" parse, anything else yields nil.
func parseDay(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}
