// Package model defines the onboarding data types exchanged with the platform API.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionType is the trigger of a sequence condition, as encoded by the backend.
type ConditionType int

const (
	ConditionAfter   ConditionType = 0 // days after the start date
	ConditionToDo    ConditionType = 1 // once to-do items are completed
	ConditionBefore  ConditionType = 2 // days before the start date
	ConditionWithout ConditionType = 3 // no trigger
)

var conditionNames = map[ConditionType]string{
	ConditionAfter:   "after",
	ConditionToDo:    "todo",
	ConditionBefore:  "before",
	ConditionWithout: "without",
}

func (t ConditionType) String() string {
	if n, ok := conditionNames[t]; ok {
		return n
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// ParseConditionType accepts a name (after, todo, before, without) or the numeric code.
func ParseConditionType(s string) (ConditionType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, n := range conditionNames {
		if n == s {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := conditionNames[ConditionType(n)]; ok {
			return ConditionType(n), nil
		}
	}
	return 0, fmt.Errorf("invalid condition type %q (valid: after, todo, before, without)", s)
}

// Condition is one step of a sequence timeline: a trigger plus the items it hands out.
type Condition struct {
	ID               int           `json:"id,omitempty"`
	ConditionType    ConditionType `json:"condition_type"`
	Days             *int          `json:"days"`
	Time             string        `json:"time,omitempty"`
	ConditionToDo    []Item        `json:"condition_to_do"`
	ToDo             []Item        `json:"to_do"`
	Resources        []Item        `json:"resources"`
	Badges           []Item        `json:"badges"`
	AdminTasks       []Item        `json:"admin_tasks"`
	ExternalMessages []Item        `json:"external_messages"`
	Introductions    []Item        `json:"introductions"`
	Preboarding      []Item        `json:"preboarding"`
	Appointments     []Item        `json:"appointments"`
}

// Buckets lists the item buckets of a condition in display order.
var Buckets = []string{
	"to_do", "resources", "badges", "admin_tasks", "external_messages",
	"introductions", "preboarding", "appointments",
}

// NormalizeBucket maps message sub-kinds onto the external_messages bucket.
func NormalizeBucket(name string) string {
	switch name {
	case "slack_messages", "text_messages", "emails":
		return "external_messages"
	}
	return name
}

// Bucket returns a pointer to the named item list so callers can mutate it.
func (c *Condition) Bucket(name string) (*[]Item, error) {
	switch NormalizeBucket(name) {
	case "to_do":
		return &c.ToDo, nil
	case "resources":
		return &c.Resources, nil
	case "badges":
		return &c.Badges, nil
	case "admin_tasks":
		return &c.AdminTasks, nil
	case "external_messages":
		return &c.ExternalMessages, nil
	case "introductions":
		return &c.Introductions, nil
	case "preboarding":
		return &c.Preboarding, nil
	case "appointments":
		return &c.Appointments, nil
	}
	return nil, fmt.Errorf("unknown bucket %q", name)
}

// ItemCount is the number of items across all buckets.
func (c *Condition) ItemCount() int {
	n := 0
	for _, b := range Buckets {
		items, _ := c.Bucket(b)
		n += len(*items)
	}
	return n
}

// Sequence is a named onboarding timeline.
type Sequence struct {
	ID         int         `json:"id,omitempty"`
	Name       string      `json:"name"`
	AutoAdd    bool        `json:"auto_add"`
	Conditions []Condition `json:"conditions,omitempty"`
}

// Collection is the set of items picked while composing a new sequence.
type Collection struct {
	Name        string `json:"name"`
	Preboarding []Item `json:"preboarding"`
	ToDo        []Item `json:"to_do"`
	Resources   []Item `json:"resources"`
}

// AdminTask is a task created for an admin when a condition fires.
type AdminTask struct {
	Name       string `json:"name"`
	Comment    string `json:"comment,omitempty"`
	AssignedTo int    `json:"assigned_to"`
	Option     string `json:"option"`
	SlackUser  string `json:"slack_user,omitempty"`
	Email      string `json:"email,omitempty"`
	Date       string `json:"date,omitempty"`
	Priority   int    `json:"priority"`
}
