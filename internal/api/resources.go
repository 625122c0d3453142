package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rcliao/onboard/internal/chapters"
	"github.com/rcliao/onboard/internal/model"
	"github.com/rcliao/onboard/internal/timeline"
)

// Sequences wraps api/sequences.
type Sequences struct {
	*Collection[model.Sequence]
}

// Sequences returns the sequence endpoints.
func (c *Client) Sequences() *Sequences {
	return &Sequences{newCollection[model.Sequence](c, "api/sequences", func(id int) string {
		return fmt.Sprintf("api/%d/duplicate", id)
	})}
}

// GetOrdered fetches a sequence with its conditions in timeline order.
func (s *Sequences) GetOrdered(ctx context.Context, id int) (*model.Sequence, error) {
	seq, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	seq.Conditions = timeline.Order(seq.Conditions)
	return seq, nil
}

// CreateExternalMessage stores a Slack, text or email message.
func (s *Sequences) CreateExternalMessage(ctx context.Context, payload any) (*model.Item, error) {
	var out model.Item
	if err := s.c.post(ctx, "api/external_messages", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAdminTask stores a pending admin task. An empty date is left out of
// the payload.
func (s *Sequences) CreateAdminTask(ctx context.Context, task model.AdminTask) (*model.Item, error) {
	var out model.Item
	if err := s.c.post(ctx, "api/sequence/admin_task", task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resources wraps api/resource.
type Resources struct {
	*Collection[model.Resource]
}

// Resources returns the resource endpoints.
func (c *Client) Resources() *Resources {
	return &Resources{newCollection[model.Resource](c, "api/resource", nil)}
}

// Get fetches a resource with its chapters rebuilt into an outline.
func (r *Resources) Get(ctx context.Context, id int) (*model.Resource, error) {
	view, err := r.View(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.Organized, nil
}

// View fetches a resource and returns both the outline and the flat chapter list.
func (r *Resources) View(ctx context.Context, id int) (*model.ResourceView, error) {
	var raw json.RawMessage
	if err := r.c.get(ctx, r.item(id), &raw); err != nil {
		return nil, err
	}
	return decodeResourceView(raw)
}

func decodeResourceView(raw json.RawMessage) (*model.ResourceView, error) {
	var view model.ResourceView
	if err := json.Unmarshal(raw, &view.Original); err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	if err := json.Unmarshal(raw, &view.Organized); err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	view.Organized.Chapters = chapters.Reconstruct(view.Organized.Chapters)
	return &view, nil
}

// ToDos wraps api/to_do.
type ToDos struct {
	*Collection[model.ToDo]
}

// ToDos returns the to-do endpoints.
func (c *Client) ToDos() *ToDos {
	return &ToDos{newCollection[model.ToDo](c, "api/to_do", func(id int) string {
		return fmt.Sprintf("api/duplicate_todo/%d", id)
	})}
}

// Badges returns the badge endpoints.
func (c *Client) Badges() *Collection[model.Item] {
	return newCollection[model.Item](c, "api/badges", func(id int) string {
		return fmt.Sprintf("api/badges/%d/duplicate", id)
	})
}

// Introductions returns the introduction endpoints.
func (c *Client) Introductions() *Collection[model.Item] {
	return newCollection[model.Item](c, "api/introduction", nil)
}

// Preboarding returns the preboarding page endpoints.
func (c *Client) Preboarding() *Collection[model.Item] {
	return newCollection[model.Item](c, "api/preboarding", nil)
}

// Appointments returns the appointment endpoints.
func (c *Client) Appointments() *Collection[model.Item] {
	return newCollection[model.Item](c, "api/appointment", func(id int) string {
		return fmt.Sprintf("api/appointment/%d/duplicate", id)
	})
}
