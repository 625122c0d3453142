package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rcliao/onboard/internal/chapters"
	"github.com/rcliao/onboard/internal/model"
)

// NewHire wraps the new hire portal endpoints under api/new_hire.
type NewHire struct {
	c *Client
}

// NewHire returns the portal endpoints for the signed-in new hire.
func (c *Client) NewHire() *NewHire {
	return &NewHire{c: c}
}

// Me returns the signed-in new hire.
func (n *NewHire) Me(ctx context.Context) (*model.NewHire, error) {
	var out model.NewHire
	if err := n.c.get(ctx, "api/new_hire/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToDos lists the new hire's to-do items.
func (n *NewHire) ToDos(ctx context.Context) ([]model.Item, error) {
	return n.items(ctx, "api/new_hire/to_do")
}

// Badges lists the badges the new hire earned.
func (n *NewHire) Badges(ctx context.Context) ([]model.Item, error) {
	return n.items(ctx, "api/new_hire/badges")
}

// Resources lists the resources available to the new hire.
func (n *NewHire) Resources(ctx context.Context) ([]model.Item, error) {
	return n.items(ctx, "api/new_hire/resources")
}

// Colleagues lists the new hire's colleagues.
func (n *NewHire) Colleagues(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	if err := n.c.get(ctx, "api/new_hire/colleagues", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Introductions lists the people the new hire is introduced to.
func (n *NewHire) Introductions(ctx context.Context) ([]model.Item, error) {
	return n.items(ctx, "api/new_hire/introductions")
}

// Resource fetches a resource with its outline rebuilt, plus the flat original.
func (n *NewHire) Resource(ctx context.Context, id int) (*model.ResourceView, error) {
	var raw json.RawMessage
	if err := n.c.get(ctx, fmt.Sprintf("api/new_hire/resource/%d", id), &raw); err != nil {
		return nil, err
	}
	return decodeResourceView(raw)
}

// Course fetches a course with its outline rebuilt, plus the flat original.
func (n *NewHire) Course(ctx context.Context, id int) (*model.CourseView, error) {
	var raw json.RawMessage
	if err := n.c.get(ctx, fmt.Sprintf("api/new_hire/course/%d", id), &raw); err != nil {
		return nil, err
	}
	var view model.CourseView
	if err := json.Unmarshal(raw, &view.Original); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}
	if err := json.Unmarshal(raw, &view.Organized); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}
	view.Organized.Resource.Chapters = chapters.Reconstruct(view.Organized.Resource.Chapters)
	return &view, nil
}

// AddCourseAnswer submits answers for a question chapter.
func (n *NewHire) AddCourseAnswer(ctx context.Context, id int, answers any) error {
	return n.c.post(ctx, fmt.Sprintf("api/new_hire/course/%d", id), answers, nil)
}

// SubmitForm submits the form data of a to-do item.
func (n *NewHire) SubmitForm(ctx context.Context, todoID int, data any) error {
	return n.c.post(ctx, fmt.Sprintf("api/new_hire/to_do/%d", todoID), map[string]any{"data": data}, nil)
}

// RegisterStep records how far the new hire got in a course.
func (n *NewHire) RegisterStep(ctx context.Context, resourceUserID, step int) error {
	return n.c.post(ctx, fmt.Sprintf("api/new_hire/change_step/%d", resourceUserID), map[string]int{"step": step}, nil)
}

func (n *NewHire) items(ctx context.Context, path string) ([]model.Item, error) {
	var out []model.Item
	if err := n.c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}
