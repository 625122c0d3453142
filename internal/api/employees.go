package api

import (
	"context"
	"fmt"

	"github.com/rcliao/onboard/internal/model"
)

// Employees wraps api/users/employee.
type Employees struct {
	*Collection[model.Employee]
}

// Employees returns the employee endpoints.
func (c *Client) Employees() *Employees {
	return &Employees{newCollection[model.Employee](c, "api/users/employee", nil)}
}

// GiveSlackAccess sends the employee a Slack message with access details.
func (e *Employees) GiveSlackAccess(ctx context.Context, id int) error {
	return e.c.post(ctx, fmt.Sprintf("%s/give_slack_access", e.item(id)), nil, nil)
}

// RevokeSlackAccess removes the employee's access to the Slack bot.
func (e *Employees) RevokeSlackAccess(ctx context.Context, id int) error {
	return e.c.delete(ctx, fmt.Sprintf("%s/revoke_slack_access", e.item(id)), nil, nil)
}

// SendPortalEmail emails the employee their portal credentials.
func (e *Employees) SendPortalEmail(ctx context.Context, id int) error {
	return e.c.post(ctx, fmt.Sprintf("%s/send_employee_email", e.item(id)), nil, nil)
}

// AddResource assigns a resource to the employee.
func (e *Employees) AddResource(ctx context.Context, id, resourceID int) error {
	return e.c.post(ctx, fmt.Sprintf("%s/add_resource", e.item(id)), map[string]int{"resource": resourceID}, nil)
}

// AddSequence assigns every resource of a sequence to the employee.
func (e *Employees) AddSequence(ctx context.Context, id, sequenceID int) error {
	return e.c.post(ctx, fmt.Sprintf("%s/add_resource", e.item(id)), map[string]int{"sequence": sequenceID}, nil)
}

// RemoveResource unassigns a resource.
func (e *Employees) RemoveResource(ctx context.Context, id, resourceID int) error {
	return e.c.put(ctx, fmt.Sprintf("%s/delete_resource", e.item(id)), map[string]int{"resource": resourceID}, nil)
}

// Resources lists the resources assigned to the employee.
func (e *Employees) Resources(ctx context.Context, id int) ([]model.Item, error) {
	var out []model.Item
	if err := e.c.get(ctx, fmt.Sprintf("%s/get_resources", e.item(id)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SyncSlack imports employees from Slack.
func (e *Employees) SyncSlack(ctx context.Context) error {
	return e.c.post(ctx, e.path+"/sync_slack", nil, nil)
}

// SyncGoogle imports employees from Google Workspace.
func (e *Employees) SyncGoogle(ctx context.Context) error {
	return e.c.post(ctx, e.path+"/sync_google", nil, nil)
}
