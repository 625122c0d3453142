package state

import "github.com/rcliao/onboard/internal/model"

// Employees holds the employee list shown on the people screens.
type Employees struct {
	All []model.Employee `json:"all"`
}

// SetAll replaces the employee list.
func (e *Employees) SetAll(all []model.Employee) { e.All = all }

// ToggleSlackLoading flips the Slack request indicator. Unknown ids are ignored.
func (e *Employees) ToggleSlackLoading(id int) {
	e.with(id, func(emp *model.Employee) { emp.SlackLoading = !emp.SlackLoading })
}

// ToggleEmailLoading flips the portal email request indicator.
func (e *Employees) ToggleEmailLoading(id int) {
	e.with(id, func(emp *model.Employee) { emp.EmailLoading = !emp.EmailLoading })
}

// SetSlackID marks the employee as connected to Slack.
func (e *Employees) SetSlackID(id int) {
	set := "set"
	e.with(id, func(emp *model.Employee) { emp.SlackUserID = &set })
}

// UnsetSlackID marks the employee as disconnected from Slack.
func (e *Employees) UnsetSlackID(id int) {
	e.with(id, func(emp *model.Employee) { emp.SlackUserID = nil })
}

// SetHasPassword records that the employee received portal credentials.
func (e *Employees) SetHasPassword(id int) {
	e.with(id, func(emp *model.Employee) { emp.HasPassword = true })
}

func (e *Employees) with(id int, fn func(*model.Employee)) {
	for i := range e.All {
		if e.All[i].ID == id {
			fn(&e.All[i])
			return
		}
	}
}
