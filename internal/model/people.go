package model

import "encoding/json"

// Employee is a colleague known to the platform.
type Employee struct {
	ID          int     `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Position    string  `json:"position,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Message     string  `json:"message,omitempty"`
	SlackUserID *string `json:"slack_user_id"`
	HasPassword bool    `json:"has_psw"`

	// UI-only flags toggled while a request is in flight.
	SlackLoading bool `json:"-"`
	EmailLoading bool `json:"-"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// ToDo is a task handed to a new hire.
type ToDo struct {
	ID       int             `json:"id,omitempty"`
	Name     string          `json:"name"`
	DueOnDay int             `json:"due_on_day"`
	Tags     []string        `json:"tags,omitempty"`
	Content  json.RawMessage `json:"content,omitempty"`
	Form     json.RawMessage `json:"form,omitempty"`
}

// NewHire is the signed-in new hire as seen from the portal.
type NewHire struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	StartDay  string `json:"start_day,omitempty"`
	Language  string `json:"language,omitempty"`
}
