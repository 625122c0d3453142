package model

import (
	"encoding/json"
	"net/http"
	"time"
)

// Draft is one saved version of a sequence being edited offline. Payload is
// the editor state as JSON.
type Draft struct {
	ID         string          `json:"id"`
	SequenceID int             `json:"sequence_id"`
	Name       string          `json:"name"`
	Version    int             `json:"version"`
	Supersedes string          `json:"supersedes,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
	DeletedAt  *time.Time      `json:"deleted_at,omitempty"`
}

// Session is the signed-in state kept between runs.
type Session struct {
	BaseURL   string         `json:"base_url"`
	CSRFToken string         `json:"csrf_token"`
	Cookies   []*http.Cookie `json:"cookies"`
	Language  string         `json:"language"`
	UpdatedAt time.Time      `json:"updated_at"`
}
