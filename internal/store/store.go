// Package store keeps the local workspace: the saved session and versioned
// sequence drafts, in SQLite.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rcliao/onboard/internal/model"
)

// ErrNotFound is returned when no live draft or session matches.
var ErrNotFound = errors.New("not found")

// PutDraftParams holds parameters for saving a draft.
type PutDraftParams struct {
	SequenceID int
	Name       string
	Payload    json.RawMessage
}

// GetDraftParams holds parameters for retrieving a draft.
type GetDraftParams struct {
	SequenceID int
	History    bool
	Version    int // 0 means latest
}

// ListDraftsParams holds parameters for listing drafts.
type ListDraftsParams struct {
	Limit int
}

// RmDraftParams holds parameters for deleting a draft.
type RmDraftParams struct {
	SequenceID  int
	AllVersions bool
	Hard        bool
}

// Store defines the workspace storage interface.
type Store interface {
	// SaveSession replaces the stored session.
	SaveSession(ctx context.Context, s model.Session) error

	// LoadSession returns the stored session, or ErrNotFound.
	LoadSession(ctx context.Context) (*model.Session, error)

	// ClearSession forgets the stored session.
	ClearSession(ctx context.Context) error

	// PutDraft saves a new version of a sequence draft.
	PutDraft(ctx context.Context, p PutDraftParams) (*model.Draft, error)

	// GetDraft returns the latest version, a specific version, or with
	// History=true every live version newest first.
	GetDraft(ctx context.Context, p GetDraftParams) ([]model.Draft, error)

	// ListDrafts lists the latest version of every drafted sequence.
	ListDrafts(ctx context.Context, p ListDraftsParams) ([]model.Draft, error)

	// RmDraft soft-deletes (or hard-deletes) a draft.
	RmDraft(ctx context.Context, p RmDraftParams) error

	// Close closes the store.
	Close() error
}
