package store

import (
	"context"
	"strings"

	"github.com/rcliao/onboard/internal/model"
)

// ExportAll returns all live draft versions, optionally for one sequence.
func (s *SQLiteStore) ExportAll(ctx context.Context, sequenceID int) ([]model.Draft, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if sequenceID > 0 {
		where = append(where, "sequence_id = ?")
		args = append(args, sequenceID)
	}

	query := `SELECT ` + draftColumns + ` FROM drafts WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY sequence_id, version`
	return s.queryDrafts(ctx, query, args...)
}

// Import stores drafts from an export in order, each as a new version of
// its sequence.
func (s *SQLiteStore) Import(ctx context.Context, drafts []model.Draft) (int, error) {
	imported := 0
	for _, d := range drafts {
		_, err := s.PutDraft(ctx, PutDraftParams{
			SequenceID: d.SequenceID,
			Name:       d.Name,
			Payload:    d.Payload,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
