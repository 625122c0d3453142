package store

import (
	"context"
	"os"
	"time"
)

// Stats holds workspace statistics.
type Stats struct {
	DBPath           string          `json:"db_path"`
	DBSizeBytes      int64           `json:"db_size_bytes"`
	TotalDrafts      int             `json:"total_drafts"`
	ActiveDrafts     int             `json:"active_drafts"`
	HasSession       bool            `json:"has_session"`
	SessionUpdatedAt *time.Time      `json:"session_updated_at,omitempty"`
	Sequences        []SequenceStats `json:"sequences"`
}

// SequenceStats holds per-sequence draft counts.
type SequenceStats struct {
	SequenceID int       `json:"sequence_id"`
	Name       string    `json:"name"`
	Versions   int       `json:"versions"`
	LastSaved  time.Time `json:"last_saved"`
}

// Stats returns workspace statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts`).Scan(&st.TotalDrafts)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts WHERE deleted_at IS NULL`).Scan(&st.ActiveDrafts)

	if sess, err := s.LoadSession(ctx); err == nil {
		st.HasSession = true
		st.SessionUpdatedAt = &sess.UpdatedAt
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_id, COUNT(*) AS cnt, MAX(created_at) AS last
		FROM drafts WHERE deleted_at IS NULL
		GROUP BY sequence_id ORDER BY last DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var seq SequenceStats
		var last string
		if err := rows.Scan(&seq.SequenceID, &seq.Versions, &last); err != nil {
			return st, err
		}
		seq.LastSaved, _ = time.Parse(timeFormat, last)
		st.Sequences = append(st.Sequences, seq)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	for i := range st.Sequences {
		s.db.QueryRowContext(ctx,
			`SELECT name FROM drafts WHERE sequence_id = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
			st.Sequences[i].SequenceID).Scan(&st.Sequences[i].Name)
	}
	return st, nil
}
