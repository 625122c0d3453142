package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/onboard/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id          INTEGER PRIMARY KEY CHECK (id = 1),
		base_url    TEXT NOT NULL,
		csrf_token  TEXT NOT NULL DEFAULT '',
		cookies     TEXT,
		language    TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS drafts (
		id          TEXT PRIMARY KEY,
		sequence_id INTEGER NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		payload     TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_drafts_sequence ON drafts(sequence_id, version);
	CREATE INDEX IF NOT EXISTS idx_drafts_created ON drafts(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_drafts_deleted ON drafts(deleted_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveSession(ctx context.Context, sess model.Session) error {
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = time.Now().UTC()
	}
	var cookies *string
	if len(sess.Cookies) > 0 {
		b, err := json.Marshal(sess.Cookies)
		if err != nil {
			return fmt.Errorf("encode cookies: %w", err)
		}
		c := string(b)
		cookies = &c
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, base_url, csrf_token, cookies, language, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   base_url = excluded.base_url,
		   csrf_token = excluded.csrf_token,
		   cookies = excluded.cookies,
		   language = excluded.language,
		   updated_at = excluded.updated_at`,
		sess.BaseURL, sess.CSRFToken, cookies, sess.Language, sess.UpdatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSession(ctx context.Context) (*model.Session, error) {
	var sess model.Session
	var cookies sql.NullString
	var updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT base_url, csrf_token, cookies, language, updated_at FROM session WHERE id = 1`).
		Scan(&sess.BaseURL, &sess.CSRFToken, &cookies, &sess.Language, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	if cookies.Valid {
		if err := json.Unmarshal([]byte(cookies.String), &sess.Cookies); err != nil {
			return nil, fmt.Errorf("decode cookies: %w", err)
		}
	}
	return &sess, nil
}

func (s *SQLiteStore) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	return err
}

func (s *SQLiteStore) PutDraft(ctx context.Context, p PutDraftParams) (*model.Draft, error) {
	if !json.Valid(p.Payload) {
		return nil, fmt.Errorf("draft %d: payload is not valid JSON", p.SequenceID)
	}
	now := time.Now().UTC()
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Versions keep counting past soft-deleted ones.
	var prevID string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM drafts
		 WHERE sequence_id = ?
		 ORDER BY version DESC LIMIT 1`, p.SequenceID).Scan(&prevID, &prevVersion)

	version := 1
	var supersedes *string
	switch {
	case err == nil:
		version = prevVersion + 1
		supersedes = &prevID
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find previous draft: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drafts (id, sequence_id, name, version, supersedes, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.SequenceID, p.Name, version, supersedes, string(p.Payload), now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	d := &model.Draft{
		ID:         id,
		SequenceID: p.SequenceID,
		Name:       p.Name,
		Version:    version,
		Payload:    append(json.RawMessage(nil), p.Payload...),
		CreatedAt:  now,
	}
	if supersedes != nil {
		d.Supersedes = *supersedes
	}
	return d, nil
}

const draftColumns = `id, sequence_id, name, version, supersedes, payload, created_at, deleted_at`

func (s *SQLiteStore) GetDraft(ctx context.Context, p GetDraftParams) ([]model.Draft, error) {
	var query string
	var args []interface{}

	switch {
	case p.History:
		query = `SELECT ` + draftColumns + ` FROM drafts
				 WHERE sequence_id = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []interface{}{p.SequenceID}
	case p.Version > 0:
		query = `SELECT ` + draftColumns + ` FROM drafts
				 WHERE sequence_id = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{p.SequenceID, p.Version}
	default:
		query = `SELECT ` + draftColumns + ` FROM drafts
				 WHERE sequence_id = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []interface{}{p.SequenceID}
	}

	drafts, err := s.queryDrafts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("draft for sequence %d: %w", p.SequenceID, ErrNotFound)
	}
	return drafts, nil
}

func (s *SQLiteStore) ListDrafts(ctx context.Context, p ListDraftsParams) ([]model.Draft, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT d.id, d.sequence_id, d.name, d.version, d.supersedes, d.payload, d.created_at, d.deleted_at
		FROM drafts d
		INNER JOIN (
			SELECT sequence_id, MAX(version) AS max_ver
			FROM drafts WHERE deleted_at IS NULL
			GROUP BY sequence_id
		) latest ON d.sequence_id = latest.sequence_id AND d.version = latest.max_ver
		WHERE d.deleted_at IS NULL
		ORDER BY d.created_at DESC
		LIMIT ?`
	return s.queryDrafts(ctx, query, limit)
}

func (s *SQLiteStore) RmDraft(ctx context.Context, p RmDraftParams) error {
	if p.Hard {
		if p.AllVersions {
			res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE sequence_id = ?`, p.SequenceID)
			if err != nil {
				return err
			}
			return requireAffected(res, p.SequenceID)
		}
		id, err := s.latestDraftID(ctx, p.SequenceID)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
		return err
	}

	now := time.Now().UTC().Format(timeFormat)
	if p.AllVersions {
		res, err := s.db.ExecContext(ctx,
			`UPDATE drafts SET deleted_at = ? WHERE sequence_id = ? AND deleted_at IS NULL`,
			now, p.SequenceID)
		if err != nil {
			return err
		}
		return requireAffected(res, p.SequenceID)
	}

	// Soft-delete latest version only
	id, err := s.latestDraftID(ctx, p.SequenceID)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE drafts SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) latestDraftID(ctx context.Context, sequenceID int) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM drafts WHERE sequence_id = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
		sequenceID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("draft for sequence %d: %w", sequenceID, ErrNotFound)
	}
	return id, err
}

func requireAffected(res sql.Result, sequenceID int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("draft for sequence %d: %w", sequenceID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) queryDrafts(ctx context.Context, query string, args ...interface{}) ([]model.Draft, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []model.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row scanner) (model.Draft, error) {
	var d model.Draft
	var supersedes, deletedAt sql.NullString
	var payload, createdAt string

	err := row.Scan(
		&d.ID, &d.SequenceID, &d.Name, &d.Version, &supersedes,
		&payload, &createdAt, &deletedAt,
	)
	if err != nil {
		return d, err
	}

	d.Payload = json.RawMessage(payload)
	d.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	if supersedes.Valid {
		d.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t, _ := time.Parse(timeFormat, deletedAt.String)
		d.DeletedAt = &t
	}
	return d, nil
}
