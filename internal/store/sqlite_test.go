package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/onboard/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func payload(name string) json.RawMessage {
	return json.RawMessage(`{"name":"` + name + `","timeline":[]}`)
}

func TestPutAndGetDraft(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d, err := s.PutDraft(ctx, PutDraftParams{SequenceID: 4, Name: "Sales", Payload: payload("Sales")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if d.Version != 1 {
		t.Errorf("expected version 1, got %d", d.Version)
	}
	if d.ID == "" {
		t.Error("expected non-empty ID")
	}

	got, err := s.GetDraft(ctx, GetDraftParams{SequenceID: 4})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Name != "Sales" {
		t.Errorf("expected 'Sales', got %q", got[0].Name)
	}
	if string(got[0].Payload) != string(payload("Sales")) {
		t.Errorf("payload changed: %s", got[0].Payload)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestPutDraft_RejectsInvalidPayload(t *testing.T) {
	s := newTestStore(t)
	_, err := s.PutDraft(context.Background(), PutDraftParams{SequenceID: 1, Payload: json.RawMessage(`{"broken"`)})
	if err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestDraftVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "v1", Payload: payload("v1")})
	d2, _ := s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "v2", Payload: payload("v2")})

	if d2.Version != 2 {
		t.Errorf("expected version 2, got %d", d2.Version)
	}
	if d2.Supersedes == "" {
		t.Error("expected supersedes to be set")
	}

	got, _ := s.GetDraft(ctx, GetDraftParams{SequenceID: 1})
	if got[0].Name != "v2" {
		t.Errorf("expected 'v2', got %q", got[0].Name)
	}

	hist, _ := s.GetDraft(ctx, GetDraftParams{SequenceID: 1, History: true})
	if len(hist) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(hist))
	}
	if hist[0].Version != 2 || hist[1].Version != 1 {
		t.Errorf("expected newest first, got %d then %d", hist[0].Version, hist[1].Version)
	}

	v1, err := s.GetDraft(ctx, GetDraftParams{SequenceID: 1, Version: 1})
	if err != nil {
		t.Fatalf("get version 1: %v", err)
	}
	if v1[0].Name != "v1" {
		t.Errorf("expected 'v1', got %q", v1[0].Name)
	}
}

func TestGetDraft_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetDraft(context.Background(), GetDraftParams{SequenceID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListDrafts_LatestPerSequence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "a1", Payload: payload("a1")})
	s.PutDraft(ctx, PutDraftParams{SequenceID: 2, Name: "b1", Payload: payload("b1")})
	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "a2", Payload: payload("a2")})

	list, err := s.ListDrafts(ctx, ListDraftsParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(list))
	}
	if list[0].Name != "a2" {
		t.Errorf("expected most recent first 'a2', got %q", list[0].Name)
	}
	if list[1].Name != "b1" {
		t.Errorf("expected 'b1', got %q", list[1].Name)
	}

	limited, _ := s.ListDrafts(ctx, ListDraftsParams{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestRmDraft_SoftLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "v1", Payload: payload("v1")})
	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "v2", Payload: payload("v2")})

	if err := s.RmDraft(ctx, RmDraftParams{SequenceID: 1}); err != nil {
		t.Fatalf("rm: %v", err)
	}

	got, err := s.GetDraft(ctx, GetDraftParams{SequenceID: 1})
	if err != nil {
		t.Fatalf("get after rm: %v", err)
	}
	if got[0].Name != "v1" {
		t.Errorf("expected previous version 'v1', got %q", got[0].Name)
	}

	// the next save does not reuse the deleted version number
	d3, _ := s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "v3", Payload: payload("v3")})
	if d3.Version != 3 {
		t.Errorf("expected version 3, got %d", d3.Version)
	}
}

func TestRmDraft_AllVersions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Payload: payload("v1")})
	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Payload: payload("v2")})

	if err := s.RmDraft(ctx, RmDraftParams{SequenceID: 1, AllVersions: true}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := s.GetDraft(ctx, GetDraftParams{SequenceID: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	st, _ := s.Stats(ctx, "")
	if st.TotalDrafts != 2 || st.ActiveDrafts != 0 {
		t.Errorf("expected 2 total / 0 active, got %d / %d", st.TotalDrafts, st.ActiveDrafts)
	}
}

func TestRmDraft_Hard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Payload: payload("v1")})
	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Payload: payload("v2")})

	if err := s.RmDraft(ctx, RmDraftParams{SequenceID: 1, Hard: true}); err != nil {
		t.Fatalf("hard rm: %v", err)
	}
	st, _ := s.Stats(ctx, "")
	if st.TotalDrafts != 1 {
		t.Errorf("expected 1 row left, got %d", st.TotalDrafts)
	}

	if err := s.RmDraft(ctx, RmDraftParams{SequenceID: 1, Hard: true, AllVersions: true}); err != nil {
		t.Fatalf("hard rm all: %v", err)
	}
	st, _ = s.Stats(ctx, "")
	if st.TotalDrafts != 0 {
		t.Errorf("expected empty table, got %d", st.TotalDrafts)
	}
}

func TestRmDraft_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, p := range []RmDraftParams{
		{SequenceID: 5},
		{SequenceID: 5, AllVersions: true},
		{SequenceID: 5, Hard: true},
		{SequenceID: 5, Hard: true, AllVersions: true},
	} {
		if err := s.RmDraft(ctx, p); !errors.Is(err, ErrNotFound) {
			t.Errorf("%+v: expected ErrNotFound, got %v", p, err)
		}
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.LoadSession(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before login, got %v", err)
	}

	sess := model.Session{
		BaseURL:   "http://localhost:8000/",
		CSRFToken: "tok",
		Language:  "en",
		Cookies:   []*http.Cookie{{Name: "sessionid", Value: "abc", Path: "/"}},
	}
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	sess.CSRFToken = "tok-2"
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CSRFToken != "tok-2" {
		t.Errorf("expected updated token, got %q", got.CSRFToken)
	}
	if len(got.Cookies) != 1 || got.Cookies[0].Value != "abc" {
		t.Errorf("cookies not restored: %+v", got.Cookies)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}

	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.LoadSession(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	src.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "a1", Payload: payload("a1")})
	src.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "a2", Payload: payload("a2")})
	src.PutDraft(ctx, PutDraftParams{SequenceID: 2, Name: "b1", Payload: payload("b1")})

	all, err := src.ExportAll(ctx, 0)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(all))
	}
	one, _ := src.ExportAll(ctx, 2)
	if len(one) != 1 {
		t.Errorf("expected 1 draft for sequence 2, got %d", len(one))
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, all)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 imported, got %d", n)
	}
	got, _ := dst.GetDraft(ctx, GetDraftParams{SequenceID: 1})
	if got[0].Name != "a2" || got[0].Version != 2 {
		t.Errorf("expected a2 at version 2, got %q v%d", got[0].Name, got[0].Version)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "old", Payload: payload("old")})
	s.PutDraft(ctx, PutDraftParams{SequenceID: 1, Name: "new", Payload: payload("new")})
	s.SaveSession(ctx, model.Session{BaseURL: "http://x/"})

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if _, err := os.Stat(dbPath); err == nil && st.DBSizeBytes == 0 {
		t.Error("expected db size")
	}
	if !st.HasSession {
		t.Error("expected session")
	}
	if len(st.Sequences) != 1 {
		t.Fatalf("expected 1 sequence, got %d", len(st.Sequences))
	}
	if st.Sequences[0].Versions != 2 || st.Sequences[0].Name != "new" {
		t.Errorf("unexpected sequence stats: %+v", st.Sequences[0])
	}
}
