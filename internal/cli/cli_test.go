package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/onboard/internal/api"
	"github.com/rcliao/onboard/internal/chapters"
	"github.com/rcliao/onboard/internal/model"
)

func init() {
	colorOn = func() bool { return false }
}

func intp(n int) *int { return &n }

func TestRenderTimeline(t *testing.T) {
	steps := []model.Condition{
		{ConditionType: model.ConditionBefore, Days: intp(3), ToDo: []model.Item{{ID: 4, Name: "Sign contract"}}},
		{ConditionType: model.ConditionAfter, Days: intp(1), Time: "08:00"},
		{ConditionType: model.ConditionToDo, ConditionToDo: []model.Item{{ID: 4, Name: "Sign contract"}}, Badges: []model.Item{{ID: 2}}},
	}

	want := "[0] 3 days before start\n" +
		"    to_do Sign contract #4\n" +
		"[1] 1 day after start at 08:00\n" +
		"[2] after completing Sign contract\n" +
		"    badges #2"
	assert.Equal(t, want, renderTimeline(steps))
	assert.Equal(t, "(empty timeline)", renderTimeline(nil))
}

func TestRenderChapterTree(t *testing.T) {
	parent := 1
	flat := []*model.Chapter{
		{ID: 1, Name: "Intro", Type: model.ChapterFolder},
		{ID: 2, Name: "Welcome", ParentChapter: &parent},
		{ID: 3, Name: "Quiz", Type: model.ChapterQuestions},
		{ID: 4, Name: "History", ParentChapter: &parent},
	}

	want := "├─ Intro #1 [folder]\n" +
		"│  ├─ Welcome #2 [page]\n" +
		"│  └─ History #4 [page]\n" +
		"└─ Quiz #3 [questions]"
	assert.Equal(t, want, renderChapterTree(chapters.Reconstruct(flat)))
}

func TestSameBase(t *testing.T) {
	assert.True(t, sameBase("http://x:8000/", "http://x:8000"))
	assert.False(t, sameBase("http://x:8000/", "http://y:8000/"))
}

func TestParseIDs(t *testing.T) {
	assert.Equal(t, []int{1, 2, 30}, parseIDs("1, 2,#30,"))
	assert.Empty(t, parseIDs(""))
}

func TestFetchOverview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sequences":
			w.Write([]byte(`[{"id":1,"name":"Sales"}]`))
		case "/api/to_do":
			w.Write([]byte(`[{"id":1,"name":"Sign"},{"id":2,"name":"Read"}]`))
		case "/api/resource":
			w.Write([]byte(`[{"id":1,"name":"Handbook","course":true,"chapters":[]}]`))
		case "/api/users/employee":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)

	ov, err := fetchOverview(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, ov.Sequences, 1)
	assert.Len(t, ov.ToDos, 2)
	assert.Len(t, ov.Resources, 1)
	assert.Empty(t, ov.Employees)
}

func TestFetchOverview_FailureCancels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/to_do" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = fetchOverview(context.Background(), c)
	require.Error(t, err)
	msg, relogin := api.Notice(err)
	assert.Equal(t, api.NoticeAuthenticate, msg)
	assert.True(t, relogin)
}
