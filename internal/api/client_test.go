package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/onboard/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL, Language: "nl", CSRFToken: "tok-1"})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "onboarding.local"})
	assert.Error(t, err)
}

func TestClient_SendsHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sequences", r.URL.Path)
		assert.Equal(t, "tok-1", r.Header.Get("X-CSRFToken"))
		assert.Equal(t, "nl", r.Header.Get("Content-Language"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, []model.Sequence{{ID: 1, Name: "Sales"}})
	})

	seqs, err := c.Sequences().List(context.Background())
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "Sales", seqs[0].Name)
}

func TestClient_RefreshesCSRFTokenFromCookie(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			assert.Equal(t, "tok-2", r.Header.Get("X-CSRFToken"))
		}
		http.SetCookie(w, &http.Cookie{Name: CSRFCookie, Value: "tok-2", Path: "/"})
		writeJSON(w, http.StatusOK, []model.ToDo{})
	})

	_, err := c.ToDos().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", c.CSRFToken())

	_, err = c.ToDos().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		notice  string
		relogin bool
		is      error
	}{
		{"forbidden", 403, `{"detail":"Authentication credentials were not provided."}`, NoticeAuthenticate, true, ErrUnauthenticated},
		{"server", 500, `<html>boom</html>`, NoticeServerError, false, ErrServer},
		{"error field", 400, `{"error":"Name is required"}`, "Name is required", false, nil},
		{"detail field", 404, `{"detail":"Not found."}`, "Not found.", false, ErrNotFound},
		{"error wins over detail", 400, `{"detail":"d","error":"e"}`, "e", false, nil},
		{"no message", 409, `{"name":["taken"]}`, NoticeFallback, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Resources().List(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}

			msg, relogin := Notice(err)
			assert.Equal(t, tt.notice, msg)
			assert.Equal(t, tt.relogin, relogin)
		})
	}
}

func TestNotice_NonAPIError(t *testing.T) {
	msg, relogin := Notice(errors.New("dial tcp: refused"))
	assert.Equal(t, NoticeFallback, msg)
	assert.False(t, relogin)
}

func TestClient_NetworkErrorIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url})
	require.NoError(t, err)
	_, err = c.Badges().List(context.Background())
	assert.Error(t, err)
}

func TestClient_ObserverReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Observer: NewLogObserver(&buf)})
	require.NoError(t, err)
	_, _ = c.Introductions().List(context.Background())

	line := buf.String()
	assert.Contains(t, line, "api_request")
	assert.Contains(t, line, "status=500")
	assert.Contains(t, line, "path=/api/introduction")
	assert.True(t, strings.Contains(line, "level=ERROR"))
}

func TestCollection_DuplicateUnsupported(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	_, err := c.Preboarding().Duplicate(context.Background(), 3)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCollection_CRUDPaths(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusOK, map[string]any{"id": 5, "name": "Hello"})
		}
	})
	ctx := context.Background()

	_, err := c.ToDos().Create(ctx, model.ToDo{Name: "Hello"})
	require.NoError(t, err)
	_, err = c.ToDos().Update(ctx, 5, model.ToDo{Name: "Hello"})
	require.NoError(t, err)
	_, err = c.ToDos().Duplicate(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, c.ToDos().Remove(ctx, 5))
	_, err = c.Sequences().Duplicate(ctx, 8)
	require.NoError(t, err)
	_, err = c.Badges().Duplicate(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/to_do",
		"PUT /api/to_do/5",
		"POST /api/duplicate_todo/5",
		"DELETE /api/to_do/5",
		"POST /api/8/duplicate",
		"POST /api/badges/2/duplicate",
	}, seen)
}

func TestLogin_FetchesTokenFirst(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path)
		switch r.URL.Path {
		case "/api/org/CSRF_token":
			writeJSON(w, http.StatusOK, map[string]string{"token": "fresh"})
		case "/api/auth/login":
			assert.Equal(t, "fresh", r.Header.Get("X-CSRFToken"))
			var creds Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "admin@example.com", creds.Email)
			http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background(), Credentials{Email: "admin@example.com", Password: "pw"}))

	assert.Equal(t, []string{"/api/org/CSRF_token", "/api/auth/login"}, seen)
	var names []string
	for _, ck := range c.Cookies() {
		names = append(names, ck.Name)
	}
	assert.Contains(t, names, "sessionid")
}
