package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated matches responses that require logging in again.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrServer matches internal server errors.
	ErrServer = errors.New("server error")

	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported is returned for operations a resource kind does not offer.
	ErrUnsupported = errors.New("operation not supported")
)

// User-facing notices.
const (
	NoticeAuthenticate = "Please authenticate yourself."
	NoticeServerError  = "Something went wrong on the server. Please try again later."
	NoticeFallback     = "Something went wrong. Please try again."
)

// Error is a non-2xx response. Body holds the decoded JSON body when the
// server sent one.
type Error struct {
	Status int
	Method string
	Path   string
	Body   map[string]any
	Raw    string
}

func newError(method, path string, status int, data []byte) *Error {
	e := &Error{Status: status, Method: method, Path: path}
	if err := json.Unmarshal(data, &e.Body); err != nil {
		e.Body = nil
		e.Raw = strings.TrimSpace(string(data))
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Message returns the body's error field, else its detail field, else "".
func (e *Error) Message() string {
	for _, key := range []string{"error", "detail"} {
		v, ok := e.Body[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case nil:
			return ""
		default:
			b, _ := json.Marshal(t)
			return string(b)
		}
	}
	return ""
}

// Is lets errors.Is match on the status category.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusForbidden || e.Status == http.StatusUnauthorized
	case ErrServer:
		return e.Status == http.StatusInternalServerError
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Notice turns a failed call into the message shown to the user and whether
// the user must log in again. 403 asks to authenticate, 500 gets a generic
// server message, anything else surfaces the body's error or detail field.
func Notice(err error) (msg string, relogin bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return NoticeFallback, false
	}
	switch apiErr.Status {
	case http.StatusForbidden:
		return NoticeAuthenticate, true
	case http.StatusInternalServerError:
		return NoticeServerError, false
	}
	if m := apiErr.Message(); m != "" {
		return m, false
	}
	return NoticeFallback, false
}
