// Package api is a client for the onboarding platform's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CSRFCookie is the cookie the backend uses to hand out a fresh CSRF token.
const CSRFCookie = "csrftoken"

// Options configures a Client.
type Options struct {
	BaseURL   string
	Language  string
	CSRFToken string
	Timeout   time.Duration
	Observer  Observer
	// Cookies seeds the session, e.g. from a saved workspace.
	Cookies []*http.Cookie
	// HTTPClient overrides the transport; its Jar is replaced.
	HTTPClient *http.Client
}

// Client talks JSON to the platform. It carries the CSRF token and session
// cookies across calls; it is safe for concurrent use.
type Client struct {
	base     *url.URL
	http     *http.Client
	language string
	observer Observer

	mu    sync.Mutex
	token string
}

// New creates a Client for the platform at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if len(opts.Cookies) > 0 {
		jar.SetCookies(base, opts.Cookies)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	} else {
		cp := *hc
		hc = &cp
	}
	hc.Jar = jar

	observer := opts.Observer
	if observer == nil {
		observer = NoopObserver{}
	}

	return &Client{
		base:     base,
		http:     hc,
		language: opts.Language,
		observer: observer,
		token:    opts.CSRFToken,
	}, nil
}

// CSRFToken returns the token sent with the next request.
func (c *Client) CSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SetCSRFToken replaces the token sent with requests.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Cookies returns the session cookies held for the platform.
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.base)
}

// BaseURL returns the platform root the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out)
}

// do sends one request. A non-2xx status yields *Error; out, when non-nil,
// receives the decoded body. There are no retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID)
	if token := c.CSRFToken(); token != "" {
		req.Header.Set("X-CSRFToken", token)
	}
	if c.language != "" {
		req.Header.Set("Content-Language", c.language)
	}

	event := RequestEvent{Method: method, Path: target.Path, RequestID: requestID}
	resp, err := c.http.Do(req)
	if err != nil {
		event.Duration = time.Since(start)
		event.Err = err
		c.observer.ObserveRequest(ctx, event)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.refreshToken(resp)

	data, err := io.ReadAll(resp.Body)
	event.Status = resp.StatusCode
	event.Duration = time.Since(start)
	if err != nil {
		event.Err = err
		c.observer.ObserveRequest(ctx, event)
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(method, target.Path, resp.StatusCode, data)
		event.Err = apiErr
		c.observer.ObserveRequest(ctx, event)
		return apiErr
	}
	c.observer.ObserveRequest(ctx, event)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// refreshToken adopts a CSRF token handed out by the server.
func (c *Client) refreshToken(resp *http.Response) {
	for _, ck := range resp.Cookies() {
		if ck.Name == CSRFCookie && ck.Value != "" {
			c.SetCSRFToken(ck.Value)
			return
		}
	}
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == CSRFCookie && ck.Value != "" {
			c.SetCSRFToken(ck.Value)
			return
		}
	}
}
