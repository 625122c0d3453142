package api

import "context"

// Credentials are the admin login fields.
type Credentials struct {
	Email    string `json:"username"`
	Password string `json:"password"`
}

// FetchCSRFToken asks the backend for a CSRF token and adopts it.
func (c *Client) FetchCSRFToken(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.get(ctx, "api/org/CSRF_token", &out); err != nil {
		return "", err
	}
	if out.Token != "" {
		c.SetCSRFToken(out.Token)
	}
	return c.CSRFToken(), nil
}

// Login signs in with email and password; the session lives in the cookie jar.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	if c.CSRFToken() == "" {
		if _, err := c.FetchCSRFToken(ctx); err != nil {
			return err
		}
	}
	return c.post(ctx, "api/auth/login", creds, nil)
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.get(ctx, "api/logout", nil)
}
