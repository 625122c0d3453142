package state

// App is the session-wide state: credentials and pending user notices.
type App struct {
	CSRFToken  string
	Language   string
	NeedsLogin bool

	notices []string
}

// SetCSRFToken stores the token sent back by the server.
func (a *App) SetCSRFToken(token string) { a.CSRFToken = token }

// ShowSnackbar queues a notice for the user. Consecutive duplicates are kept
// once.
func (a *App) ShowSnackbar(text string) {
	if text == "" {
		return
	}
	if n := len(a.notices); n > 0 && a.notices[n-1] == text {
		return
	}
	a.notices = append(a.notices, text)
}

// RequireLogin flags that the session must be re-authenticated.
func (a *App) RequireLogin() { a.NeedsLogin = true }

// Drain returns and clears the queued notices.
func (a *App) Drain() []string {
	out := a.notices
	a.notices = nil
	return out
}
