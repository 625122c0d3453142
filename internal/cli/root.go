// Package cli implements the onboard CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/api"
	"github.com/rcliao/onboard/internal/config"
	"github.com/rcliao/onboard/internal/model"
	"github.com/rcliao/onboard/internal/state"
	"github.com/rcliao/onboard/internal/store"
)

var (
	configPath string
	dbPath     string
	formatFlag string
	verbose    bool

	app = &state.App{}
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Admin tooling for the onboarding platform",
	Long: "Manage onboarding sequences, resources, to-dos and employees from the terminal.\n" +
		"Sequences can be pulled into local drafts, edited step by step and pushed back.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $ONBOARD_CONFIG or ~/.onboard/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Workspace database (default: $ONBOARD_DB or ~/.onboard/onboard.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log every API call to stderr")
}

func loadConfig() config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("ONBOARD_DB"); env != "" {
		return env
	}
	if cfg := loadConfig(); cfg.DBPath != "" {
		return cfg.DBPath
	}
	return config.DefaultDBPath()
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// newClient builds an API client from the config and the saved session.
func newClient(ctx context.Context, s store.Store) *api.Client {
	cfg := loadConfig()

	opts := api.Options{
		BaseURL:  cfg.BaseURL,
		Language: cfg.Language,
		Timeout:  cfg.Timeout(),
	}
	if verbose || cfg.LogCalls {
		opts.Observer = api.NewLogObserver(os.Stderr)
	}

	sess, err := s.LoadSession(ctx)
	switch {
	case err == nil && sameBase(sess.BaseURL, cfg.BaseURL):
		opts.CSRFToken = sess.CSRFToken
		opts.Cookies = sess.Cookies
	case err != nil && !errors.Is(err, store.ErrNotFound):
		exitErr("load session", err)
	}

	c, err := api.New(opts)
	if err != nil {
		exitErr("create client", err)
	}
	app.SetCSRFToken(c.CSRFToken())
	app.Language = cfg.Language
	return c
}

// saveSession persists the client's token and cookies for the next run.
func saveSession(ctx context.Context, s store.Store, c *api.Client) {
	app.SetCSRFToken(c.CSRFToken())
	err := s.SaveSession(ctx, model.Session{
		BaseURL:   c.BaseURL(),
		CSRFToken: c.CSRFToken(),
		Cookies:   c.Cookies(),
		Language:  app.Language,
	})
	if err != nil {
		exitErr("save session", err)
	}
}

func sameBase(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// exitAPI reports a failed API call the way the platform UI does: as a
// notice, with a hint to log in again when the session is gone.
func exitAPI(msg string, err error) {
	notice, relogin := api.Notice(err)
	app.ShowSnackbar(notice)
	if relogin {
		app.RequireLogin()
	}
	writeNotices(os.Stderr)
	if app.NeedsLogin {
		fmt.Fprintln(os.Stderr, "run `onboard login` to sign in again")
	}
	exitErr(msg, err)
}

func writeNotices(w io.Writer) {
	for _, n := range app.Drain() {
		fmt.Fprintln(w, paint(styleWarn, n))
	}
}

func isJSON() bool {
	return formatFlag == "json"
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
