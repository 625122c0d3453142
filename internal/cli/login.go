package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/api"
	"github.com/rcliao/onboard/internal/config"
)

func init() {
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the platform and save the session",
		Long:  "Sign in with an admin account. The password is read from --password or $ONBOARD_PASSWORD.",
		Run:   runLogin,
	}
	login.Flags().StringP("email", "e", "", "Admin email (required)")
	login.Flags().StringP("password", "p", "", "Password (default: $ONBOARD_PASSWORD)")
	login.MarkFlagRequired("email")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it locally",
		Run:   runLogout,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Run:   runInit,
	}

	RootCmd.AddCommand(login, logout, initCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("ONBOARD_PASSWORD")
	}
	if password == "" {
		exitErr("login", fmt.Errorf("no password given"))
	}

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.Login(ctx, api.Credentials{Email: email, Password: password}); err != nil {
		exitAPI("login", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		fmt.Printf(`{"ok":true,"email":%q}`+"\n", email)
		return
	}
	fmt.Printf("signed in as %s\n", email)
}

func runLogout(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.Logout(ctx); err != nil {
		// the local session is cleared either way
		notice, _ := api.Notice(err)
		app.ShowSnackbar(notice)
		writeNotices(os.Stderr)
	}
	if err := s.ClearSession(ctx); err != nil {
		exitErr("clear session", err)
	}
	fmt.Println(`{"ok":true}`)
}

func runInit(cmd *cobra.Command, args []string) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	created, err := config.Init(path)
	if err != nil {
		exitErr("init", err)
	}
	fmt.Printf(`{"ok":true,"path":%q,"created":%t}`+"\n", path, created)
}
