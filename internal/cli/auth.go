package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// promptPassword returns the --password flag when given, otherwise reads the
// password from the terminal without echo.
func promptPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newRegisterCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pw, err := promptPassword(cmd, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Register(cmd.Context(), username, pw); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"username": strings.TrimSpace(username), "registered": true},
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username to create")
	cmd.Flags().StringVar(&password, "password", "", "Password (omit to be prompted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session for the TUI and scriptable commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pw, err := promptPassword(cmd, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, ok, err := s.Authenticate(cmd.Context(), username, pw)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errors.New("invalid username or password"))
			}
			if err := s.SaveCurrentUser(cmd.Context(), username); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"username": username, "loggedIn": true},
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username to log in as")
	cmd.Flags().StringVar(&password, "password", "", "Password (omit to be prompted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.ClearCurrentUser(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"loggedIn": false},
			})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the current session user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			username, err := s.LoadCurrentUser(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(username) == "" {
				return writeErr(cmd, errors.New("not logged in; run `taskcal login --username <name>`"))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"username": username},
			})
		},
	}
}
