package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskcal/internal/format"
	"taskcal/internal/store"
	"taskcal/internal/tui"
)

type App struct {
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskcal",
		Short:        "TaskCal (local-first) task calendar: CLI + TUI + web UI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive month view
  taskcal

  # Scriptable commands
  taskcal register --username alice
  taskcal login --username alice
  taskcal tasks add "Buy milk" --due 2026-09-15

  # Serve the HTML UI on localhost
  taskcal web --addr 127.0.0.1:3335
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKCAL_DIR", ""), "Path to store dir (default: config storeDir, else the config dir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newCalendarCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := openStore(context.Background(), app)
	if err != nil {
		return err
	}
	return tui.Run(s.Dir)
}

// openStore resolves the store directory, creates it if needed, and runs the
// one-time db.json import so pre-SQLite stores keep their data.
func openStore(ctx context.Context, app *App) (store.Store, error) {
	s, err := store.Open(app.Dir)
	if err != nil {
		return store.Store{}, err
	}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	if err := s.ImportLegacy(ctx); err != nil {
		return store.Store{}, err
	}
	app.Dir = s.Dir
	return s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
