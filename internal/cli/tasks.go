package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"taskcal/internal/model"
	"taskcal/internal/store"
)

// currentUsername resolves the session user; task commands refuse to run
// logged out so they never write into an anonymous task list.
func currentUsername(cmd *cobra.Command, s store.Store) (string, error) {
	username, err := s.LoadCurrentUser(cmd.Context())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(username) == "" {
		return "", errors.New("not logged in; run `taskcal login --username <name>`")
	}
	return username, nil
}

func findTask(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks for the logged-in user",
	}
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var due, note string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task due on a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			username, err := currentUsername(cmd, s)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := s.AddTask(cmd.Context(), username, args[0], note, due)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&note, "note", "", "Optional markdown note")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var due string
	var pending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			username, err := currentUsername(cmd, s)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := s.LoadTasks(cmd.Context(), username)
			if err != nil {
				return writeErr(cmd, err)
			}
			if due != "" {
				tasks = store.TasksForDate(tasks, due)
			}
			if pending {
				kept := tasks[:0]
				for _, t := range tasks {
					if !t.IsCompleted {
						kept = append(kept, t)
					}
				}
				tasks = kept
			}
			return writeOut(cmd, app, map[string]any{"data": tasks})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Only tasks due on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&pending, "pending", false, "Only tasks not yet completed")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle a task between completed and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			username, err := currentUsername(cmd, s)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := s.LoadTasks(cmd.Context(), username)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := findTask(tasks, args[0]); !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if err := s.ToggleComplete(cmd.Context(), username, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			tasks, err = s.LoadTasks(cmd.Context(), username)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, _ := findTask(tasks, args[0])
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}
}

func newTasksEditCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Rename a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			username, err := currentUsername(cmd, s)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := s.LoadTasks(cmd.Context(), username)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := findTask(tasks, args[0]); !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if err := s.EditTitle(cmd.Context(), username, args[0], title); err != nil {
				return writeErr(cmd, err)
			}
			tasks, err = s.LoadTasks(cmd.Context(), username)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, _ := findTask(tasks, args[0])
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New task title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			username, err := currentUsername(cmd, s)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := s.LoadTasks(cmd.Context(), username)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := findTask(tasks, args[0]); !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if err := s.DeleteTask(cmd.Context(), username, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": args[0], "deleted": true},
			})
		},
	}
}
