package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskcal/internal/app"
	"taskcal/internal/calendar"
)

func newCalendarCmd(a *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the month grid (tasks marked with *)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), a)
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

			ref := time.Now()
			if month != "" {
				ref, err = time.Parse("2006-01", month)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("bad --month %q, want YYYY-MM", month))
				}
			}

			cells := app.DecorateGrid(calendar.Build(ref), tasks)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, calendar.MonthLabel(ref))
			fmt.Fprintln(out, strings.Join(calendar.Weekdays(), "  "))
			for i, c := range cells {
				day := ""
				if t, err := calendar.ParseKey(c.Key); err == nil {
					day = fmt.Sprintf("%2d", t.Day())
				}
				mark := " "
				if c.HasTasks {
					mark = "*"
				}
				if !c.InMonth {
					day = " ."
					mark = " "
				}
				fmt.Fprintf(out, " %s%s ", day, mark)
				if (i+1)%7 == 0 {
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to print, YYYY-MM (default: current)")
	return cmd
}
