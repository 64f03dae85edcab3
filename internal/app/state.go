// Package app holds the view state and pure render derivations shared by the
// web and TUI surfaces. Selected date and transient notices live here as
// explicit values; surfaces never reconstruct state from rendered output.
package app

import (
	"time"

	"taskcal/internal/calendar"
	"taskcal/internal/model"
	"taskcal/internal/store"
)

// NoticeTTL is how long a transient message stays visible.
const NoticeTTL = 3 * time.Second

// Notice is an expiring transient message. Setting a new Notice replaces the
// previous one wholesale, so a stale expiry can never clear a newer message.
type Notice struct {
	Text    string
	Expires time.Time
}

// NewNotice returns a notice visible for NoticeTTL from now.
func NewNotice(text string, now time.Time) Notice {
	return Notice{Text: text, Expires: now.Add(NoticeTTL)}
}

// Active reports whether the notice should still be rendered.
func (n Notice) Active(now time.Time) bool {
	return n.Text != "" && now.Before(n.Expires)
}

// State is the explicit application state for one logged-in view.
type State struct {
	CurrentUser  string
	SelectedDate string // YYYY-MM-DD, empty when no cell is selected
	Notice       Notice
}

// GridCell is one decorated calendar cell.
type GridCell struct {
	calendar.Day
	HasTasks bool
}

// DecorateGrid marks each grid cell that has at least one task due on it.
func DecorateGrid(days []calendar.Day, tasks []model.Task) []GridCell {
	due := map[string]bool{}
	for _, t := range tasks {
		due[t.DueDate] = true
	}
	out := make([]GridCell, 0, len(days))
	for _, d := range days {
		out = append(out, GridCell{Day: d, HasTasks: due[d.Key]})
	}
	return out
}

// PanelRow is one rendered task in the detail panel.
type PanelRow struct {
	Task      model.Task
	Completed bool
	Past      bool // due strictly before now and not completed
}

// Panel is the selection-driven detail view.
type Panel struct {
	SelectedDate string // empty when nothing is selected
	Label        string // "Aug 15, 2025", empty when nothing is selected
	Rows         []PanelRow
	Empty        bool // no selection, or zero matching tasks
}

// BuildPanel derives the detail panel for selectedDate. Both the Completed
// and Past flags may apply to the same row.
func BuildPanel(tasks []model.Task, selectedDate string, now time.Time) Panel {
	p := Panel{SelectedDate: selectedDate}
	if selectedDate == "" {
		p.Empty = true
		return p
	}
	p.Label = calendar.DayLabel(selectedDate)

	today := calendar.Key(now)
	for _, t := range store.TasksForDate(tasks, selectedDate) {
		p.Rows = append(p.Rows, PanelRow{
			Task:      t,
			Completed: t.IsCompleted,
			Past:      t.DueDate < today && !t.IsCompleted,
		})
	}
	p.Empty = len(p.Rows) == 0
	return p
}
