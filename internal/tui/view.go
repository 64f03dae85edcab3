package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"taskcal/internal/calendar"
)

const cellWidth = 5

func (m appModel) View() string {
	var b strings.Builder

	header := styleHeader.Render(fmt.Sprintf("TaskCal  %s", calendar.MonthLabel(m.now()))) +
		"  " + styleFooter.Render("user: "+m.username)
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(m.viewGrid())
	b.WriteString("\n")
	b.WriteString(m.viewPanel())
	b.WriteString("\n")

	if m.mode != modeBrowse {
		b.WriteString(m.viewInput())
		b.WriteString("\n")
	}

	if m.notice.Active(time.Now()) {
		b.WriteString(styleNotice.Render(m.notice.Text))
		b.WriteString("\n")
	}

	b.WriteString(styleFooter.Render(m.helpLine()))
	return b.String()
}

func (m appModel) viewGrid() string {
	var b strings.Builder

	for _, wd := range calendar.Weekdays() {
		b.WriteString(styleFooter.Render(padCell(wd)))
	}
	b.WriteString("\n")

	for i, c := range m.cells {
		day := 1
		if t, err := calendar.ParseKey(c.Key); err == nil {
			day = t.Day()
		}
		dot := " "
		if c.HasTasks {
			dot = glyphTaskDot()
		}
		cell := fmt.Sprintf(" %2d%s ", day, dot)

		st := lipgloss.NewStyle()
		switch {
		case i == m.cursor:
			st = styleSelected
		case c.IsToday:
			st = styleToday
		case !c.InMonth:
			st = styleOutMonth
		}
		if c.HasTasks && i != m.cursor {
			// Keep the dot visible in the accent color.
			b.WriteString(st.Render(fmt.Sprintf(" %2d", day)) + styleDot.Render(dot) + st.Render(" "))
		} else {
			b.WriteString(st.Render(cell))
		}

		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m appModel) viewPanel() string {
	var b strings.Builder

	title := fmt.Sprintf("Tasks for %s", m.panel.Label)
	if m.pane == panePanel {
		title += "  (focused)"
	}
	b.WriteString(stylePaneTitle.Render(title))
	b.WriteString("\n")

	if m.panel.Empty {
		b.WriteString(styleFooter.Render("No tasks for this date."))
		b.WriteString("\n")
		return b.String()
	}

	for i, row := range m.panel.Rows {
		marker := "  "
		if m.pane == panePanel && i == m.panelIdx {
			marker = "> "
		}

		box := glyphOpen()
		if row.Completed {
			box = glyphDone()
		}

		line := marker + box + " " + row.Task.Title
		if row.Past {
			line += " (past due)"
		}

		switch {
		case m.pane == panePanel && i == m.panelIdx:
			line = styleSelected.Render(line)
		case row.Completed:
			line = styleCompleted.Render(line)
		case row.Past:
			line = stylePastDue.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if row, ok := m.selectedRow(); ok && m.pane == panePanel && strings.TrimSpace(row.Task.Note) != "" {
		w := m.width - 4
		if w < 10 || w > 78 {
			w = 78
		}
		b.WriteString("\n")
		b.WriteString(renderMarkdown(row.Task.Note, w))
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) viewInput() string {
	label := fmt.Sprintf("New task for %s", m.panel.Label)
	if m.mode == modeEdit {
		label = "Edit task title"
	}

	w := m.width - 2
	if w < 40 {
		w = 40
	}
	return stylePaneTitle.Render(label) + "\n" +
		renderInputLine(w, m.titleInput.View()) + "\n" +
		styleFooter.Render("enter: save  esc: cancel")
}

func (m appModel) helpLine() string {
	if m.mode != modeBrowse {
		return ""
	}
	return "arrows/hjkl: move  tab: pane  space: toggle  a: add  e: edit  d: delete  t: today  r: reload  q: quit"
}

// renderInputLine keeps a text input on a single visual line. If the view
// ever contains newlines or overflows due to ANSI/cursor styling, it can
// trigger wrapping that looks like newline insertion while typing.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := " " + inputView
	if xansi.StringWidth(line) > bodyW {
		// Never exceed the body width; terminate ANSI styling to prevent bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

func padCell(s string) string {
	if len(s) >= cellWidth {
		return s[:cellWidth]
	}
	left := (cellWidth - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", cellWidth-len(s)-left)
}
