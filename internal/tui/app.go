package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskcal/internal/app"
	"taskcal/internal/calendar"
	"taskcal/internal/model"
	"taskcal/internal/store"
)

type pane int

const (
	paneGrid pane = iota
	panePanel
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// noticeExpiredMsg clears the transient message once its lifetime elapses.
// The seq guards against a stale timer wiping a newer notice.
type noticeExpiredMsg struct{ seq int }

type appModel struct {
	store    store.Store
	username string

	// now is a test seam for time.Now. The grid always shows the clock's
	// current month; there is no month navigation.
	now    func() time.Time
	cursor int // index into cells, 0..calendar.GridSize-1

	tasks []model.Task
	cells []app.GridCell
	panel app.Panel

	pane     pane
	panelIdx int

	mode       mode
	titleInput textinput.Model
	editID     string

	notice    app.Notice
	noticeSeq int

	width  int
	height int
}

func newAppModel(s store.Store, username string) (appModel, error) {
	m := appModel{
		store:    s,
		username: username,
		now:      time.Now,
	}

	m.titleInput = textinput.New()
	m.titleInput.Prompt = ""
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 48
	m.titleInput.Placeholder = "Task title"

	if err := m.reload(); err != nil {
		return appModel{}, err
	}
	m.refresh()
	m.moveCursorTo(calendar.Key(m.now()))
	m.refresh()
	return m, nil
}

func (m *appModel) reload() error {
	tasks, err := m.store.LoadTasks(context.Background(), m.username)
	if err != nil {
		return err
	}
	m.tasks = tasks
	return nil
}

// refresh rebuilds the derived grid and panel from tasks + cursor. The
// clock is read here so a program left running overnight moves the today
// highlight (and eventually the month) on the next refresh.
func (m *appModel) refresh() {
	now := m.now()
	m.cells = app.DecorateGrid(calendar.Build(now), m.tasks)
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.cells) {
		m.cursor = len(m.cells) - 1
	}
	m.panel = app.BuildPanel(m.tasks, m.selectedDate(), now)
	if m.panelIdx >= len(m.panel.Rows) {
		m.panelIdx = len(m.panel.Rows) - 1
	}
	if m.panelIdx < 0 {
		m.panelIdx = 0
	}
	if len(m.panel.Rows) == 0 {
		m.pane = paneGrid
	}
}

func (m appModel) selectedDate() string {
	if m.cursor < 0 || m.cursor >= len(m.cells) {
		return ""
	}
	return m.cells[m.cursor].Key
}

func (m *appModel) moveCursorTo(dateKey string) {
	for i, c := range m.cells {
		if c.Key == dateKey {
			m.cursor = i
			return
		}
	}
}

func (m *appModel) setNotice(text string) tea.Cmd {
	m.notice = app.NewNotice(text, time.Now())
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(app.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = app.Notice{}
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		// Reload from disk (so CLI commands in another terminal are reflected).
		_ = m.reload()
		m.refresh()
		return m, nil

	case "tab":
		if m.pane == paneGrid && len(m.panel.Rows) > 0 {
			m.pane = panePanel
		} else {
			m.pane = paneGrid
		}
		return m, nil

	case "left", "h":
		if m.pane == paneGrid && m.cursor > 0 {
			m.cursor--
			m.panelIdx = 0
			m.refresh()
		}
		return m, nil
	case "right", "l":
		if m.pane == paneGrid && m.cursor < len(m.cells)-1 {
			m.cursor++
			m.panelIdx = 0
			m.refresh()
		}
		return m, nil
	case "up", "k":
		if m.pane == paneGrid {
			if m.cursor-7 >= 0 {
				m.cursor -= 7
				m.panelIdx = 0
				m.refresh()
			}
		} else if m.panelIdx > 0 {
			m.panelIdx--
		}
		return m, nil
	case "down", "j":
		if m.pane == paneGrid {
			if m.cursor+7 < len(m.cells) {
				m.cursor += 7
				m.panelIdx = 0
				m.refresh()
			}
		} else if m.panelIdx < len(m.panel.Rows)-1 {
			m.panelIdx++
		}
		return m, nil

	case "t":
		m.refresh()
		m.moveCursorTo(calendar.Key(m.now()))
		m.refresh()
		return m, nil

	case " ":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if err := m.store.ToggleComplete(context.Background(), m.username, row.Task.ID); err != nil {
			cmd := m.setNotice(err.Error())
			return m, cmd
		}
		_ = m.reload()
		m.refresh()
		return m, nil

	case "a":
		m.mode = modeAdd
		m.titleInput.SetValue("")
		m.titleInput.Focus()
		return m, textinput.Blink

	case "e":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = row.Task.ID
		m.titleInput.SetValue(row.Task.Title)
		m.titleInput.CursorEnd()
		m.titleInput.Focus()
		return m, textinput.Blink

	case "d":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if err := m.store.DeleteTask(context.Background(), m.username, row.Task.ID); err != nil {
			cmd := m.setNotice(err.Error())
			return m, cmd
		}
		_ = m.reload()
		m.refresh()
		cmd := m.setNotice("Task deleted.")
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.titleInput.Blur()
		return m, nil

	case "enter":
		title := m.titleInput.Value()
		mode := m.mode
		m.mode = modeBrowse
		m.titleInput.Blur()

		ctx := context.Background()
		switch mode {
		case modeAdd:
			if _, err := m.store.AddTask(ctx, m.username, title, "", m.selectedDate()); err != nil {
				cmd := m.setNotice(addErrorText(err))
				return m, cmd
			}
		case modeEdit:
			if err := m.store.EditTitle(ctx, m.username, m.editID, title); err != nil {
				cmd := m.setNotice(err.Error())
				return m, cmd
			}
		}
		_ = m.reload()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m appModel) selectedRow() (app.PanelRow, bool) {
	if m.panelIdx < 0 || m.panelIdx >= len(m.panel.Rows) {
		return app.PanelRow{}, false
	}
	return m.panel.Rows[m.panelIdx], true
}

func addErrorText(err error) string {
	switch {
	case errors.Is(err, store.ErrEmptyTitle):
		return "Please enter a task!"
	case errors.Is(err, store.ErrEmptyDueDate), errors.Is(err, store.ErrBadDueDate):
		return "Please set a due date!"
	}
	return err.Error()
}
