package store

import (
	"context"
	"strings"
	"time"

	"taskcal/internal/calendar"
	"taskcal/internal/model"
)

// LoadTasks returns username's tasks in creation order. Empty slice when
// nothing is persisted for that user.
func (s Store) LoadTasks(ctx context.Context, username string) ([]model.Task, error) {
	var tasks []model.Task
	if _, err := s.getJSON(ctx, taskKey(username), &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// SaveTasks overwrites username's entire persisted task collection.
func (s Store) SaveTasks(ctx context.Context, username string, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return s.setJSON(ctx, taskKey(username), tasks)
}

// AddTask validates, appends, and persists a new task. Validation failures
// leave the stored list unchanged.
func (s Store) AddTask(ctx context.Context, username, title, note, dueDate string) (model.Task, error) {
	title = strings.TrimSpace(title)
	note = strings.TrimSpace(note)
	dueDate = strings.TrimSpace(dueDate)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if dueDate == "" {
		return model.Task{}, ErrEmptyDueDate
	}
	if _, err := calendar.ParseKey(dueDate); err != nil {
		return model.Task{}, ErrBadDueDate
	}

	tasks, err := s.LoadTasks(ctx, username)
	if err != nil {
		return model.Task{}, err
	}
	id, err := uniqueTaskID(tasks)
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		ID:        id,
		Title:     title,
		Note:      note,
		DueDate:   dueDate,
		CreatedAt: time.Now().UTC(),
	}
	tasks = append(tasks, task)
	if err := s.SaveTasks(ctx, username, tasks); err != nil {
		return model.Task{}, err
	}
	if err := s.AppendEvent(ctx, username, "task.add", id, map[string]any{"title": title, "dueDate": dueDate}); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// ToggleComplete flips IsCompleted on the task with the matching id.
// Unknown ids are a silent no-op.
func (s Store) ToggleComplete(ctx context.Context, username, id string) error {
	tasks, err := s.LoadTasks(ctx, username)
	if err != nil {
		return err
	}
	found := false
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].IsCompleted = !tasks[i].IsCompleted
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	if err := s.SaveTasks(ctx, username, tasks); err != nil {
		return err
	}
	return s.AppendEvent(ctx, username, "task.toggle", id, nil)
}

// EditTitle replaces the task's title. A no-op when the trimmed new title is
// empty or the id is unknown.
func (s Store) EditTitle(ctx context.Context, username, id, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return nil
	}
	tasks, err := s.LoadTasks(ctx, username)
	if err != nil {
		return err
	}
	found := false
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Title = newTitle
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	if err := s.SaveTasks(ctx, username, tasks); err != nil {
		return err
	}
	return s.AppendEvent(ctx, username, "task.edit", id, map[string]any{"title": newTitle})
}

// DeleteTask removes the task with the matching id, leaving all others
// untouched. Unknown ids are a silent no-op.
func (s Store) DeleteTask(ctx context.Context, username, id string) error {
	tasks, err := s.LoadTasks(ctx, username)
	if err != nil {
		return err
	}
	out := tasks[:0]
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		return nil
	}
	if err := s.SaveTasks(ctx, username, out); err != nil {
		return err
	}
	return s.AppendEvent(ctx, username, "task.delete", id, nil)
}

// TasksForDate filters tasks to those due on the given date key.
func TasksForDate(tasks []model.Task, dateKey string) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.DueDate == dateKey {
			out = append(out, t)
		}
	}
	return out
}
