package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestAddTask_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.AddTask(ctx, "alice", "Buy milk", "2 liters", "2025-08-15")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if !strings.HasPrefix(task.ID, "task-") {
		t.Errorf("task id = %q, want task- prefix", task.ID)
	}

	tasks, err := s.LoadTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy milk" || got.Note != "2 liters" || got.DueDate != "2025-08-15" || got.IsCompleted {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestAddTask_ValidationLeavesListUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddTask(ctx, "alice", "seed", "", "2025-08-15"); err != nil {
		t.Fatalf("seed AddTask: %v", err)
	}

	cases := []struct {
		title, due string
		want       error
	}{
		{"", "2025-08-15", ErrEmptyTitle},
		{"   ", "2025-08-15", ErrEmptyTitle},
		{"ok", "", ErrEmptyDueDate},
		{"ok", "15/08/2025", ErrBadDueDate},
	}
	for _, tc := range cases {
		if _, err := s.AddTask(ctx, "alice", tc.title, "", tc.due); !errors.Is(err, tc.want) {
			t.Errorf("AddTask(%q, %q): err = %v, want %v", tc.title, tc.due, err, tc.want)
		}
	}

	tasks, err := s.LoadTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("stored list changed by rejected adds: %d tasks", len(tasks))
	}
}

func TestToggleComplete_TwiceRestores(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.AddTask(ctx, "alice", "Buy milk", "", "2025-08-15")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	if err := s.ToggleComplete(ctx, "alice", task.ID); err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	tasks, _ := s.LoadTasks(ctx, "alice")
	if !tasks[0].IsCompleted {
		t.Fatalf("first toggle did not complete the task")
	}

	if err := s.ToggleComplete(ctx, "alice", task.ID); err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	tasks, _ = s.LoadTasks(ctx, "alice")
	if tasks[0].IsCompleted {
		t.Fatalf("second toggle did not restore the task")
	}
}

func TestToggleComplete_UnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddTask(ctx, "alice", "Buy milk", "", "2025-08-15"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := s.ToggleComplete(ctx, "alice", "task-missing"); err != nil {
		t.Fatalf("ToggleComplete on unknown id: %v", err)
	}
	tasks, _ := s.LoadTasks(ctx, "alice")
	if len(tasks) != 1 || tasks[0].IsCompleted {
		t.Fatalf("unknown-id toggle altered the list: %+v", tasks)
	}
}

func TestEditTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.AddTask(ctx, "alice", "Buy milk", "", "2025-08-15")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	if err := s.EditTitle(ctx, "alice", task.ID, "  Buy oat milk  "); err != nil {
		t.Fatalf("EditTitle: %v", err)
	}
	tasks, _ := s.LoadTasks(ctx, "alice")
	if tasks[0].Title != "Buy oat milk" {
		t.Fatalf("title = %q, want %q", tasks[0].Title, "Buy oat milk")
	}

	// Empty replacement is a no-op.
	if err := s.EditTitle(ctx, "alice", task.ID, "   "); err != nil {
		t.Fatalf("EditTitle: %v", err)
	}
	tasks, _ = s.LoadTasks(ctx, "alice")
	if tasks[0].Title != "Buy oat milk" {
		t.Fatalf("empty edit changed title to %q", tasks[0].Title)
	}
}

func TestDeleteTask_RemovesExactlyOne(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.AddTask(ctx, "alice", "one", "", "2025-08-15")
	b, _ := s.AddTask(ctx, "alice", "two", "", "2025-08-15")
	c, _ := s.AddTask(ctx, "alice", "three", "", "2025-08-16")

	if err := s.DeleteTask(ctx, "alice", b.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	tasks, _ := s.LoadTasks(ctx, "alice")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks after delete, want 2", len(tasks))
	}
	if tasks[0].ID != a.ID || tasks[1].ID != c.ID {
		t.Fatalf("delete disturbed other tasks: %+v", tasks)
	}
}

func TestTasksScopedPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddTask(ctx, "alice", "hers", "", "2025-08-15"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	tasks, err := s.LoadTasks(ctx, "bob")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("bob sees alice's tasks: %+v", tasks)
	}
}

func TestTasksForDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.AddTask(ctx, "alice", "on day", "", "2025-08-15")
	s.AddTask(ctx, "alice", "other day", "", "2025-08-16")

	tasks, _ := s.LoadTasks(ctx, "alice")
	day := TasksForDate(tasks, "2025-08-15")
	if len(day) != 1 || day[0].Title != "on day" {
		t.Fatalf("TasksForDate: %+v", day)
	}
	if got := TasksForDate(tasks, "2025-08-17"); len(got) != 0 {
		t.Fatalf("TasksForDate for empty day: %+v", got)
	}
}
