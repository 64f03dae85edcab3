package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"taskcal/internal/calendar"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: taskcal %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func data(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	d, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got: %#v", env["data"])
	}
	return d
}

func TestAuthLifecycle(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "register", "--username", "alice", "--password", "pw")
	mustRun(t, "--dir", dir, "login", "--username", "alice", "--password", "pw")

	who := mustRun(t, "--dir", dir, "whoami")
	if got := data(t, who)["username"]; got != "alice" {
		t.Fatalf("whoami = %v, want alice", got)
	}

	mustRun(t, "--dir", dir, "logout")
	if _, stderr, err := runCLI(t, []string{"--dir", dir, "whoami"}); err == nil {
		t.Fatalf("whoami succeeded after logout\nstderr:\n%s", stderr)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "register", "--username", "alice", "--password", "pw")
	_, stderr, err := runCLI(t, []string{"--dir", dir, "login", "--username", "alice", "--password", "nope"})
	if err == nil {
		t.Fatalf("login succeeded with wrong password")
	}
	if !strings.Contains(string(stderr), "invalid username or password") {
		t.Fatalf("stderr = %q", string(stderr))
	}
}

func TestLogin_PromptSeam(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "register", "--username", "alice", "--password", "pw")

	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	defer func() { readPassword = orig }()

	mustRun(t, "--dir", dir, "login", "--username", "alice")
}

func TestTasksLifecycle(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "register", "--username", "alice", "--password", "pw")
	mustRun(t, "--dir", dir, "login", "--username", "alice", "--password", "pw")

	added := mustRun(t, "--dir", dir, "tasks", "add", "Buy milk", "--due", "2026-09-15")
	id, _ := data(t, added)["id"].(string)
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("task id = %q, want task- prefix", id)
	}

	list := mustRun(t, "--dir", dir, "tasks", "list", "--due", "2026-09-15")
	if items, ok := list["data"].([]any); !ok || len(items) != 1 {
		t.Fatalf("list returned %#v, want one task", list["data"])
	}

	done := mustRun(t, "--dir", dir, "tasks", "done", id)
	if v := data(t, done)["isCompleted"]; v != true {
		t.Fatalf("done did not complete the task: %#v", done["data"])
	}

	pending := mustRun(t, "--dir", dir, "tasks", "list", "--pending")
	if items, ok := pending["data"].([]any); !ok || len(items) != 0 {
		t.Fatalf("pending list = %#v, want empty", pending["data"])
	}

	edited := mustRun(t, "--dir", dir, "tasks", "edit", id, "--title", "Buy oat milk")
	if v := data(t, edited)["title"]; v != "Buy oat milk" {
		t.Fatalf("edit produced title %v", v)
	}

	mustRun(t, "--dir", dir, "tasks", "delete", id)
	list = mustRun(t, "--dir", dir, "tasks", "list")
	if items, ok := list["data"].([]any); !ok || len(items) != 0 {
		t.Fatalf("list after delete = %#v, want empty", list["data"])
	}
}

func TestTasks_NotFound(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "register", "--username", "alice", "--password", "pw")
	mustRun(t, "--dir", dir, "login", "--username", "alice", "--password", "pw")

	for _, args := range [][]string{
		{"tasks", "done", "task-missing"},
		{"tasks", "edit", "task-missing", "--title", "x"},
		{"tasks", "delete", "task-missing"},
	} {
		full := append([]string{"--dir", dir}, args...)
		_, stderr, err := runCLI(t, full)
		if err == nil {
			t.Fatalf("taskcal %v succeeded for a missing task", args)
		}
		if !strings.Contains(string(stderr), "task not found") {
			t.Fatalf("taskcal %v stderr = %q", args, string(stderr))
		}
	}
}

func TestTasks_RequireLogin(t *testing.T) {
	dir := t.TempDir()

	_, stderr, err := runCLI(t, []string{"--dir", dir, "tasks", "add", "x", "--due", "2026-01-01"})
	if err == nil {
		t.Fatalf("tasks add succeeded while logged out")
	}
	if !strings.Contains(string(stderr), "not logged in") {
		t.Fatalf("stderr = %q", string(stderr))
	}
}

func TestCalendarCommand(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "register", "--username", "alice", "--password", "pw")
	mustRun(t, "--dir", dir, "login", "--username", "alice", "--password", "pw")
	mustRun(t, "--dir", dir, "tasks", "add", "Dentist", "--due", "2026-09-15")

	stdout, stderr, err := runCLI(t, []string{"--dir", dir, "calendar", "--month", "2026-09"})
	if err != nil {
		t.Fatalf("calendar: %v\nstderr:\n%s", err, string(stderr))
	}
	out := string(stdout)
	if !strings.Contains(out, "September 2026") {
		t.Fatalf("calendar output missing month label:\n%s", out)
	}
	if !strings.Contains(out, strings.Join(calendar.Weekdays(), "  ")) {
		t.Fatalf("calendar output missing weekday header:\n%s", out)
	}
	if !strings.Contains(out, "15*") {
		t.Fatalf("calendar output does not mark the 15th:\n%s", out)
	}
}

func TestEventsList(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "register", "--username", "alice", "--password", "pw")
	mustRun(t, "--dir", dir, "login", "--username", "alice", "--password", "pw")
	mustRun(t, "--dir", dir, "tasks", "add", "Buy milk", "--due", "2026-09-15")

	env := mustRun(t, "--dir", dir, "events", "list")
	items, ok := env["data"].([]any)
	if !ok || len(items) < 3 {
		t.Fatalf("events list = %#v, want register+login+add", env["data"])
	}
	first, _ := items[0].(map[string]any)
	if first["type"] != "task.add" {
		t.Fatalf("newest event type = %v, want task.add", first["type"])
	}
}
