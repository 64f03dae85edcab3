package model

import "time"

// User is a registered account. Usernames are unique and case-sensitive.
// Passwords are stored as-is; this is a single-machine local store with no
// remote surface, and hashing is explicitly out of scope.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Task is a user-owned to-do item. Tasks belong to exactly one user and are
// never shared or referenced across users.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Note        string    `json:"note,omitempty"`
	DueDate     string    `json:"dueDate"` // YYYY-MM-DD
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Event is one append-only store-log entry.
type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Username string    `json:"username,omitempty"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}
