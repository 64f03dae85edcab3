package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"taskcal/internal/model"
)

// newTaskID returns task-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space; uniqueness is
// additionally enforced against the owning user's task list, so same-instant
// creations cannot collide the way timestamp ids did.
func newTaskID() (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "task-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}

func taskIDExists(tasks []model.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func uniqueTaskID(tasks []model.Task) (string, error) {
	for i := 0; i < 10; i++ {
		id, err := newTaskID()
		if err != nil {
			return "", err
		}
		if !taskIDExists(tasks, id) {
			return id, nil
		}
	}
	// 10 collisions in 40-bit space means rand is broken; surface it.
	return "", errIDSpaceExhausted
}
