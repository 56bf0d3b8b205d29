package domain

import "strings"

type Task struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Helper methods

// Toggle returns a copy of the task with Completed flipped.
func (t Task) Toggle() Task {
	t.Completed = !t.Completed
	return t
}

// ValidDescription reports whether desc has any non-space content.
func ValidDescription(desc string) bool {
	return strings.TrimSpace(desc) != ""
}

// Result is the outcome of a write that targets an existing row.
type Result int

const (
	NotFound Result = iota
	Updated
	Deleted
)

func (r Result) String() string {
	switch r {
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "not found"
	}
}

// Found is false only for NotFound.
func (r Result) Found() bool {
	return r != NotFound
}
