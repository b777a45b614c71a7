package domain

import "time"

type Todo struct {
	ID     string     `json:"id"`
	Value  string     `json:"value"`
	Order  int        `json:"order"`
	DoneAt *time.Time `json:"doneAt"`
}

// TodoPatch carries the optional fields of an update. A zero Value or Order
// means "leave unchanged"; a nil Done means the key was absent.
type TodoPatch struct {
	Value string
	Order int
	Done  *bool
}

// MarkDone sets or clears the completion timestamp.
func (t *Todo) MarkDone(done bool, now time.Time) {
	if !done {
		t.DoneAt = nil
		return
	}

	t.DoneAt = &now
}

// NextOrder returns the order a new todo receives given the current top todo.
func NextOrder(top *Todo) int {
	if top == nil {
		return 1
	}

	return top.Order + 1
}
