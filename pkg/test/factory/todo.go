package factory

import (
	fab "github.com/Goldziher/fabricator"

	"todolist/internal/core/domain"
)

// NewTodo builds a todo with random content; customData overrides fields by
// struct field name. DoneAt always starts empty.
func NewTodo(customData ...map[string]any) domain.Todo {
	instance := fab.New(domain.Todo{})

	todo := instance.Build(customData...)
	todo.DoneAt = nil

	if len(todo.Value) > 50 {
		todo.Value = todo.Value[:50]
	}

	if todo.Value == "" {
		todo.Value = "todo"
	}

	return todo
}
