package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTodo_MarkDone(t *testing.T) {
	t.Run("should set DoneAt when done is true", func(t *testing.T) {
		now := time.Now()
		todo := Todo{}

		todo.MarkDone(true, now)

		assert.NotNil(t, todo.DoneAt)
		assert.Equal(t, now, *todo.DoneAt)
	})

	t.Run("should clear DoneAt when done is false", func(t *testing.T) {
		now := time.Now()
		todo := Todo{DoneAt: &now}

		todo.MarkDone(false, time.Now())

		assert.Nil(t, todo.DoneAt)
	})
}

func TestNextOrder(t *testing.T) {
	t.Run("should start at one when there is no todo", func(t *testing.T) {
		assert.Equal(t, 1, NextOrder(nil))
	})

	t.Run("should increment the highest order", func(t *testing.T) {
		assert.Equal(t, 8, NextOrder(&Todo{Order: 7}))
	})
}

func TestErrors(t *testing.T) {
	t.Run("not found matches the sentinel", func(t *testing.T) {
		err := fmt.Errorf("update: %w", NewNotFoundError("abc"))

		assert.True(t, errors.Is(err, ErrTodoNotFound))

		var notFound *NotFoundError
		assert.True(t, errors.As(err, &notFound))
		assert.Equal(t, "abc", notFound.ID)
	})

	t.Run("storage error unwraps the driver error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewStorageError("insert", cause)

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "insert")
	})

	t.Run("validation error exposes its message", func(t *testing.T) {
		err := NewValidationError("value", "value is a required field")

		assert.Equal(t, "value is a required field", err.Error())
	})
}
