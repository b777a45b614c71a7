package domain

import (
	"errors"
	"fmt"
)

var ErrTodoNotFound = errors.New("todo does not exist")

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	ID string
}

func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTodoNotFound.Error(), e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTodoNotFound
}

// StorageError wraps a failure coming from the persistence backend.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
