package port

import (
	"context"

	"todolist/internal/core/domain"
)

// TodoRepository is the persistence port. Finders return (nil, nil) when no
// todo matches; only backend failures are reported as errors.
type TodoRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	FindByOrder(ctx context.Context, order int) (*domain.Todo, error)
	FindTopByOrder(ctx context.Context) (*domain.Todo, error)
	FindAllByOrderDesc(ctx context.Context) ([]domain.Todo, error)
	Insert(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Save(ctx context.Context, todo domain.Todo) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type TodoService interface {
	Create(ctx context.Context, value string) (domain.Todo, error)
	List(ctx context.Context) ([]domain.Todo, error)
	Update(ctx context.Context, id string, patch domain.TodoPatch) error
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) error
}
