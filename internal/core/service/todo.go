package service

import (
	"context"
	"time"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

const serviceName = "todo"

type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
	now       func() time.Time
}

func NewTodoService(repo port.TodoRepository, telemetry port.Telemetry) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoService{
		repo:      repo,
		telemetry: telemetry,
		now:       time.Now,
	}
}

// Create appends a todo above every existing one. The next order is derived
// from the current maximum on each call; two concurrent creates may read the
// same maximum and end up sharing an order.
func (ts *TodoService) Create(ctx context.Context, value string) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "Create", nil)
	defer span.End()

	startTime := time.Now()

	top, err := ts.repo.FindTopByOrder(ctx)
	if err != nil {
		ts.fail(ctx, span, "Create", startTime, err)
		return domain.Todo{}, err
	}

	todo, err := ts.repo.Insert(ctx, domain.Todo{
		Value: value,
		Order: domain.NextOrder(top),
	})
	if err != nil {
		ts.fail(ctx, span, "Create", startTime, err)
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", todo.ID, map[string]interface{}{
		"order": todo.Order,
	})
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "Create", time.Since(startTime), nil)

	return todo, nil
}

func (ts *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "List", nil)
	defer span.End()

	startTime := time.Now()

	todos, err := ts.repo.FindAllByOrderDesc(ctx)
	if err != nil {
		ts.fail(ctx, span, "List", startTime, err)
		return nil, err
	}

	if todos == nil {
		todos = []domain.Todo{}
	}

	span.SetAttributes(map[string]interface{}{"todo.count": len(todos)})
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "List", time.Since(startTime), nil)

	return todos, nil
}

// Update applies a partial change. When the requested order is held by
// another todo the two orders are exchanged; the two writes are independent,
// so a failure between them leaves the swap half applied.
func (ts *TodoService) Update(ctx context.Context, id string, patch domain.TodoPatch) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "Update", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()

	current, err := ts.repo.FindByID(ctx, id)
	if err != nil {
		ts.fail(ctx, span, "Update", startTime, err)
		return err
	}

	if current == nil {
		err := domain.NewNotFoundError(id)
		ts.fail(ctx, span, "Update", startTime, err)
		return err
	}

	changes := make(map[string]interface{})

	if patch.Value != "" {
		current.Value = patch.Value
		changes["value"] = patch.Value
	}

	// An order of 0 is treated as absent.
	if patch.Order != 0 {
		target, err := ts.repo.FindByOrder(ctx, patch.Order)
		if err != nil {
			ts.fail(ctx, span, "Update", startTime, err)
			return err
		}

		if target != nil && target.ID != current.ID {
			target.Order = current.Order

			if err := ts.repo.Save(ctx, *target); err != nil {
				ts.fail(ctx, span, "Update", startTime, err)
				return err
			}

			changes["swapped_with"] = target.ID
		}

		current.Order = patch.Order
		changes["order"] = patch.Order
	}

	if patch.Done != nil {
		current.MarkDone(*patch.Done, ts.now())
		changes["done"] = *patch.Done
	}

	if err := ts.repo.Save(ctx, *current); err != nil {
		ts.fail(ctx, span, "Update", startTime, err)
		return err
	}

	if len(changes) > 0 {
		ts.telemetry.RecordBusinessEvent(ctx, "updated", "todo", current.ID, changes)
	}
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "Update", time.Since(startTime), nil)

	return nil
}

func (ts *TodoService) Delete(ctx context.Context, id string) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "Delete", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()

	current, err := ts.repo.FindByID(ctx, id)
	if err != nil {
		ts.fail(ctx, span, "Delete", startTime, err)
		return err
	}

	if current == nil {
		err := domain.NewNotFoundError(id)
		ts.fail(ctx, span, "Delete", startTime, err)
		return err
	}

	if err := ts.repo.Delete(ctx, id); err != nil {
		ts.fail(ctx, span, "Delete", startTime, err)
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", id, nil)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "Delete", time.Since(startTime), nil)

	return nil
}

// Health reports whether the storage backend is reachable.
func (ts *TodoService) Health(ctx context.Context) error {
	return ts.repo.Ping(ctx)
}

func (ts *TodoService) fail(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) {
	span.SetStatus("error", err.Error())
	span.RecordError(err)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(startTime), err)
}
