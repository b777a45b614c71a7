package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"todolist/internal/adapter/database/sqlite"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

const table = "todos"

type TodoRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: telemetry,
	}
}

func (tr *TodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	query := tr.db.QueryBuilder.Select(sqlite.TodoColumns...).
		From(table).
		Where(sq.Eq{"id": id}).
		Limit(1)

	return tr.findOne(ctx, "FindByID", query)
}

func (tr *TodoRepository) FindByOrder(ctx context.Context, order int) (*domain.Todo, error) {
	query := tr.db.QueryBuilder.Select(sqlite.TodoColumns...).
		From(table).
		Where(sq.Eq{"sort_order": order}).
		Limit(1)

	return tr.findOne(ctx, "FindByOrder", query)
}

func (tr *TodoRepository) FindTopByOrder(ctx context.Context) (*domain.Todo, error) {
	query := tr.db.QueryBuilder.Select(sqlite.TodoColumns...).
		From(table).
		OrderBy("sort_order DESC").
		Limit(1)

	return tr.findOne(ctx, "FindTopByOrder", query)
}

func (tr *TodoRepository) FindAllByOrderDesc(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "FindAllByOrderDesc", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  table,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Select(sqlite.TodoColumns...).
		From(table).
		OrderBy("sort_order DESC").
		ToSql()
	if err != nil {
		return nil, tr.fail(ctx, span, "FindAllByOrderDesc", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "FindAllByOrderDesc", "todo", query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, tr.fail(ctx, span, "FindAllByOrderDesc", startTime, err)
	}
	defer rows.Close()

	todos, err := tr.scanner.ScanTodos(rows)
	if err != nil {
		return nil, tr.fail(ctx, span, "FindAllByOrderDesc", startTime, err)
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(todos)})
	tr.succeed(ctx, span, "FindAllByOrderDesc", startTime)

	return todos, nil
}

func (tr *TodoRepository) Insert(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Insert", "todo", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     table,
		"db.operation": "INSERT",
		"todo.order":   todo.Order,
	})
	defer span.End()

	startTime := time.Now()

	todo.ID = uuid.NewString()

	query, args, err := tr.db.QueryBuilder.Insert(table).
		Columns(sqlite.TodoColumns...).
		Values(todo.ID, todo.Value, todo.Order, nullableTime(todo.DoneAt)).
		ToSql()
	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Insert", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Insert", "todo", query, args)

	if _, err := tr.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Insert", startTime, err)
	}

	span.SetAttributes(map[string]interface{}{"todo.id": todo.ID})
	tr.succeed(ctx, span, "Insert", startTime)

	return todo, nil
}

func (tr *TodoRepository) Save(ctx context.Context, todo domain.Todo) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Save", "todo", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     table,
		"db.operation": "UPDATE",
		"todo.id":      todo.ID,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Update(table).
		Set("value", todo.Value).
		Set("sort_order", todo.Order).
		Set("done_at", nullableTime(todo.DoneAt)).
		Where(sq.Eq{"id": todo.ID}).
		ToSql()
	if err != nil {
		return tr.fail(ctx, span, "Save", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Save", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return tr.fail(ctx, span, "Save", startTime, err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil {
		span.SetAttributes(map[string]interface{}{"db.rows_affected": rowsAffected})

		if rowsAffected == 0 {
			return tr.fail(ctx, span, "Save", startTime, domain.NewNotFoundError(todo.ID))
		}
	}

	tr.succeed(ctx, span, "Save", startTime)

	return nil
}

func (tr *TodoRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Delete", "todo", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     table,
		"db.operation": "DELETE",
		"todo.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return tr.fail(ctx, span, "Delete", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Delete", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return tr.fail(ctx, span, "Delete", startTime, err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return tr.fail(ctx, span, "Delete", startTime, domain.NewNotFoundError(id))
	}

	tr.succeed(ctx, span, "Delete", startTime)

	return nil
}

func (tr *TodoRepository) Ping(ctx context.Context) error {
	if err := tr.db.PingContext(ctx); err != nil {
		return domain.NewStorageError("ping", err)
	}

	return nil
}

func (tr *TodoRepository) findOne(ctx context.Context, operation string, builder sq.SelectBuilder) (*domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  table,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, tr.fail(ctx, span, operation, startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, operation, "todo", query, args)

	todo, err := tr.scanner.ScanTodo(tr.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		tr.succeed(ctx, span, operation, startTime)
		return nil, nil
	}

	if err != nil {
		return nil, tr.fail(ctx, span, operation, startTime, err)
	}

	tr.succeed(ctx, span, operation, startTime)

	return &todo, nil
}

// fail records err on the span and wraps backend failures as StorageError.
func (tr *TodoRepository) fail(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) error {
	span.SetStatus("error", err.Error())
	span.RecordError(err)
	tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), err)

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return err
	}

	return domain.NewStorageError(operation, err)
}

func (tr *TodoRepository) succeed(ctx context.Context, span port.Span, operation string, startTime time.Time) {
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), nil)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return *t
}
