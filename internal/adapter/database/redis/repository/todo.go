package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"todolist/internal/adapter/database/redis"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

// TodoRepository stores each todo as a JSON document and keeps a sorted set
// keyed by order as the secondary index.
type TodoRepository struct {
	db        *redis.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *redis.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{db: db, telemetry: telemetry}
}

func (tr *TodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	ctx, span, startTime := tr.start(ctx, "FindByID")
	defer span.End()

	todo, err := tr.load(ctx, id)
	if err != nil {
		return nil, tr.fail(ctx, span, "FindByID", startTime, err)
	}

	tr.succeed(ctx, span, "FindByID", startTime)

	return todo, nil
}

func (tr *TodoRepository) FindByOrder(ctx context.Context, order int) (*domain.Todo, error) {
	ctx, span, startTime := tr.start(ctx, "FindByOrder")
	defer span.End()

	score := strconv.Itoa(order)

	ids, err := tr.db.ZRangeByScore(ctx, tr.db.OrderIndexKey(), &goredis.ZRangeBy{
		Min:   score,
		Max:   score,
		Count: 1,
	}).Result()
	if err != nil {
		return nil, tr.fail(ctx, span, "FindByOrder", startTime, err)
	}

	if len(ids) == 0 {
		tr.succeed(ctx, span, "FindByOrder", startTime)
		return nil, nil
	}

	todo, err := tr.load(ctx, ids[0])
	if err != nil {
		return nil, tr.fail(ctx, span, "FindByOrder", startTime, err)
	}

	tr.succeed(ctx, span, "FindByOrder", startTime)

	return todo, nil
}

func (tr *TodoRepository) FindTopByOrder(ctx context.Context) (*domain.Todo, error) {
	ctx, span, startTime := tr.start(ctx, "FindTopByOrder")
	defer span.End()

	ids, err := tr.db.ZRevRange(ctx, tr.db.OrderIndexKey(), 0, 0).Result()
	if err != nil {
		return nil, tr.fail(ctx, span, "FindTopByOrder", startTime, err)
	}

	if len(ids) == 0 {
		tr.succeed(ctx, span, "FindTopByOrder", startTime)
		return nil, nil
	}

	todo, err := tr.load(ctx, ids[0])
	if err != nil {
		return nil, tr.fail(ctx, span, "FindTopByOrder", startTime, err)
	}

	tr.succeed(ctx, span, "FindTopByOrder", startTime)

	return todo, nil
}

func (tr *TodoRepository) FindAllByOrderDesc(ctx context.Context) ([]domain.Todo, error) {
	ctx, span, startTime := tr.start(ctx, "FindAllByOrderDesc")
	defer span.End()

	ids, err := tr.db.ZRevRange(ctx, tr.db.OrderIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, tr.fail(ctx, span, "FindAllByOrderDesc", startTime, err)
	}

	todos := make([]domain.Todo, 0, len(ids))

	if len(ids) == 0 {
		tr.succeed(ctx, span, "FindAllByOrderDesc", startTime)
		return todos, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = tr.db.DocumentKey(id)
	}

	docs, err := tr.db.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, tr.fail(ctx, span, "FindAllByOrderDesc", startTime, err)
	}

	for _, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// Index entry without a document: deleted concurrently.
			continue
		}

		var todo domain.Todo
		if err := json.Unmarshal([]byte(raw), &todo); err != nil {
			return nil, tr.fail(ctx, span, "FindAllByOrderDesc", startTime, err)
		}

		todos = append(todos, todo)
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(todos)})
	tr.succeed(ctx, span, "FindAllByOrderDesc", startTime)

	return todos, nil
}

func (tr *TodoRepository) Insert(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span, startTime := tr.start(ctx, "Insert")
	defer span.End()

	todo.ID = uuid.NewString()

	if err := tr.write(ctx, todo); err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Insert", startTime, err)
	}

	tr.succeed(ctx, span, "Insert", startTime)

	return todo, nil
}

func (tr *TodoRepository) Save(ctx context.Context, todo domain.Todo) error {
	ctx, span, startTime := tr.start(ctx, "Save")
	defer span.End()

	exists, err := tr.db.Exists(ctx, tr.db.DocumentKey(todo.ID)).Result()
	if err != nil {
		return tr.fail(ctx, span, "Save", startTime, err)
	}

	if exists == 0 {
		return tr.fail(ctx, span, "Save", startTime, domain.NewNotFoundError(todo.ID))
	}

	if err := tr.write(ctx, todo); err != nil {
		return tr.fail(ctx, span, "Save", startTime, err)
	}

	tr.succeed(ctx, span, "Save", startTime)

	return nil
}

func (tr *TodoRepository) Delete(ctx context.Context, id string) error {
	ctx, span, startTime := tr.start(ctx, "Delete")
	defer span.End()

	pipe := tr.db.TxPipeline()
	deleted := pipe.Del(ctx, tr.db.DocumentKey(id))
	pipe.ZRem(ctx, tr.db.OrderIndexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return tr.fail(ctx, span, "Delete", startTime, err)
	}

	if deleted.Val() == 0 {
		return tr.fail(ctx, span, "Delete", startTime, domain.NewNotFoundError(id))
	}

	tr.succeed(ctx, span, "Delete", startTime)

	return nil
}

func (tr *TodoRepository) Ping(ctx context.Context) error {
	if err := tr.db.Ping(ctx).Err(); err != nil {
		return domain.NewStorageError("ping", err)
	}

	return nil
}

// write stores the document and its index entry in one MULTI/EXEC.
func (tr *TodoRepository) write(ctx context.Context, todo domain.Todo) error {
	doc, err := json.Marshal(todo)
	if err != nil {
		return err
	}

	pipe := tr.db.TxPipeline()
	pipe.Set(ctx, tr.db.DocumentKey(todo.ID), doc, 0)
	pipe.ZAdd(ctx, tr.db.OrderIndexKey(), goredis.Z{
		Score:  float64(todo.Order),
		Member: todo.ID,
	})

	_, err = pipe.Exec(ctx)

	return err
}

func (tr *TodoRepository) load(ctx context.Context, id string) (*domain.Todo, error) {
	raw, err := tr.db.Get(ctx, tr.db.DocumentKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var todo domain.Todo
	if err := json.Unmarshal(raw, &todo); err != nil {
		return nil, err
	}

	return &todo, nil
}

func (tr *TodoRepository) start(ctx context.Context, operation string) (context.Context, port.Span, time.Time) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, "todo", map[string]interface{}{
		"db.system": "redis",
		"db.prefix": tr.db.KeyPrefix,
	})

	return ctx, span, time.Now()
}

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
