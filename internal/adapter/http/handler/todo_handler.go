package handler

import (
	"net/http"

	. "todolist/internal/adapter/http/helper"
	. "todolist/internal/adapter/http/validation"
	"todolist/internal/core/logger"
	"todolist/internal/core/model/request"
	"todolist/internal/core/model/response"
	"todolist/internal/core/port"
	"todolist/internal/core/util"
	. "todolist/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const todoIDParam = "todoId"

type TodoHandler struct {
	svc    port.TodoService
	Logger *logger.Logger
}

func NewTodoHandler(todoService port.TodoService, log *logger.Logger) *TodoHandler {
	if log == nil {
		log = logger.NewNop()
	}

	return &TodoHandler{
		svc:    todoService,
		Logger: log,
	}
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.CreateTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "CreateTodo"),
	})
	defer span.End()

	params, err := util.BindStrictJSON[request.CreateTodoRequest](c)
	if err != nil {
		err = BindError(err)
		AddSpanError(span, err)
		c.Error(err)
		return
	}

	if err := ValidateStruct(params); err != nil {
		AddSpanError(span, err)
		c.Error(err)
		return
	}

	todo, err := t.svc.Create(ctx, params.Value)
	if err != nil {
		AddSpanError(span, err)
		c.Error(err)
		return
	}

	t.Logger.Ctx(ctx).Debug("Todo created",
		zap.String("todo_id", todo.ID),
		zap.Int("order", todo.Order),
	)

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusCreated)
	SendSuccess(c, http.StatusCreated, response.TodoResponse{Todo: todo})
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTodos"),
	})
	defer span.End()

	todos, err := t.svc.List(ctx)
	if err != nil {
		AddSpanError(span, err)
		c.Error(err)
		return
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	SendSuccess(c, http.StatusOK, response.TodoListResponse{Todos: todos})
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	id := c.Param(todoIDParam)

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.UpdateTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "UpdateTodo"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	params, err := util.BindJSON[request.UpdateTodoRequest](c)
	if err != nil {
		err = BindError(err)
		AddSpanError(span, err)
		c.Error(err)
		return
	}

	if err := t.svc.Update(ctx, id, params.ToPatch()); err != nil {
		AddSpanError(span, err)
		c.Error(err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)
	SendSuccess(c, http.StatusOK, response.EmptyResponse{})
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	id := c.Param(todoIDParam)

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.DeleteTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "DeleteTodo"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	if err := t.svc.Delete(ctx, id); err != nil {
		AddSpanError(span, err)
		c.Error(err)
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)
	SendSuccess(c, http.StatusOK, response.EmptyResponse{})
}
