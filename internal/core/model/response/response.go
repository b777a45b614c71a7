package response

import "todolist/internal/core/domain"

type TodoResponse struct {
	Todo domain.Todo `json:"todo"`
}

type TodoListResponse struct {
	Todos []domain.Todo `json:"todos"`
}

type EmptyResponse struct{}

type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
