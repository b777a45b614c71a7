package handler

import (
	"context"
	"net/http"
	"time"

	. "todolist/internal/adapter/http/helper"
	"todolist/internal/core/logger"
	"todolist/internal/core/model/response"
	"todolist/internal/core/port"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	svc     port.TodoService
	logger  *logger.Logger
	timeout time.Duration
}

func NewHealthHandler(todoService port.TodoService, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNop()
	}

	return &HealthHandler{
		svc:     todoService,
		logger:  log,
		timeout: 2 * time.Second,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.svc.Health(ctx); err != nil {
		h.logger.WarnWithTrace(ctx, "Storage health check failed", zap.Error(err))
		SendError(c, http.StatusServiceUnavailable, "storage is unavailable")
		return
	}

	SendSuccess(c, http.StatusOK, response.HealthResponse{Status: "ok"})
}
