package middleware

import (
	"errors"
	"net/http"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/core/domain"
	"todolist/internal/core/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorReporter is the only place that turns handler errors into responses.
// Handlers attach the failure with c.Error and return without writing.
func ErrorReporter(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, message := classify(err)

		fields := []zap.Field{
			zap.Error(err),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetCurrent(c).RequestID()),
		}

		if status >= http.StatusInternalServerError {
			log.ErrorWithTrace(c.Request.Context(), "Request failed", fields...)
		} else {
			log.WarnWithTrace(c.Request.Context(), "Request rejected", fields...)
		}

		if c.Writer.Written() {
			return
		}

		helper.SendError(c, status, message)
	}
}

func classify(err error) (int, string) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) || errors.Is(err, domain.ErrTodoNotFound) {
		return http.StatusNotFound, domain.ErrTodoNotFound.Error()
	}

	return http.StatusInternalServerError, helper.InternalErrorMessage
}
