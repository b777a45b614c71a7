package helper

import (
	"net/http"

	"todolist/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

const InternalErrorMessage = "An internal server error occurred."

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.ErrorResponse{
		ErrorMessage: message,
	})
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, InternalErrorMessage)
}
