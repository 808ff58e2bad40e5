package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is the body of operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// Success writes data with status 200.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Message writes {"message": msg} with status 200.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// Error writes {"detail": detail} with the given status.
func Error(c *gin.Context, code int, detail string) {
	c.JSON(code, ErrorResponse{Detail: detail})
}

// NotFound writes a 404.
func NotFound(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Not found"
	}
	Error(c, http.StatusNotFound, detail)
}

// UnprocessableEntity writes a 422, used for body and query validation errors.
func UnprocessableEntity(c *gin.Context, detail string) {
	Error(c, http.StatusUnprocessableEntity, detail)
}

// InternalServerError writes a 500.
func InternalServerError(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Internal server error"
	}
	Error(c, http.StatusInternalServerError, detail)
}

// SoftErrorResponse reports a search that could not be served. It is sent
// with status 200 so clients render it inline.
type SoftErrorResponse struct {
	Error string `json:"error"`
}

// SoftError writes {"error": msg} with status 200.
func SoftError(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, SoftErrorResponse{Error: msg})
}
