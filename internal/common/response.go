package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the standardized JSON error body.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorBody wraps an APIError for serialization.
type ErrorBody struct {
	Error APIError `json:"error"`
}

// Error sends an error JSON response.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{
		Error: APIError{
			Code:    statusCode,
			Message: message,
		},
	})
}

// HandleError inspects a domain error and sends the appropriate HTTP response.
// Uses errors.As to traverse the full error chain, supporting wrapped errors.
func HandleError(c *gin.Context, err error) {
	var notFound *NotFoundError
	var validation *ValidationError
	var rateLimit *RateLimitError
	var unauthorized *UnauthorizedError

	switch {
	case errors.As(err, &notFound):
		Error(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		Error(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &rateLimit):
		Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
	case errors.As(err, &unauthorized):
		Error(c, http.StatusUnauthorized, unauthorized.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}
