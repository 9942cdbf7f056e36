package ginserver

import (
	"context"
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"siteavail/internal/app/middleware"
	"siteavail/internal/app/services/siteavailability"
)

var errBadRequest = errors.New("bad request")

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, siteavailability.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, siteavailability.ErrInvalidRange),
		errors.Is(err, siteavailability.ErrInvalidGuests),
		errors.Is(err, middleware.ErrValidation),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg, "request_id": c.GetString("request_id")})
}
