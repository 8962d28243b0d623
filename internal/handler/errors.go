package handler

import (
	"errors"
	"net/http"

	"freightdesk/internal/costing"
	"freightdesk/internal/service"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrQuotationNotFound),
		errors.Is(err, service.ErrCargoItemNotFound),
		errors.Is(err, service.ErrOperationalRecordNotFound),
		errors.Is(err, service.ErrHSCodeNotFound),
		errors.Is(err, costing.ErrCostNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrQuotationLocked),
		errors.Is(err, service.ErrOperationalRecordExists),
		errors.Is(err, service.ErrHSCodeOverlap):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Unexpected errors are attached to
// the gin context so the request logger records them, and hidden from clients.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
