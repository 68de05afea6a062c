package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func statusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.KindRoomNotFound, domain.KindReservationNotFound:
		return http.StatusNotFound, string(domain.KindOf(err))
	case domain.KindRoomTypeMismatch, domain.KindOverCapacity:
		return http.StatusUnprocessableEntity, string(domain.KindOf(err))
	case domain.KindInvalidRange, domain.KindInvalidInput:
		return http.StatusBadRequest, string(domain.KindOf(err))
	case domain.KindDateOverlap:
		return http.StatusConflict, string(domain.KindOf(err))
	}
	switch {
	case errors.Is(err, reliability.ErrCircuitOpen):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	case errors.Is(err, reliability.ErrTimeout):
		return http.StatusGatewayTimeout, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, errorResponse{Error: errorBody{Code: code, Message: msg}})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{Code: string(domain.KindInvalidInput), Message: msg}})
}
