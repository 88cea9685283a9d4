// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/modules/order"
	"github.com/yksu0/GoTawee/internal/modules/pricing"
	"github.com/yksu0/GoTawee/internal/modules/ride"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeRideError(c *gin.Context, err error) {
	var verr *ride.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: ride.ErrValidation.Error(), Fields: verr.Fields})
	case errors.Is(err, ride.ErrValidation), errors.Is(err, pricing.ErrUnknownVehicleClass),
		errors.Is(err, pricing.ErrInvalidDistance):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNoRide):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrInvalidStep):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrDelivered):
		writeError(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, location.ErrPermissionDenied):
		writeError(c, http.StatusForbidden, location.PermissionDeniedMessage)
	case errors.Is(err, location.ErrEmptyAddress):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
