// README: Ride handlers for book/current/advance/cancel.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yksu0/GoTawee/internal/modules/ride"
)

type RideHandler struct {
	rides *ride.Tracker
}

func NewRideHandler(rides *ride.Tracker) *RideHandler {
	return &RideHandler{rides: rides}
}

type bookRideReq struct {
	Pickup       ride.Place `json:"pickup"`
	Destination  ride.Place `json:"destination"`
	VehicleClass string     `json:"vehicleClass"`
}

type rideResp struct {
	Ride      ride.Record `json:"ride"`
	View      ride.View   `json:"view"`
	ShareText string      `json:"shareText"`
}

func (h *RideHandler) Book(c *gin.Context) {
	var req bookRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	rec, err := h.rides.Book(c.Request.Context(), ride.BookCommand{
		Pickup:       req.Pickup,
		Destination:  req.Destination,
		VehicleClass: req.VehicleClass,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	h.writeCurrent(c, http.StatusCreated, rec)
}

func (h *RideHandler) Current(c *gin.Context) {
	rec, view, err := h.rides.Current()
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rideResp{Ride: rec, View: view, ShareText: ride.ShareText(rec)})
}

type advanceRideReq struct {
	Status ride.Status `json:"status"`
}

// Advance accepts an optional target status; an empty body moves to the next one.
func (h *RideHandler) Advance(c *gin.Context) {
	var req advanceRideReq
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.Status != "" && !req.Status.Valid() {
		writeError(c, http.StatusBadRequest, "unknown status")
		return
	}
	rec, err := h.rides.Advance(req.Status)
	if err != nil {
		writeRideError(c, err)
		return
	}
	h.writeCurrent(c, http.StatusOK, rec)
}

func (h *RideHandler) Cancel(c *gin.Context) {
	warning, err := h.rides.Cancel(c.Request.Context())
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": "cancelled", "warning": warning})
}

func (h *RideHandler) writeCurrent(c *gin.Context, status int, fallback ride.Record) {
	rec, view, err := h.rides.Current()
	if err != nil || rec.ID != fallback.ID {
		rec = fallback
		view = ride.Project(fallback, fallback.BookingTime)
	}
	writeJSON(c, status, rideResp{Ride: rec, View: view, ShareText: ride.ShareText(rec)})
}
