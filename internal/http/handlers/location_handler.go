// README: Place lookup handlers backing the booking form.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/types"
)

type LocationHandler struct {
	geocoder *location.Geocoder
	locator  location.Locator
}

func NewLocationHandler(g *location.Geocoder, loc location.Locator) *LocationHandler {
	return &LocationHandler{geocoder: g, locator: loc}
}

func (h *LocationHandler) Saved(c *gin.Context) {
	p, ok := location.SavedPlace(c.Param("name"))
	if !ok {
		writeError(c, http.StatusNotFound, "unknown saved place")
		return
	}
	writeJSON(c, http.StatusOK, p)
}

func (h *LocationHandler) Geocode(c *gin.Context) {
	p, err := h.geocoder.Geocode(c.Request.Context(), c.Query("address"))
	if err != nil {
		writeLocationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

func (h *LocationHandler) Reverse(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	p, err := h.geocoder.ReverseGeocode(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	if err != nil {
		writeLocationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// Current resolves the device position. Without a locator the request is
// treated like a denied permission prompt.
func (h *LocationHandler) Current(c *gin.Context) {
	if h.locator == nil {
		writeLocationError(c, location.ErrPermissionDenied)
		return
	}
	p, err := location.CurrentPlace(c.Request.Context(), h.locator, h.geocoder)
	if err != nil {
		writeLocationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}
