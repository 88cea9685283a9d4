// README: Fare quote handler.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/modules/pricing"
	"github.com/yksu0/GoTawee/internal/types"
)

type FareHandler struct {
	pricing *pricing.Service
}

func NewFareHandler(svc *pricing.Service) *FareHandler {
	return &FareHandler{pricing: svc}
}

type quoteResp struct {
	VehicleClass    string             `json:"vehicleClass"`
	DistanceKm      float64            `json:"distanceKm"`
	DurationMinutes int                `json:"durationMinutes"`
	Fare            int64              `json:"fare"`
	Currency        string             `json:"currency"`
	Breakdown       map[string]float64 `json:"breakdown"`
}

// Quote prices a trip given either distance_km or pickup/destination
// coordinates. Without a vehicle every class is quoted.
func (h *FareHandler) Quote(c *gin.Context) {
	km, ok := distanceFromQuery(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "distance_km or pickup/destination coordinates required")
		return
	}

	classes := h.pricing.Classes()
	if v := c.Query("vehicle"); v != "" {
		classes = []string{v}
	}

	out := make([]quoteResp, 0, len(classes))
	for _, class := range classes {
		res, err := h.pricing.Estimate(pricing.PricingRequest{VehicleClass: class, DistanceKm: km})
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		out = append(out, quoteResp{
			VehicleClass:    res.VehicleClass,
			DistanceKm:      res.DistanceKm,
			DurationMinutes: res.DurationMinutes,
			Fare:            res.Total.Amount,
			Currency:        res.Total.Currency,
			Breakdown:       res.Breakdown,
		})
	}
	writeJSON(c, http.StatusOK, map[string]any{"quotes": out})
}

func distanceFromQuery(c *gin.Context) (float64, bool) {
	if raw := c.Query("distance_km"); raw != "" {
		km, err := strconv.ParseFloat(raw, 64)
		return km, err == nil && pricing.ValidDistance(km)
	}
	var vals [4]float64
	for i, key := range []string{"pickup_lat", "pickup_lng", "dest_lat", "dest_lng"} {
		v, err := strconv.ParseFloat(c.Query(key), 64)
		if err != nil {
			return 0, false
		}
		vals[i] = v
	}
	return location.DistanceKm(
		types.Point{Lat: vals[0], Lng: vals[1]},
		types.Point{Lat: vals[2], Lng: vals[3]},
	), true
}
