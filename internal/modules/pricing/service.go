// README: Pricing service computes fare quotes and trip duration estimates.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/yksu0/GoTawee/internal/types"
)

var (
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
	ErrInvalidDistance     = errors.New("invalid distance")
)

const (
	minDurationMinutes = 5
	// MaxDistanceKm is half the Earth's circumference; no two points on the
	// surface are further apart.
	MaxDistanceKm = 20038.0
)

type Service struct {
	rates map[string]Rate
}

// NewService builds a quote service over rates; nil means DefaultRates.
func NewService(rates []Rate) *Service {
	if rates == nil {
		rates = DefaultRates
	}
	m := make(map[string]Rate, len(rates))
	for _, r := range rates {
		m[r.VehicleClass] = r
	}
	return &Service{rates: m}
}

// Classes lists the known vehicle classes in name order.
func (s *Service) Classes() []string {
	out := make([]string, 0, len(s.rates))
	for c := range s.rates {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Quote returns round(base + perKm*distanceKm), rounding halves up.
func (s *Service) Quote(vehicleClass string, distanceKm float64) (types.Money, error) {
	res, err := s.Estimate(PricingRequest{VehicleClass: vehicleClass, DistanceKm: distanceKm})
	if err != nil {
		return types.Money{}, err
	}
	return res.Total, nil
}

func (s *Service) Estimate(req PricingRequest) (PricingResult, error) {
	rate, ok := s.rates[req.VehicleClass]
	if !ok {
		return PricingResult{}, fmt.Errorf("%w: %q", ErrUnknownVehicleClass, req.VehicleClass)
	}
	if !ValidDistance(req.DistanceKm) {
		return PricingResult{}, fmt.Errorf("%w: %v km", ErrInvalidDistance, req.DistanceKm)
	}

	distanceCharge := float64(rate.PerKm) * req.DistanceKm
	total := roundHalfUp(float64(rate.BaseFare) + distanceCharge)

	return PricingResult{
		VehicleClass:    rate.VehicleClass,
		DistanceKm:      req.DistanceKm,
		DurationMinutes: EstimateDurationMinutes(req.DistanceKm),
		Total:           types.Money{Amount: total, Currency: rate.Currency},
		Breakdown: map[string]float64{
			"base":     float64(rate.BaseFare),
			"distance": distanceCharge,
		},
	}, nil
}

// EstimateDurationMinutes is two minutes per kilometre with a five minute floor.
func EstimateDurationMinutes(distanceKm float64) int {
	m := int(roundHalfUp(distanceKm * 2))
	if m < minDurationMinutes {
		return minDurationMinutes
	}
	return m
}

// ValidDistance reports whether km is a finite distance in [0, MaxDistanceKm].
func ValidDistance(km float64) bool {
	return !math.IsNaN(km) && !math.IsInf(km, 0) && km >= 0 && km <= MaxDistanceKm
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
