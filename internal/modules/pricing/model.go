// README: Pricing rate definition for each vehicle class.
package pricing

import "github.com/yksu0/GoTawee/internal/types"

const (
	VehicleStandard = "standard"
	VehiclePremium  = "premium"
	VehicleShared   = "shared"
)

type Rate struct {
	VehicleClass string
	BaseFare     int64
	PerKm        int64
	Currency     string
}

// DefaultRates is the fixed tariff table of the booking screen.
var DefaultRates = []Rate{
	{VehicleClass: VehicleStandard, BaseFare: 50, PerKm: 15, Currency: types.DefaultCurrency},
	{VehicleClass: VehiclePremium, BaseFare: 80, PerKm: 25, Currency: types.DefaultCurrency},
	{VehicleClass: VehicleShared, BaseFare: 30, PerKm: 10, Currency: types.DefaultCurrency},
}

type PricingRequest struct {
	VehicleClass string
	DistanceKm   float64
}

type PricingResult struct {
	VehicleClass    string
	DistanceKm      float64
	DurationMinutes int
	Total           types.Money
	Breakdown       map[string]float64
}
