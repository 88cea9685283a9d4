// README: Driver roster and dispatch constants for the simulated matching step.
package matching

import "github.com/yksu0/GoTawee/internal/types"

// Driver is a roster entry. Position is filled in by Dispatcher.Assign.
type Driver struct {
	ID           types.ID
	Name         string
	Rating       float64
	TotalRides   int
	Phone        string
	VehicleMake  string
	VehiclePlate string
	VehicleColor string
	Position     types.Point
}

// DefaultRoster is the fixed set of demo drivers.
var DefaultRoster = []Driver{
	{
		ID:           "driver_001",
		Name:         "Carlos Santos",
		Rating:       4.9,
		TotalRides:   245,
		Phone:        "+63 912 345 6789",
		VehicleMake:  "Honda Civic",
		VehiclePlate: "ABC-1234",
		VehicleColor: "Silver",
	},
	{
		ID:           "driver_002",
		Name:         "Miguel Santos",
		Rating:       4.8,
		TotalRides:   198,
		Phone:        "+63 917 555 0142",
		VehicleMake:  "Toyota Vios",
		VehiclePlate: "NBG-4821",
		VehicleColor: "White",
	},
	{
		ID:           "driver_003",
		Name:         "Ana Reyes",
		Rating:       4.7,
		TotalRides:   132,
		Phone:        "+63 918 220 7719",
		VehicleMake:  "Mitsubishi Mirage",
		VehiclePlate: "TWT-3305",
		VehicleColor: "Red",
	},
}

// defaultStartOffsetKm places a new driver this far from pickup when the
// dispatcher is not configured otherwise.
const defaultStartOffsetKm = 1.0
