package ride

import (
	"fmt"
	"math"
	"time"

	"github.com/yksu0/GoTawee/internal/modules/location"
)

const (
	colorEnRoute = "#FDBC22"
	colorActive  = "#237E56"
)

// View is the display projection of a record. It holds no state of its own
// and is recomputed on every change.
type View struct {
	Status           Status  `json:"status"`
	StatusText       string  `json:"statusText"`
	IndicatorColor   string  `json:"indicatorColor"`
	Progress         int     `json:"progress"`
	ActiveStep       int     `json:"activeStep"`
	ETAMinutes       int     `json:"etaMinutes"`
	ETA              string  `json:"eta"`
	DriverDistanceKm float64 `json:"driverDistanceKm"`
}

type statusDisplay struct {
	text     string
	color    string
	progress int
	step     int
}

var displays = map[Status]statusDisplay{
	StatusDriverEnRoute: {text: "Driver En Route", color: colorEnRoute, progress: 25, step: 1},
	StatusArrived:       {text: "Driver Arrived", color: colorActive, progress: 50, step: 2},
	StatusPickedUp:      {text: "In Transit", color: colorActive, progress: 75, step: 2},
	StatusCompleted:     {text: "Trip Complete", color: colorActive, progress: 100, step: 3},
}

// Project renders rec as seen at now.
func Project(rec Record, now time.Time) View {
	d := displays[rec.Status]
	mins := ETAMinutes(rec.EstimatedArrival, now)
	return View{
		Status:           rec.Status,
		StatusText:       d.text,
		IndicatorColor:   d.color,
		Progress:         d.progress,
		ActiveStep:       d.step,
		ETAMinutes:       mins,
		ETA:              FormatETA(mins),
		DriverDistanceKm: location.DistanceKm(rec.Driver.Location, rec.Pickup.Point()),
	}
}

// ETAMinutes rounds the time left up to whole minutes, never below zero.
func ETAMinutes(eta, now time.Time) int {
	left := eta.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Minutes()))
}

func FormatETA(mins int) string {
	if mins <= 0 {
		return "Arrived"
	}
	return fmt.Sprintf("%d min", mins)
}

// ShareText is the trip summary a rider can pass on to a contact.
func ShareText(rec Record) string {
	return fmt.Sprintf("I'm currently on a Go Tawee ride. Driver: %s, Vehicle: %s %s. Trip ID: %s",
		rec.Driver.Name, rec.Driver.Vehicle.Make, rec.Driver.Vehicle.Plate, rec.ID)
}
