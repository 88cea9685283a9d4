// README: Ride record, status definitions and the view update envelope.
package ride

import (
	"time"

	"github.com/yksu0/GoTawee/internal/types"
)

type Status string

const (
	StatusDriverEnRoute Status = "driver_en_route"
	StatusArrived       Status = "arrived"
	StatusPickedUp      Status = "picked_up"
	StatusCompleted     Status = "completed"
)

// AllowedTransitions is the ride flow as code. Cancellation is not a state:
// it removes the record.
var AllowedTransitions = map[Status][]Status{
	StatusDriverEnRoute: {StatusArrived},
	StatusArrived:       {StatusPickedUp},
	StatusPickedUp:      {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Next returns the status that follows s, if any.
func (s Status) Next() (Status, bool) {
	next, ok := AllowedTransitions[s]
	if !ok || len(next) == 0 {
		return "", false
	}
	return next[0], true
}

func (s Status) Valid() bool {
	switch s {
	case StatusDriverEnRoute, StatusArrived, StatusPickedUp, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Record is the current ride. Its JSON form is the handoff blob shared by the
// booking and tracking flows.
type Record struct {
	ID                types.ID  `json:"id"`
	Status            Status    `json:"status"`
	Driver            Driver    `json:"driver"`
	Pickup            Place     `json:"pickup"`
	Destination       Place     `json:"destination"`
	Fare              int64     `json:"fare"`
	Distance          float64   `json:"distance"`
	EstimatedDuration int       `json:"estimatedDuration"`
	VehicleClass      string    `json:"vehicleClass,omitempty"`
	BookingTime       time.Time `json:"bookingTime"`
	EstimatedArrival  time.Time `json:"estimatedArrival"`
}

type Driver struct {
	ID         types.ID    `json:"id"`
	Name       string      `json:"name"`
	Rating     float64     `json:"rating"`
	TotalRides int         `json:"totalRides"`
	Phone      string      `json:"phone"`
	Vehicle    Vehicle     `json:"vehicle"`
	Location   types.Point `json:"location"`
}

type Vehicle struct {
	Make  string `json:"make"`
	Plate string `json:"plate"`
	Color string `json:"color"`
}

type Place struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (p Place) Point() types.Point {
	return types.Point{Lat: p.Lat, Lng: p.Lng}
}

func (p Place) HasCoordinates() bool {
	return !p.Point().IsZero()
}

type Event string

const (
	EventBooked     Event = "booked"
	EventResumed    Event = "resumed"
	EventMoved      Event = "moved"
	EventTransition Event = "transition"
	EventETA        Event = "eta"
	EventCancelled  Event = "cancelled"
)

// Update is handed to the view callback after every change. Record and View
// are copies; both are nil for EventCancelled.
type Update struct {
	Event  Event     `json:"event"`
	RideID types.ID  `json:"rideId"`
	Record *Record   `json:"record,omitempty"`
	View   *View     `json:"view,omitempty"`
	At     time.Time `json:"at"`
}
