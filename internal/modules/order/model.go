// README: Order tracking steps, their display data and the snapshot handed to views.
package order

import (
	"fmt"
	"time"
)

type Step int

const (
	StepPlaced Step = iota
	StepPreparing
	StepOnTheWay
	StepDelivered
)

type stepInfo struct {
	key      string
	title    string
	subtitle string
	progress int
}

var steps = [...]stepInfo{
	StepPlaced:    {key: "placed", title: "Order Placed", subtitle: "Your order has been confirmed", progress: 0},
	StepPreparing: {key: "preparing", title: "Preparing Your Order", subtitle: "The restaurant is carefully preparing your food", progress: 25},
	StepOnTheWay:  {key: "on-the-way", title: "On the Way", subtitle: "Your order is being delivered", progress: 60},
	StepDelivered: {key: "delivered", title: "Order Delivered!", subtitle: "Enjoy your meal!", progress: 100},
}

// showDriverFrom is the first step at which courier details and the map are shown.
const showDriverFrom = StepOnTheWay

func (s Step) Valid() bool {
	return s >= StepPlaced && s <= StepDelivered
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return steps[s].key
}

func (s Step) Progress() int {
	if !s.Valid() {
		return 0
	}
	return steps[s].progress
}

// ParseStep accepts a step key such as "on-the-way".
func ParseStep(key string) (Step, error) {
	for i, info := range steps {
		if info.key == key {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStep, key)
}

type StepState string

const (
	StateCompleted StepState = "completed"
	StateActive    StepState = "active"
	StatePending   StepState = "pending"
)

type TimelineEntry struct {
	Step  string    `json:"step"`
	Title string    `json:"title"`
	State StepState `json:"state"`
}

// Courier is who delivers restaurant orders in the demo.
type Courier struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

var DefaultCourier = Courier{Name: "Miguel Santos", Phone: "+63 917 555 0142"}

type Snapshot struct {
	Index            int             `json:"index"`
	Step             string          `json:"step"`
	Title            string          `json:"title"`
	Subtitle         string          `json:"subtitle"`
	Progress         int             `json:"progress"`
	ShowDriver       bool            `json:"showDriver"`
	Courier          *Courier        `json:"courier,omitempty"`
	Timeline         []TimelineEntry `json:"timeline"`
	MinutesRemaining int             `json:"minutesRemaining"`
	EstimatedTime    string          `json:"estimatedTime"`
	At               time.Time       `json:"at"`
}

func snapshotOf(step Step, minutes int, at time.Time) Snapshot {
	info := steps[step]
	snap := Snapshot{
		Index:            int(step),
		Step:             info.key,
		Title:            info.title,
		Subtitle:         info.subtitle,
		Progress:         info.progress,
		ShowDriver:       step >= showDriverFrom,
		Timeline:         make([]TimelineEntry, len(steps)),
		MinutesRemaining: minutes,
		EstimatedTime:    FormatCountdown(minutes),
		At:               at,
	}
	if snap.ShowDriver {
		c := DefaultCourier
		snap.Courier = &c
	}
	for i, s := range steps {
		state := StatePending
		switch {
		case Step(i) < step:
			state = StateCompleted
		case Step(i) == step:
			state = StateActive
		}
		snap.Timeline[i] = TimelineEntry{Step: s.key, Title: s.title, State: state}
	}
	return snap
}

// FormatCountdown renders the delivery countdown text.
func FormatCountdown(minutes int) string {
	switch {
	case minutes <= 0:
		return "Arriving soon!"
	case minutes == 1:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}
