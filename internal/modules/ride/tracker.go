// README: Tracker is the context object owning the current ride, its booking and its simulator.
package ride

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/modules/matching"
	"github.com/yksu0/GoTawee/internal/modules/pricing"
	"github.com/yksu0/GoTawee/internal/observability"
	"github.com/yksu0/GoTawee/internal/schedule"
	"github.com/yksu0/GoTawee/internal/types"
)

type Pricing interface {
	Quote(vehicleClass string, distanceKm float64) (types.Money, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (location.Place, error)
}

type Dispatcher interface {
	Assign(ctx context.Context, pickup types.Point) (matching.Driver, error)
}

type Deps struct {
	Scheduler  schedule.Scheduler
	Store      Store
	Logger     *logrus.Logger
	Notify     func(Update)
	Pricing    Pricing
	Geocoder   Geocoder
	Dispatcher Dispatcher
}

// Tracker holds at most one simulator. Booking replaces it; cancellation
// leaves it without a record.
type Tracker struct {
	mu   sync.Mutex
	cfg  Config
	deps Deps
	log  *logrus.Logger
	sim  *Simulator
}

func NewTracker(cfg Config, deps Deps) *Tracker {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Notify == nil {
		deps.Notify = func(Update) {}
	}
	return &Tracker{cfg: cfg, deps: deps, log: deps.Logger}
}

type BookCommand struct {
	Pickup       Place
	Destination  Place
	VehicleClass string
}

// bookingETA is the driver arrival promised at booking time.
const bookingETA = 5 * time.Minute

func NewID() types.ID {
	return types.ID("ride_" + uuid.NewString())
}

// Resume loads the persisted ride, or the demo ride when none is usable, and
// starts simulating it.
func (t *Tracker) Resume(ctx context.Context) Record {
	now := t.deps.Scheduler.Now()
	rec, restored := LoadOrDefault(ctx, t.deps.Store, now, t.log.WithField("component", "ride"))

	t.mu.Lock()
	defer t.mu.Unlock()
	t.replaceLocked(rec, EventResumed)
	t.log.WithFields(logrus.Fields{"ride_id": rec.ID, "status": rec.Status, "restored": restored}).Info("ride resumed")
	return rec
}

// Book validates the request, resolves missing coordinates, quotes the fare,
// assigns a driver and makes the new ride current.
func (t *Tracker) Book(ctx context.Context, cmd BookCommand) (Record, error) {
	cmd.Pickup.Address = strings.TrimSpace(cmd.Pickup.Address)
	cmd.Destination.Address = strings.TrimSpace(cmd.Destination.Address)
	cmd.VehicleClass = strings.TrimSpace(cmd.VehicleClass)

	var missing []string
	if cmd.Pickup.Address == "" {
		missing = append(missing, "pickup")
	}
	if cmd.Destination.Address == "" {
		missing = append(missing, "destination")
	}
	if cmd.VehicleClass == "" {
		missing = append(missing, "vehicleClass")
	}
	if len(missing) > 0 {
		return Record{}, &ValidationError{Fields: missing}
	}
	if _, err := t.deps.Pricing.Quote(cmd.VehicleClass, 0); err != nil {
		if errors.Is(err, pricing.ErrUnknownVehicleClass) {
			return Record{}, &ValidationError{Fields: []string{"vehicleClass"}}
		}
		return Record{}, err
	}

	pickup, err := t.resolve(ctx, cmd.Pickup)
	if err != nil {
		return Record{}, fmt.Errorf("resolve pickup: %w", err)
	}
	dest, err := t.resolve(ctx, cmd.Destination)
	if err != nil {
		return Record{}, fmt.Errorf("resolve destination: %w", err)
	}

	distance := location.DistanceKm(pickup.Point(), dest.Point())
	fare, err := t.deps.Pricing.Quote(cmd.VehicleClass, distance)
	if err != nil {
		return Record{}, err
	}
	drv, err := t.deps.Dispatcher.Assign(ctx, pickup.Point())
	if err != nil {
		return Record{}, fmt.Errorf("assign driver: %w", err)
	}

	now := t.deps.Scheduler.Now()
	rec := Record{
		ID:     NewID(),
		Status: StatusDriverEnRoute,
		Driver: Driver{
			ID:         drv.ID,
			Name:       drv.Name,
			Rating:     drv.Rating,
			TotalRides: drv.TotalRides,
			Phone:      drv.Phone,
			Vehicle: Vehicle{
				Make:  drv.VehicleMake,
				Plate: drv.VehiclePlate,
				Color: drv.VehicleColor,
			},
			Location: drv.Position,
		},
		Pickup:            pickup,
		Destination:       dest,
		Fare:              fare.Amount,
		Distance:          distance,
		EstimatedDuration: pricing.EstimateDurationMinutes(distance),
		VehicleClass:      cmd.VehicleClass,
		BookingTime:       now,
		EstimatedArrival:  now.Add(bookingETA),
	}

	// The old simulator is stopped before the new record is written so none
	// of its timers can overwrite it.
	t.mu.Lock()
	if t.sim != nil {
		t.sim.Stop()
	}
	if err := SaveRecord(ctx, t.deps.Store, rec); err != nil {
		observability.PersistenceFailures.WithLabelValues("save").Inc()
		t.log.WithError(err).WithField("ride_id", rec.ID).Warn("persist booked ride failed, continuing in memory")
	}
	t.replaceLocked(rec, EventBooked)
	t.mu.Unlock()

	observability.RideBookings.WithLabelValues(cmd.VehicleClass).Inc()
	t.log.WithFields(logrus.Fields{
		"ride_id":       rec.ID,
		"vehicle_class": rec.VehicleClass,
		"fare":          rec.Fare,
		"distance_km":   rec.Distance,
		"driver":        rec.Driver.Name,
	}).Info("ride booked")
	return rec, nil
}

// Current returns the current record and its view.
func (t *Tracker) Current() (Record, View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sim := t.sim
	if sim == nil {
		return Record{}, View{}, ErrNoRide
	}
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if sim.rec == nil {
		return Record{}, View{}, ErrNoRide
	}
	return *sim.rec, Project(*sim.rec, sim.sched.Now()), nil
}

// Advance moves the current ride to to, or to its next status when to is empty.
func (t *Tracker) Advance(to Status) (Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sim := t.sim
	if sim == nil {
		return Record{}, ErrNoRide
	}
	if to == "" {
		rec, ok := sim.Record()
		if !ok {
			return Record{}, ErrNoRide
		}
		next, ok := rec.Status.Next()
		if !ok {
			return Record{}, fmt.Errorf("%w: ride already %s", ErrInvalidState, rec.Status)
		}
		to = next
	}
	if err := sim.Advance(to); err != nil {
		return Record{}, err
	}
	rec, _ := sim.Record()
	return rec, nil
}

// Cancel removes the current ride and returns the warning shown to the rider.
func (t *Tracker) Cancel(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sim := t.sim
	if sim == nil {
		return "", ErrNoRide
	}
	return sim.Cancel(ctx)
}

// Close stops all timers. The persisted record is left in place.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sim != nil {
		t.sim.Stop()
	}
}

func (t *Tracker) replaceLocked(rec Record, ev Event) {
	if t.sim != nil {
		t.sim.Stop()
	}
	t.sim = NewSimulator(rec, t.cfg, SimulatorDeps{
		Scheduler: t.deps.Scheduler,
		Store:     t.deps.Store,
		Logger:    t.deps.Logger,
		Notify:    t.deps.Notify,
	})
	t.sim.mu.Lock()
	t.sim.emitLocked(ev)
	t.sim.mu.Unlock()
	t.sim.Start()
}

func (t *Tracker) resolve(ctx context.Context, p Place) (Place, error) {
	if p.HasCoordinates() {
		return p, nil
	}
	if saved, ok := location.SavedPlace(p.Address); ok {
		return Place{Address: saved.Address, Lat: saved.Point.Lat, Lng: saved.Point.Lng}, nil
	}
	resolved, err := t.deps.Geocoder.Geocode(ctx, p.Address)
	if err != nil {
		return Place{}, err
	}
	return Place{Address: resolved.Address, Lat: resolved.Point.Lat, Lng: resolved.Point.Lng}, nil
}
