// README: Ride lifecycle simulator drives one record through its statuses on scheduler timers.
package ride

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/observability"
	"github.com/yksu0/GoTawee/internal/schedule"
)

const persistTimeout = 2 * time.Second

type Config struct {
	TickInterval       time.Duration
	ETARefresh         time.Duration
	PickupDelay        time.Duration
	TripDelay          time.Duration
	ArrivalThresholdKm float64
	StepFraction       float64
	// DriverStartOffsetKm is how far from pickup a freshly booked driver starts.
	DriverStartOffsetKm float64
}

func DefaultConfig() Config {
	return Config{
		TickInterval:        3 * time.Second,
		ETARefresh:          30 * time.Second,
		PickupDelay:         30 * time.Second,
		TripDelay:           60 * time.Second,
		ArrivalThresholdKm:  0.1,
		StepFraction:        0.1,
		DriverStartOffsetKm: 1,
	}
}

// SimulatorDeps are the collaborators of a Simulator. Notify is called while
// the simulator lock is held and must not call back into the Simulator.
type SimulatorDeps struct {
	Scheduler schedule.Scheduler
	Store     Store
	Logger    *logrus.Logger
	Notify    func(Update)
}

// Simulator owns one ride record. Timer callbacks and control calls are
// serialized by mu, so every transition together with its persistence and
// notification is applied as one step.
type Simulator struct {
	mu     sync.Mutex
	cfg    Config
	sched  schedule.Scheduler
	store  Store
	log    *logrus.Entry
	notify func(Update)

	rec     *Record
	tick    schedule.Timer
	eta     schedule.Timer
	phase   schedule.Timer
	stopped bool
}

func NewSimulator(rec Record, cfg Config, deps SimulatorDeps) *Simulator {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	notify := deps.Notify
	if notify == nil {
		notify = func(Update) {}
	}
	r := rec
	return &Simulator{
		cfg:    cfg,
		sched:  deps.Scheduler,
		store:  deps.Store,
		log:    logger.WithField("ride_id", rec.ID),
		notify: notify,
		rec:    &r,
	}
}

// Start arms the timers the current status needs. A restored record resumes
// from its persisted status; phase delays restart from zero.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.rec == nil {
		return
	}

	switch s.rec.Status {
	case StatusDriverEnRoute:
		s.tick = s.sched.Every(s.cfg.TickInterval, s.Tick)
	case StatusArrived:
		s.phase = s.sched.After(s.cfg.PickupDelay, s.pickupDue)
	case StatusPickedUp:
		s.phase = s.sched.After(s.cfg.TripDelay, s.tripDue)
	}
	if !s.rec.Status.Terminal() {
		s.eta = s.sched.Every(s.cfg.ETARefresh, s.refreshETA)
	}
	s.log.WithField("status", s.rec.Status).Info("ride simulation started")
}

// Tick moves the driver a fixed fraction of the way to pickup and marks the
// driver arrived once inside the threshold. It does nothing outside
// driver_en_route.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.rec == nil || s.rec.Status != StatusDriverEnRoute {
		return
	}
	observability.RideTicks.Inc()

	pickup := s.rec.Pickup.Point()
	s.rec.Driver.Location = location.StepToward(s.rec.Driver.Location, pickup, s.cfg.StepFraction)

	if location.DistanceKm(s.rec.Driver.Location, pickup) < s.cfg.ArrivalThresholdKm {
		s.transitionLocked(StatusArrived)
		return
	}
	s.emitLocked(EventMoved)
}

// Advance moves the ride to the given status, which must be the next one.
// A stopped simulator has been superseded and reports ErrNoRide.
func (s *Simulator) Advance(to Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.rec == nil {
		return ErrNoRide
	}
	if !s.transitionLocked(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, s.rec.Status, to)
	}
	return nil
}

// Cancel stops every timer and removes the record, both in memory and in the
// store. A completed ride cannot be cancelled.
func (s *Simulator) Cancel(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.rec == nil {
		return "", ErrNoRide
	}
	if s.rec.Status.Terminal() {
		return "", fmt.Errorf("%w: ride already %s", ErrInvalidState, s.rec.Status)
	}

	s.stopTimersLocked()
	if err := s.store.Delete(ctx); err != nil {
		observability.PersistenceFailures.WithLabelValues("delete").Inc()
		s.log.WithError(err).Warn("delete cancelled ride failed")
	}
	observability.RideCancellations.Inc()
	s.log.WithField("status", s.rec.Status).Info("ride cancelled")

	id := s.rec.ID
	s.rec = nil
	s.notify(Update{Event: EventCancelled, RideID: id, At: s.sched.Now()})
	return CancellationWarning, nil
}

// Stop clears all timers and leaves the record as is.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.stopTimersLocked()
}

// Record returns a copy of the current record; false after cancellation.
func (s *Simulator) Record() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return Record{}, false
	}
	return *s.rec, true
}

func (s *Simulator) View() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return View{}, false
	}
	return Project(*s.rec, s.sched.Now()), true
}

func (s *Simulator) pickupDue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.rec == nil {
		return
	}
	s.transitionLocked(StatusPickedUp)
}

func (s *Simulator) tripDue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.rec == nil {
		return
	}
	s.transitionLocked(StatusCompleted)
}

func (s *Simulator) refreshETA() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.rec == nil || s.rec.Status.Terminal() {
		return
	}
	s.emitLocked(EventETA)
}

// transitionLocked applies one status change with its side effects. It
// returns false, changing nothing, when the move is not allowed; a late or
// duplicate timer therefore cannot fire a transition twice.
func (s *Simulator) transitionLocked(to Status) bool {
	from := s.rec.Status
	if s.stopped || !CanTransition(from, to) {
		return false
	}
	now := s.sched.Now()
	s.rec.Status = to

	stopTimer(&s.phase)
	switch to {
	case StatusArrived:
		stopTimer(&s.tick)
		s.phase = s.sched.After(s.cfg.PickupDelay, s.pickupDue)
	case StatusPickedUp:
		s.rec.EstimatedArrival = now.Add(time.Duration(s.rec.EstimatedDuration) * time.Minute)
		s.phase = s.sched.After(s.cfg.TripDelay, s.tripDue)
	case StatusCompleted:
		s.rec.EstimatedArrival = now
		s.stopTimersLocked()
	}

	s.persistLocked()
	observability.RideTransitions.WithLabelValues(string(to)).Inc()
	s.log.WithFields(logrus.Fields{"from": from, "status": to}).Info("ride status changed")
	s.emitLocked(EventTransition)
	return true
}

// persistLocked saves the record. Failure is logged and counted; the
// in-memory transition stands regardless.
func (s *Simulator) persistLocked() {
	if s.stopped {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := SaveRecord(ctx, s.store, *s.rec); err != nil {
		observability.PersistenceFailures.WithLabelValues("save").Inc()
		entry := s.log.WithError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			entry = entry.WithField("timeout", persistTimeout)
		}
		entry.Warn("persist ride failed, continuing in memory")
	}
}

func (s *Simulator) emitLocked(ev Event) {
	rec := *s.rec
	view := Project(rec, s.sched.Now())
	s.notify(Update{Event: ev, RideID: rec.ID, Record: &rec, View: &view, At: s.sched.Now()})
}

func (s *Simulator) stopTimersLocked() {
	stopTimer(&s.tick)
	stopTimer(&s.eta)
	stopTimer(&s.phase)
}

func stopTimer(t *schedule.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
