// README: Order tracker steps a restaurant order through its fixed stages on scheduler timers.
package order

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yksu0/GoTawee/internal/observability"
	"github.com/yksu0/GoTawee/internal/schedule"
)

var (
	ErrInvalidStep = errors.New("invalid order step")
	ErrDelivered   = errors.New("order already delivered")
)

type Config struct {
	InitialStep       Step
	StepInterval      time.Duration
	CountdownInterval time.Duration
	CountdownStart    int
}

func DefaultConfig() Config {
	return Config{
		InitialStep:       StepPreparing,
		StepInterval:      10 * time.Second,
		CountdownInterval: time.Minute,
		CountdownStart:    28,
	}
}

// Tracker holds one order's step and delivery countdown. Notify runs under
// the tracker lock and must not call back into the Tracker.
type Tracker struct {
	mu     sync.Mutex
	cfg    Config
	sched  schedule.Scheduler
	log    *logrus.Entry
	notify func(Snapshot)

	step      Step
	minutes   int
	auto      schedule.Timer
	countdown schedule.Timer
}

func NewTracker(cfg Config, sched schedule.Scheduler, logger *logrus.Logger, notify func(Snapshot)) *Tracker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if notify == nil {
		notify = func(Snapshot) {}
	}
	step := cfg.InitialStep
	if !step.Valid() {
		step = StepPreparing
	}
	return &Tracker{
		cfg:     cfg,
		sched:   sched,
		log:     logger.WithField("component", "order"),
		notify:  notify,
		step:    step,
		minutes: cfg.CountdownStart,
	}
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshotOf(t.step, t.minutes, t.sched.Now())
}

// Jump sets the step directly, forwards or backwards, as the demo timeline
// allows.
func (t *Tracker) Jump(step Step) (Snapshot, error) {
	if !step.Valid() {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setStepLocked(step)
	return snapshotOf(t.step, t.minutes, t.sched.Now()), nil
}

// Advance moves exactly one step forward.
func (t *Tracker) Advance() (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.step == StepDelivered {
		return Snapshot{}, ErrDelivered
	}
	t.setStepLocked(t.step + 1)
	return snapshotOf(t.step, t.minutes, t.sched.Now()), nil
}

// StartAutoAdvance steps forward every StepInterval and stops itself once
// the order is delivered.
func (t *Tracker) StartAutoAdvance() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.auto != nil || t.step == StepDelivered {
		return
	}
	t.auto = t.sched.Every(t.cfg.StepInterval, t.autoStep)
}

// StartCountdown decrements the delivery estimate every CountdownInterval
// until it reaches zero.
func (t *Tracker) StartCountdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.countdown != nil || t.minutes <= 0 {
		return
	}
	t.countdown = t.sched.Every(t.cfg.CountdownInterval, t.countdownTick)
}

func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	stopTimer(&t.auto)
	stopTimer(&t.countdown)
}

func (t *Tracker) autoStep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.step < StepDelivered {
		t.setStepLocked(t.step + 1)
	}
	if t.step == StepDelivered {
		stopTimer(&t.auto)
	}
}

func (t *Tracker) countdownTick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.minutes > 0 {
		t.minutes--
	}
	if t.minutes == 0 {
		stopTimer(&t.countdown)
	}
	t.notify(snapshotOf(t.step, t.minutes, t.sched.Now()))
}

func (t *Tracker) setStepLocked(step Step) {
	from := t.step
	t.step = step
	if step == StepDelivered {
		stopTimer(&t.auto)
	}
	observability.OrderStepChanges.WithLabelValues(step.String()).Inc()
	t.log.WithFields(logrus.Fields{"from": from.String(), "step": step.String(), "progress": step.Progress()}).Info("order step changed")
	t.notify(snapshotOf(t.step, t.minutes, t.sched.Now()))
}

func stopTimer(t *schedule.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
