// README: Timer scheduling for the simulated real-time flows (ride tick, ETA refresh, phase delays).
package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a pending callback. Stop reports whether it prevented any further
// run; once Stop returns the callback is never started again.
type Timer interface {
	Stop() bool
}

// Scheduler is the only source of time for the state machines, so tests can
// replace it with Fake and never wait on the wall clock.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// Loop runs callbacks on real timers. All callbacks share one mutex, so each
// runs to completion before the next starts and none overlap.
type Loop struct {
	mu    sync.Mutex
	speed float64
	start time.Time
}

func NewLoop() *Loop {
	return NewScaledLoop(1)
}

// NewScaledLoop runs time speed times faster than the wall clock. Now advances
// at the same rate so ETAs stay consistent with the shortened delays.
func NewScaledLoop(speed float64) *Loop {
	if speed <= 0 {
		speed = 1
	}
	return &Loop{speed: speed, start: time.Now()}
}

func (l *Loop) Now() time.Time {
	if l.speed == 1 {
		return time.Now()
	}
	elapsed := time.Since(l.start)
	return l.start.Add(time.Duration(float64(elapsed) * l.speed))
}

func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(l.scale(d), func() {
		l.run(t, fn)
	})
	return t
}

func (l *Loop) Every(d time.Duration, fn func()) Timer {
	t := &loopTimer{done: make(chan struct{})}
	ticker := time.NewTicker(l.scale(d))
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				l.run(t, fn)
			}
		}
	}()
	return t
}

func (l *Loop) run(t *loopTimer, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.stopped.Load() {
		return
	}
	fn()
}

func (l *Loop) scale(d time.Duration) time.Duration {
	if l.speed == 1 {
		return d
	}
	scaled := time.Duration(float64(d) / l.speed)
	if scaled <= 0 {
		scaled = time.Millisecond
	}
	return scaled
}

type loopTimer struct {
	timer   *time.Timer
	done    chan struct{}
	stopped atomic.Bool
	once    sync.Once
}

func (t *loopTimer) Stop() bool {
	first := false
	t.once.Do(func() {
		first = true
		t.stopped.Store(true)
		if t.timer != nil {
			t.timer.Stop()
		}
		if t.done != nil {
			close(t.done)
		}
	})
	return first
}
