// README: App wires configuration into the ride/order trackers and their backing store.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yksu0/GoTawee/internal/config"
	"github.com/yksu0/GoTawee/internal/infra"
	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/modules/matching"
	"github.com/yksu0/GoTawee/internal/modules/order"
	"github.com/yksu0/GoTawee/internal/modules/pricing"
	"github.com/yksu0/GoTawee/internal/modules/ride"
	"github.com/yksu0/GoTawee/internal/schedule"
	"github.com/yksu0/GoTawee/internal/tracking"
)

// App holds every long-lived component of a running simulator.
type App struct {
	Rides    *ride.Tracker
	Orders   *order.Tracker
	Pricing  *pricing.Service
	Geocoder *location.Geocoder
	Hub      *tracking.Hub
	Store    ride.Store

	closers []func()
}

// Options lets a binary tap into ride updates or swap the scheduler.
type Options struct {
	Scheduler schedule.Scheduler
	OnUpdate  func(ride.Update)
}

// New builds the store selected by cfg.Store.Backend and the trackers on top
// of it. Nothing is started; call Rides.Resume or Rides.Book.
func New(ctx context.Context, cfg config.Config, logger *logrus.Logger, opts Options) (*App, error) {
	app := &App{}

	store, err := app.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	sched := opts.Scheduler
	if sched == nil {
		sched = schedule.NewLoop()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	app.Pricing = pricing.NewService(nil)
	app.Geocoder = location.NewGeocoder(cfg.Geocode.Delay, rng)
	app.Hub = tracking.NewHub(logger)
	app.closers = append(app.closers, app.Hub.Close)

	rideCfg := RideConfig(cfg.Tracking)
	app.Rides = ride.NewTracker(rideCfg, ride.Deps{
		Scheduler: sched,
		Store:     store,
		Logger:    logger,
		Notify: func(u ride.Update) {
			app.Hub.Broadcast(u)
			if opts.OnUpdate != nil {
				opts.OnUpdate(u)
			}
		},
		Pricing:    app.Pricing,
		Geocoder:   app.Geocoder,
		Dispatcher: matching.NewDispatcher(nil, rideCfg.DriverStartOffsetKm, rng),
	})

	app.Orders = order.NewTracker(OrderConfig(cfg.Order), sched, logger, nil)
	if cfg.Order.AutoAdvance {
		app.Orders.StartAutoAdvance()
		app.Orders.StartCountdown()
	}
	return app, nil
}

// Close stops all timers and releases the store connection. The persisted
// ride is kept for the next run.
func (a *App) Close() {
	a.Rides.Close()
	a.Orders.Stop()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (ride.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return ride.NewMemoryStore(), nil
	case config.BackendFile:
		return ride.NewFileStore(cfg.Store.FilePath), nil
	case config.BackendRedis:
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		return ride.NewRedisStore(rdb, cfg.Store.Key), nil
	case config.BackendPostgres:
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		return ride.NewPostgresStore(pool, cfg.Store.Key), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func RideConfig(c config.TrackingConfig) ride.Config {
	return ride.Config{
		TickInterval:        c.TickInterval,
		ETARefresh:          c.ETARefresh,
		PickupDelay:         c.PickupDelay,
		TripDelay:           c.TripDelay,
		ArrivalThresholdKm:  c.ArrivalThresholdKm,
		StepFraction:        c.StepFraction,
		DriverStartOffsetKm: c.DriverStartOffsetKm,
	}
}

func OrderConfig(c config.OrderConfig) order.Config {
	return order.Config{
		InitialStep:       order.Step(c.InitialStep),
		StepInterval:      c.StepInterval,
		CountdownInterval: c.CountdownInterval,
		CountdownStart:    c.CountdownMinutes,
	}
}
