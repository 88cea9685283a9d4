// README: Terminal demo; books or resumes a ride and prints every update until it completes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/yksu0/GoTawee/internal/config"
	"github.com/yksu0/GoTawee/internal/logging"
	"github.com/yksu0/GoTawee/internal/modules/ride"
	"github.com/yksu0/GoTawee/internal/schedule"
	"github.com/yksu0/GoTawee/internal/service"
)

type Flags struct {
	Speed       float64
	Vehicle     string
	Pickup      string
	Destination string
	Resume      bool
}

func loadFlags() Flags {
	var f Flags
	flag.Float64Var(&f.Speed, "speed", 10, "Simulation speed multiplier")
	flag.StringVar(&f.Vehicle, "vehicle", "standard", "Vehicle class: standard, premium or shared")
	flag.StringVar(&f.Pickup, "pickup", "home", "Pickup address or saved place")
	flag.StringVar(&f.Destination, "destination", "work", "Destination address or saved place")
	flag.BoolVar(&f.Resume, "resume", false, "Resume the persisted ride instead of booking")
	flag.Parse()
	return f
}

func main() {
	flags := loadFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Log to stderr so stdout only carries the ride feed.
	logger := logging.NewWithOutput(cfg.Log.Level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	var finish sync.Once
	app, err := service.New(ctx, cfg, logger, service.Options{
		Scheduler: schedule.NewScaledLoop(flags.Speed),
		OnUpdate: func(u ride.Update) {
			printUpdate(u)
			if u.Event == ride.EventCancelled || (u.Record != nil && u.Record.Status.Terminal()) {
				finish.Do(func() { close(done) })
			}
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("build app")
	}
	defer app.Close()

	if flags.Resume {
		app.Rides.Resume(ctx)
	} else {
		_, err := app.Rides.Book(ctx, ride.BookCommand{
			Pickup:       ride.Place{Address: flags.Pickup},
			Destination:  ride.Place{Address: flags.Destination},
			VehicleClass: flags.Vehicle,
		})
		if err != nil {
			logger.WithError(err).Fatal("book ride")
		}
	}

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Println("interrupted; ride kept for -resume")
	}
}

func printUpdate(u ride.Update) {
	if u.Record == nil {
		fmt.Printf("%s  %-10s %s\n", u.At.Format("15:04:05"), u.Event, u.RideID)
		return
	}
	fmt.Printf("%s  %-10s %-16s %-22s driver %.2f km away  ETA %s  fare %d\n",
		u.At.Format("15:04:05"), u.Event, u.Record.Status, u.View.StatusText,
		u.View.DriverDistanceKm, u.View.ETA, u.Record.Fare)
}
