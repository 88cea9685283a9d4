package ride

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/modules/matching"
	"github.com/yksu0/GoTawee/internal/modules/pricing"
	"github.com/yksu0/GoTawee/internal/schedule"
)

type trackerFixture struct {
	tracker *Tracker
	clock   *schedule.Fake
	store   *MemoryStore
	rec     *recorder
}

func newTrackerFixture(t *testing.T) *trackerFixture {
	t.Helper()
	return newTrackerFixtureWithStore(t, NewMemoryStore())
}

func newTrackerFixtureWithStore(t *testing.T, store *MemoryStore) *trackerFixture {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	clock := schedule.NewFake(testEpoch)
	r := &recorder{}
	tr := NewTracker(DefaultConfig(), Deps{
		Scheduler:  clock,
		Store:      store,
		Logger:     logger,
		Notify:     r.notify,
		Pricing:    pricing.NewService(nil),
		Geocoder:   location.NewGeocoder(0, rand.New(rand.NewSource(3))),
		Dispatcher: matching.NewDispatcher(nil, 1, rand.New(rand.NewSource(5))),
	})
	t.Cleanup(tr.Close)
	return &trackerFixture{tracker: tr, clock: clock, store: store, rec: r}
}

func manilaBooking(class string) BookCommand {
	return BookCommand{
		Pickup:       Place{Address: "123 Main Street, Downtown", Lat: 14.5995, Lng: 120.9842},
		Destination:  Place{Address: "456 Oak Avenue, Uptown", Lat: 14.6091, Lng: 120.9947},
		VehicleClass: class,
	}
}

func TestTracker_BookValidation(t *testing.T) {
	tests := []struct {
		name       string
		cmd        BookCommand
		wantFields []string
	}{
		{
			name:       "everything missing",
			cmd:        BookCommand{},
			wantFields: []string{"pickup", "destination", "vehicleClass"},
		},
		{
			name:       "blank destination",
			cmd:        BookCommand{Pickup: Place{Address: "Home"}, Destination: Place{Address: "   "}, VehicleClass: "standard"},
			wantFields: []string{"destination"},
		},
		{
			name:       "unknown vehicle class",
			cmd:        BookCommand{Pickup: Place{Address: "Home"}, Destination: Place{Address: "Work"}, VehicleClass: "jeepney"},
			wantFields: []string{"vehicleClass"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTrackerFixture(t)
			_, err := f.tracker.Book(context.Background(), tt.cmd)

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantFields, verr.Fields)

			_, _, err = f.tracker.Current()
			assert.ErrorIs(t, err, ErrNoRide)
		})
	}
}

func TestTracker_BookWithCoordinates(t *testing.T) {
	f := newTrackerFixture(t)

	rec, err := f.tracker.Book(context.Background(), manilaBooking(pricing.VehicleStandard))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(rec.ID), "ride_"))
	assert.Equal(t, StatusDriverEnRoute, rec.Status)
	assert.InDelta(t, 1.55, rec.Distance, 0.05)
	assert.Equal(t, int64(73), rec.Fare)
	assert.Equal(t, 5, rec.EstimatedDuration)
	assert.Equal(t, "standard", rec.VehicleClass)
	assert.Equal(t, testEpoch, rec.BookingTime)
	assert.Equal(t, testEpoch.Add(5*time.Minute), rec.EstimatedArrival)
	assert.InDelta(t, 1.0, location.DistanceKm(rec.Driver.Location, rec.Pickup.Point()), 0.01)
	assert.NotEmpty(t, rec.Driver.Name)

	blob, err := f.store.Load(context.Background())
	require.NoError(t, err)
	saved, err := DecodeRecord(blob)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, saved.ID)

	assert.Equal(t, EventBooked, f.rec.updates[0].Event)
}

func TestTracker_BookResolvesAddresses(t *testing.T) {
	f := newTrackerFixture(t)

	rec, err := f.tracker.Book(context.Background(), BookCommand{
		Pickup:       Place{Address: "home"},
		Destination:  Place{Address: "Bongao Public Market"},
		VehicleClass: pricing.VehiclePremium,
	})
	require.NoError(t, err)

	assert.Equal(t, "Old Housing, Bongao", rec.Pickup.Address)
	assert.Equal(t, 5.0704, rec.Pickup.Lat)
	assert.Equal(t, "Bongao Public Market", rec.Destination.Address)
	assert.InDelta(t, location.DefaultBase.Lat, rec.Destination.Lat, 0.005)
	assert.InDelta(t, location.DefaultBase.Lng, rec.Destination.Lng, 0.005)
	assert.GreaterOrEqual(t, rec.Fare, int64(80))
}

func TestTracker_BookSupersedesCurrentRide(t *testing.T) {
	f := newTrackerFixture(t)

	first, err := f.tracker.Book(context.Background(), manilaBooking(pricing.VehicleShared))
	require.NoError(t, err)
	second, err := f.tracker.Book(context.Background(), manilaBooking(pricing.VehiclePremium))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	// only the second ride keeps its tick and ETA timers
	assert.Equal(t, 2, f.clock.Pending())

	cur, _, err := f.tracker.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, int64(119), cur.Fare)
}

func TestTracker_SupersededSimulatorLeavesStoreAlone(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.tracker.Book(ctx, manilaBooking(pricing.VehicleShared))
	require.NoError(t, err)
	f.tracker.mu.Lock()
	stale := f.tracker.sim
	f.tracker.mu.Unlock()

	second, err := f.tracker.Book(ctx, manilaBooking(pricing.VehiclePremium))
	require.NoError(t, err)

	assert.ErrorIs(t, stale.Advance(StatusArrived), ErrNoRide)
	_, err = stale.Cancel(ctx)
	assert.ErrorIs(t, err, ErrNoRide)

	blob, err := f.store.Load(ctx)
	require.NoError(t, err)
	persisted, err := DecodeRecord(blob)
	require.NoError(t, err)
	assert.Equal(t, second.ID, persisted.ID)
	assert.Equal(t, StatusDriverEnRoute, persisted.Status)

	cur, _, err := f.tracker.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)
}

func TestTracker_ResumeDefaultsThenRestores(t *testing.T) {
	f := newTrackerFixture(t)

	rec := f.tracker.Resume(context.Background())
	assert.Equal(t, "Carlos Santos", rec.Driver.Name)
	assert.Equal(t, int64(DefaultFare), rec.Fare)

	booked, err := f.tracker.Book(context.Background(), manilaBooking(pricing.VehicleStandard))
	require.NoError(t, err)
	_, err = f.tracker.Advance("")
	require.NoError(t, err)

	other := newTrackerFixtureWithStore(t, f.store)
	resumed := other.tracker.Resume(context.Background())
	assert.Equal(t, booked.ID, resumed.ID)
	assert.Equal(t, StatusArrived, resumed.Status)
}

func TestTracker_AdvanceAndCancel(t *testing.T) {
	f := newTrackerFixture(t)
	_, err := f.tracker.Book(context.Background(), manilaBooking(pricing.VehicleStandard))
	require.NoError(t, err)

	rec, err := f.tracker.Advance("")
	require.NoError(t, err)
	assert.Equal(t, StatusArrived, rec.Status)

	_, err = f.tracker.Advance(StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidState)

	msg, err := f.tracker.Cancel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cancellation fees may apply.", msg)

	_, _, err = f.tracker.Current()
	assert.ErrorIs(t, err, ErrNoRide)
	_, err = f.tracker.Advance("")
	assert.ErrorIs(t, err, ErrNoRide)
	_, err = f.tracker.Cancel(context.Background())
	assert.ErrorIs(t, err, ErrNoRide)

	_, err = f.store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTracker_BookedRideRunsToCompletion(t *testing.T) {
	f := newTrackerFixture(t)
	_, err := f.tracker.Book(context.Background(), manilaBooking(pricing.VehicleStandard))
	require.NoError(t, err)

	f.clock.Advance(66 * time.Second)
	_, view, err := f.tracker.Current()
	require.NoError(t, err)
	assert.Equal(t, "Driver Arrived", view.StatusText)

	f.clock.Advance(30 * time.Second)
	_, view, _ = f.tracker.Current()
	assert.Equal(t, "In Transit", view.StatusText)
	assert.Equal(t, "5 min", view.ETA)

	f.clock.Advance(60 * time.Second)
	rec, view, _ := f.tracker.Current()
	assert.Equal(t, StatusCompleted, rec.Status)
	assert.Equal(t, 100, view.Progress)
	assert.Equal(t, "Arrived", view.ETA)
}
