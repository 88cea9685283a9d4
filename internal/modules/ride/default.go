// README: Canned demo ride and tolerant decoding of the persisted handoff blob.
package ride

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/modules/pricing"
	"github.com/yksu0/GoTawee/internal/observability"
	"github.com/yksu0/GoTawee/internal/types"
)

// DefaultFare is the canned record's fare. It is not derived from the tariff
// table and is never reconciled with a booked quote.
const DefaultFare = 45

// DefaultRecord is the demo ride shown when nothing usable is persisted.
func DefaultRecord(now time.Time) Record {
	return Record{
		ID:     types.ID(fmt.Sprintf("ride_%d", now.UnixMilli())),
		Status: StatusDriverEnRoute,
		Driver: Driver{
			ID:         "driver_001",
			Name:       "Carlos Santos",
			Rating:     4.9,
			TotalRides: 245,
			Phone:      "+63 912 345 6789",
			Vehicle: Vehicle{
				Make:  "Honda Civic",
				Plate: "ABC-1234",
				Color: "Silver",
			},
			Location: types.Point{Lat: 14.5995, Lng: 120.9842},
		},
		Pickup: Place{
			Address: "123 Main Street, Downtown",
			Lat:     14.5995,
			Lng:     120.9842,
		},
		Destination: Place{
			Address: "456 Oak Avenue, Uptown",
			Lat:     14.6091,
			Lng:     120.9947,
		},
		Fare:              DefaultFare,
		Distance:          5.2,
		EstimatedDuration: 12,
		BookingTime:       now,
		EstimatedArrival:  now.Add(bookingETA),
	}
}

func EncodeRecord(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

// DecodeRecord parses a persisted blob. A record without an id or with an
// unknown status is rejected; other missing fields are filled from the
// canned record by fillDefaults.
func DecodeRecord(blob []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return Record{}, fmt.Errorf("decode ride record: %w", err)
	}
	if rec.ID == "" {
		return Record{}, errors.New("decode ride record: missing id")
	}
	if !rec.Status.Valid() {
		return Record{}, fmt.Errorf("decode ride record: unknown status %q", rec.Status)
	}
	return rec, nil
}

// LoadOrDefault reads the current ride from store. Absent, unreadable and
// malformed records all yield DefaultRecord; the bool reports whether the
// persisted record was used.
func LoadOrDefault(ctx context.Context, store Store, now time.Time, log *logrus.Entry) (Record, bool) {
	blob, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debug("no persisted ride, using demo ride")
		} else {
			observability.PersistenceFailures.WithLabelValues("load").Inc()
			log.WithError(err).Warn("ride store unreadable, using demo ride")
		}
		return DefaultRecord(now), false
	}

	rec, err := DecodeRecord(blob)
	if err != nil {
		log.WithError(err).Warn("persisted ride malformed, using demo ride")
		return DefaultRecord(now), false
	}
	fillDefaults(&rec, DefaultRecord(now))
	return rec, true
}

func fillDefaults(rec *Record, def Record) {
	d := &rec.Driver
	if d.ID == "" {
		d.ID = def.Driver.ID
	}
	if d.Name == "" {
		d.Name = def.Driver.Name
	}
	if d.Rating <= 0 || d.Rating > 5 {
		d.Rating = def.Driver.Rating
	}
	if d.TotalRides < 0 {
		d.TotalRides = 0
	}
	if d.Phone == "" {
		d.Phone = def.Driver.Phone
	}
	if d.Vehicle.Make == "" {
		d.Vehicle.Make = def.Driver.Vehicle.Make
	}
	if d.Vehicle.Plate == "" {
		d.Vehicle.Plate = def.Driver.Vehicle.Plate
	}
	if d.Vehicle.Color == "" {
		d.Vehicle.Color = def.Driver.Vehicle.Color
	}

	if rec.Pickup.Address == "" {
		rec.Pickup.Address = def.Pickup.Address
	}
	if !rec.Pickup.HasCoordinates() {
		rec.Pickup.Lat, rec.Pickup.Lng = def.Pickup.Lat, def.Pickup.Lng
	}
	if rec.Destination.Address == "" {
		rec.Destination.Address = def.Destination.Address
	}
	if !rec.Destination.HasCoordinates() {
		rec.Destination.Lat, rec.Destination.Lng = def.Destination.Lat, def.Destination.Lng
	}
	if d.Location.IsZero() {
		d.Location = rec.Pickup.Point()
	}

	if rec.Fare <= 0 {
		rec.Fare = def.Fare
	}
	if rec.Distance <= 0 {
		rec.Distance = location.DistanceKm(rec.Pickup.Point(), rec.Destination.Point())
	}
	if rec.EstimatedDuration <= 0 {
		rec.EstimatedDuration = pricing.EstimateDurationMinutes(rec.Distance)
	}
	if rec.BookingTime.IsZero() {
		rec.BookingTime = def.BookingTime
	}
	if rec.EstimatedArrival.IsZero() {
		rec.EstimatedArrival = def.EstimatedArrival
	}
}
