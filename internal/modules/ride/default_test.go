package ride

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yksu0/GoTawee/internal/types"
)

func TestDefaultRecord(t *testing.T) {
	rec := DefaultRecord(testEpoch)

	assert.Equal(t, types.ID("ride_1740816000000"), rec.ID)
	assert.Equal(t, StatusDriverEnRoute, rec.Status)
	assert.Equal(t, "Carlos Santos", rec.Driver.Name)
	assert.Equal(t, "ABC-1234", rec.Driver.Vehicle.Plate)
	assert.Equal(t, "123 Main Street, Downtown", rec.Pickup.Address)
	assert.Equal(t, "456 Oak Avenue, Uptown", rec.Destination.Address)
	assert.Equal(t, int64(45), rec.Fare)
	assert.Equal(t, 5.2, rec.Distance)
	assert.Equal(t, 12, rec.EstimatedDuration)
	assert.Equal(t, testEpoch.Add(5*time.Minute), rec.EstimatedArrival)
}

func TestLoadOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		blob         string
		wantRestored bool
		wantWarn     bool
	}{
		{name: "absent", blob: "", wantRestored: false},
		{name: "not json", blob: "{not json", wantRestored: false, wantWarn: true},
		{name: "json array", blob: "[1,2,3]", wantRestored: false, wantWarn: true},
		{name: "missing id", blob: `{"status":"arrived"}`, wantRestored: false, wantWarn: true},
		{name: "unknown status", blob: `{"id":"ride_x","status":"teleported"}`, wantRestored: false, wantWarn: true},
		{name: "cancelled is not a status", blob: `{"id":"ride_x","status":"cancelled"}`, wantRestored: false, wantWarn: true},
		{name: "minimal valid", blob: `{"id":"ride_x","status":"picked_up"}`, wantRestored: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.blob != "" {
				require.NoError(t, store.Save(context.Background(), []byte(tt.blob)))
			}
			logger, hook := logtest.NewNullLogger()

			rec, restored := LoadOrDefault(context.Background(), store, testEpoch, logrus.NewEntry(logger))

			assert.Equal(t, tt.wantRestored, restored)
			if tt.wantRestored {
				assert.Equal(t, types.ID("ride_x"), rec.ID)
			} else {
				assert.Equal(t, DefaultRecord(testEpoch), rec)
			}
			if tt.wantWarn {
				require.NotNil(t, hook.LastEntry())
				assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
			}
		})
	}
}

func TestLoadOrDefault_FillsMissingSubfields(t *testing.T) {
	store := NewMemoryStore()
	blob := `{
		"id": "ride_partial",
		"status": "arrived",
		"driver": {"name": "Ana Reyes", "vehicle": {"plate": "TWT-3305"}},
		"pickup": {"address": "Bongao Pier", "lat": 5.0291, "lng": 119.7731},
		"destination": {"address": "Old Housing, Bongao", "lat": 5.0704, "lng": 119.9074},
		"fare": 120
	}`
	require.NoError(t, store.Save(context.Background(), []byte(blob)))

	rec, restored := LoadOrDefault(context.Background(), store, testEpoch, logrus.NewEntry(logrus.New()))
	require.True(t, restored)

	assert.Equal(t, StatusArrived, rec.Status)
	assert.Equal(t, "Ana Reyes", rec.Driver.Name)
	assert.Equal(t, "TWT-3305", rec.Driver.Vehicle.Plate)
	assert.Equal(t, "Honda Civic", rec.Driver.Vehicle.Make)
	assert.Equal(t, "+63 912 345 6789", rec.Driver.Phone)
	assert.Equal(t, 4.9, rec.Driver.Rating)
	assert.Equal(t, rec.Pickup.Point(), rec.Driver.Location)
	assert.Equal(t, int64(120), rec.Fare)
	assert.Greater(t, rec.Distance, 0.0)
	assert.GreaterOrEqual(t, rec.EstimatedDuration, 5)
	assert.Equal(t, testEpoch, rec.BookingTime)
}

type brokenStore struct{ MemoryStore }

func (s *brokenStore) Load(ctx context.Context) ([]byte, error) {
	return nil, context.DeadlineExceeded
}

func TestLoadOrDefault_UnreadableStore(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	rec, restored := LoadOrDefault(context.Background(), &brokenStore{}, testEpoch, logrus.NewEntry(logger))

	assert.False(t, restored)
	assert.Equal(t, "Carlos Santos", rec.Driver.Name)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
