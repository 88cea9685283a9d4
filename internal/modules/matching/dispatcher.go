// README: Dispatcher picks a driver from the roster for a new booking.
package matching

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/types"
)

type Dispatcher struct {
	roster        []Driver
	startOffsetKm float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDispatcher draws from roster (DefaultRoster when empty). A nil rng is
// seeded from the clock.
func NewDispatcher(roster []Driver, startOffsetKm float64, rng *rand.Rand) *Dispatcher {
	if len(roster) == 0 {
		roster = DefaultRoster
	}
	if startOffsetKm <= 0 {
		startOffsetKm = defaultStartOffsetKm
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Dispatcher{roster: roster, startOffsetKm: startOffsetKm, rng: rng}
}

// Assign picks one driver at random and positions them startOffsetKm north
// of pickup.
func (d *Dispatcher) Assign(ctx context.Context, pickup types.Point) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return Driver{}, err
	}
	d.mu.Lock()
	drv := d.roster[d.rng.Intn(len(d.roster))]
	d.mu.Unlock()
	drv.Position = location.OffsetNorth(pickup, d.startOffsetKm)
	return drv, nil
}
