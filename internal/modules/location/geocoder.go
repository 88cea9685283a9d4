// README: Simulated geocoding for the booking flow; no external maps backend is called.
package location

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/yksu0/GoTawee/internal/types"
)

var (
	ErrEmptyAddress     = errors.New("address is required")
	ErrPermissionDenied = errors.New("location permission denied")
)

// PermissionDeniedMessage is what the booking screen shows when the device
// refuses to share its position.
const PermissionDeniedMessage = "Unable to get your current location. Please enter manually."

const geohashPrecision = 7

// Bongao town centre; all synthetic coordinates are scattered around it.
var DefaultBase = types.Point{Lat: 5.0704, Lng: 119.9074}

// Place is a resolved address.
type Place struct {
	Address string      `json:"address"`
	Point   types.Point `json:"point"`
	Geohash string      `json:"geohash"`
}

func newPlace(address string, p types.Point) Place {
	return Place{
		Address: address,
		Point:   p,
		Geohash: geohash.EncodeWithPrecision(p.Lat, p.Lng, geohashPrecision),
	}
}

var savedPlaces = map[string]Place{
	"home": newPlace("Old Housing, Bongao", types.Point{Lat: 5.0704, Lng: 119.9074}),
	"work": newPlace("Tawi-Tawi Provincial Capitol", types.Point{Lat: 5.0654, Lng: 119.9124}),
}

// SavedPlace looks up one of the shortcut places offered on the booking screen.
func SavedPlace(name string) (Place, bool) {
	p, ok := savedPlaces[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Geocoder turns free-text addresses into coordinates after an artificial
// delay. Results are jittered by up to Jitter degrees around Base.
type Geocoder struct {
	Delay  time.Duration
	Base   types.Point
	Jitter float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGeocoder(delay time.Duration, rng *rand.Rand) *Geocoder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Geocoder{
		Delay:  delay,
		Base:   DefaultBase,
		Jitter: 0.005,
		rng:    rng,
	}
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Place{}, ErrEmptyAddress
	}
	if err := g.wait(ctx); err != nil {
		return Place{}, err
	}

	g.mu.Lock()
	p := types.Point{
		Lat: g.Base.Lat + (g.rng.Float64()*2-1)*g.Jitter,
		Lng: g.Base.Lng + (g.rng.Float64()*2-1)*g.Jitter,
	}
	g.mu.Unlock()

	return newPlace(address, p), nil
}

func (g *Geocoder) ReverseGeocode(ctx context.Context, p types.Point) (Place, error) {
	if err := g.wait(ctx); err != nil {
		return Place{}, err
	}
	return newPlace(fmt.Sprintf("Location at %.4f, %.4f", p.Lat, p.Lng), p), nil
}

func (g *Geocoder) wait(ctx context.Context) error {
	if g.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Locator reports the device position.
type Locator interface {
	CurrentLocation(ctx context.Context) (types.Point, error)
}

// StaticLocator always answers with Point, or ErrPermissionDenied when Denied.
type StaticLocator struct {
	Point  types.Point
	Denied bool
}

func (l StaticLocator) CurrentLocation(ctx context.Context) (types.Point, error) {
	if l.Denied {
		return types.Point{}, ErrPermissionDenied
	}
	return l.Point, ctx.Err()
}

// CurrentPlace resolves the device position into an address. A permission
// failure is returned untouched so callers can fall back to manual entry.
func CurrentPlace(ctx context.Context, loc Locator, g *Geocoder) (Place, error) {
	p, err := loc.CurrentLocation(ctx)
	if err != nil {
		return Place{}, fmt.Errorf("current location: %w", err)
	}
	return g.ReverseGeocode(ctx, p)
}
