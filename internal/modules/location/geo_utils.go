// README: Geographic helpers for distance and simulated driver movement.
package location

import (
	"math"

	"github.com/yksu0/GoTawee/internal/types"
)

const earthRadiusKm = 6371.0

// kmPerDegreeLat is the length of one degree of latitude, used to place a
// point a given distance north of another.
const kmPerDegreeLat = 111.32

// DistanceKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func DistanceKm(a, b types.Point) float64 {
	return haversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// StepToward moves from by fraction of the remaining vector to target.
// A fraction of 1 lands on target; 0 stays put.
func StepToward(from, target types.Point, fraction float64) types.Point {
	return types.Point{
		Lat: from.Lat + (target.Lat-from.Lat)*fraction,
		Lng: from.Lng + (target.Lng-from.Lng)*fraction,
	}
}

// OffsetNorth returns the point km kilometres due north of p.
func OffsetNorth(p types.Point, km float64) types.Point {
	return types.Point{Lat: p.Lat + km/kmPerDegreeLat, Lng: p.Lng}
}
