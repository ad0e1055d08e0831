// Package distance computes great-circle distances between geographical points.
package distance

import (
	"math"

	"github.com/sviatoweb/films-locations/internal/models"
)

const earthRadiusKm = 6371.0

// CalculateDistance computes the geodesic distance between two points using
// the haversine formula. Returns distance in kilometers.
func CalculateDistance(from, to models.Coordinates) float64 {
	lat1Rad := degreesToRadians(from.Latitude)
	lat2Rad := degreesToRadians(to.Latitude)
	deltaLat := degreesToRadians(to.Latitude - from.Latitude)
	deltaLon := degreesToRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// degreesToRadians converts degrees to radians.
func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
