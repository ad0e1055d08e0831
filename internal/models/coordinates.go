package models

import "github.com/golang/geo/s2"

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 // Latitude of the geographical point, degrees.
	Longitude float64 // Longitude of the geographical point, degrees.
}

// Valid reports whether the coordinates describe a normalized point on the
// globe (latitude within [-90, 90], longitude within [-180, 180]).
func (c Coordinates) Valid() bool {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

// IsZero reports whether the coordinates are the exact (0, 0) pair. The
// legacy data flow used (0, 0) as a "lookup failed" sentinel, so that point
// is never placed on a map even though it exists off the coast of Africa.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}
