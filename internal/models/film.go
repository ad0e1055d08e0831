package models

// Film represents one film title together with every raw filming location
// listed for it in the source file, in encounter order. Titles are not unique
// in the source, so a Film may accumulate locations from several lines.
type Film struct {
	Title     string   // Title is the raw title field, year annotation included.
	Year      int      // Year extracted from the "(YYYY)" title annotation, 0 if absent.
	Locations []string // Locations are the trimmed raw location strings, duplicates retained.
}

// RankedLocation is a geocoded film location together with its great-circle
// distance from the reference point. Ranked selection orders these ascending
// by distance.
type RankedLocation struct {
	DistanceKm float64     // DistanceKm is the haversine distance to the reference point.
	Location   string      // Location is the raw location string from the source file.
	Coords     Coordinates // Coords is the geocoded position.
}

// MapMarker is a single labeled point on the rendered map.
type MapMarker struct {
	Title      string      // Title is the film title shown as the marker label.
	Location   string      // Location is the raw location text the marker was resolved from.
	Coords     Coordinates // Coords is the marker position.
	DistanceKm float64     // DistanceKm is the distance from the reference point.
}
