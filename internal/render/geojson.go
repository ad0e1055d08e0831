package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/TomiHiltunen/geohash-golang"
	"github.com/sviatoweb/films-locations/internal/models"
)

// geohashPrecision gives cells of a few meters, enough to tell two
// addresses on the same street apart.
const geohashPrecision = 9

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Type       string          `json:"type"`
	Geometry   GeoJSONGeometry `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// GeoJSONGeometry represents the geometry of a feature.
type GeoJSONGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [Lon, Lat]
}

// GeoJSONRenderer writes the placed markers as a GeoJSON feature
// collection, one point feature per marker.
type GeoJSONRenderer struct {
	output string
	log    *slog.Logger
}

// NewGeoJSONRenderer creates a renderer writing the collection to output.
func NewGeoJSONRenderer(output string, log *slog.Logger) *GeoJSONRenderer {
	return &GeoJSONRenderer{output: output, log: log}
}

// Render writes one point feature per marker. Coordinates follow the
// GeoJSON axis order, longitude first.
func (gr *GeoJSONRenderer) Render(markers []models.MapMarker) error {
	collection := GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, len(markers)),
	}

	for _, marker := range markers {
		collection.Features = append(collection.Features, GeoJSONFeature{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: []float64{marker.Coords.Longitude, marker.Coords.Latitude},
			},
			Properties: map[string]any{
				"title":       marker.Title,
				"location":    marker.Location,
				"distance_km": marker.DistanceKm,
				"geohash": geohash.EncodeWithPrecision(
					marker.Coords.Latitude, marker.Coords.Longitude, geohashPrecision,
				),
			},
		})
	}

	encoded, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feature collection: %w", err)
	}

	if err = os.WriteFile(gr.output, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	gr.log.Debug("Feature collection was rendered.", "path", gr.output, "features", len(collection.Features))

	return nil
}
