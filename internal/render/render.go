package render

import (
	"fmt"
	"log/slog"

	"github.com/sviatoweb/films-locations/internal/models"
)

// FormatType represents the output format of the generated map.
type FormatType string

const (
	// FormatHTML renders a self-contained Leaflet map page.
	FormatHTML FormatType = "html"
	// FormatGeoJSON renders a GeoJSON feature collection.
	FormatGeoJSON FormatType = "geojson"
)

// Renderer writes a set of map markers to the configured output file.
type Renderer interface {
	Render(markers []models.MapMarker) error
}

// RendererConfig holds the configuration needed to create a renderer.
type RendererConfig struct {
	// Format specifies which renderer to create.
	Format FormatType
	// Output is the path of the file to write.
	Output string
	// Center is the point the map view opens on.
	Center models.Coordinates
	// Logger for renderer operations.
	Logger *slog.Logger
}

// NewRenderer creates a renderer for the requested output format.
func NewRenderer(config RendererConfig) (Renderer, error) {
	switch config.Format {
	case FormatHTML:
		return NewLeafletRenderer(config.Output, config.Center, config.Logger), nil
	case FormatGeoJSON:
		return NewGeoJSONRenderer(config.Output, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", config.Format)
	}
}
