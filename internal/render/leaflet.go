package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"

	"github.com/sviatoweb/films-locations/internal/models"
)

// defaultZoom keeps most of a continent in view when the page opens.
const defaultZoom = 3

const leafletPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Films map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script type="application/json" id="film-markers">{{.Markers}}</script>
<script>
var data = JSON.parse(document.getElementById("film-markers").textContent);
var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer("https://tile.openstreetmap.org/{z}/{x}/{y}.png", {
	attribution: "&copy; <a href=\"https://www.openstreetmap.org/copyright\">OpenStreetMap</a> contributors"
}).addTo(map);
var films = L.featureGroup();
data.forEach(function (marker) {
	L.marker([marker.latitude, marker.longitude]).bindPopup(marker.title).addTo(films);
});
films.addTo(map);
L.control.layers(null, {"Films map": films}).addTo(map);
</script>
</body>
</html>
`

// LeafletRenderer writes a self-contained Leaflet page with one marker per
// placed location. Marker data is embedded as a JSON island so the page
// needs no server side.
type LeafletRenderer struct {
	output string
	center models.Coordinates
	zoom   int
	log    *slog.Logger
	tmpl   *template.Template
}

// NewLeafletRenderer creates a renderer writing the map page to output,
// opened on the given center point.
func NewLeafletRenderer(output string, center models.Coordinates, log *slog.Logger) *LeafletRenderer {
	return &LeafletRenderer{
		output: output,
		center: center,
		zoom:   defaultZoom,
		log:    log,
		tmpl:   template.Must(template.New("map").Parse(leafletPage)),
	}
}

type leafletMarker struct {
	Title      string  `json:"title"`
	Location   string  `json:"location"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

type leafletData struct {
	Markers   template.JS
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// Render writes the map page for the given markers. An empty marker list
// still produces a valid page with just the base layer.
func (lr *LeafletRenderer) Render(markers []models.MapMarker) error {
	payload := make([]leafletMarker, 0, len(markers))
	for _, marker := range markers {
		payload = append(payload, leafletMarker{
			Title:      marker.Title,
			Location:   marker.Location,
			Latitude:   marker.Coords.Latitude,
			Longitude:  marker.Coords.Longitude,
			DistanceKm: marker.DistanceKm,
		})
	}

	// json.Marshal escapes angle brackets, so the payload cannot break
	// out of the script element.
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode markers: %w", err)
	}

	file, err := os.Create(lr.output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	data := leafletData{
		Markers:   template.JS(encoded),
		CenterLat: lr.center.Latitude,
		CenterLon: lr.center.Longitude,
		Zoom:      lr.zoom,
	}

	if err = lr.tmpl.Execute(file, data); err != nil {
		file.Close()
		return fmt.Errorf("failed to render map template: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	lr.log.Debug("Map page was rendered.", "path", lr.output, "markers", len(payload))

	return nil
}
