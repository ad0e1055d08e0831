package render_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sviatoweb/films-locations/internal/models"
	"github.com/sviatoweb/films-locations/internal/render"
)

func decodeCollection(t *testing.T, path string) render.GeoJSONFeatureCollection {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var collection render.GeoJSONFeatureCollection
	require.NoError(t, json.Unmarshal(raw, &collection))

	return collection
}

func TestGeoJSONRenderer_Render(t *testing.T) {
	defer filet.CleanUp(t)
	logger := slog.Default()

	t.Run("writes one point feature per marker", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "Map.geojson")
		markers := []models.MapMarker{
			{
				Title:      "The Grand Budapest Hotel",
				Location:   "Görlitz, Germany",
				Coords:     models.Coordinates{Latitude: 51.1528, Longitude: 14.9872},
				DistanceKm: 12.5,
			},
		}

		renderer := render.NewGeoJSONRenderer(output, logger)
		require.NoError(t, renderer.Render(markers))

		collection := decodeCollection(t, output)
		assert.Equal(t, "FeatureCollection", collection.Type)
		require.Len(t, collection.Features, 1)

		feature := collection.Features[0]
		assert.Equal(t, "Feature", feature.Type)
		assert.Equal(t, "Point", feature.Geometry.Type)
		// GeoJSON axis order is longitude first.
		require.Len(t, feature.Geometry.Coordinates, 2)
		assert.InEpsilon(t, 14.9872, feature.Geometry.Coordinates[0], 0.0001)
		assert.InEpsilon(t, 51.1528, feature.Geometry.Coordinates[1], 0.0001)
		assert.Equal(t, "The Grand Budapest Hotel", feature.Properties["title"])
		assert.Equal(t, "Görlitz, Germany", feature.Properties["location"])
		assert.InEpsilon(t, 12.5, feature.Properties["distance_km"], 0.0001)
	})

	t.Run("geohash property encodes the marker position", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "Map.geojson")
		markers := []models.MapMarker{
			{
				Title:    "Known Point",
				Location: "Jutland, Denmark",
				Coords:   models.Coordinates{Latitude: 57.64911, Longitude: 10.40744},
			},
		}

		renderer := render.NewGeoJSONRenderer(output, logger)
		require.NoError(t, renderer.Render(markers))

		collection := decodeCollection(t, output)
		require.Len(t, collection.Features, 1)
		assert.Equal(t, "u4pruydqq", collection.Features[0].Properties["geohash"])
	})

	t.Run("no markers produce an empty collection", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "Map.geojson")

		renderer := render.NewGeoJSONRenderer(output, logger)
		require.NoError(t, renderer.Render(nil))

		collection := decodeCollection(t, output)
		assert.Equal(t, "FeatureCollection", collection.Type)
		assert.Empty(t, collection.Features)
	})

	t.Run("error - unwritable output path", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "missing", "Map.geojson")

		renderer := render.NewGeoJSONRenderer(output, logger)
		err := renderer.Render(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write output file")
	})
}
