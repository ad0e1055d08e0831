package render_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sviatoweb/films-locations/internal/models"
	"github.com/sviatoweb/films-locations/internal/render"
)

type islandMarker struct {
	Title      string  `json:"title"`
	Location   string  `json:"location"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

// readIsland parses the rendered page and decodes the embedded marker data.
func readIsland(t *testing.T, path string) []islandMarker {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	require.NoError(t, err)

	island := doc.Find(`script[type="application/json"]#film-markers`)
	require.Equal(t, 1, island.Length(), "expected exactly one marker island")

	var markers []islandMarker
	require.NoError(t, json.Unmarshal([]byte(island.Text()), &markers))

	return markers
}

func TestLeafletRenderer_Render(t *testing.T) {
	defer filet.CleanUp(t)
	logger := slog.Default()
	center := models.Coordinates{Latitude: 34.0536909, Longitude: -118.242766}

	t.Run("renders one marker per placed location", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "Map.html")
		markers := []models.MapMarker{
			{
				Title:    "La La Land",
				Location: "Griffith Observatory, Los Angeles, CA",
				Coords:   models.Coordinates{Latitude: 34.1184, Longitude: -118.3004},
			},
			{
				Title:      "Heat",
				Location:   "444 S Flower St, Los Angeles, CA",
				Coords:     models.Coordinates{Latitude: 34.0522, Longitude: -118.2551},
				DistanceKm: 1.2,
			},
		}

		renderer := render.NewLeafletRenderer(output, center, logger)
		require.NoError(t, renderer.Render(markers))

		got := readIsland(t, output)
		require.Len(t, got, 2)
		assert.Equal(t, "La La Land", got[0].Title)
		assert.Equal(t, "Griffith Observatory, Los Angeles, CA", got[0].Location)
		assert.InEpsilon(t, 34.1184, got[0].Latitude, 0.0001)
		assert.InEpsilon(t, -118.3004, got[0].Longitude, 0.0001)
		assert.Equal(t, "Heat", got[1].Title)
		assert.InEpsilon(t, 1.2, got[1].DistanceKm, 0.0001)
	})

	t.Run("page carries the map container and base layer", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "Map.html")

		renderer := render.NewLeafletRenderer(output, center, logger)
		require.NoError(t, renderer.Render(nil))

		file, err := os.Open(output)
		require.NoError(t, err)
		defer file.Close()

		doc, err := goquery.NewDocumentFromReader(file)
		require.NoError(t, err)

		assert.Equal(t, 1, doc.Find("div#map").Length())
		assert.Equal(t, "Films map", doc.Find("title").Text())
		href, ok := doc.Find(`link[rel="stylesheet"]`).Attr("href")
		require.True(t, ok)
		assert.Contains(t, href, "leaflet")
	})

	t.Run("no markers still renders a valid island", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "Map.html")

		renderer := render.NewLeafletRenderer(output, center, logger)
		require.NoError(t, renderer.Render([]models.MapMarker{}))

		got := readIsland(t, output)
		assert.Empty(t, got)
	})

	t.Run("markup in titles cannot escape the island", func(t *testing.T) {
		output := filepath.Join(filet.TmpDir(t, ""), "Map.html")
		markers := []models.MapMarker{
			{
				Title:    `Weird "Title" with </script> & <b>tags</b>`,
				Location: "Somewhere",
				Coords:   models.Coordinates{Latitude: 1, Longitude: 2},
			},
		}

		renderer := render.NewLeafletRenderer(output, center, logger)
		require.NoError(t, renderer.Render(markers))

		got := readIsland(t, output)
		require.Len(t, got, 1)
		assert.Equal(t, `Weird "Title" with </script> & <b>tags</b>`, got[0].Title)
	})

	t.Run("error - output path is a directory", func(t *testing.T) {
		dir := filet.TmpDir(t, "")

		renderer := render.NewLeafletRenderer(dir, center, logger)
		err := renderer.Render(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output file")
	})
}
