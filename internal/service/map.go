package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sviatoweb/films-locations/internal/distance"
	"github.com/sviatoweb/films-locations/internal/geocoding"
	"github.com/sviatoweb/films-locations/internal/metrics"
	"github.com/sviatoweb/films-locations/internal/models"
	"github.com/sviatoweb/films-locations/internal/render"
)

// Mode selects how a film's locations are picked for the map.
type Mode string

const (
	// ModeRadius walks locations in listing order and keeps every one
	// inside the search radius.
	ModeRadius Mode = "radius"
	// ModeRanked orders each film's locations by distance to the
	// reference point before walking them.
	ModeRanked Mode = "ranked"
)

const (
	// DefaultRadiusCap bounds the marker count in radius mode.
	DefaultRadiusCap = 20
	// DefaultRankedCap bounds the marker count in ranked mode.
	DefaultRankedCap = 10
)

// Options control which locations end up on the generated map.
type Options struct {
	Mode      Mode               // Selection mode, radius by default.
	Reference models.Coordinates // Point distances are measured from.
	RadiusKm  float64            // Locations farther than this are skipped.
	Cap       int                // Marker limit; 0 means the mode default.
	Year      int                // Keep only films of this year; 0 keeps all.
}

// MapService turns a parsed film listing into map markers and renders
// them, resolving locations through the configured geocoding provider.
type MapService struct {
	log          *slog.Logger       // Logger for logging service activities
	provider     geocoding.Provider // Geocoding provider for external geocoding services
	providerName string             // Name of the provider for metrics labeling
	renderer     render.Renderer    // Renderer writing the selected markers out
	metrics      *metrics.Metrics   // Metrics for tracking service performance
	numWorkers   int                // Number of concurrent workers for geocoding
	opts         Options            // Marker selection options
}

// lookup is the outcome of resolving one distinct location string.
type lookup struct {
	address string
	coords  *models.Coordinates
	err     error
}

// NewMapService creates a new instance of MapService. It takes a logger,
// a geocoding provider with its name for metrics labeling, a renderer,
// metrics for monitoring, the number of workers to use, and the marker
// selection options. It returns a pointer to the newly created MapService.
func NewMapService(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	renderer render.Renderer,
	metrics *metrics.Metrics,
	numWorkers int,
	opts Options,
) *MapService {
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &MapService{
		log:          log,
		provider:     provider,
		providerName: providerName,
		renderer:     renderer,
		metrics:      metrics,
		numWorkers:   numWorkers,
		opts:         opts,
	}
}

// Generate resolves the films' locations, selects the markers according
// to the configured mode and renders them. It returns the markers that
// were placed. The marker order does not depend on the number of workers:
// lookups run concurrently, the selection walk is sequential.
func (ms *MapService) Generate(ctx context.Context, films []models.Film) ([]models.MapMarker, error) {
	if ms.opts.Year != 0 {
		films = filterByYear(films, ms.opts.Year)
	}

	ms.metrics.FilmsParsed.Add(float64(len(films)))

	resolved := ms.resolveLocations(ctx, films)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("map generation interrupted: %w", err)
	}

	markers := ms.selectMarkers(films, resolved)
	ms.metrics.MarkersPlaced.Add(float64(len(markers)))

	if err := ms.renderer.Render(markers); err != nil {
		return nil, fmt.Errorf("failed to render map: %w", err)
	}

	ms.log.InfoContext(ctx, "Map was generated.",
		"films", len(films), "markers", len(markers), "mode", string(ms.opts.Mode))

	return markers, nil
}

// resolveLocations geocodes every distinct location string once, using a
// worker pool, and returns the outcomes keyed by the raw string.
func (ms *MapService) resolveLocations(ctx context.Context, films []models.Film) map[string]lookup {
	seen := make(map[string]struct{})
	unique := make([]string, 0)
	for _, film := range films {
		for _, location := range film.Locations {
			if _, ok := seen[location]; ok {
				continue
			}
			seen[location] = struct{}{}
			unique = append(unique, location)
		}
	}

	if len(unique) == 0 {
		ms.log.InfoContext(ctx, "No locations to resolve.")
		return map[string]lookup{}
	}

	ms.log.InfoContext(
		ctx,
		"Found locations to resolve. Starting worker pool.",
		"jobs",
		len(unique),
		"num_workers",
		ms.numWorkers,
	)

	results := make([]lookup, len(unique))
	jobs := make(chan int, len(unique))
	var wgr sync.WaitGroup

	for i := 1; i <= ms.numWorkers; i++ {
		wgr.Add(1)
		go ms.worker(ctx, i, &wgr, jobs, unique, results)
	}

	for idx := range unique {
		jobs <- idx
	}
	close(jobs)

	wgr.Wait()

	resolved := make(map[string]lookup, len(results))
	for _, result := range results {
		resolved[result.address] = result
	}

	return resolved
}

// worker resolves location strings from the jobs channel. Each job index
// addresses its own slot in the results slice, so workers never write to
// the same element. Failures are recorded, not fatal: a location that
// cannot be resolved simply places no marker.
func (ms *MapService) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan int,
	addresses []string,
	results []lookup,
) {
	defer wg.Done()
	for job := range jobs {
		address := addresses[job]
		ms.log.DebugContext(ctx, "Resolving location", "worker", idx, "address", address)

		startTime := time.Now()
		coords, err := ms.provider.Geocode(ctx, address)
		duration := time.Since(startTime).Seconds()
		ms.metrics.ProviderSeconds.WithLabelValues(ms.providerName).Observe(duration)

		if err != nil {
			ms.log.WarnContext(ctx, "Failed to resolve location", "worker", idx, "address", address, "error", err)
			ms.metrics.LocationsResolved.WithLabelValues("failure").Inc()
			results[job] = lookup{address: address, err: err}
			continue
		}

		ms.metrics.LocationsResolved.WithLabelValues("success").Inc()
		results[job] = lookup{address: address, coords: coords}
	}
}

// selectMarkers walks the films in listing order and places markers until
// the cap is reached. The walk stops exactly at the cap, even in the
// middle of a film's locations.
func (ms *MapService) selectMarkers(films []models.Film, resolved map[string]lookup) []models.MapMarker {
	capacity := ms.markerCap()
	markers := make([]models.MapMarker, 0, capacity)
	visited := make(map[string]struct{})

	for _, film := range films {
		for _, candidate := range ms.filmCandidates(film, resolved) {
			if len(markers) >= capacity {
				return markers
			}
			if candidate.DistanceKm > ms.opts.RadiusKm {
				continue
			}
			if _, ok := visited[candidate.Location]; ok {
				continue
			}
			visited[candidate.Location] = struct{}{}
			markers = append(markers, models.MapMarker{
				Title:      film.Title,
				Location:   candidate.Location,
				Coords:     candidate.Coords,
				DistanceKm: candidate.DistanceKm,
			})
		}
	}

	return markers
}

// filmCandidates returns the placeable locations of one film with their
// distance to the reference point. Failed lookups are dropped, as is the
// exact (0, 0) point historical data used to mark unresolved addresses.
// In ranked mode the survivors are ordered nearest first; ties keep their
// listing order.
func (ms *MapService) filmCandidates(film models.Film, resolved map[string]lookup) []models.RankedLocation {
	candidates := make([]models.RankedLocation, 0, len(film.Locations))
	for _, location := range film.Locations {
		result, ok := resolved[location]
		if !ok || result.err != nil || result.coords == nil {
			continue
		}
		if result.coords.IsZero() {
			continue
		}
		candidates = append(candidates, models.RankedLocation{
			Location:   location,
			Coords:     *result.coords,
			DistanceKm: distance.CalculateDistance(ms.opts.Reference, *result.coords),
		})
	}

	if ms.opts.Mode == ModeRanked {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		})
	}

	return candidates
}

// markerCap resolves the configured cap, falling back to the mode default.
func (ms *MapService) markerCap() int {
	if ms.opts.Cap > 0 {
		return ms.opts.Cap
	}
	if ms.opts.Mode == ModeRanked {
		return DefaultRankedCap
	}
	return DefaultRadiusCap
}

func filterByYear(films []models.Film, year int) []models.Film {
	filtered := make([]models.Film, 0, len(films))
	for _, film := range films {
		if film.Year == year {
			filtered = append(filtered, film)
		}
	}
	return filtered
}
