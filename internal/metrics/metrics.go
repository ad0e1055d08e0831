package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FilmsParsed       prometheus.Counter
	LocationsResolved *prometheus.CounterVec
	ProviderSeconds   *prometheus.HistogramVec
	MarkersPlaced     prometheus.Counter
	CacheHits         prometheus.Gauge
	CacheMisses       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FilmsParsed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "filmap_films_parsed_total",
			Help: "Total number of films parsed from the locations listing.",
		}),
		LocationsResolved: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "filmap_locations_resolved_total",
			Help: "Total number of location lookups, partitioned by outcome.",
		}, []string{"status"}),
		ProviderSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "filmap_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		MarkersPlaced: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "filmap_markers_placed_total",
			Help: "Total number of markers placed on the generated map.",
		}),
		CacheHits: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "filmap_geocode_cache_hits",
			Help: "Number of lookups answered from the geocode cache in the last run.",
		}),
		CacheMisses: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "filmap_geocode_cache_misses",
			Help: "Number of lookups forwarded to the provider in the last run.",
		}),
	}
}
