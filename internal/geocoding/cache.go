package geocoding

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sviatoweb/films-locations/internal/models"
)

// CacheStore persists resolved coordinates between runs. A lookup miss is
// reported as (nil, nil); errors are reserved for real storage failures.
type CacheStore interface {
	LookupCoordinates(ctx context.Context, address string) (*models.Coordinates, error)
	SaveCoordinates(ctx context.Context, address string, coords models.Coordinates) error
}

// CacheStats reports how a run resolved its lookups.
type CacheStats struct {
	Hits   int64 // Hits is the number of lookups answered from memo or store.
	Misses int64 // Misses is the number of lookups forwarded to the provider.
}

// CachedProvider memoizes the results of an inner Provider for the lifetime
// of one run, and optionally reads through to a persistent CacheStore. The
// inner provider is asked at most once per distinct location string per run,
// failures included: the lookup models an idempotent mapping, so a failed
// address stays failed for the rest of the run.
//
// Caching here is a throughput optimization only; it never changes which
// markers a run produces.
type CachedProvider struct {
	inner Provider
	store CacheStore // optional, may be nil
	log   *slog.Logger

	mu   sync.Mutex
	memo map[string]memoEntry

	hits   atomic.Int64
	misses atomic.Int64
}

type memoEntry struct {
	coords models.Coordinates
	err    error
}

// result returns a fresh copy of the entry so callers cannot alias the memo.
func (me memoEntry) result() (*models.Coordinates, error) {
	if me.err != nil {
		return nil, me.err
	}
	coords := me.coords
	return &coords, nil
}

// NewCachedProvider wraps inner with per-run memoization and an optional
// persistent store. Pass a nil store when no persistence is configured.
func NewCachedProvider(inner Provider, store CacheStore, log *slog.Logger) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		store: store,
		log:   log,
		memo:  make(map[string]memoEntry),
	}
}

// Geocode resolves address through the memo, then the persistent store, then
// the inner provider. Store failures degrade to a plain provider call.
func (cp *CachedProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	cp.mu.Lock()
	entry, ok := cp.memo[address]
	cp.mu.Unlock()
	if ok {
		cp.hits.Add(1)
		return entry.result()
	}

	if cp.store != nil {
		coords, err := cp.store.LookupCoordinates(ctx, address)
		switch {
		case err != nil:
			cp.log.WarnContext(ctx, "Geocode cache lookup failed", "address", address, "error", err)
		case coords != nil:
			entry = memoEntry{coords: *coords}
			cp.remember(address, entry)
			cp.hits.Add(1)
			return entry.result()
		}
	}

	cp.misses.Add(1)

	coords, err := cp.inner.Geocode(ctx, address)
	if err != nil {
		cp.remember(address, memoEntry{err: err})
		return nil, err
	}

	entry = memoEntry{coords: *coords}
	cp.remember(address, entry)

	if cp.store != nil {
		if saveErr := cp.store.SaveCoordinates(ctx, address, *coords); saveErr != nil {
			cp.log.WarnContext(ctx, "Failed to persist geocode result", "address", address, "error", saveErr)
		}
	}

	return entry.result()
}

// Stats returns the hit/miss counters accumulated so far.
func (cp *CachedProvider) Stats() CacheStats {
	return CacheStats{Hits: cp.hits.Load(), Misses: cp.misses.Load()}
}

func (cp *CachedProvider) remember(address string, entry memoEntry) {
	cp.mu.Lock()
	cp.memo[address] = entry
	cp.mu.Unlock()
}
