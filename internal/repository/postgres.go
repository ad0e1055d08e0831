package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sviatoweb/films-locations/internal/models"
)

const connectTimeout = 5 * time.Second

// NewDatabase opens a pgx connection pool for the given credentials and
// verifies it with a ping. The caller owns the returned pool and is
// responsible for closing it.
func NewDatabase(
	ctx context.Context, host, port, user, password, name string,
) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the geocode cache table if it does not exist yet.
// The cache maps a raw location string to the coordinates it resolved to.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			resolved_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create geocode cache table: %w", err)
	}

	return nil
}

// LookupCoordinates returns the cached coordinates for the given location
// string. A cache miss is reported as (nil, nil), not as an error.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - address: The raw location string as it appeared in the listing.
//
// Returns:
// - A models.Coordinates pointer when the address was resolved before.
// - An error if the query fails for any reason other than a missing row.
func (r *Repository) LookupCoordinates(ctx context.Context, address string) (*models.Coordinates, error) {
	var coords models.Coordinates
	query := `
		SELECT latitude, longitude
		FROM geocode_cache
		WHERE address = $1;
	`

	err := r.db.QueryRow(ctx, query, address).Scan(&coords.Latitude, &coords.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cached coordinates: %w", err)
	}

	r.log.DebugContext(ctx, "Address was answered from the geocode cache.",
		"Address", address, "Latitude", coords.Latitude, "Longitude", coords.Longitude)

	return &coords, nil
}

// SaveCoordinates stores the resolved coordinates for a location string,
// replacing any previous entry for the same address.
func (r *Repository) SaveCoordinates(ctx context.Context, address string, coords models.Coordinates) error {
	query := `
		INSERT INTO geocode_cache (address, latitude, longitude)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO UPDATE
		SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			resolved_at = now();
	`

	_, err := r.db.Exec(ctx, query, address, coords.Latitude, coords.Longitude)
	if err != nil {
		return fmt.Errorf("failed to save coordinates to cache: %w", err)
	}

	return nil
}
