package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sviatoweb/films-locations/internal/models"
	"golang.org/x/time/rate"
)

// PhotonBaseURL -- Photon API base URL.
const PhotonBaseURL = "https://photon.komoot.io/api"

// PhotonProvider implements geocoding using komoot's Photon API, a free
// OSM-backed search service that needs no API key.
type PhotonProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Photon API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// Common errors for Photon provider.
var (
	ErrPhotonEmptyResponse = errors.New("photon API returned empty response")
	ErrPhotonEmptyAddress  = errors.New("photon provider got empty address")
	ErrPhotonInvalidCoords = errors.New("photon API returned invalid coordinates")
)

// Photon API response (GeoJSON, simplified for the geocoding use-case).
type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"features"`
}

// NewPhotonProvider creates a new Photon geocoding provider.
func NewPhotonProvider(rateLimit int, log *slog.Logger) *PhotonProvider {
	const timeout = 10

	if rateLimit < 1 {
		rateLimit = 1
	}

	return &PhotonProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: PhotonBaseURL,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewPhotonProviderWithClient allows injecting a custom HTTP client.
func NewPhotonProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *PhotonProvider {
	return &PhotonProvider{
		client:  client,
		baseURL: PhotonBaseURL,
		log:     log,
		limiter: limiter,
	}
}

// Geocode converts an address into geographic coordinates using the Photon API.
func (pp *PhotonProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	const coordsListLength = 2

	if err := pp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	pp.log.DebugContext(ctx, "Geocoding using Photon", "address", address)

	if address == "" {
		return nil, ErrPhotonEmptyAddress
	}

	reqURL, err := url.Parse(pp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("q", address)
	query.Set("limit", "1")
	reqURL.RawQuery = query.Encode()

	pp.log.DebugContext(ctx, "Photon request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := pp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		pp.log.ErrorContext(ctx, "Photon API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("photon API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	pp.log.DebugContext(ctx, "Photon raw response", "body", string(body))

	var result photonResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode photon response: %w", err)
	}

	if len(result.Features) == 0 {
		return nil, ErrPhotonEmptyResponse
	}

	coords := result.Features[0].Geometry.Coordinates
	if len(coords) != coordsListLength {
		return nil, ErrPhotonInvalidCoords
	}

	lon := coords[0]
	lat := coords[1]

	pp.log.DebugContext(ctx, "Photon found result", "address", address, "lat", lat, "lon", lon)

	return &models.Coordinates{
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
