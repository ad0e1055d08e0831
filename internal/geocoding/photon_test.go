package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sviatoweb/films-locations/internal/geocoding"
	"golang.org/x/time/rate"
)

func TestPhotonProvider_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	noLimit := rate.NewLimiter(rate.Inf, 0)

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "photon.komoot.io")
				assert.Equal(t, "Brandenburg Gate, Berlin", req.URL.Query().Get("q"))
				assert.Equal(t, "1", req.URL.Query().Get("limit"))
				assert.Equal(t, "application/json", req.Header.Get("Accept"))

				responseBody := `{"features":[{"geometry":{"coordinates":[13.3777,52.5163]}}]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, noLimit, logger)
		coords, err := provider.Geocode(ctx, "Brandenburg Gate, Berlin")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 52.5163, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 13.3777, coords.Longitude, 0.0001)
	})

	t.Run("empty features list", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"features":[]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, noLimit, logger)
		coords, err := provider.Geocode(ctx, "unresolvable address")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrPhotonEmptyResponse)
	})

	t.Run("empty address rejected before request", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("no request expected for an empty address")
				return nil, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, noLimit, logger)
		coords, err := provider.Geocode(ctx, "")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrPhotonEmptyAddress)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusBadGateway,
					Body:       io.NopCloser(bytes.NewBufferString(`upstream error`)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, noLimit, logger)
		coords, err := provider.Geocode(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "photon API returned status 502")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`not json`)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, noLimit, logger)
		coords, err := provider.Geocode(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to decode photon response")
	})

	t.Run("malformed coordinates list", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"features":[{"geometry":{"coordinates":[13.3777]}}]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, noLimit, logger)
		coords, err := provider.Geocode(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrPhotonInvalidCoords)
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, noLimit, logger)
		coords, err := provider.Geocode(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to execute geocoding request")
	})
}

func TestNewPhotonProvider(t *testing.T) {
	logger := slog.Default()

	provider := geocoding.NewPhotonProvider(1, logger)

	require.NotNil(t, provider)
}
