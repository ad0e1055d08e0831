package geocoding

import (
	"context"
	"net/http"

	"github.com/sviatoweb/films-locations/internal/models"
)

// Provider is an interface that defines a method for geocoding a free-text
// location. The Geocode method takes a context and a location string as input,
// and returns the corresponding coordinates, or an error when the lookup
// produced no usable result. A failed lookup is always an explicit error;
// providers never signal failure through a magic coordinate value.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
