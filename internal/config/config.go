package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/sviatoweb/films-locations/internal/models"
)

// Default reference point, downtown Los Angeles. The listing this tool
// was written for is dominated by southern California addresses.
const (
	defaultLatitude  = 34.0536909
	defaultLongitude = -118.242766
)

// Config holds the configuration settings for the map generator.
// Values come from command line flags, FILMAP_* environment variables and
// an optional .env file, in that order of precedence.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - File: The path of the film locations listing to parse.
// - Mode: The marker selection mode, radius or ranked.
// - RadiusKm: Locations farther than this from the reference are skipped.
// - Cap: The marker limit; 0 picks the mode default.
// - Year: Keep only films of this year; 0 keeps all.
// - Output: The path of the rendered map artifact.
// - Format: The output format, html or geojson.
// - Workers: The number of concurrent workers for geocoding requests.
// - Reference: The point distances are measured from.
// - HealthPort: The monitoring server port; 0 disables the server.
// - Provider: Configuration of the geocoding provider.
// - Database: Configuration of the optional postgres geocode cache.
// - S3: Configuration of the optional artifact upload.
type Config struct {
	Env        string
	File       string
	Mode       string
	RadiusKm   float64
	Cap        int
	Year       int
	Output     string
	Format     string
	Workers    int
	Reference  models.Coordinates
	HealthPort int
	Provider   ProviderConfig
	Database   PostgresConfig
	S3         S3Config
}

// ProviderConfig holds the geocoding provider settings.
type ProviderConfig struct {
	Type string // Type specifies which geocoding provider to use.
	Key  string // The API key for accessing external services.
	Rate int    // Rate limits provider requests per second.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// Enabled reports whether a persistent geocode cache was configured.
func (pc PostgresConfig) Enabled() bool {
	return pc.Host != ""
}

// S3Config holds the settings of the optional artifact upload.
type S3Config struct {
	Endpoint  string // Endpoint is the S3-compatible server address.
	AccessKey string // AccessKey is the static access key.
	SecretKey string // SecretKey is the static secret key.
	Bucket    string // Bucket is the bucket the artifact is uploaded into.
	UseSSL    bool   // UseSSL switches the connection to TLS.
}

// Enabled reports whether the artifact upload was configured.
func (sc S3Config) Enabled() bool {
	return sc.Endpoint != "" && sc.Bucket != ""
}

// Load parses the given command line arguments and merges them with
// environment variables and defaults. It returns an error for unknown
// flags or values that fail validation.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("filmap", pflag.ContinueOnError)
	flags.String("file", "locations.list", "path of the film locations listing")
	flags.String("mode", "radius", "marker selection mode: radius or ranked")
	flags.Float64("radius", 2000, "search radius in kilometers")
	flags.Int("cap", 0, "marker limit, 0 picks the mode default")
	flags.Int("year", 0, "keep only films of this year, 0 keeps all")
	flags.String("output", "Map.html", "path of the rendered map")
	flags.String("format", "html", "output format: html or geojson")
	flags.Int("workers", 4, "number of concurrent geocoding workers")
	flags.String("provider", "nominatim", "geocoding provider: nominatim, photon or google")
	flags.Float64("lat", defaultLatitude, "latitude of the reference point")
	flags.Float64("lon", defaultLongitude, "longitude of the reference point")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	vpr := viper.New()
	vpr.SetEnvPrefix("FILMAP")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	vpr.SetDefault("env", "production")
	vpr.SetDefault("file", "locations.list")
	vpr.SetDefault("mode", "radius")
	vpr.SetDefault("radius", 2000)
	vpr.SetDefault("cap", 0)
	vpr.SetDefault("year", 0)
	vpr.SetDefault("output", "Map.html")
	vpr.SetDefault("format", "html")
	vpr.SetDefault("workers", 4)
	vpr.SetDefault("lat", defaultLatitude)
	vpr.SetDefault("lon", defaultLongitude)
	vpr.SetDefault("provider.type", "nominatim")
	vpr.SetDefault("provider.key", "")
	vpr.SetDefault("provider.rate", 1)
	vpr.SetDefault("health.port", 0)

	bindings := map[string]string{
		"file":          "file",
		"mode":          "mode",
		"radius":        "radius",
		"cap":           "cap",
		"year":          "year",
		"output":        "output",
		"format":        "format",
		"workers":       "workers",
		"lat":           "lat",
		"lon":           "lon",
		"provider.type": "provider",
	}
	for key, flag := range bindings {
		if err := vpr.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	reference := models.Coordinates{
		Latitude:  vpr.GetFloat64("lat"),
		Longitude: vpr.GetFloat64("lon"),
	}

	cfg := &Config{
		Env:        vpr.GetString("env"),
		File:       vpr.GetString("file"),
		Mode:       vpr.GetString("mode"),
		RadiusKm:   vpr.GetFloat64("radius"),
		Cap:        vpr.GetInt("cap"),
		Year:       vpr.GetInt("year"),
		Output:     vpr.GetString("output"),
		Format:     vpr.GetString("format"),
		Workers:    vpr.GetInt("workers"),
		Reference:  reference,
		HealthPort: vpr.GetInt("health.port"),
		Provider: ProviderConfig{
			Type: vpr.GetString("provider.type"),
			Key:  vpr.GetString("provider.key"),
			Rate: vpr.GetInt("provider.rate"),
		},
		Database: PostgresConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
		},
		S3: S3Config{
			Endpoint:  vpr.GetString("s3.endpoint"),
			AccessKey: vpr.GetString("s3.access_key"),
			SecretKey: vpr.GetString("s3.secret_key"),
			Bucket:    vpr.GetString("s3.bucket"),
			UseSSL:    vpr.GetBool("s3.use_ssl"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mode != "radius" && c.Mode != "ranked" {
		return fmt.Errorf("unsupported mode: %s", c.Mode)
	}
	if c.Format != "html" && c.Format != "geojson" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	if c.RadiusKm <= 0 {
		return fmt.Errorf("radius must be positive, got %v", c.RadiusKm)
	}
	if c.Cap < 0 {
		return fmt.Errorf("cap must not be negative, got %d", c.Cap)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if !c.Reference.Valid() {
		return fmt.Errorf("reference coordinates (%v, %v) are out of range",
			c.Reference.Latitude, c.Reference.Longitude)
	}
	return nil
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}

	return value
}
