// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// DatasetConfig provides the snapshot file locations the dashboard loads
// at startup.
type DatasetConfig interface {
	GetWaitTimesPath() string
	GetCitiesPath() string
	GetAliasesPath() string
}

// BulletinConfig provides the location of the optional bulletin snapshot.
type BulletinConfig interface {
	GetBulletinPath() string
}

// StorageConfig provides settings for the S3-compatible snapshot bucket.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetSnapshotBucket() string
	IsMinIOEnabled() bool
}

// FetchConfig provides settings for the snapshot fetch pipeline.
type FetchConfig interface {
	GetWaitTimesURL() string
	GetWorldCitiesURL() string
	GetBulletinIndexURL() string
	GetDOLProcessingURL() string
	GetFetchUserAgent() string
	GetFetchTimeout() time.Duration
	GetDataDir() string
}

// GeocodeConfig provides settings for the Nominatim fallback resolver.
type GeocodeConfig interface {
	GetGeocodeURL() string
	GetFetchUserAgent() string
	IsGeocodeEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	DataDir          string
	WaitTimesFile    string
	CitiesFile       string
	AliasesFile      string
	BulletinFile     string
	MinIOEndpoint    string
	MinIOAccessKey   string
	MinIOSecretKey   string
	MinIOUseSSL      bool
	SnapshotBucket   string
	WaitTimesURL     string
	WorldCitiesURL   string
	BulletinIndexURL string
	DOLProcessingURL string
	FetchUserAgent   string
	FetchTimeout     time.Duration
	GeocodeURL       string
	GeocodeEnabled   bool
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// DatasetConfig implementation
func (c *Config) GetWaitTimesPath() string { return filepath.Join(c.DataDir, c.WaitTimesFile) }
func (c *Config) GetCitiesPath() string    { return filepath.Join(c.DataDir, c.CitiesFile) }
func (c *Config) GetAliasesPath() string   { return filepath.Join(c.DataDir, c.AliasesFile) }

// BulletinConfig implementation
func (c *Config) GetBulletinPath() string { return filepath.Join(c.DataDir, c.BulletinFile) }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetSnapshotBucket() string { return c.SnapshotBucket }
func (c *Config) IsMinIOEnabled() bool      { return c.MinIOEndpoint != "" }

// FetchConfig implementation
func (c *Config) GetWaitTimesURL() string        { return c.WaitTimesURL }
func (c *Config) GetWorldCitiesURL() string      { return c.WorldCitiesURL }
func (c *Config) GetBulletinIndexURL() string    { return c.BulletinIndexURL }
func (c *Config) GetDOLProcessingURL() string    { return c.DOLProcessingURL }
func (c *Config) GetFetchUserAgent() string      { return c.FetchUserAgent }
func (c *Config) GetFetchTimeout() time.Duration { return c.FetchTimeout }
func (c *Config) GetDataDir() string             { return c.DataDir }

// GeocodeConfig implementation
func (c *Config) GetGeocodeURL() string  { return c.GeocodeURL }
func (c *Config) IsGeocodeEnabled() bool { return c.GeocodeEnabled }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		DataDir:        getEnv("DATA_DIR", "data"),
		WaitTimesFile:  getEnv("WAIT_TIMES_FILE", "waittimes.csv"),
		CitiesFile:     getEnv("CITIES_FILE", "cities.csv"),
		AliasesFile:    getEnv("ALIASES_FILE", "aliases.yaml"),
		BulletinFile:   getEnv("BULLETIN_FILE", "bulletin.json"),
		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:    strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		SnapshotBucket: getEnv("MINIO_BUCKET_SNAPSHOTS", "visa-snapshots"),
		WaitTimesURL: getEnv("WAIT_TIMES_URL",
			"https://travel.state.gov/content/travel/en/us-visas/visa-information-resources/global-visa-wait-times.html"),
		WorldCitiesURL: getEnv("WORLD_CITIES_URL",
			"https://simplemaps.com/static/data/world-cities/basic/simplemaps_worldcities_basicv1.77.zip"),
		BulletinIndexURL: getEnv("BULLETIN_INDEX_URL",
			"https://travel.state.gov/content/travel/en/legal/visa-law0/visa-bulletin.html"),
		DOLProcessingURL: getEnv("DOL_PROCESSING_URL",
			"https://flag.dol.gov/processingtimes"),
		FetchUserAgent: getEnv("FETCH_USER_AGENT",
			"visa-wait-time/1.0 (+https://github.com/roledad/visa-wait-time)"),
		FetchTimeout:   mustDuration(getEnv("FETCH_TIMEOUT", "60s")),
		GeocodeURL:     getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeEnabled: strings.EqualFold(getEnv("GEOCODE_ENABLED", "false"), "true"),
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.MinIOEndpoint != "" && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
