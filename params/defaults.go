package params

import (
	"time"

	"github.com/rotblauer/osmborders/osmapi"
)

var (
	DefaultBordersPath = "data/osm-borders.yml"
	DefaultOutDir      = "data/poly"
	DefaultFormat      = "poly"
	DefaultWorkers     = 1
	DefaultCacheSize   = 256
	DefaultCacheMaxAge = 7 * 24 * time.Hour
	DefaultAPIURL      = osmapi.DefaultBaseURL
	DefaultTimeout     = osmapi.DefaultTimeout
)

// Setting keys, shared by flags, environment variables (OSMBORDERS_ prefix,
// dashes as underscores) and the settings file.
const (
	KeyBorders     = "borders"
	KeyOut         = "out"
	KeyFormat      = "format"
	KeyCountry     = "country"
	KeyAPIURL      = "api-url"
	KeyTimeout     = "timeout"
	KeyRetries     = "retries"
	KeyWorkers     = "workers"
	KeyStrict      = "strict"
	KeyCacheSize   = "cache-size"
	KeyCacheDB     = "cache-db"
	KeyCacheMaxAge = "cache-max-age"
	KeyLogLevel    = "log-level"
)
