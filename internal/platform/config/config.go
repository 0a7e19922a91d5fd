package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration. Storage, geolocation, and the
// news provider are collaborators; only their connection details live here.
type Server struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	// GeoIPPath points at a MaxMind GeoLite2-City database. Empty disables
	// IP-based region inference; current-region always falls back.
	GeoIPPath string
	// DefaultRegion is returned when geolocation has no answer.
	DefaultRegion string

	NewsAPIURL string
	NewsAPIKey string

	StaticDir string

	// ThrottleLimit is requests per window per client IP; 0 disables the
	// throttle entirely.
	ThrottleLimit  int
	ThrottleWindow time.Duration

	LogLevel string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           getenv("ADDR", ":8000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		GeoIPPath:      os.Getenv("GEOIP_DB"),
		DefaultRegion:  getenv("DEFAULT_REGION", "AU"),
		NewsAPIURL:     os.Getenv("NEWS_API_URL"),
		NewsAPIKey:     os.Getenv("NEWS_API_KEY"),
		StaticDir:      os.Getenv("STATIC_DIR"),
		ThrottleLimit:  getint("THROTTLE_LIMIT", 0),
		ThrottleWindow: getduration("THROTTLE_WINDOW", time.Minute),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
