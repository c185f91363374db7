package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Environment names accepted for the ENVIRONMENT variable.
const (
	Development = "development"
	Production  = "production"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations.
type Config struct {
	Environment  string // application environment (development|production)
	Port         string // HTTP port to listen on
	DatabaseURL  string // MySQL DSN for the relational store
	SecretKey    string // secret used to sign access tokens
	Algorithm    string // JWT signing algorithm name (HS256, HS384, HS512)
	AccessTTLMin int    // access token time-to-live in minutes
	OllamaURL    string // base URL of the inference server
	FrontendURL  string // allowed CORS origin in production
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message before the server
// binds. Load is idempotent and may be called more than once.
func Load() Config {
	return Config{
		Environment:  must("ENVIRONMENT"),
		Port:         getenv("APP_PORT", "8000"),
		DatabaseURL:  must("DATABASE_URL"),
		SecretKey:    must("SECRET_KEY"),
		Algorithm:    must("ALGORITHM"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_EXPIRE_MINUTES"),
		OllamaURL:    must("OLLAMA_URL"),
		FrontendURL:  must("FRONTEND_URL"),
	}
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool { return c.Environment == Development }

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool { return c.Environment == Production }

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// getenv returns the value of an optional environment variable, or the
// given default when it is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
