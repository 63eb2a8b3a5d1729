package config

import (
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	JWTTTL        time.Duration
	CORSOrigin    string

	// BalanceTimeZone is the zone used to evaluate month-window boundaries
	// for filtered expense and balance queries. Defaults to UTC.
	BalanceTimeZone *time.Location
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "roomiesplit"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:          getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		BalanceTimeZone: getLocation("BALANCE_TIME_ZONE"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getLocation(key string) *time.Location {
	if value, exists := os.LookupEnv(key); exists {
		if loc, err := time.LoadLocation(value); err == nil {
			return loc
		}
	}
	return time.UTC
}
