package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Env       string
	LogLevel  string
	LogFormat string

	// Backend API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Session persistence
	SessionStore   string
	SessionFile    string
	SessionProfile string
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	AppointmentPageSize int
	MetricsAddr         string

	// Fixture backend (cmd/mockapi)
	MockAPIPort      string
	MockAPIJWTSecret string
	MockAPITokenTTL  time.Duration
	MockAPIOrigins   []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", "text"))),

		APIBaseURL:  getEnv("MHRS_API_BASE_URL", "http://localhost:8080/api"),
		HTTPTimeout: getEnvAsDuration("MHRS_HTTP_TIMEOUT", 15*time.Second),

		SessionStore:   strings.ToLower(strings.TrimSpace(getEnv("MHRS_SESSION_STORE", "file"))),
		SessionFile:    getEnv("MHRS_SESSION_FILE", defaultSessionFile()),
		SessionProfile: getEnv("MHRS_SESSION_PROFILE", "default"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		AppointmentPageSize: getEnvAsInt("MHRS_APPOINTMENT_PAGE_SIZE", 10),
		MetricsAddr:         getEnv("MHRS_METRICS_ADDR", ""),

		MockAPIPort:      getEnv("MOCKAPI_PORT", "8080"),
		MockAPIJWTSecret: getEnv("MOCKAPI_JWT_SECRET", "mhrs-dev-secret"),
		MockAPITokenTTL:  getEnvAsDuration("MOCKAPI_TOKEN_TTL", 12*time.Hour),
		MockAPIOrigins:   getEnvAsList("MOCKAPI_CORS_ORIGINS", []string{"*"}),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "mhrs", "session.json")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
