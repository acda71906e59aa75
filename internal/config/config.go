package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	devSecret = "dev-secret-change-me"
)

type Config struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	StorageBackend  string
	JWTSecret       string
	AllowedOrigins  string
	LogLevel        string
	LogPretty       bool
	ShutdownTimeout time.Duration
	DBMaxOpenConns  int
}

// Load reads the environment, after an optional .env file in the working
// directory. Variables already set win over the file.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", BackendPostgres)),
		JWTSecret:       getEnv("JWT_SECRET", devSecret),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getBool("LOG_PRETTY", false),
		ShutdownTimeout: getSeconds("SHUTDOWN_TIMEOUT_SECONDS", 10),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 30),
	}
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Origins splits AllowedOrigins on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []error
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Errorf("PORT must be between 1 and 65535, got %q", c.Port))
	}
	switch c.StorageBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.StorageBackend))
	}
	if c.JWTSecret == "" || (!c.IsDevelopment() && c.JWTSecret == devSecret) {
		problems = append(problems, errors.New("JWT_SECRET must be set outside development"))
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive"))
	}
	if c.DBMaxOpenConns < 1 {
		problems = append(problems, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	return errors.Join(problems...)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getSeconds(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getInt(key, fallbackSeconds)) * time.Second
}
