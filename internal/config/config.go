package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the backend and the client
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogLevel             string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	Client               ClientConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// ClientConfig holds settings for the API client and the command-line front end
type ClientConfig struct {
	APIBaseURL     string
	TokenFile      string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "mysql"),
		Host:     getEnv("DB_HOST", "localhost"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "medconnect"),
	}

	switch dbConfig.Driver {
	case "mysql":
		dbConfig.Port = getEnv("DB_PORT", "3306")
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	case "postgres":
		dbConfig.Port = getEnv("DB_PORT", "5432")
		dbConfig.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbConfig.Host, dbConfig.Port, dbConfig.Username, dbConfig.Password, dbConfig.Name)
	case "sqlite":
		dbConfig.DSN = dbConfig.Name + ".db"
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q", dbConfig.Driver)
	}
	dbConfig.DSN = getEnv("DB_DSN", dbConfig.DSN)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "1440"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	timeoutSeconds, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_SECONDS: %w", err)
	}

	debounceMillis, err := strconv.Atoi(getEnv("SEARCH_DEBOUNCE_MS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE_MS: %w", err)
	}

	clientConfig := ClientConfig{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:3001/api/"),
		TokenFile:      getEnv("TOKEN_FILE", defaultTokenFile()),
		RequestTimeout: time.Duration(timeoutSeconds) * time.Second,
		SearchDebounce: time.Duration(debounceMillis) * time.Millisecond,
	}

	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:5173"),
		Environment:          getEnv("NODE_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		Database:             dbConfig,
		Client:               clientConfig,
	}, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".medconnect-token"
	}
	return filepath.Join(home, ".medconnect", "token")
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
