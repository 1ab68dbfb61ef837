// Package config loads and validates application configuration from
// environment variables, with support for required variables, default
// values, and collective error reporting.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PoolConfig holds settings for the PostgreSQL connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds token-signing and password-hashing settings.
type AuthConfig struct {
	JWTSecret           string
	AccessTokenDuration time.Duration
	BcryptCost          int
}

// LockoutConfig holds the login brute-force protection settings.
type LockoutConfig struct {
	// MaxAttempts is the number of failed logins within AttemptWindow that
	// triggers a temporary block.
	MaxAttempts int
	// AttemptWindow is the sliding window over which failures are counted.
	AttemptWindow time.Duration
	// BlockDuration is how long a blocked username stays blocked.
	BlockDuration time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        string
	Environment string // "development" or "production"
}

// KeepAliveConfig holds settings for the optional self-ping worker.
// An empty URL disables the worker.
type KeepAliveConfig struct {
	URL      string
	Interval time.Duration
}

// AppConfig is the top-level configuration for the application.
type AppConfig struct {
	DB        *PoolConfig
	Auth      *AuthConfig
	Lockout   *LockoutConfig
	Server    *ServerConfig
	KeepAlive *KeepAliveConfig
}

// IsProduction reports whether the service runs with production settings.
// Error responses omit internal detail in this mode.
func (c *AppConfig) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size within sane bounds.
func clampPoolSize(size int, varName string, errs *[]string) int {
	if size < 2 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 2, clamping to 2", varName, size))
		return 2
	}
	if size > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig builds an AppConfig from the environment. All problems found
// while loading are collected and returned as a single error.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), "DB_POOL_SIZE", &errs)

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	accessTokenDuration := getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", time.Hour, &errs)
	bcryptCost := getOptionalEnvInt("BCRYPT_COST", bcrypt.DefaultCost, &errs)
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("invalid BCRYPT_COST %d: must be between %d and %d", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
		bcryptCost = bcrypt.DefaultCost
	}

	authConfig := &AuthConfig{
		JWTSecret:           jwtSecret,
		AccessTokenDuration: accessTokenDuration,
		BcryptCost:          bcryptCost,
	}

	lockoutConfig := &LockoutConfig{
		MaxAttempts:   getOptionalEnvInt("LOGIN_MAX_ATTEMPTS", 5, &errs),
		AttemptWindow: getOptionalEnvDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute, &errs),
		BlockDuration: getOptionalEnvDuration("LOGIN_BLOCK_DURATION", 15*time.Minute, &errs),
	}
	if lockoutConfig.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("invalid LOGIN_MAX_ATTEMPTS %d: must be at least 1", lockoutConfig.MaxAttempts))
		lockoutConfig.MaxAttempts = 5
	}

	environment := getOptionalEnv("APP_ENV", "development")
	if environment != "development" && environment != "production" {
		errs = append(errs, fmt.Sprintf("invalid APP_ENV '%s': must be 'development' or 'production'", environment))
	}
	serverConfig := &ServerConfig{
		Port:        getOptionalEnv("PORT", "8080"),
		Environment: environment,
	}

	keepAliveConfig := &KeepAliveConfig{
		URL:      getOptionalEnv("KEEP_ALIVE_URL", ""),
		Interval: getOptionalEnvDuration("KEEP_ALIVE_INTERVAL", 10*time.Minute, &errs),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:        dbConfig,
		Auth:      authConfig,
		Lockout:   lockoutConfig,
		Server:    serverConfig,
		KeepAlive: keepAliveConfig,
	}, nil
}
