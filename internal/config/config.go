package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Revocation store backends
const (
	RevocationBackendDatabase = "database"
	RevocationBackendRedis    = "redis"
	RevocationBackendMemory   = "memory"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Browser origins allowed to make credentialed requests
	CORSAllowedOrigins []string

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Tokens
	SecretKey           string
	Algorithm           string
	AccessTokenExpires  time.Duration
	RefreshTokenExpires time.Duration
	CookieSecure        bool

	// Revocation
	RevocationBackend string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	// Generative AI
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	// Scheduled jobs
	StatsRollupSchedule       string
	RevokedTokenPurgeSchedule string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                      getEnv("PORT", "8080"),
		Environment:               getEnv("ENVIRONMENT", "development"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:        getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		DBHost:                    getEnv("DB_HOST", "localhost"),
		DBPort:                    getEnvInt("DB_PORT", 5432),
		DBUser:                    getEnv("DB_USER", "postgres"),
		DBPassword:                getEnv("DB_PASSWORD", "postgres"),
		DBName:                    getEnv("DB_NAME", "my_diary"),
		DBSSLMode:                 getEnv("DB_SSLMODE", "disable"),
		SecretKey:                 getEnv("SECRET_KEY", ""),
		Algorithm:                 getEnv("ALGORITHM", "HS256"),
		AccessTokenExpires:        time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshTokenExpires:       time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRE_MINUTES", 60*24*7)) * time.Minute,
		CookieSecure:              getEnvBool("COOKIE_SECURE", true),
		RevocationBackend:         getEnv("REVOCATION_BACKEND", RevocationBackendDatabase),
		RedisAddr:                 getEnv("REDIS_ADDR", ""),
		RedisPassword:             getEnv("REDIS_PASSWORD", ""),
		RedisDB:                   getEnvInt("REDIS_DB", 0),
		GeminiAPIKey:              getEnv("GEMINI_API_KEY", ""),
		GeminiModel:               getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		AITimeout:                 time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		StatsRollupSchedule:       getEnv("STATS_ROLLUP_SCHEDULE", "5 0 * * *"),
		RevokedTokenPurgeSchedule: getEnv("REVOKED_TOKEN_PURGE_SCHEDULE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY environment variable is required")
	}

	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("ALGORITHM must be one of HS256, HS384, HS512, got %q", c.Algorithm)
	}

	if c.AccessTokenExpires <= 0 || c.RefreshTokenExpires <= 0 {
		return fmt.Errorf("token expiry minutes must be positive")
	}

	switch c.RevocationBackend {
	case RevocationBackendDatabase, RevocationBackendMemory:
	case RevocationBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when REVOCATION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown REVOCATION_BACKEND %q", c.RevocationBackend)
	}

	return nil
}

// DSN returns the postgres connection string. DATABASE_URL wins over the
// individual DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// String renders the configuration with secrets masked.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "port=%s env=%s ", c.Port, c.Environment)
	fmt.Fprintf(&sb, "db=%s:%d/%s user=%s password=%s ", c.DBHost, c.DBPort, c.DBName, c.DBUser, mask(c.DBPassword))
	fmt.Fprintf(&sb, "secret_key=%s algorithm=%s ", mask(c.SecretKey), c.Algorithm)
	fmt.Fprintf(&sb, "access_ttl=%s refresh_ttl=%s ", c.AccessTokenExpires, c.RefreshTokenExpires)
	fmt.Fprintf(&sb, "revocation=%s gemini_model=%s gemini_api_key=%s", c.RevocationBackend, c.GeminiModel, mask(c.GeminiAPIKey))
	return sb.String()
}

func mask(value string) string {
	if len(value) <= 3 {
		return strings.Repeat("*", 7)
	}
	return value[:3] + strings.Repeat("*", 7)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	var list []string
	for _, item := range strings.Split(getEnv(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
