package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT / session cookie
	JWTSecret       string
	JWTAccessExpiry time.Duration
	CookieSecure    bool
	CookieDomain    string

	// External catalog providers
	TMDBAPIKey       string
	IGDBClientID     string
	IGDBClientSecret string
	ProviderTimeout  time.Duration

	// Response cache
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Uploads
	UploadDir string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "mediatrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "30m")),
		CookieSecure:    parseBool(getEnv("COOKIE_SECURE", "false")),
		CookieDomain:    getEnv("COOKIE_DOMAIN", ""),

		TMDBAPIKey:       getEnv("TMDB_API_KEY", ""),
		IGDBClientID:     getEnv("IGDB_CLIENT_ID", ""),
		IGDBClientSecret: getEnv("IGDB_CLIENT_SECRET", ""),
		ProviderTimeout:  parseDuration(getEnv("PROVIDER_TIMEOUT", "10s")),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0")),
		CacheTTL:      parseDuration(getEnv("CACHE_TTL", "1h")),

		UploadDir: getEnv("UPLOAD_DIR", "./static"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
