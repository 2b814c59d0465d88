package config

import (
	"os"
	"strconv"
	"time"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	DBDriver     string
	MySQLDSN     string
	SQLitePath   string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	UserCacheTTL time.Duration
	BcryptCost   int
	LogLevel     string
	SwaggerHost  string
	ResetDB      bool
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", DriverMySQL),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath:   getEnv("SQLITE_PATH", "userapi.db"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		UserCacheTTL: getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		BcryptCost:   getEnvInt("BCRYPT_COST", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		ResetDB:      getEnvBool("RESET_DB", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
