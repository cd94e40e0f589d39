package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends for save data.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	// Store selects the save backend: memory, sqlite, or redis.
	Store      string
	SQLitePath string
	RedisURL   string

	ScenePath string
	SaveSlot  int
	Verbose   bool
	Mute      bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		Store:       getEnv("SAVE_STORE", StoreSQLite),
		SQLitePath:  getEnv("SQLITE_PATH", "stagehand.db"),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		ScenePath:   getEnv("SCENE_PATH", "data/scene.json"),
		SaveSlot:    getEnvInt("SAVE_SLOT", 1),
		Verbose:     getEnvBool("VERBOSE", true),
		Mute:        getEnvBool("MUTE", false),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
