package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppPort           string
	DbHost            string
	DbPort            string
	DbUser            string
	DbPassword        string
	DbName            string
	DbParams          string
	DbMaxOpenConns    int
	TrustedProxies    []string
	DefaultTimezone   *time.Location
	AdminUserIDs      []uint64
	TranslationFolder string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		DbHost:            getEnv("MYSQL_HOST", "db"),
		DbPort:            getEnv("MYSQL_PORT", "3306"),
		DbUser:            getEnv("MYSQL_USER", "casetasks"),
		DbPassword:        getEnv("MYSQL_PASSWORD", "casetasks"),
		DbName:            getEnv("MYSQL_DATABASE", "casetasks"),
		DbParams:          getEnv("MYSQL_PARAMS", "parseTime=true&loc=UTC&multiStatements=true"),
		DbMaxOpenConns:    getEnvInt("MYSQL_MAX_OPEN_CONNS", 10),
		TrustedProxies:    splitList(os.Getenv("TRUSTED_PROXIES")),
		DefaultTimezone:   parseTimezone(getEnv("DEFAULT_TIMEZONE", "UTC")),
		AdminUserIDs:      parseUserIDs(os.Getenv("ADMIN_USER_IDS")),
		TranslationFolder: getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		zap.L().Warn("invalid integer setting, using default", zap.String("key", key), zap.Int("default", fallback))
		return fallback
	}
	return parsed
}

func parseTimezone(name string) *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		zap.L().Warn("unknown timezone, falling back to UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}

func parseUserIDs(value string) []uint64 {
	parts := splitList(value)
	if len(parts) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			zap.L().Warn("ignoring invalid admin user id", zap.String("value", part))
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	return items
}
