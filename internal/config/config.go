package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Root          string
	Extensions    []string
	Excludes      []string
	RulesFile     string
	LegacyPrePass bool
	ReportPath    string
	DatabaseURL   string
	WorkerCount   int
	LogLevel      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Root:          getEnv("LOCALIZER_ROOT", "src"),
		Extensions:    getEnvList("LOCALIZER_EXTENSIONS", []string{".ts", ".tsx"}),
		Excludes:      getEnvList("LOCALIZER_EXCLUDE", nil),
		RulesFile:     getEnv("LOCALIZER_RULES_FILE", ""),
		LegacyPrePass: getEnvBool("LOCALIZER_LEGACY_PREPASS", false),
		ReportPath:    getEnv("LOCALIZER_REPORT", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		WorkerCount:   getEnvInt("WORKER_COUNT", 8),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer, using default")
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid boolean, using default")
		return fallback
	}
	return b
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
