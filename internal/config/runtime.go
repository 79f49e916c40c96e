package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort              = "8080"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTAccessTTL      = "24h"
	defaultUploadsDir        = "./uploads"
	defaultMaxFileSize       = 500 << 20 // 500 MiB
	defaultMaxFiles          = 10
	defaultMemoryBufferLimit = 10 << 20 // 10 MiB
)

type RuntimeConfig struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	UploadsDir        string
	MaxFileSize       int64 // per file, bytes
	MaxFiles          int   // per request
	MemoryBufferLimit int64 // files above this are not buffered in memory
}

func LoadRuntimeConfig() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.MaxFileSize, err = parseInt64Env("UPLOAD_MAX_FILE_SIZE", defaultMaxFileSize)
	if err != nil {
		return nil, err
	}

	maxFiles, err := parseInt64Env("UPLOAD_MAX_FILES", defaultMaxFiles)
	if err != nil {
		return nil, err
	}
	cfg.MaxFiles = int(maxFiles)

	cfg.MemoryBufferLimit, err = parseInt64Env("UPLOAD_MEMORY_BUFFER_LIMIT", defaultMemoryBufferLimit)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *RuntimeConfig) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be > 0")
	}
	if cfg.MaxFiles <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILES must be > 0")
	}
	if cfg.MemoryBufferLimit <= 0 {
		return fmt.Errorf("UPLOAD_MEMORY_BUFFER_LIMIT must be > 0")
	}
	if cfg.UploadsDir == "" {
		return fmt.Errorf("UPLOADS_DIR must not be empty")
	}

	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

func parseInt64Env(key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	return n, nil
}

func isProdLike(env string) bool {
	switch env {
	case "prod", "production", "release":
		return true
	}
	return false
}
