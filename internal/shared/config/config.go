package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port                 string
	CORSAllowOrigin      []string
	DatabaseURL          string
	Env                  string
	MaxFileSizeBytes     int64
	DisableMultipleFiles bool
	DisableLivePreview   bool
	RateLimitPerMinute   int
	GDriveClientID       string
	GDriveClientSecret   string
	GDriveRedirectURL    string
	DropboxClientID      string
	DropboxClientSecret  string
	DropboxRedirectURL   string
	UIRedirectURL        string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:                 getEnv("PORT", "8080"),
		CORSAllowOrigin:      splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:          dbURL,
		Env:                  env,
		MaxFileSizeBytes:     getEnvInt64("MAX_FILE_SIZE_BYTES", 0),
		DisableMultipleFiles: getEnvBool("DISABLE_MULTIPLE_FILES", false),
		DisableLivePreview:   getEnvBool("DISABLE_LIVE_PREVIEW", false),
		RateLimitPerMinute:   int(getEnvInt64("RATE_LIMIT_PER_MINUTE", 120)),
		GDriveClientID:       getEnv("GDRIVE_CLIENT_ID", ""),
		GDriveClientSecret:   getEnv("GDRIVE_CLIENT_SECRET", ""),
		GDriveRedirectURL:    getEnv("GDRIVE_REDIRECT_URL", ""),
		DropboxClientID:      getEnv("DROPBOX_CLIENT_ID", ""),
		DropboxClientSecret:  getEnv("DROPBOX_CLIENT_SECRET", ""),
		DropboxRedirectURL:   getEnv("DROPBOX_REDIRECT_URL", ""),
		UIRedirectURL:        getEnv("UI_REDIRECT_URL", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config %s invalid bool: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
