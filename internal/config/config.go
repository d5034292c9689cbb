package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config is the full process configuration, read from the environment once at
// startup. Callers load a .env file (godotenv) before calling Load.
type Config struct {
	TelegramBotToken string

	GCPProjectID string
	GCPLocation  string
	GeminiModel  string

	// ArchiveBucket enables the GCS audio archive when non-empty.
	ArchiveBucket string

	Port        string
	DownloadDir string
	LogLevel    string

	BufferMaxSize int
	BufferTTL     time.Duration

	MaxRequestAttempts int
	MinRequestInterval time.Duration
	CallTimeout        time.Duration

	MaxAudioDurationSeconds int
	ShortMessageWordLimit   int
	ContextWindowSize       int
}

func Load() (*Config, error) {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GCPProjectID:     os.Getenv("GCP_PROJECT_ID"),
		GCPLocation:      envString("GCP_LOCATION", "us-central1"),
		GeminiModel:      envString("GEMINI_MODEL", "gemini-1.5-flash"),
		ArchiveBucket:    os.Getenv("ARCHIVE_BUCKET"),
		Port:             envString("PORT", "8080"),
		DownloadDir:      envString("DOWNLOAD_DIR", "downloads"),
		LogLevel:         envString("LOG_LEVEL", "info"),

		BufferMaxSize: envInt("BUFFER_MAX_SIZE", 100),
		BufferTTL:     time.Duration(envInt("BUFFER_TTL_HOURS", 24)) * time.Hour,

		MaxRequestAttempts: envInt("MAX_REQUEST_ATTEMPTS", 3),
		MinRequestInterval: time.Duration(envInt("MIN_REQUEST_INTERVAL_MS", 100)) * time.Millisecond,
		CallTimeout:        time.Duration(envInt("CALL_TIMEOUT_SECONDS", 60)) * time.Second,

		MaxAudioDurationSeconds: envInt("MAX_AUDIO_DURATION_SECONDS", 600),
		ShortMessageWordLimit:   envInt("SHORT_MESSAGE_WORD_LIMIT", 100),
		ContextWindowSize:       envInt("CONTEXT_WINDOW_SIZE", 3),
	}

	if cfg.TelegramBotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	if cfg.GCPProjectID == "" {
		return nil, errors.New("GCP_PROJECT_ID environment variable is not set")
	}
	if cfg.BufferMaxSize <= 0 {
		return nil, errors.New("BUFFER_MAX_SIZE must be positive")
	}
	if cfg.MaxRequestAttempts <= 0 {
		return nil, errors.New("MAX_REQUEST_ATTEMPTS must be positive")
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
