package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GCP_PROJECT_ID", "test-project")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, "test-project", cfg.GCPProjectID)
	assert.Equal(t, "us-central1", cfg.GCPLocation)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Empty(t, cfg.ArchiveBucket)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "downloads", cfg.DownloadDir)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, 100, cfg.BufferMaxSize)
	assert.Equal(t, 24*time.Hour, cfg.BufferTTL)
	assert.Equal(t, 3, cfg.MaxRequestAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.MinRequestInterval)
	assert.Equal(t, 60*time.Second, cfg.CallTimeout)
	assert.Equal(t, 600, cfg.MaxAudioDurationSeconds)
	assert.Equal(t, 100, cfg.ShortMessageWordLimit)
	assert.Equal(t, 3, cfg.ContextWindowSize)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BUFFER_MAX_SIZE", "10")
	t.Setenv("BUFFER_TTL_HOURS", "1")
	t.Setenv("MAX_REQUEST_ATTEMPTS", "5")
	t.Setenv("MIN_REQUEST_INTERVAL_MS", "250")
	t.Setenv("MAX_AUDIO_DURATION_SECONDS", "120")
	t.Setenv("SHORT_MESSAGE_WORD_LIMIT", "50")
	t.Setenv("ARCHIVE_BUCKET", "nebula-audio")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BufferMaxSize)
	assert.Equal(t, time.Hour, cfg.BufferTTL)
	assert.Equal(t, 5, cfg.MaxRequestAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.MinRequestInterval)
	assert.Equal(t, 120, cfg.MaxAudioDurationSeconds)
	assert.Equal(t, 50, cfg.ShortMessageWordLimit)
	assert.Equal(t, "nebula-audio", cfg.ArchiveBucket)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("GCP_PROJECT_ID", "test-project")

	_, err := Load()
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
}

func TestLoad_MissingProject(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GCP_PROJECT_ID", "")

	_, err := Load()
	assert.ErrorContains(t, err, "GCP_PROJECT_ID")
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("BUFFER_MAX_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.BufferMaxSize)
}

func TestLoad_NonPositiveBufferSize(t *testing.T) {
	setRequired(t)
	t.Setenv("BUFFER_MAX_SIZE", "-1")

	_, err := Load()
	assert.ErrorContains(t, err, "BUFFER_MAX_SIZE")
}
