package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yoockh/nebula/internal/api/handlers"
	"github.com/yoockh/nebula/internal/api/middleware"
	"github.com/yoockh/nebula/internal/api/routes"
	"github.com/yoockh/nebula/internal/audio"
	"github.com/yoockh/nebula/internal/buffer"
	"github.com/yoockh/nebula/internal/commands"
	"github.com/yoockh/nebula/internal/config"
	"github.com/yoockh/nebula/internal/logger"
	"github.com/yoockh/nebula/internal/pipeline"
	"github.com/yoockh/nebula/internal/providers/chat"
	"github.com/yoockh/nebula/internal/providers/llm"
	"github.com/yoockh/nebula/internal/providers/stt"
	"github.com/yoockh/nebula/internal/retry"
	"github.com/yoockh/nebula/internal/services"
	"github.com/yoockh/nebula/internal/storage"
	"github.com/yoockh/nebula/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	ctx := context.Background()

	// External providers
	telegram := chat.NewTelegram(cfg.TelegramBotToken, chat.Options{
		MinInterval: cfg.MinRequestInterval,
		Attempts:    cfg.MaxRequestAttempts,
		Timeout:     cfg.CallTimeout,
	}, l)

	speech, err := stt.NewGoogleSpeech(ctx)
	if err != nil {
		log.Fatalf("speech init error: %v", err)
	}
	defer speech.Close()

	gemini, err := llm.NewVertexGemini(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("vertex init error: %v", err)
	}
	defer gemini.Close()

	var archive *storage.GCSArchive
	if cfg.ArchiveBucket != "" {
		archive, err = storage.NewGCSArchive(ctx, cfg.ArchiveBucket, l)
		if err != nil {
			log.Fatalf("archive init error: %v", err)
		}
		defer archive.Close()
		l.WithField("bucket", cfg.ArchiveBucket).Info("audio archive enabled")
	}

	// Core state and services
	workspace, err := audio.NewWorkspace(cfg.DownloadDir, l)
	if err != nil {
		log.Fatalf("workspace init error: %v", err)
	}

	buf := buffer.New(cfg.BufferMaxSize)
	policy := retry.Policy{Attempts: cfg.MaxRequestAttempts}

	deps := pipeline.Deps{
		Chat:          telegram,
		Transcriber:   services.NewTranscriber(speech, policy, cfg.CallTimeout),
		Summarizer:    services.NewSummarizer(gemini, policy, cfg.CallTimeout),
		Responder:     services.NewResponder(gemini, policy, cfg.CallTimeout),
		Converter:     audio.NewFFmpeg(),
		Workspace:     workspace,
		Buffer:        buf,
		Log:           l,
		WordLimit:     cfg.ShortMessageWordLimit,
		ContextWindow: cfg.ContextWindowSize,
	}
	if archive != nil {
		deps.Archiver = archive
	}
	pipe := pipeline.New(deps)

	// Commands
	registry := commands.NewRegistry(l)
	start := commands.NewStartCommand(telegram)
	help := commands.NewHelpCommand(telegram)
	registry.Register("start", start.Execute,
		"Start the bot", "Initialize the bot and see welcome message")
	registry.Register("help", help.Execute,
		"Help", "Gets tips on how to use Nebula")

	// Maintenance
	sweeper := &workers.Sweeper{
		Buffer:    buf,
		Workspace: workspace,
		TTL:       cfg.BufferTTL,
		Logger:    l,
	}
	if archive != nil {
		sweeper.Blobs = archive
	}
	if err := sweeper.Start(); err != nil {
		log.Fatalf("sweeper init error: %v", err)
	}
	defer sweeper.Stop()

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Webhook: handlers.NewWebhookHandler(pipe, telegram, registry, start, cfg.MaxAudioDurationSeconds, l),
	})

	l.WithField("port", cfg.Port).Info("bot server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
