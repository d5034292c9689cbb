package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/nebula/internal/commands"
	"github.com/yoockh/nebula/internal/models"
	"github.com/yoockh/nebula/internal/providers/chat"
)

const msgTooLong = "Audio must be less than 10 minutes long."

// Processor runs the media pipeline for one request.
type Processor interface {
	Process(ctx context.Context, req models.PipelineRequest)
}

// WebhookHandler is the Telegram update entry point: it routes commands to
// the registry and media messages into the pipeline.
type WebhookHandler struct {
	pipeline    Processor
	chat        chat.Provider
	registry    *commands.Registry
	start       *commands.StartCommand
	maxDuration int // seconds
	log         *logrus.Logger
}

func NewWebhookHandler(p Processor, c chat.Provider, registry *commands.Registry, start *commands.StartCommand, maxDuration int, log *logrus.Logger) *WebhookHandler {
	if maxDuration <= 0 {
		maxDuration = 600
	}
	if log == nil {
		log = logrus.New()
	}
	return &WebhookHandler{
		pipeline:    p,
		chat:        c,
		registry:    registry,
		start:       start,
		maxDuration: maxDuration,
		log:         log,
	}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	var update models.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.WithError(err).Warn("malformed webhook payload")
		c.JSON(http.StatusBadRequest, gin.H{"status": "bad update"})
		return
	}

	msg := update.Message
	if msg == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	log := h.log.WithFields(logrus.Fields{
		"chat_id":    msg.Chat.ID,
		"message_id": msg.MessageID,
	})

	if msg.IsCommand() {
		h.handleCommand(c, log, msg)
		return
	}

	if media, kind, ok := msg.Media(); ok {
		h.handleMedia(c, log, msg, media, kind)
		return
	}

	log.Debug("unsupported message type")
	c.JSON(http.StatusOK, gin.H{"status": "unsupported"})
}

func (h *WebhookHandler) handleCommand(c *gin.Context, log *logrus.Entry, msg *models.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	name := fields[0]
	log.WithField("command", name).Info("handling command")

	// /start gets the personalized greeting when a first name is present.
	if name == "/start" && msg.From != nil && msg.From.FirstName != "" {
		if err := h.start.ExecuteWithName(c.Request.Context(), msg.Chat.ID, msg.From.FirstName); err != nil {
			log.WithError(err).Error("start command failed")
		}
		c.JSON(http.StatusOK, gin.H{"status": "command processed"})
		return
	}

	if !h.registry.Handle(c.Request.Context(), name, msg.Chat.ID) {
		log.WithField("command", name).Debug("unknown command")
	}
	c.JSON(http.StatusOK, gin.H{"status": "command processed"})
}

func (h *WebhookHandler) handleMedia(c *gin.Context, log *logrus.Entry, msg *models.Message, media *models.MediaFile, kind models.MediaKind) {
	if media.Duration > h.maxDuration {
		log.WithField("duration", media.Duration).Info("rejecting over-length audio")
		if _, err := h.chat.SendMessage(c.Request.Context(), msg.Chat.ID, msgTooLong); err != nil {
			log.WithError(err).Error("sending rejection message failed")
		}
		c.JSON(http.StatusOK, gin.H{"status": "message processed"})
		return
	}

	req := models.PipelineRequest{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		FileID:    media.FileID,
		Kind:      kind,
		Duration:  media.Duration,
	}
	if msg.From != nil {
		req.UserID = msg.From.ID
	}

	// The webhook must return promptly; the pipeline runs on its own
	// goroutine with a detached context so a closed HTTP request cannot
	// cancel in-flight provider calls.
	go h.pipeline.Process(context.Background(), req)

	c.JSON(http.StatusOK, gin.H{"status": "message processed"})
}
