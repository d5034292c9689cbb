package models

import (
	"fmt"
	"time"
)

type MediaKind string

const (
	MediaKindVoice MediaKind = "voice"
	MediaKindAudio MediaKind = "audio"
)

// MediaEntry is one audio message tracked by the context buffer. Identity is
// (chat id, message id); see EntryKey.
type MediaEntry struct {
	ChatID        int64
	MessageID     int64
	UserID        int64
	Filepath      string
	Timestamp     time.Time
	Transcription string
	Duration      int // seconds, 0 when the provider did not report one
}

func EntryKey(chatID, messageID int64) string {
	return fmt.Sprintf("%d_%d", chatID, messageID)
}

// PipelineRequest carries one inbound voice/audio message from the webhook
// layer into the pipeline. It is consumed once and not retained.
type PipelineRequest struct {
	ChatID    int64
	MessageID int64
	UserID    int64
	FileID    string
	Kind      MediaKind
	Duration  int // seconds
}
