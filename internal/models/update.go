package models

// Telegram Bot API update envelope, reduced to the fields the webhook consumes.

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64           `json:"message_id"`
	Chat      Chat            `json:"chat"`
	From      *User           `json:"from"`
	Text      string          `json:"text"`
	Entities  []MessageEntity `json:"entities"`
	Voice     *MediaFile      `json:"voice"`
	Audio     *MediaFile      `json:"audio"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

type MediaFile struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
	MimeType string `json:"mime_type"`
}

// Media returns the voice or audio attachment of the message, along with its
// kind, or false when the message carries neither.
func (m *Message) Media() (*MediaFile, MediaKind, bool) {
	switch {
	case m.Voice != nil:
		return m.Voice, MediaKindVoice, true
	case m.Audio != nil:
		return m.Audio, MediaKindAudio, true
	default:
		return nil, "", false
	}
}

// IsCommand reports whether the message is a bot command (leading
// bot_command entity).
func (m *Message) IsCommand() bool {
	return len(m.Entities) > 0 && m.Entities[0].Type == "bot_command"
}
