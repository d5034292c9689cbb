package commands

import (
	"context"
	"fmt"

	"github.com/yoockh/nebula/internal/providers/chat"
)

const welcomeMessage = "👋 Hi! I'm Nebula. I'm a voice processing assistant that helps you " +
	"with audio messages that are sent from chats on Whatsapp and Telegram.\n\n" +
	"🎯 Here's what I can do:\n" +
	"• Convert voice messages to text\n" +
	"• Provide summaries for longer messages (over 100 words)\n" +
	"• Process audio in multiple languages\n" +
	"• Generate insightful responses\n\n" +
	"📱 To use me, simply:\n" +
	"1. Send or forward any voice/audio message (up to 10 minutes)\n" +
	"2. Wait while I process it\n" +
	"3. Get your transcription, summary, and response!\n\n" +
	"🔒 Your messages are processed securely and deleted immediately after processing.\n\n" +
	"Try it now by sending a voice message! 🎤"

// StartCommand greets a user starting a conversation with the bot.
type StartCommand struct {
	chat chat.Provider
}

func NewStartCommand(c chat.Provider) *StartCommand {
	return &StartCommand{chat: c}
}

func (s *StartCommand) Execute(ctx context.Context, chatID int64) error {
	_, err := s.chat.SendMessage(ctx, chatID, welcomeMessage)
	return err
}

// ExecuteWithName prefixes the welcome with a personal greeting when the
// user's first name is known.
func (s *StartCommand) ExecuteWithName(ctx context.Context, chatID int64, firstName string) error {
	text := welcomeMessage
	if firstName != "" {
		text = fmt.Sprintf("Hello, %s! 👋\n\n%s", firstName, text)
	}
	_, err := s.chat.SendMessage(ctx, chatID, text)
	return err
}
