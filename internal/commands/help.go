package commands

import (
	"context"

	"github.com/yoockh/nebula/internal/providers/chat"
)

const helpMessage = "🤖 <b>Nebula Bot Help Guide</b>\n\n" +
	"I'm your voice processing assistant that helps with messages " +
	"from Telegram and WhatsApp chats.\n\n" +
	"🎯 <b>Main Features</b>:\n" +
	"• Voice message transcription\n" +
	"• Automatic language detection\n" +
	"• Smart summarization for longer messages\n" +
	"• Contextual responses\n\n" +
	"📱 <b>Supported Messages</b>:\n" +
	"• Voice messages (up to 10 minutes)\n" +
	"• Audio files (m4a and ogg format)\n\n" +
	"💡 <b>Tips</b>:\n" +
	"• Forward messages from WhatsApp or Telegram!\n" +
	"• Messages under 100 words get transcription only\n" +
	"• Longer messages receive summaries and responses\n" +
	"• All audio is processed securely and deleted after analysis\n\n" +
	"Type /start to begin using the bot!"

type HelpCommand struct {
	chat chat.Provider
}

func NewHelpCommand(c chat.Provider) *HelpCommand {
	return &HelpCommand{chat: c}
}

func (h *HelpCommand) Execute(ctx context.Context, chatID int64) error {
	_, err := h.chat.SendMessage(ctx, chatID, helpMessage)
	return err
}
