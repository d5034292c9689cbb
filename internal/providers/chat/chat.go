package chat

import "context"

// Provider is the outbound chat capability the pipeline depends on. Message
// ids are returned so callers can keep editing one status message in place.
type Provider interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	EditMessage(ctx context.Context, chatID, messageID int64, text string) (int64, error)
	GetFileURL(ctx context.Context, fileID string) (string, error)
	Download(ctx context.Context, url, dest string) error
}
