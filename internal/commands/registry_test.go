package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestRegistry_NormalizesNames(t *testing.T) {
	r := NewRegistry(quietLog())

	called := 0
	r.Register("start", func(ctx context.Context, chatID int64) error {
		called++
		return nil
	}, "Start the bot", "")

	// Registered without a slash, invocable with one, and vice versa.
	assert.True(t, r.Handle(context.Background(), "/start", 1))
	assert.True(t, r.Handle(context.Background(), "start", 1))
	assert.Equal(t, 2, called)
}

func TestRegistry_UnknownCommand(t *testing.T) {
	r := NewRegistry(quietLog())
	assert.False(t, r.Handle(context.Background(), "/bogus", 1))
}

func TestRegistry_HandlerErrorIsSwallowed(t *testing.T) {
	r := NewRegistry(quietLog())
	r.Register("/broken", func(ctx context.Context, chatID int64) error {
		return errors.New("boom")
	}, "", "")

	// A failing handler is still a handled command.
	assert.True(t, r.Handle(context.Background(), "/broken", 1))
}

func TestRegistry_AvailableCommands(t *testing.T) {
	r := NewRegistry(quietLog())
	noop := func(ctx context.Context, chatID int64) error { return nil }
	r.Register("help", noop, "Help", "")
	r.Register("start", noop, "Start the bot", "")

	assert.Equal(t, "/help: Help\n/start: Start the bot", r.AvailableCommands())
}

func TestRegistry_HelpText(t *testing.T) {
	r := NewRegistry(quietLog())
	noop := func(ctx context.Context, chatID int64) error { return nil }
	r.Register("start", noop, "Start the bot", "usage: /start")

	text, ok := r.HelpText("start")
	require.True(t, ok)
	assert.Equal(t, "usage: /start", text)

	_, ok = r.HelpText("/missing")
	assert.False(t, ok)
}

type recordingChat struct {
	texts []string
}

func (r *recordingChat) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	r.texts = append(r.texts, text)
	return 1, nil
}

func (r *recordingChat) EditMessage(ctx context.Context, chatID, messageID int64, text string) (int64, error) {
	return messageID, nil
}

func (r *recordingChat) GetFileURL(ctx context.Context, fileID string) (string, error) {
	return "", nil
}

func (r *recordingChat) Download(ctx context.Context, url, dest string) error {
	return nil
}

func TestStartCommand_PersonalizedGreeting(t *testing.T) {
	ch := &recordingChat{}
	cmd := NewStartCommand(ch)

	require.NoError(t, cmd.ExecuteWithName(context.Background(), 1, "Ada"))
	require.Len(t, ch.texts, 1)
	assert.Contains(t, ch.texts[0], "Hello, Ada! 👋")
	assert.Contains(t, ch.texts[0], "voice processing assistant")
}

func TestStartCommand_FallsBackWithoutName(t *testing.T) {
	ch := &recordingChat{}
	cmd := NewStartCommand(ch)

	require.NoError(t, cmd.ExecuteWithName(context.Background(), 1, ""))
	require.Len(t, ch.texts, 1)
	assert.NotContains(t, ch.texts[0], "Hello,")
}

func TestHelpCommand_SendsGuide(t *testing.T) {
	ch := &recordingChat{}
	cmd := NewHelpCommand(ch)

	require.NoError(t, cmd.Execute(context.Background(), 1))
	require.Len(t, ch.texts, 1)
	assert.Contains(t, ch.texts[0], "Help Guide")
}
