package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/nebula/internal/buffer"
	"github.com/yoockh/nebula/internal/models"
	"github.com/yoockh/nebula/internal/providers/chat"
	"github.com/yoockh/nebula/internal/services"
)

// Converter normalizes a downloaded audio file into the fixed target format.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Archiver stores a processed file off-box, best-effort.
type Archiver interface {
	Archive(ctx context.Context, localPath string) (string, error)
}

// Workspace resolves where downloads and converted files live.
type Workspace interface {
	TempPath(name string) string
	DownloadPath(name string) string
}

// Pipeline drives one media message through download, conversion,
// transcription, and - for long transcripts - summarization and response
// generation, editing a single status message in the chat as it goes.
type Pipeline struct {
	chat        chat.Provider
	transcriber services.TranscriberService
	summarizer  services.SummarizerService
	responder   services.ResponderService
	converter   Converter
	workspace   Workspace
	buffer      *buffer.Buffer
	archiver    Archiver // nil when archiving is disabled
	log         *logrus.Logger

	wordLimit     int
	contextWindow int

	now func() time.Time
}

type Deps struct {
	Chat        chat.Provider
	Transcriber services.TranscriberService
	Summarizer  services.SummarizerService
	Responder   services.ResponderService
	Converter   Converter
	Workspace   Workspace
	Buffer      *buffer.Buffer
	Archiver    Archiver
	Log         *logrus.Logger

	// WordLimit is the transcript length, in whitespace-delimited words,
	// below which only the transcription is returned. Zero means 100.
	WordLimit int
	// ContextWindow caps how many prior buffer entries feed the response.
	// Zero means 3.
	ContextWindow int
}

func New(d Deps) *Pipeline {
	if d.WordLimit <= 0 {
		d.WordLimit = 100
	}
	if d.ContextWindow <= 0 {
		d.ContextWindow = 3
	}
	if d.Log == nil {
		d.Log = logrus.New()
	}
	return &Pipeline{
		chat:          d.Chat,
		transcriber:   d.Transcriber,
		summarizer:    d.Summarizer,
		responder:     d.Responder,
		converter:     d.Converter,
		workspace:     d.Workspace,
		buffer:        d.Buffer,
		archiver:      d.Archiver,
		log:           d.Log,
		wordLimit:     d.WordLimit,
		contextWindow: d.ContextWindow,
		now:           time.Now,
	}
}

// Process runs the whole pipeline for one request. It never returns an error:
// every failure path ends in exactly one user-visible message, and temporary
// files are removed on every exit path.
func (p *Pipeline) Process(ctx context.Context, req models.PipelineRequest) {
	log := p.log.WithFields(logrus.Fields{
		"chat_id":    req.ChatID,
		"message_id": req.MessageID,
		"kind":       req.Kind,
	})

	var cursor int64 // status message being edited; 0 until the first post lands
	var downloaded, converted string

	defer func() {
		p.removeFiles(log, downloaded, converted)
		if r := recover(); r != nil {
			log.Errorf("pipeline panic: %v", r)
			if cursor != 0 {
				if _, err := p.chat.EditMessage(ctx, req.ChatID, cursor, msgGenericFailure); err != nil {
					log.WithError(err).Error("failed to report pipeline panic to chat")
				}
			}
		}
	}()

	// Nothing user-visible is possible without the status message; a failure
	// here aborts the run outright.
	msgID, err := p.chat.SendMessage(ctx, req.ChatID, msgProcessing)
	if err != nil {
		log.WithError(err).Error("posting status message failed, aborting")
		return
	}
	cursor = msgID

	downloaded, err = p.download(ctx, req)
	if err != nil {
		log.WithError(err).Error("download failed")
		p.editStatus(ctx, log, req.ChatID, &cursor, msgDownloadFailed)
		return
	}

	audioPath := downloaded
	if req.Kind == models.MediaKindVoice {
		converted = p.workspace.DownloadPath(p.fileName(req, "mp3"))
		if err := p.converter.Convert(ctx, downloaded, converted); err != nil {
			log.WithError(err).Error("conversion failed")
			p.editStatus(ctx, log, req.ChatID, &cursor, msgConvertFailed)
			return
		}
		audioPath = converted
	}

	key := p.buffer.AddEntry(req.ChatID, req.MessageID, req.UserID, audioPath, req.Duration)

	p.editStatus(ctx, log, req.ChatID, &cursor, msgTranscribing)

	tr, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		log.WithError(err).Error("transcription failed")
		p.editStatus(ctx, log, req.ChatID, &cursor, msgTranscribeFailed)
		return
	}
	if tr == nil || tr.Text == "" {
		log.Info("nothing recognized in audio")
		p.editStatus(ctx, log, req.ChatID, &cursor, msgTranscribeFailed)
		return
	}

	langName := languageName(tr.Language)
	log = log.WithField("language", tr.Language)

	if len(strings.Fields(tr.Text)) < p.wordLimit {
		p.buffer.UpdateTranscription(key, tr.Text)
		p.editStatus(ctx, log, req.ChatID, &cursor, composeShort(langName, tr.Text, p.wordLimit))
		log.Info("short message, transcription only")
		p.archive(ctx, log, audioPath)
		return
	}

	p.editStatus(ctx, log, req.ChatID, &cursor, msgAnalyzing(langName))

	summary, err := p.summarizer.Summarize(ctx, tr.Text, tr.Language)
	if err != nil || summary == "" {
		if err != nil {
			log.WithError(err).Error("summarization failed")
		} else {
			log.Warn("summarizer returned no content")
		}
		p.editStatus(ctx, log, req.ChatID, &cursor, msgAnalyzeFailed)
		return
	}

	response, err := p.responder.Respond(ctx, summary, p.contextHistory(req.ChatID))
	if err != nil || response == "" {
		if err != nil {
			log.WithError(err).Error("response generation failed")
		} else {
			log.Warn("responder returned no content")
		}
		p.editStatus(ctx, log, req.ChatID, &cursor, msgRespondFailed)
		return
	}

	p.buffer.UpdateTranscription(key, tr.Text)
	p.editStatus(ctx, log, req.ChatID, &cursor, composeFull(langName, tr.Text, summary, response))
	log.Info("pipeline complete")

	p.archive(ctx, log, audioPath)
}

func (p *Pipeline) download(ctx context.Context, req models.PipelineRequest) (string, error) {
	url, err := p.chat.GetFileURL(ctx, req.FileID)
	if err != nil {
		return "", err
	}

	var dest string
	if req.Kind == models.MediaKindVoice {
		dest = p.workspace.TempPath(p.fileName(req, "ogg"))
	} else {
		dest = p.workspace.DownloadPath(p.fileName(req, "m4a"))
	}

	if err := p.chat.Download(ctx, url, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// contextHistory collects the transcriptions of the most recent buffer
// entries for the chat, newest first, skipping entries not yet transcribed.
func (p *Pipeline) contextHistory(chatID int64) []string {
	var out []string
	for _, e := range p.buffer.GetChatHistory(chatID, p.contextWindow) {
		if e.Transcription != "" {
			out = append(out, e.Transcription)
		}
	}
	return out
}

func (p *Pipeline) editStatus(ctx context.Context, log *logrus.Entry, chatID int64, cursor *int64, text string) {
	id, err := p.chat.EditMessage(ctx, chatID, *cursor, text)
	if err != nil {
		log.WithError(err).Error("status edit failed")
		return
	}
	*cursor = id
}

func (p *Pipeline) archive(ctx context.Context, log *logrus.Entry, path string) {
	if p.archiver == nil {
		return
	}
	object, err := p.archiver.Archive(ctx, path)
	if err != nil {
		log.WithError(err).Warn("archiving audio failed")
		return
	}
	log.WithField("object", object).Debug("audio archived")
}

func (p *Pipeline) removeFiles(log *logrus.Entry, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("path", path).Warn("cleanup failed")
		}
	}
}

func (p *Pipeline) fileName(req models.PipelineRequest, ext string) string {
	return fmt.Sprintf("%s_%s_%d.%s", req.Kind, p.now().Format("20060102_150405"), req.MessageID, ext)
}
