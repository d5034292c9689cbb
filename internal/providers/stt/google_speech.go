package stt

import (
	"context"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/abadojack/whatlanggo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yoockh/nebula/internal/utils"
)

// GoogleSpeech transcribes the normalized MP3 files the pipeline produces.
type GoogleSpeech struct {
	c *speech.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32

	// AlternativeLanguages widens recognition beyond the primary language so
	// the detected code in the result is meaningful.
	PrimaryLanguage      string
	AlternativeLanguages []string
}

func NewGoogleSpeech(ctx context.Context) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:               c,
		Encoding:        speechpb.RecognitionConfig_MP3,
		SampleRateHz:    44100,
		PrimaryLanguage: "en-US",
		AlternativeLanguages: []string{
			"es-ES", "fr-FR", "de-DE", "it-IT", "pt-BR", "ru-RU", "uk-UA", "id-ID",
		},
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) Transcribe(ctx context.Context, audioPath string) (*Transcription, error) {
	const op = "GoogleSpeech.Transcribe"

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "reading audio file", err)
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   g.Encoding,
			SampleRateHertz:            g.SampleRateHz,
			LanguageCode:               g.PrimaryLanguage,
			AlternativeLanguageCodes:   g.AlternativeLanguages,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, classifyRPC(op, err)
	}

	var parts []string
	var language string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if t := r.Alternatives[0].Transcript; t != "" {
			parts = append(parts, t)
		}
		if language == "" && r.LanguageCode != "" {
			language = r.LanguageCode
		}
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return nil, nil
	}

	return &Transcription{Text: text, Language: normalizeLanguage(language, text)}, nil
}

// normalizeLanguage reduces a BCP-47 tag to a bare ISO 639-1 code, falling
// back to text-based detection when the provider omitted the tag.
func normalizeLanguage(tag, text string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexByte(tag, '-'); i > 0 {
		tag = tag[:i]
	}
	if tag != "" {
		return tag
	}
	if code := whatlanggo.DetectLang(text).Iso6391(); code != "" {
		return code
	}
	return "en"
}

func classifyRPC(op string, err error) error {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return utils.E(utils.CodeRateLimited, op, "provider rate limit", err)
	case codes.Unavailable, codes.Aborted, codes.Internal:
		return utils.E(utils.CodeUnavailable, op, "provider unavailable", err)
	case codes.DeadlineExceeded:
		return utils.E(utils.CodeTimeout, op, "provider deadline exceeded", err)
	default:
		return utils.E(utils.CodeInvalidArgument, op, "recognition request rejected", err)
	}
}
