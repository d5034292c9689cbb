package stt

import "context"

// Transcription is the outcome of a successful recognition pass.
type Transcription struct {
	Text     string
	Language string // lowercase ISO 639-1 code, ex: "es"
}

// Provider transcribes a local audio file. A nil Transcription with a nil
// error means the provider ran but recognized nothing; that is a normal
// outcome, not a failure.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string) (*Transcription, error)
	Close() error
}
