package services

import (
	"context"
	"time"

	"github.com/yoockh/nebula/internal/providers/stt"
	"github.com/yoockh/nebula/internal/retry"
	"github.com/yoockh/nebula/internal/utils"
)

type TranscriberService interface {
	// Transcribe returns nil with a nil error when nothing was recognized.
	Transcribe(ctx context.Context, audioPath string) (*stt.Transcription, error)
}

type transcriberService struct {
	stt     stt.Provider
	policy  retry.Policy
	timeout time.Duration
}

func NewTranscriber(p stt.Provider, policy retry.Policy, timeout time.Duration) TranscriberService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &transcriberService{stt: p, policy: policy, timeout: timeout}
}

func (s *transcriberService) Transcribe(ctx context.Context, audioPath string) (*stt.Transcription, error) {
	const op = "TranscriberService.Transcribe"

	if audioPath == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio path is required", nil)
	}

	return retry.Do(ctx, s.policy, func(ctx context.Context) (*stt.Transcription, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.stt.Transcribe(ctx, audioPath)
	})
}
