package services

import (
	"context"
	"time"

	"github.com/yoockh/nebula/internal/providers/llm"
	"github.com/yoockh/nebula/internal/retry"
	"github.com/yoockh/nebula/internal/utils"
)

const summarizerSystemPrompt = "You are an expert at summarizing spoken conversations. " +
	"Your task is to create a clear, concise summary of audio transcripts while:\n\n" +
	"1. Capturing the essential meaning and key points\n" +
	"2. Maintaining the original tone and language of the speaker\n" +
	"3. Preserving important details, numbers, or specific references\n" +
	"4. Keeping the summary to 2-3 sentences maximum\n" +
	"5. Using natural, conversational language that reflects spoken communication\n\n" +
	"Remember this is transcribed speech, so focus on the core message rather than exact wording. " +
	"If the transcript contains filler words or speech artifacts, distill the actual meaning.\n" +
	"The detected language of this audio is: "

type SummarizerService interface {
	// Summarize condenses a transcript in its original language. An empty
	// result with a nil error means the model produced nothing.
	Summarize(ctx context.Context, transcription, language string) (string, error)
}

type summarizerService struct {
	llm     llm.Provider
	policy  retry.Policy
	timeout time.Duration
}

func NewSummarizer(p llm.Provider, policy retry.Policy, timeout time.Duration) SummarizerService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &summarizerService{llm: p, policy: policy, timeout: timeout}
}

func (s *summarizerService) Summarize(ctx context.Context, transcription, language string) (string, error) {
	const op = "SummarizerService.Summarize"

	if transcription == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "transcription is required", nil)
	}

	return retry.Do(ctx, s.policy, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.llm.Complete(ctx, llm.Request{
			System:      summarizerSystemPrompt + language,
			Prompt:      transcription,
			Temperature: 0.2,
		})
	})
}
