package services

import (
	"context"
	"strings"
	"time"

	"github.com/yoockh/nebula/internal/providers/llm"
	"github.com/yoockh/nebula/internal/retry"
	"github.com/yoockh/nebula/internal/utils"
)

const responderSystemPrompt = "Generate an unordered list of topics included in the summary " +
	"you will have been provided. Your answer must be in the language " +
	"used in the summary. Focus on key points and maintain the original " +
	"language style and tone. Each topic should be meaningful and " +
	"provide valuable insight into the content."

type ResponderService interface {
	// Respond turns a summary plus recent transcriptions into a reply. An
	// empty result with a nil error means the model produced nothing.
	Respond(ctx context.Context, summary string, history []string) (string, error)
}

type responderService struct {
	llm     llm.Provider
	policy  retry.Policy
	timeout time.Duration
}

func NewResponder(p llm.Provider, policy retry.Policy, timeout time.Duration) ResponderService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &responderService{llm: p, policy: policy, timeout: timeout}
}

func (s *responderService) Respond(ctx context.Context, summary string, history []string) (string, error) {
	const op = "ResponderService.Respond"

	if summary == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "summary is required", nil)
	}

	var prompt strings.Builder
	if len(history) > 0 {
		prompt.WriteString("Previous context:\n")
		for _, h := range history {
			prompt.WriteString("user: ")
			prompt.WriteString(h)
			prompt.WriteString("\n")
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("Current message summary:\n")
	prompt.WriteString(summary)

	return retry.Do(ctx, s.policy, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.llm.Complete(ctx, llm.Request{
			System:      responderSystemPrompt,
			Prompt:      prompt.String(),
			Temperature: 0.7,
		})
	})
}
