package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/nebula/internal/providers/llm"
	"github.com/yoockh/nebula/internal/providers/stt"
	"github.com/yoockh/nebula/internal/retry"
	"github.com/yoockh/nebula/internal/utils"
)

func fastPolicy() retry.Policy {
	return retry.Policy{Attempts: 3, InitialInterval: time.Millisecond}
}

type fakeLLM struct {
	requests []llm.Request
	results  []string
	errs     []error
	calls    int
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	i := f.calls
	f.calls++
	var out string
	var err error
	if i < len(f.results) {
		out = f.results[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return out, err
}

func (f *fakeLLM) Close() error { return nil }

type fakeSTT struct {
	result *stt.Transcription
	errs   []error
	calls  int
}

func (f *fakeSTT) Transcribe(ctx context.Context, audioPath string) (*stt.Transcription, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.result, nil
}

func (f *fakeSTT) Close() error { return nil }

func TestSummarizer_BuildsPromptWithLanguage(t *testing.T) {
	provider := &fakeLLM{results: []string{"a summary"}}
	svc := NewSummarizer(provider, fastPolicy(), time.Second)

	out, err := svc.Summarize(context.Background(), "the transcript", "es")
	require.NoError(t, err)
	assert.Equal(t, "a summary", out)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Contains(t, req.System, "The detected language of this audio is: es")
	assert.Equal(t, "the transcript", req.Prompt)
	assert.InDelta(t, 0.2, req.Temperature, 0.001)
}

func TestSummarizer_EmptyTranscription(t *testing.T) {
	svc := NewSummarizer(&fakeLLM{}, fastPolicy(), time.Second)

	_, err := svc.Summarize(context.Background(), "", "en")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSummarizer_RetriesTransientFailures(t *testing.T) {
	transient := utils.E(utils.CodeUnavailable, "test", "model overloaded", nil)
	provider := &fakeLLM{
		results: []string{"", "recovered"},
		errs:    []error{transient, nil},
	}
	svc := NewSummarizer(provider, fastPolicy(), time.Second)

	out, err := svc.Summarize(context.Background(), "text", "en")
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, provider.calls)
}

func TestSummarizer_EmptyModelOutputIsNotAnError(t *testing.T) {
	provider := &fakeLLM{results: []string{""}}
	svc := NewSummarizer(provider, fastPolicy(), time.Second)

	out, err := svc.Summarize(context.Background(), "text", "en")
	require.NoError(t, err)
	assert.Empty(t, out, "an empty completion is passed through for the caller to judge")
}

func TestResponder_PromptWithHistory(t *testing.T) {
	provider := &fakeLLM{results: []string{"topics"}}
	svc := NewResponder(provider, fastPolicy(), time.Second)

	out, err := svc.Respond(context.Background(), "the summary", []string{"earlier one", "earlier two"})
	require.NoError(t, err)
	assert.Equal(t, "topics", out)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Contains(t, req.Prompt, "Previous context:\nuser: earlier one\nuser: earlier two\n")
	assert.Contains(t, req.Prompt, "Current message summary:\nthe summary")
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
}

func TestResponder_PromptWithoutHistory(t *testing.T) {
	provider := &fakeLLM{results: []string{"topics"}}
	svc := NewResponder(provider, fastPolicy(), time.Second)

	_, err := svc.Respond(context.Background(), "the summary", nil)
	require.NoError(t, err)

	require.Len(t, provider.requests, 1)
	assert.NotContains(t, provider.requests[0].Prompt, "Previous context:")
	assert.Contains(t, provider.requests[0].Prompt, "Current message summary:\nthe summary")
}

func TestResponder_EmptySummary(t *testing.T) {
	svc := NewResponder(&fakeLLM{}, fastPolicy(), time.Second)

	_, err := svc.Respond(context.Background(), "", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestTranscriber_RetriesThenSucceeds(t *testing.T) {
	transient := utils.E(utils.CodeUnavailable, "test", "stt hiccup", nil)
	provider := &fakeSTT{
		result: &stt.Transcription{Text: "hello world", Language: "en"},
		errs:   []error{transient, nil},
	}
	svc := NewTranscriber(provider, fastPolicy(), time.Second)

	tr, err := svc.Transcribe(context.Background(), "/tmp/a.mp3")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "hello world", tr.Text)
	assert.Equal(t, 2, provider.calls)
}

func TestTranscriber_PermanentFailureStops(t *testing.T) {
	permanent := utils.E(utils.CodeInvalidArgument, "test", "bad encoding", nil)
	provider := &fakeSTT{errs: []error{permanent, permanent, permanent}}
	svc := NewTranscriber(provider, fastPolicy(), time.Second)

	_, err := svc.Transcribe(context.Background(), "/tmp/a.mp3")
	require.Error(t, err)
	assert.Equal(t, 1, provider.calls, "invalid input is not retried")
}

func TestTranscriber_SilentAudio(t *testing.T) {
	provider := &fakeSTT{result: nil}
	svc := NewTranscriber(provider, fastPolicy(), time.Second)

	tr, err := svc.Transcribe(context.Background(), "/tmp/a.mp3")
	require.NoError(t, err)
	assert.Nil(t, tr, "nothing recognized is not an error")
}

func TestTranscriber_EmptyPath(t *testing.T) {
	svc := NewTranscriber(&fakeSTT{}, fastPolicy(), time.Second)

	_, err := svc.Transcribe(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
