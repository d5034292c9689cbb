package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yoockh/nebula/internal/retry"
	"github.com/yoockh/nebula/internal/utils"
)

// Telegram talks to the Bot API over plain HTTP. Every outbound call passes
// through one shared limiter so the process as a whole respects the minimum
// inter-request spacing, and through the retry policy so transient provider
// failures (429, 5xx) are absorbed here rather than in the pipeline.
type Telegram struct {
	baseURL string // https://api.telegram.org/bot<token>
	fileURL string // https://api.telegram.org/file/bot<token>

	http    *http.Client
	limiter *rate.Limiter
	policy  retry.Policy
	log     *logrus.Logger
}

type Options struct {
	// MinInterval is the minimum spacing between any two outbound requests.
	// Zero means 100ms.
	MinInterval time.Duration
	// Attempts is the total try budget per call. Zero means 3.
	Attempts int
	// Timeout is the per-request HTTP timeout. Zero means 60s.
	Timeout time.Duration
}

func NewTelegram(token string, opts Options, log *logrus.Logger) *Telegram {
	if opts.MinInterval <= 0 {
		opts.MinInterval = 100 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if log == nil {
		log = logrus.New()
	}
	return &Telegram{
		baseURL: "https://api.telegram.org/bot" + token,
		fileURL: "https://api.telegram.org/file/bot" + token,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		policy:  retry.Policy{Attempts: opts.Attempts},
		log:     log,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}

type messageResult struct {
	MessageID int64 `json:"message_id"`
}

func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	const op = "Telegram.SendMessage"

	raw, err := retry.Do(ctx, t.policy, func(ctx context.Context) (json.RawMessage, error) {
		return t.call(ctx, op, "sendMessage", map[string]any{
			"chat_id":    chatID,
			"text":       text,
			"parse_mode": "HTML",
		})
	})
	if err != nil {
		return 0, err
	}
	return parseMessageID(op, raw)
}

// EditMessage edits the message in place. Telegram rejecting the edit because
// the content is unchanged counts as success; the original id is returned. Any
// other edit failure falls back to sending a new message, once.
func (t *Telegram) EditMessage(ctx context.Context, chatID, messageID int64, text string) (int64, error) {
	const op = "Telegram.EditMessage"

	raw, err := retry.Do(ctx, t.policy, func(ctx context.Context) (json.RawMessage, error) {
		return t.call(ctx, op, "editMessageText", map[string]any{
			"chat_id":    chatID,
			"message_id": messageID,
			"text":       text,
			"parse_mode": "HTML",
		})
	})
	if err != nil {
		if isNotModified(err) {
			return messageID, nil
		}
		t.log.WithError(err).WithFields(logrus.Fields{
			"chat_id":    chatID,
			"message_id": messageID,
		}).Warn("edit failed, sending a new message instead")
		return t.SendMessage(ctx, chatID, text)
	}
	return parseMessageID(op, raw)
}

func (t *Telegram) GetFileURL(ctx context.Context, fileID string) (string, error) {
	const op = "Telegram.GetFileURL"

	raw, err := retry.Do(ctx, t.policy, func(ctx context.Context) (json.RawMessage, error) {
		return t.call(ctx, op, "getFile", map[string]any{"file_id": fileID})
	})
	if err != nil {
		return "", err
	}

	var result struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", utils.E(utils.CodeInternal, op, "malformed getFile result", err)
	}
	if result.FilePath == "" {
		return "", utils.E(utils.CodeNotFound, op, "file has no download path", nil)
	}
	return t.fileURL + "/" + result.FilePath, nil
}

// Download streams the file at url to dest.
func (t *Telegram) Download(ctx context.Context, url, dest string) error {
	const op = "Telegram.Download"

	_, err := retry.Do(ctx, t.policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.downloadOnce(ctx, op, url, dest)
	})
	return err
}

func (t *Telegram) downloadOnce(ctx context.Context, op, url, dest string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return utils.E(utils.CodeTimeout, op, "throttle wait interrupted", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "building request", err)
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(op, resp.StatusCode, "download returned "+resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "creating destination file", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return utils.E(utils.CodeUnavailable, op, "streaming response body", err)
	}
	return f.Close()
}

// call issues one Bot API request and classifies the outcome.
func (t *Telegram) call(ctx context.Context, op, method string, payload any) (json.RawMessage, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, utils.E(utils.CodeTimeout, op, "throttle wait interrupted", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "encoding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "request failed", err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "decoding response", err)
	}

	if !api.OK {
		desc := api.Description
		if desc == "" {
			desc = resp.Status
		}
		code := api.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return nil, classifyStatus(op, code, desc)
	}
	return api.Result, nil
}

func classifyStatus(op string, status int, desc string) error {
	switch {
	case status == http.StatusTooManyRequests:
		return utils.E(utils.CodeRateLimited, op, desc, nil)
	case status >= 500:
		return utils.E(utils.CodeUnavailable, op, desc, nil)
	default:
		return utils.E(utils.CodeInvalidArgument, op, desc, nil)
	}
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func parseMessageID(op string, raw json.RawMessage) (int64, error) {
	var msg messageResult
	if err := json.Unmarshal(raw, &msg); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "malformed message result", err)
	}
	if msg.MessageID == 0 {
		return 0, utils.E(utils.CodeInternal, op, fmt.Sprintf("result carries no message_id: %s", raw), nil)
	}
	return msg.MessageID, nil
}
