package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"prowl/internal/common"
	"prowl/internal/model"
	"prowl/internal/service"
)

// telegramAPIBase is the Bot API endpoint root. Overridable for tests.
const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends match notifications through the Telegram Bot API.
type TelegramNotifier struct {
	client  *http.Client
	apiBase string
	token   string
	chatID  string
	opts    FormatOptions
	retry   service.RetryOptions
}

// NewTelegramNotifier creates a notifier for the given bot token and
// destination chat.
func NewTelegramNotifier(token, chatID string, opts FormatOptions) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: telegram bot token", common.ErrMissingConfig)
	}
	if chatID == "" {
		return nil, fmt.Errorf("%w: telegram chat ID", common.ErrMissingConfig)
	}

	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		opts:    opts,
		apiBase: telegramAPIBase,
		client:  &http.Client{Timeout: 30 * time.Second},
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
		},
	}, nil
}

// sendMessageRequest is the Bot API sendMessage payload.
type sendMessageRequest struct {
	ChatID             string `json:"chat_id"`
	Text               string `json:"text"`
	ParseMode          string `json:"parse_mode"`
	DisableLinkPreview bool   `json:"disable_web_page_preview"`
}

// Notify formats and delivers one match notification, retrying transient
// failures with backoff.
func (t *TelegramNotifier) Notify(ctx context.Context, n model.Notification) error {
	body := FormatNotification(n, t.opts)

	err := common.WithRetry(ctx, func() error {
		return t.sendMessage(ctx, body)
	}, t.retry)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotifyFailed, err)
	}

	slog.Debug("Notification sent", "product", n.Result.ProductName, "chat_id", t.chatID)

	return nil
}

// sendMessage performs one sendMessage call.
func (t *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:             t.chatID,
		Text:               text,
		ParseMode:          "Markdown",
		DisableLinkPreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return common.ErrRateLimit
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &common.RetryableError{
			Err:       fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, body),
			Retryable: resp.StatusCode >= 500,
		}
	}

	return nil
}
