// Package telegram sends messages to a chat group via the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

// ErrRateLimited indicates the Bot API asked us to slow down.
var ErrRateLimited = errors.New("telegram: rate limited")

// Retry budget for transient send failures. Vars so tests can shrink the
// delay.
var (
	maxRetries        uint64 = 3
	initialRetryDelay        = 2 * time.Second
)

// Client sends text messages to a single chat via the Bot API.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given bot token and chat ID.
// Returns nil if either is missing, so callers can treat an unconfigured
// notifier as a no-op check at startup.
func NewClient(token, chatID string) *Client {
	token = strings.TrimSpace(token)
	chatID = strings.TrimSpace(chatID)
	if token == "" || chatID == "" {
		return nil
	}
	return &Client{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage sends a MarkdownV2 message to the configured chat, retrying
// transient failures with exponential backoff. The text must already be
// escaped where needed.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	op := func() error {
		err := c.send(ctx, text)
		if err == nil {
			return nil
		}
		if retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialRetryDelay
	bo.RandomizationFactor = 0

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

func (c *Client) send(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		return fmt.Errorf("telegram: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("telegram: reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode >= 500 {
		return statusError(resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return fmt.Errorf("telegram: parsing response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram: send rejected (%d): %s", apiResp.ErrorCode, apiResp.Description)
	}
	return nil
}

// statusError is a retryable 5xx from the Bot API edge.
type statusError int

func (e statusError) Error() string {
	return fmt.Sprintf("telegram: server error %d", int(e))
}

func retryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var se statusError
	if errors.As(err, &se) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
