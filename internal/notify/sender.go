// Package notify maps transition events to rendered messages and recipients.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sender is the chat-platform boundary. A send failure affects only the
// recipient it was addressed to.
type Sender interface {
	SendMessage(ctx context.Context, userID, text string) error
}

// NewSender builds a Telegram-backed sender when a bot token is configured.
// Without a token a noop implementation is returned, which keeps local runs
// from paging anyone.
func NewSender(apiBase, token string, timeout time.Duration) Sender {
	token = strings.TrimSpace(token)
	if token == "" {
		return noopSender{}
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if strings.TrimSpace(apiBase) == "" {
		apiBase = "https://api.telegram.org"
	}

	return &telegramSender{
		endpoint: strings.TrimRight(apiBase, "/") + "/bot" + token + "/sendMessage",
		client:   &http.Client{Timeout: timeout},
	}
}

type telegramSender struct {
	endpoint string
	client   *http.Client
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (t *telegramSender) SendMessage(ctx context.Context, userID, text string) error {
	if t == nil || t.client == nil {
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    userID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("encode telegram request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopSender struct{}

func (noopSender) SendMessage(context.Context, string, string) error { return nil }
