package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client covering what the engine
// needs: sending replies, answering callbacks and receiving updates.
type Client struct {
	token      string
	apiBase    string
	httpClient *http.Client
}

// NewClient creates a Bot API client for the given token.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 65 * time.Second},
	}
}

// NewClientWithBase creates a client against a non-default API server.
// Tests use it to point at a local stub.
func NewClientWithBase(token, apiBase string) *Client {
	c := NewClient(token)
	c.apiBase = apiBase
	return c
}

// apiResponse is the Bot API envelope around every method result.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s failed with code %d: %s", method, envelope.ErrorCode, envelope.Description)
	}
	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// SendMessage delivers one outbound text message, optionally with an inline
// keyboard. Markdown markup is enabled.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboard) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// AnswerCallback acknowledges a pressed inline button.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	payload := map[string]interface{}{"callback_query_id": callbackID}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// GetUpdates long-polls for the next batch of updates past offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	payload := map[string]interface{}{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message", "channel_post", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SetWebhook registers the public webhook URL and drops pending updates.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	payload := map[string]interface{}{
		"url":                  url,
		"allowed_updates":      []string{"message", "channel_post", "callback_query"},
		"drop_pending_updates": true,
	}
	return c.call(ctx, "setWebhook", payload, nil)
}

// DeleteWebhook removes the webhook registration (polling mode).
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", map[string]interface{}{}, nil)
}

// GetMe fetches the bot's own identity.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := c.call(ctx, "getMe", map[string]interface{}{}, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
