package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	telegramAPIBase = "https://api.telegram.org/bot"

	// longPollSeconds is the Telegram-side getUpdates timeout.
	longPollSeconds = 30

	// pollRetryDelay is how long to wait after a failed getUpdates call.
	pollRetryDelay = 3 * time.Second
)

// Telegram implements Transport over the Telegram Bot API with long polling.
type Telegram struct {
	apiURL string
	client *http.Client
	logger zerolog.Logger
}

// TelegramOption configures Telegram.
type TelegramOption func(*Telegram)

// WithTelegramAPIURL overrides the API base URL. Used by tests.
func WithTelegramAPIURL(url string) TelegramOption {
	return func(t *Telegram) {
		t.apiURL = url
	}
}

// WithTelegramHTTPClient sets a custom http.Client.
func WithTelegramHTTPClient(client *http.Client) TelegramOption {
	return func(t *Telegram) {
		t.client = client
	}
}

// NewTelegram creates a Telegram transport for the given bot token.
func NewTelegram(botToken string, logger zerolog.Logger, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		apiURL: telegramAPIBase + botToken,
		// Timeout must be generous enough for the long-poll window.
		client: &http.Client{Timeout: (longPollSeconds + 10) * time.Second},
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Compile-time interface check.
var _ Transport = (*Telegram)(nil)

// Telegram Bot API wire types, limited to the fields we use.
type tgResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

type tgUpdate struct {
	UpdateID int64      `json:"update_id"`
	Message  *tgMessage `json:"message"`
}

type tgMessage struct {
	Text string  `json:"text"`
	Chat tgChat  `json:"chat"`
	From *tgUser `json:"from"`
}

type tgChat struct {
	ID int64 `json:"id"`
}

type tgUser struct {
	ID int64 `json:"id"`
}

type tgSendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Updates starts the long-poll loop and returns the inbound message stream.
func (t *Telegram) Updates(ctx context.Context) (<-chan Message, error) {
	ch := make(chan Message)

	go func() {
		defer close(ch)

		var offset int64
		for {
			if ctx.Err() != nil {
				return
			}

			updates, err := t.getUpdates(ctx, offset)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				t.logger.Warn().Err(err).Msg("getUpdates failed, retrying")
				select {
				case <-ctx.Done():
					return
				case <-time.After(pollRetryDelay):
				}
				continue
			}

			for _, u := range updates {
				if u.UpdateID >= offset {
					offset = u.UpdateID + 1
				}
				if u.Message == nil || u.Message.Text == "" || u.Message.From == nil {
					continue
				}
				msg := Message{
					ChatID: strconv.FormatInt(u.Message.Chat.ID, 10),
					UserID: strconv.FormatInt(u.Message.From.ID, 10),
					Text:   u.Message.Text,
				}
				select {
				case <-ctx.Done():
					return
				case ch <- msg:
				}
			}
		}
	}()

	return ch, nil
}

// Send delivers text to a chat with Markdown formatting.
func (t *Telegram) Send(ctx context.Context, chatID, text string) error {
	payload := tgSendMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result json.RawMessage
	if err := t.call(req, &result); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// getUpdates performs one long-poll round.
func (t *Telegram) getUpdates(ctx context.Context, offset int64) ([]tgUpdate, error) {
	url := fmt.Sprintf("%s/getUpdates?timeout=%d&offset=%d", t.apiURL, longPollSeconds, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var updates []tgUpdate
	if err := t.call(req, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// call executes a Bot API request and unmarshals the result field.
func (t *Telegram) call(req *http.Request, result interface{}) error {
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	var tgResp tgResponse
	if err := json.NewDecoder(resp.Body).Decode(&tgResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !tgResp.OK {
		return fmt.Errorf("telegram API error: %s", tgResp.Description)
	}
	if result != nil && len(tgResp.Result) > 0 {
		if err := json.Unmarshal(tgResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}
