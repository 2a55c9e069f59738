package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

type TelegramConfig struct {
	BaseURL       string
	BotToken      string
	DefaultChatID string
	Client        *http.Client
}

// Telegram sends the code through the Bot API sendMessage method.
type Telegram struct {
	cfg    TelegramConfig
	client *http.Client
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTelegramBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Telegram{cfg: cfg, client: client}
}

func (t *Telegram) Send(ctx context.Context, to account.Contact, code string) error {
	chatID := to.TelegramChatID
	if chatID == "" {
		chatID = t.cfg.DefaultChatID
	}
	if chatID == "" {
		return fmt.Errorf("%w: telegram chat id", ErrMissingAddress)
	}

	q := url.Values{}
	q.Set("chat_id", chatID)
	q.Set("text", messageText(code))
	endpoint := t.cfg.BaseURL + "/bot" + t.cfg.BotToken + "/sendMessage?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		// the url embeds the bot token
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("telegram request failed: %w", uerr.Err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
