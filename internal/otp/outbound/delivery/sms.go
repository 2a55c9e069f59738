package delivery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

const smsTemplate = "Your OTP code is: %s. Do not share it with anyone."

type SMSConfig struct {
	GatewayURL string
	APIKey     string
	Sender     string
	Client     *http.Client
}

// SMS posts a form to an HTTP SMS gateway.
type SMS struct {
	cfg    SMSConfig
	client *http.Client
}

func NewSMS(cfg SMSConfig) *SMS {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &SMS{cfg: cfg, client: client}
}

func (s *SMS) Send(ctx context.Context, to account.Contact, code string) error {
	if to.Phone == "" {
		return fmt.Errorf("%w: phone", ErrMissingAddress)
	}

	form := url.Values{}
	form.Set("to", to.Phone)
	form.Set("from", s.cfg.Sender)
	form.Set("message", fmt.Sprintf(smsTemplate, code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("apikey", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
