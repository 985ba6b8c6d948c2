package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdur1547/roombridge/services/auth-service/internal/config"
)

// Sender delivers one-time codes out of band. Implementations are
// best-effort collaborators; the caller decides what a failure means.
type Sender interface {
	SendVerificationCode(ctx context.Context, phone string, code string) error
}

// Client posts messages to an HTTP SMS gateway.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	sender     string
}

func NewClient(cfg config.SMSConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		sender:     cfg.Sender,
	}
}

func (c *Client) SendVerificationCode(ctx context.Context, phone string, code string) error {
	message := fmt.Sprintf("Your RoomBridge verification code is %s. It expires in 5 minutes.", code)
	return c.send(ctx, phone, message)
}

func (c *Client) send(ctx context.Context, phone string, message string) error {
	data := url.Values{}
	data.Set("api_key", c.apiKey)
	data.Set("to", phone)
	data.Set("from", c.sender)
	data.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Sender = (*Client)(nil)
