package email

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

const defaultTimeout = 15 * time.Second

// MailpitClient delivers email through the Mailpit send API.
// See https://mailpit.axllent.org/docs/api-v1/.
type MailpitClient struct {
	BaseURL     string
	SenderEmail string
	SenderName  string
	HTTPClient  *http.Client
}

// NewMailpitClient returns a client posting to the Mailpit API at baseURL
// (e.g. http://localhost:8025/api/v1). sender is the From address on every
// message.
func NewMailpitClient(baseURL, senderEmail, senderName string) *MailpitClient {
	return &MailpitClient{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		SenderEmail: senderEmail,
		SenderName:  senderName,
		HTTPClient:  &http.Client{Timeout: defaultTimeout},
	}
}

// Send delivers the message. Returns an error if the HTTP request fails or
// Mailpit returns non-2xx.
func (c *MailpitClient) Send(ctx context.Context, msg Message) error {
	if c.BaseURL == "" {
		return fmt.Errorf("email: mailpit base URL not configured")
	}
	body := sendRequest{
		From:    Recipient{Email: c.SenderEmail, Name: c.SenderName},
		To:      []Recipient{{Email: msg.To}},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/send", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email: send failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
