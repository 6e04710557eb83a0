// Package vonage provides HTTP clients for the Vonage Verify and Messages APIs.
package vonage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// StatusOK is the Verify API status for a successful call.
const StatusOK = "0"

// Config holds credentials and endpoints for the Vonage APIs.
type Config struct {
	APIKey         string
	APISecret      string
	Brand          string
	WhatsAppNumber string
	VerifyURL      string
	MessagesURL    string
}

// Client talks to Vonage Verify (OTP codes) and the WhatsApp Messages sandbox.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Vonage client. A nil httpClient gets a 15 second timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg.VerifyURL = strings.TrimRight(cfg.VerifyURL, "/")
	cfg.MessagesURL = strings.TrimRight(cfg.MessagesURL, "/")
	return &Client{cfg: cfg, httpClient: httpClient}
}

// VerifyResult is the response of a Verify start or check call. Status
// "0" means success; anything else is a provider-side rejection.
type VerifyResult struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	ErrorText string `json:"error_text,omitempty"`
}

// OK reports whether the provider accepted the call.
func (r *VerifyResult) OK() bool { return r.Status == StatusOK }

// StartVerification asks Vonage to send a one-time code to number.
func (c *Client) StartVerification(ctx context.Context, number string) (*VerifyResult, error) {
	body := map[string]string{
		"api_key":    c.cfg.APIKey,
		"api_secret": c.cfg.APISecret,
		"number":     strings.TrimPrefix(number, "+"),
		"brand":      c.cfg.Brand,
	}
	var result VerifyResult
	if err := c.postJSON(ctx, c.cfg.VerifyURL+"/verify/json", body, false, &result); err != nil {
		return nil, fmt.Errorf("starting verification: %w", err)
	}
	return &result, nil
}

// CheckVerification checks code against the verification requestID.
func (c *Client) CheckVerification(ctx context.Context, requestID, code string) (*VerifyResult, error) {
	body := map[string]string{
		"api_key":    c.cfg.APIKey,
		"api_secret": c.cfg.APISecret,
		"request_id": requestID,
		"code":       code,
	}
	var result VerifyResult
	if err := c.postJSON(ctx, c.cfg.VerifyURL+"/verify/check/json", body, false, &result); err != nil {
		return nil, fmt.Errorf("checking verification: %w", err)
	}
	return &result, nil
}

type channelAddress struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outboundMessage struct {
	From    channelAddress `json:"from"`
	To      channelAddress `json:"to"`
	Message struct {
		Content textContent `json:"content"`
	} `json:"message"`
}

// SendWhatsApp delivers a text message to the given WhatsApp number.
func (c *Client) SendWhatsApp(ctx context.Context, to, text string) error {
	msg := outboundMessage{
		From: channelAddress{Type: "whatsapp", Number: c.cfg.WhatsAppNumber},
		To:   channelAddress{Type: "whatsapp", Number: strings.TrimPrefix(to, "+")},
	}
	msg.Message.Content = textContent{Type: "text", Text: text}

	if err := c.postJSON(ctx, c.cfg.MessagesURL+"/v0.1/messages", msg, true, nil); err != nil {
		return fmt.Errorf("sending whatsapp message: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, url string, body any, basicAuth bool, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if basicAuth {
		req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
