package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bookline/config"
)

// HTTPGateway posts messages to the external messaging gateway, which owns
// channel selection and delivery retries.
type HTTPGateway struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPGateway() *HTTPGateway {
	return &HTTPGateway{
		url:    config.AppConfig.GatewayURL,
		apiKey: config.AppConfig.GatewayAPIKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendTextRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (g *HTTPGateway) SendText(ctx context.Context, phone, body string) error {
	if g.url == "" {
		return fmt.Errorf("messaging gateway URL not configured")
	}

	payload, err := json.Marshal(sendTextRequest{To: phone, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal gateway payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway rejected message: status %d", resp.StatusCode)
	}
	return nil
}
