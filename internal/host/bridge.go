package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amg-tools/invent-cli/internal/invoice"
	"github.com/amg-tools/invent-cli/internal/logger"
)

// Bridge posts finished payloads to the messaging host over HTTP. Each
// send carries a fresh idempotency key so a host that does see a duplicate
// (e.g. after a timeout on our side) can drop it.
type Bridge struct {
	URL        string
	Token      string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewBridge creates a bridge to the given host endpoint.
func NewBridge(url, token string) *Bridge {
	return &Bridge{
		URL:   url,
		Token: token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logger.WithComponent("bridge"),
	}
}

// Send posts the payload. Any non-2xx status is an error.
func (b *Bridge) Send(ctx context.Context, p invoice.Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create host request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())
	if b.Token != "" {
		req.Header.Set("Authorization", "Bearer "+b.Token)
	}

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("host request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("host returned %s", resp.Status)
	}

	b.log.Info().Str("url", b.URL).Int("status", resp.StatusCode).Msg("payload delivered")
	return nil
}
