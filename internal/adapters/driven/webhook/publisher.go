// Package webhook delivers parse records to an HTTP automation endpoint
// such as an n8n webhook node.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.Publisher = (*Publisher)(nil)

// Payload is the JSON body posted for each record.
type Payload struct {
	RecordID    string             `json:"record_id"`
	Filename    string             `json:"filename"`
	Form        domain.Form        `json:"form"`
	SHA256      string             `json:"sha256"`
	ProcessedAt time.Time          `json:"processed_at"`
	Result      domain.ParseResult `json:"result"`
}

// NewPayload builds the delivery body for rec.
func NewPayload(rec *domain.Record) Payload {
	return Payload{
		RecordID:    rec.ID,
		Filename:    rec.Filename,
		Form:        rec.Form,
		SHA256:      rec.SHA256,
		ProcessedAt: rec.Result.ProcessedAt,
		Result:      rec.Result,
	}
}

// Publisher posts records as JSON, throttled by a token bucket.
type Publisher struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Publisher) {
		if c != nil {
			p.client = c
		}
	}
}

// New creates a publisher. A zero RatePerSecond disables throttling.
func New(cfg domain.WebhookConfig, opts ...Option) *Publisher {
	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultWebhookConfig().Timeout
	}

	p := &Publisher{
		url:     cfg.URL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish posts rec. Non-2xx responses are reported as domain.ErrPublish.
func (p *Publisher) Publish(ctx context.Context, rec *domain.Record) error {
	if p.url == "" {
		return fmt.Errorf("webhook url: %w", domain.ErrNotConfigured)
	}
	if rec == nil {
		return domain.ErrInvalidInput
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook throttle: %w", err)
	}

	body, err := json.Marshal(NewPayload(rec))
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublish, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "erpdoc ("+domain.ParserVersion+")")
	req.Header.Set("X-Erpdoc-Record", rec.ID)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublish, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", domain.ErrPublish, p.url, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Debug("webhook: delivered %s (%s)", rec.ID, rec.Filename)
	return nil
}
