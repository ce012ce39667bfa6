package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/calebreyes/storefront-backend/pkg/config"
	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

// Sink delivers customer-facing notifications. Delivery is best effort;
// settlement never waits on it and never fails because of it.
type Sink interface {
	OrderConfirmed(ctx context.Context, order *models.Order) error
	PaymentFailed(ctx context.Context, order *models.Order) error
}

// LogSink records notifications to the structured log. Used in dev and as
// the fallback when no mail endpoint is configured.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink builds the logging sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) OrderConfirmed(ctx context.Context, order *models.Order) error {
	if s.log != nil && order != nil {
		s.log.Info(s.log.WithOrderNumber(ctx, order.Number), "order confirmation notification")
	}
	return nil
}

func (s *LogSink) PaymentFailed(ctx context.Context, order *models.Order) error {
	if s.log != nil && order != nil {
		s.log.Info(s.log.WithOrderNumber(ctx, order.Number), "payment failed notification")
	}
	return nil
}

// MailSink posts notification payloads to the configured mail endpoint.
type MailSink struct {
	cfg    config.MailConfig
	client *http.Client
}

// NewMailSink builds the HTTP mail sink.
func NewMailSink(cfg config.MailConfig) (*MailSink, error) {
	if cfg.EndpointURL == "" {
		return nil, fmt.Errorf("mail endpoint url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MailSink{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type mailPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Template string `json:"template"`
	Order    struct {
		Number     string `json:"number"`
		TotalCents int    `json:"total_cents"`
		Currency   string `json:"currency"`
	} `json:"order"`
}

func (s *MailSink) OrderConfirmed(ctx context.Context, order *models.Order) error {
	return s.send(ctx, "order_confirmed", order)
}

func (s *MailSink) PaymentFailed(ctx context.Context, order *models.Order) error {
	return s.send(ctx, "payment_failed", order)
}

func (s *MailSink) send(ctx context.Context, template string, order *models.Order) error {
	if order == nil || order.Email == nil {
		return nil
	}

	payload := mailPayload{
		From:     s.cfg.DefaultFrom,
		To:       *order.Email,
		Template: template,
	}
	payload.Order.Number = order.Number
	payload.Order.TotalCents = order.TotalCents
	payload.Order.Currency = order.Currency

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail endpoint returned %d", resp.StatusCode)
	}
	return nil
}
