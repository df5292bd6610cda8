// Package payments wraps the external payment processor behind a small
// authorization interface. The processor is a black box: it either approves
// or declines a fixed-fee charge against an opaque payment method handle.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rdelgatto/jukebox/internal/config"
	"github.com/rdelgatto/jukebox/internal/logger"
)

// DemoPaymentMethodID is always approved without contacting the processor.
// The web client uses it for demo and test flows; the exact value is part
// of the API contract.
const DemoPaymentMethodID = "pm_demo_web_payment"

const requestTimeout = 10 * time.Second

// Gateway errors
var (
	// ErrDeclined indicates the processor rejected the authorization
	ErrDeclined = errors.New("payment declined")

	// ErrGatewayUnavailable indicates the processor could not be reached
	// or returned an unexpected error
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Gateway authorizes fixed-fee charges. A nil return means approved.
type Gateway interface {
	Authorize(ctx context.Context, paymentMethodID string, amountCents int64) error
}

// Client is an HTTP-backed Gateway. It is constructed explicitly from
// configuration and injected where needed; there is no ambient processor
// state. With no API key configured it runs in development mode and
// approves every authorization.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a payment gateway client from configuration
func NewClient(cfg *config.PaymentsConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type authorizeRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// Authorize charges amountCents against the given payment method handle.
// Returns nil on approval, ErrDeclined when the processor rejects the
// charge, and ErrGatewayUnavailable on transport or processor failure.
func (c *Client) Authorize(ctx context.Context, paymentMethodID string, amountCents int64) error {
	if paymentMethodID == DemoPaymentMethodID {
		logger.Log.Debug().
			Int64("amount_cents", amountCents).
			Msg("Demo payment method, authorization bypassed")
		return nil
	}

	if c.apiKey == "" {
		logger.Log.Warn().
			Int64("amount_cents", amountCents).
			Msg("No payment API key configured, approving in development mode")
		return nil
	}

	body, err := json.Marshal(authorizeRequest{
		PaymentMethodID: paymentMethodID,
		AmountCents:     amountCents,
		Currency:        "usd",
	})
	if err != nil {
		return fmt.Errorf("failed to encode authorization request: %w", err)
	}

	url := c.baseURL + "/v1/authorizations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build authorization request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Payment gateway request failed")
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		logger.Log.Info().
			Int("status", resp.StatusCode).
			Msg("Payment authorization declined")
		return ErrDeclined
	default:
		logger.Log.Error().
			Int("status", resp.StatusCode).
			Msg("Payment gateway returned server error")
		return fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}
}
