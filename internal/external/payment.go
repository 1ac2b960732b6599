// Package external holds clients for services outside this process. The
// payment provider is the only hard external dependency of checkout; both a
// real HTTP client and a simulated gateway satisfy service.PaymentGateway.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"mela/internal/logger"
)

// Supported wallet providers.
var supportedMethods = map[string]bool{
	"esewa":  true,
	"khalti": true,
	"imepay": true,
}

type PaymentConfig struct {
	BaseURL     string
	Timeout     time.Duration
	DeclineRate float64 // simulated gateway only
}

// PaymentClient charges through the provider's HTTP API.
type PaymentClient struct {
	baseURL string
	client  *http.Client
}

func NewPaymentClient(cfg PaymentConfig) *PaymentClient {
	return &PaymentClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Method   string `json:"method"`
}

type chargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *PaymentClient) Attempt(ctx context.Context, amount int64, method string) error {
	if !supportedMethods[method] {
		return fmt.Errorf("unsupported payment method: %s", method)
	}

	body, err := json.Marshal(chargeRequest{Amount: amount, Currency: "NPR", Method: method})
	if err != nil {
		return fmt.Errorf("failed to marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/charges", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.WithContext(ctx).Error("Payment provider declined charge",
			"status", resp.StatusCode,
			"method", method)
		return fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, string(data))
	}

	var charge chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return fmt.Errorf("failed to decode charge response: %w", err)
	}
	if charge.Status != "ok" && charge.Status != "succeeded" {
		return fmt.Errorf("charge not accepted: %s", charge.Message)
	}

	return nil
}

// SimulatedGateway approves or declines locally. With DeclineRate zero it
// approves every supported method, which is the mode the tests and local
// development run in.
type SimulatedGateway struct {
	declineRate float64
	rng         *rand.Rand
}

func NewSimulatedGateway(declineRate float64) *SimulatedGateway {
	return &SimulatedGateway{
		declineRate: declineRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *SimulatedGateway) Attempt(ctx context.Context, amount int64, method string) error {
	if !supportedMethods[method] {
		return fmt.Errorf("unsupported payment method: %s", method)
	}
	if amount < 0 {
		return fmt.Errorf("invalid charge amount: %d", amount)
	}

	if g.declineRate > 0 && g.rng.Float64() < g.declineRate {
		return fmt.Errorf("simulated decline for %s", method)
	}

	return nil
}
