package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/google/uuid"

	"github.com/tribemart/tribemart-orders-service/internal/apperrors"
	"github.com/tribemart/tribemart-orders-service/internal/config"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

// DefaultCurrency is used when a gateway order request omits the currency.
const DefaultCurrency = "INR"

// GatewayClient opens payment orders against the Razorpay-compatible gateway.
type GatewayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGatewayClient creates a new HTTP-based gateway client.
func NewGatewayClient(cfg *config.Config, logger *slog.Logger) *GatewayClient {
	return &GatewayClient{
		baseURL:   cfg.Gateway.BaseURL,
		keyID:     cfg.Gateway.KeyID,
		keySecret: cfg.Gateway.KeySecret,
		httpClient: &http.Client{
			Timeout: cfg.Gateway.Timeout,
		},
		logger: logger,
	}
}

type createOrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder opens a payment order for the given amount. The amount is in
// major units and converted to the gateway's minor unit (paise).
func (c *GatewayClient) CreateOrder(ctx context.Context, amount float64, currency string) (*models.GatewayOrder, error) {
	if currency == "" {
		currency = DefaultCurrency
	}

	payload := createOrderPayload{
		Amount:   MinorUnits(amount),
		Currency: currency,
		Receipt:  "rcpt_" + uuid.NewString(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway order request failed", "error", err)
		return nil, apperrors.NewUpstreamError("gateway create order", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("gateway order request rejected", "status_code", resp.StatusCode)
		return nil, apperrors.NewUpstreamError("gateway create order",
			fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var order models.GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, apperrors.NewUpstreamError("decode gateway order", err)
	}

	c.logger.Info("gateway order created",
		"gateway_order_id", order.ID, "amount", order.Amount, "currency", order.Currency)
	return &order, nil
}

// MinorUnits converts a major-unit amount to the gateway's minor unit.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
