package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPClient talks to the payment processor's intent endpoint with a bearer
// secret key, mirroring the hosted create-payment-intent function the mobile
// app called.
type HTTPClient struct {
	baseURL   string
	secretKey string
	httpc     *http.Client
	logger    *log.Logger
}

func NewHTTPClient(baseURL, secretKey string, logger *log.Logger) *HTTPClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &HTTPClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpc:     &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

type intentRequest struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

func (c *HTTPClient) CreateIntent(ctx context.Context, userID string, amountCents int64) (*Intent, error) {
	body, err := json.Marshal(intentRequest{
		UserID:      userID,
		AmountCents: amountCents,
		Currency:    "usd",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Printf("payment: create intent user_id=%s status=%d body=%s", userID, resp.StatusCode, data)
		return nil, fmt.Errorf("create payment intent: processor returned status %d", resp.StatusCode)
	}

	var out intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("create payment intent: decode response: %w", err)
	}
	if out.ClientSecret == "" {
		return nil, fmt.Errorf("create payment intent: empty client secret")
	}

	return &Intent{
		ID:           out.ID,
		ClientSecret: out.ClientSecret,
		AmountCents:  amountCents,
		Currency:     "usd",
	}, nil
}
