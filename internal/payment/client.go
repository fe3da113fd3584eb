package payment

import "context"

// Status is the terminal outcome of a payment attempt as reported by the
// client after driving the payment sheet.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

// Intent is the processor's handle for one payment attempt. ClientSecret is
// handed to the payment sheet on the device.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amountCents"`
	Currency     string `json:"currency"`
}

// Client creates payment intents with the external processor.
type Client interface {
	CreateIntent(ctx context.Context, userID string, amountCents int64) (*Intent, error)
}
