package payment

import (
	"context"
)

// PaymentProvider is the opaque processor edge. The core reacts to
// success or failure only, never to provider-internal state.
type PaymentProvider interface {
	Authorize(ctx context.Context, request *AuthorizeRequest) (*AuthorizeResponse, error)
	Capture(ctx context.Context, holdRef string, amount float64) (*CaptureResponse, error)
	ReleaseHold(ctx context.Context, holdRef string) error
	Refund(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
	Payout(ctx context.Context, request *PayoutRequest) (*PayoutResponse, error)
}

type AuthorizeRequest struct {
	Amount      float64                `json:"amount"`
	Currency    string                 `json:"currency"`
	CustomerRef string                 `json:"customer_ref"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type AuthorizeResponse struct {
	HoldRef   string  `json:"hold_ref"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}

type CaptureResponse struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	CreatedAt     int64   `json:"created_at"`
}

type RefundRequest struct {
	HoldRef string  `json:"hold_ref"`
	Amount  float64 `json:"amount"`
	Reason  string  `json:"reason"`
}

type RefundResponse struct {
	RefundID  string  `json:"refund_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}

type PayoutRequest struct {
	BookingID  string  `json:"booking_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	AccountRef string  `json:"account_ref"`
}

type PayoutResponse struct {
	PayoutRef string  `json:"payout_ref"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	CreatedAt int64   `json:"created_at"`
}
