package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client *razorpay.Client
}

func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client: client,
	}
}

// Authorize creates a payment-capture order. Razorpay authorizes on the
// client side against the order; the order id serves as the hold reference.
func (r *RazorpayProvider) Authorize(ctx context.Context, request *AuthorizeRequest) (*AuthorizeResponse, error) {
	orderData := map[string]interface{}{
		"amount":          int(request.Amount * 100), // minor units
		"currency":        request.Currency,
		"receipt":         request.CustomerRef,
		"payment_capture": 0,
		"notes":           request.Metadata,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &AuthorizeResponse{
		HoldRef:   order["id"].(string),
		Status:    "created",
		Amount:    float64(order["amount"].(int)) / 100,
		Currency:  order["currency"].(string),
		CreatedAt: int64(order["created_at"].(int)),
	}, nil
}

func (r *RazorpayProvider) Capture(ctx context.Context, holdRef string, amount float64) (*CaptureResponse, error) {
	data := map[string]interface{}{
		"currency": "INR",
	}

	payment, err := r.client.Payment.Capture(holdRef, int(amount*100), data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment: %w", err)
	}

	return &CaptureResponse{
		TransactionID: payment["id"].(string),
		Status:        payment["status"].(string),
		Amount:        float64(payment["amount"].(int)) / 100,
		CreatedAt:     time.Now().Unix(),
	}, nil
}

// ReleaseHold is a full refund of the uncaptured authorization; Razorpay
// auto-releases unconfirmed orders, so a missing payment is not an error.
func (r *RazorpayProvider) ReleaseHold(ctx context.Context, holdRef string) error {
	_, err := r.client.Payment.Refund(holdRef, 0, map[string]interface{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to release hold: %w", err)
	}
	return nil
}

func (r *RazorpayProvider) Refund(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	refundData := map[string]interface{}{
		"notes": map[string]interface{}{
			"reason": request.Reason,
		},
	}

	amount := int(request.Amount * 100)
	refund, err := r.client.Payment.Refund(request.HoldRef, amount, refundData, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return &RefundResponse{
		RefundID:  refund["id"].(string),
		Status:    refund["status"].(string),
		Amount:    float64(refund["amount"].(int)) / 100,
		Currency:  refund["currency"].(string),
		CreatedAt: int64(refund["created_at"].(int)),
	}, nil
}

func (r *RazorpayProvider) Payout(ctx context.Context, request *PayoutRequest) (*PayoutResponse, error) {
	transferData := map[string]interface{}{
		"transfers": []map[string]interface{}{
			{
				"account":  request.AccountRef,
				"amount":   int(request.Amount * 100),
				"currency": request.Currency,
				"notes": map[string]interface{}{
					"booking_id": request.BookingID,
				},
			},
		},
	}

	transfer, err := r.client.Payment.Transfer(request.BookingID, transferData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	return &PayoutResponse{
		PayoutRef: fmt.Sprintf("%v", transfer["id"]),
		Status:    "created",
		Amount:    request.Amount,
		CreatedAt: time.Now().Unix(),
	}, nil
}
