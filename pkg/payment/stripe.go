package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeProvider struct {
	client *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{
		client: sc,
	}
}

// Authorize places a manual-capture hold; the intent is captured on payout
// or cancelled on release.
func (s *StripeProvider) Authorize(ctx context.Context, request *AuthorizeRequest) (*AuthorizeResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(request.Amount * 100)), // minor units
		Currency:      stripe.String(request.Currency),
		Customer:      stripe.String(request.CustomerRef),
		Description:   stripe.String(request.Description),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:       stripe.Bool(true),
	}

	if request.Metadata != nil {
		for key, value := range request.Metadata {
			params.AddMetadata(key, fmt.Sprintf("%v", value))
		}
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &AuthorizeResponse{
		HoldRef:   pi.ID,
		Status:    string(pi.Status),
		Amount:    float64(pi.Amount) / 100,
		Currency:  string(pi.Currency),
		CreatedAt: pi.Created,
	}, nil
}

func (s *StripeProvider) Capture(ctx context.Context, holdRef string, amount float64) (*CaptureResponse, error) {
	params := &stripe.PaymentIntentCaptureParams{
		AmountToCapture: stripe.Int64(int64(amount * 100)),
	}

	pi, err := s.client.PaymentIntents.Capture(holdRef, params)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment intent: %w", err)
	}

	return &CaptureResponse{
		TransactionID: pi.ID,
		Status:        string(pi.Status),
		Amount:        float64(pi.AmountReceived) / 100,
		CreatedAt:     pi.Created,
	}, nil
}

func (s *StripeProvider) ReleaseHold(ctx context.Context, holdRef string) error {
	_, err := s.client.PaymentIntents.Cancel(holdRef, &stripe.PaymentIntentCancelParams{})
	if err != nil {
		return fmt.Errorf("failed to cancel payment intent: %w", err)
	}
	return nil
}

func (s *StripeProvider) Refund(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(request.HoldRef),
		Amount:        stripe.Int64(int64(request.Amount * 100)),
	}
	params.AddMetadata("reason", request.Reason)

	refund, err := s.client.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return &RefundResponse{
		RefundID:  refund.ID,
		Status:    string(refund.Status),
		Amount:    float64(refund.Amount) / 100,
		Currency:  string(refund.Currency),
		CreatedAt: refund.Created,
	}, nil
}

func (s *StripeProvider) Payout(ctx context.Context, request *PayoutRequest) (*PayoutResponse, error) {
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(int64(request.Amount * 100)),
		Currency:      stripe.String(request.Currency),
		Destination:   stripe.String(request.AccountRef),
		TransferGroup: stripe.String(request.BookingID),
	}
	params.AddMetadata("booking_id", request.BookingID)

	transfer, err := s.client.Transfers.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	return &PayoutResponse{
		PayoutRef: transfer.ID,
		Status:    "created",
		Amount:    float64(transfer.Amount) / 100,
		CreatedAt: transfer.Created,
	}, nil
}
