package payment

import (
	"context"
	"math"

	"medipulse/models"
)

// Provider is the payment-charge capability. It is built once at start-up and injected.
type Provider interface {
	CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error)
}

// MinorUnits converts a major-unit amount (e.g. dollars) to minor units (cents).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
