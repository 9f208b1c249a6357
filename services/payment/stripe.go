package payment

import (
	"context"
	"fmt"

	"medipulse/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProvider implements Provider on a dedicated Stripe client rather than the
// package-level stripe.Key.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds the client once. backends may be nil for the live API.
func NewStripeProvider(secretKey string, backends *stripe.Backends) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, backends)}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	params.AddMetadata("appointmentId", req.AppointmentID)
	params.AddMetadata("userId", req.UserID)
	params.AddMetadata("docId", req.DocID)
	params.AddMetadata("doctorName", req.DoctorName)
	params.AddMetadata("patientName", req.PatientName)

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (p *StripeProvider) RetrieveIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve payment intent %s: %w", intentID, err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
}
