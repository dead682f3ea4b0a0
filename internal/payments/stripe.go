// Package payments creates hosted checkout sessions whose id doubles as the
// booking id.
package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type CheckoutRequest struct {
	From        string
	To          string
	Type        string
	Amount      float64
	RedirectURL string
}

// Provider creates a payment session and returns its id.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
}

type StripeProvider struct {
	api      *client.API
	currency string
}

func NewStripeProvider(secretKey, currency string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, currency: currency}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := sessionParams(req, p.currency)
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.ID, nil
}

func sessionParams(req CheckoutRequest, currency string) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("Cab from %s to %s (%s)", req.From, req.To, req.Type)),
				},
				UnitAmount: stripe.Int64(toMinorUnits(req.Amount)),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.RedirectURL + "/success"),
		CancelURL:  stripe.String(req.RedirectURL + "/cancel"),
	}
}

// toMinorUnits converts an amount to cents, rounding away float error
// (10.29 is 1029, not 1028).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
