package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"casaluna/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway drives the asynchronous-webhook provider: a Checkout Session
// is opened up front and a signed out-of-band event reports completion.
type StripeGateway struct {
	WebhookSecret string
	PropertyName  string
	SuccessURL    string
	CancelURL     string
}

func (g *StripeGateway) Kind() models.ProviderKind { return models.ProviderStripe }

func (g *StripeGateway) CreateOrder(ctx context.Context, res models.Reservation) (*models.Checkout, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.SuccessURL),
		CancelURL:  stripe.String(g.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(res.Currency),
					UnitAmount: stripe.Int64(res.TotalAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s: %s - %s", g.PropertyName,
							res.CheckIn.Format(dayFormat), res.CheckOut.Format(dayFormat))),
					},
				},
			},
		},
	}
	params.Context = ctx
	// The session metadata is the provider-side backup of the reservation.
	for k, v := range orderMetadata(res) {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &models.Checkout{
		Reference:   sess.ID,
		ApprovalURL: sess.URL,
		Kind:        models.ProviderStripe,
	}, nil
}

func (g *StripeGateway) FetchOrder(ctx context.Context, reference string) (*models.ProviderOrder, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(reference, params)
	if err != nil {
		return nil, fmt.Errorf("fetch stripe session %s: %w", reference, err)
	}

	id, draft, err := draftFromMetadata(sess.Metadata)
	if err != nil {
		return nil, fmt.Errorf("stripe session %s metadata: %w", reference, err)
	}
	return &models.ProviderOrder{
		Reference:     sess.ID,
		Kind:          models.ProviderStripe,
		Paid:          sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Amount:        sess.AmountTotal,
		Currency:      string(sess.Currency),
		Draft:         draft,
		ReservationID: id,
	}, nil
}

// VerifyWebhook authenticates a raw webhook delivery against the pre-shared
// signing secret and extracts the session reference from completion events.
// A bad signature is rejected outright; no state changes downstream.
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (string, bool, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, g.WebhookSecret)
	if err != nil {
		return "", false, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	if event.Type != "checkout.session.completed" {
		return "", false, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return "", false, fmt.Errorf("decode checkout.session.completed payload: %w", err)
	}
	return sess.ID, true, nil
}
