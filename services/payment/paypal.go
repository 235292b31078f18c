package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"casaluna/models"

	"github.com/plutov/paypal/v4"
)

// PayPalGateway drives the synchronous-capture provider: the client-initiated
// capture call reports completion in its own response.
type PayPalGateway struct {
	Client    *paypal.Client
	BrandName string
	ReturnURL string
	CancelURL string
}

// NewPayPalClient builds the underlying SDK client against the sandbox or
// live API base.
func NewPayPalClient(clientID, secret string, live bool) (*paypal.Client, error) {
	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}
	client, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	return client, nil
}

func (g *PayPalGateway) Kind() models.ProviderKind { return models.ProviderPayPal }

// customPayload is the compact reservation copy embedded in the purchase
// unit's custom field, PayPal's equivalent of session metadata.
type customPayload struct {
	ReservationID string `json:"rid"`
	CheckIn       string `json:"in"`
	CheckOut      string `json:"out"`
	GuestName     string `json:"gn"`
	GuestEmail    string `json:"ge"`
	GuestPhone    string `json:"gp,omitempty"`
	Adults        int    `json:"a"`
	Children      int    `json:"c"`
	Requests      string `json:"sr,omitempty"`
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, res models.Reservation) (*models.Checkout, error) {
	custom, err := json.Marshal(customPayload{
		ReservationID: res.ID,
		CheckIn:       res.CheckIn.Format(dayFormat),
		CheckOut:      res.CheckOut.Format(dayFormat),
		GuestName:     res.GuestName,
		GuestEmail:    res.GuestEmail,
		GuestPhone:    res.GuestPhone,
		Adults:        res.Adults,
		Children:      res.Children,
		Requests:      res.SpecialRequests,
	})
	if err != nil {
		return nil, err
	}

	units := []paypal.PurchaseUnitRequest{
		{
			ReferenceID: res.ID,
			CustomID:    string(custom),
			Description: fmt.Sprintf("%s: %s - %s", g.BrandName,
				res.CheckIn.Format(dayFormat), res.CheckOut.Format(dayFormat)),
			Amount: &paypal.PurchaseUnitAmount{
				Currency: res.Currency,
				Value:    minorToDecimal(res.TotalAmount),
			},
		},
	}
	appCtx := &paypal.ApplicationContext{
		BrandName: g.BrandName,
		ReturnURL: g.ReturnURL,
		CancelURL: g.CancelURL,
	}

	order, err := g.Client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		return nil, fmt.Errorf("create paypal order: %w", err)
	}

	approval := ""
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approval = link.Href
		}
	}
	return &models.Checkout{
		Reference:   order.ID,
		ApprovalURL: approval,
		Kind:        models.ProviderPayPal,
	}, nil
}

// Capture performs the synchronous capture call. A repeat capture of an
// already-captured order is treated as success by falling back to the stored
// order state, which keeps the capture endpoint idempotent.
func (g *PayPalGateway) Capture(ctx context.Context, reference string) (*models.ProviderOrder, error) {
	_, err := g.Client.CaptureOrder(ctx, reference, paypal.CaptureOrderRequest{})
	if err != nil && !strings.Contains(err.Error(), "ORDER_ALREADY_CAPTURED") {
		return nil, fmt.Errorf("capture paypal order %s: %w", reference, err)
	}
	return g.FetchOrder(ctx, reference)
}

func (g *PayPalGateway) FetchOrder(ctx context.Context, reference string) (*models.ProviderOrder, error) {
	order, err := g.Client.GetOrder(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("fetch paypal order %s: %w", reference, err)
	}
	if len(order.PurchaseUnits) == 0 {
		return nil, fmt.Errorf("paypal order %s has no purchase units", reference)
	}
	unit := order.PurchaseUnits[0]

	var payload customPayload
	if err := json.Unmarshal([]byte(unit.CustomID), &payload); err != nil {
		return nil, fmt.Errorf("paypal order %s custom payload: %w", reference, err)
	}
	_, draft, err := draftFromMetadata(map[string]string{
		"reservationId":   payload.ReservationID,
		"checkIn":         payload.CheckIn,
		"checkOut":        payload.CheckOut,
		"guestName":       payload.GuestName,
		"guestEmail":      payload.GuestEmail,
		"guestPhone":      payload.GuestPhone,
		"adults":          fmt.Sprintf("%d", payload.Adults),
		"children":        fmt.Sprintf("%d", payload.Children),
		"specialRequests": payload.Requests,
	})
	if err != nil {
		return nil, fmt.Errorf("paypal order %s: %w", reference, err)
	}

	amount := int64(0)
	currency := ""
	if unit.Amount != nil {
		currency = unit.Amount.Currency
		if amount, err = decimalToMinor(unit.Amount.Value); err != nil {
			return nil, fmt.Errorf("paypal order %s: %w", reference, err)
		}
	}

	return &models.ProviderOrder{
		Reference:     order.ID,
		Kind:          models.ProviderPayPal,
		Paid:          order.Status == "COMPLETED",
		Amount:        amount,
		Currency:      currency,
		Draft:         draft,
		ReservationID: payload.ReservationID,
	}, nil
}
