package payment

import (
	"context"
	"errors"

	"casaluna/models"
)

var (
	// ErrUnknownProvider means no gateway is registered for the requested
	// provider kind.
	ErrUnknownProvider = errors.New("unknown payment provider")

	// ErrNotPaid means the provider does not report the order as completed,
	// so no confirmation may happen.
	ErrNotPaid = errors.New("provider has not completed payment for this order")

	// ErrConsistency is the loud failure mode for money collected with no
	// corresponding reservation: the provider reports success, the ledger
	// has no record, and reconstruction from the provider also failed.
	ErrConsistency = errors.New("payment succeeded but no reservation could be recovered")

	// ErrConfirmConflict means the final authoritative overlap check found
	// the dates taken at confirmation time. The reservation is cancelled
	// instead of confirmed and the payment must be refunded out of band.
	ErrConfirmConflict = errors.New("dates conflict at confirmation time")
)

// Gateway is one payment provider. Besides opening orders it doubles as a
// remote, authoritative, read-through copy of the reservation it financed:
// CreateOrder embeds the full draft as provider-side metadata and FetchOrder
// reads it back, which is what makes ledger-loss recovery possible.
type Gateway interface {
	Kind() models.ProviderKind
	CreateOrder(ctx context.Context, res models.Reservation) (*models.Checkout, error)
	FetchOrder(ctx context.Context, reference string) (*models.ProviderOrder, error)
}
