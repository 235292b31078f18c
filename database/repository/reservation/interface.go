package reservationRepo

import (
	"context"
	"errors"
	"time"

	"casaluna/models"
)

// ErrNotFound is returned when no store holds a record for the given key.
// Callers must not treat this as fatal: the ledger may legitimately be empty
// (ephemeral primary, process restart) and records are reconstructable from
// the payment provider that financed them.
var ErrNotFound = errors.New("reservation not found")

// Store is one durable backend for reservation records. Implementations:
// MongoDB (primary) and Redis (secondary mirror).
type Store interface {
	Name() string
	Insert(ctx context.Context, res models.Reservation) error
	// Upsert writes the full record regardless of prior state. Used when
	// mirroring and when reconstructing a lost record.
	Upsert(ctx context.Context, res models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByProviderRef(ctx context.Context, reference string) (*models.Reservation, error)
	ListByStatus(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
	// Transition flips status from one state to another in a single
	// conditional write. Returns false with no error when the record exists
	// but is no longer in the expected state, which is how duplicate
	// provider confirmations are detected.
	Transition(ctx context.Context, id string, from, to models.ReservationStatus, at time.Time) (bool, error)
}

// ReservationRepository is the ledger surface used by services. It is backed
// by a ranked list of stores with documented fallback order (see ranked.go).
type ReservationRepository interface {
	Create(ctx context.Context, res models.Reservation) error
	Upsert(ctx context.Context, res models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByProviderRef(ctx context.Context, reference string) (*models.Reservation, error)
	ListConfirmed(ctx context.Context) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
	Transition(ctx context.Context, id string, from, to models.ReservationStatus, at time.Time) (bool, error)
}
