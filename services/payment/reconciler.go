package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationRepo "casaluna/database/repository/reservation"
	"casaluna/models"
	"casaluna/services/availability"
	"casaluna/services/notification"
	"casaluna/utils"

	"go.uber.org/zap"
)

// Reconciler bridges both provider protocols onto the one reservation state
// machine. Webhook deliveries (Stripe) and capture responses (PayPal) both
// funnel into Confirm, so idempotency, the final overlap check, and the
// post-confirmation effects are implemented exactly once.
type Reconciler interface {
	Confirm(ctx context.Context, kind models.ProviderKind, reference string) (*models.Reservation, error)
}

// HoldReleaser frees the night holds once a reservation leaves Pending;
// satisfied by availability.HoldStore.
type HoldReleaser interface {
	Release(ctx context.Context, reservationID string, checkIn, checkOut time.Time)
}

// DefaultReconciler is the production implementation.
type DefaultReconciler struct {
	Repo         reservationRepo.ReservationRepository
	Gateways     map[models.ProviderKind]Gateway
	Availability availability.Service
	Holds        HoldReleaser
	Notifier     notification.Service
}

// Confirm promotes the reservation behind a provider reference to Confirmed.
//
//   - Ledger miss: the reservation is rebuilt from the provider's stored
//     order metadata and written back. Each provider is a durable backup of
//     the reservation it financed; losing the ledger loses nothing paid for.
//   - Duplicate delivery: the conditional Pending->Confirmed transition
//     matches nothing the second time, so the record confirms exactly once
//     and no notification trigger fires twice.
//   - Conflict discovered at confirmation: the reservation is cancelled and
//     the conflict surfaced; the payment has to be refunded out of band.
func (r *DefaultReconciler) Confirm(ctx context.Context, kind models.ProviderKind, reference string) (*models.Reservation, error) {
	logger := utils.GetLogger()

	gw, ok := r.Gateways[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, kind)
	}

	order, err := gw.FetchOrder(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("provider state for %s unavailable: %w", reference, err)
	}
	if !order.Paid {
		return nil, fmt.Errorf("%w: %s", ErrNotPaid, reference)
	}

	res, err := r.Repo.GetByProviderRef(ctx, reference)
	if errors.Is(err, reservationRepo.ErrNotFound) {
		res, err = r.reconstruct(ctx, kind, order)
	}
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case models.StatusConfirmed:
		logger.Info("duplicate confirmation ignored",
			zap.String("reservationID", res.ID), zap.String("reference", reference))
		return res, nil
	case models.StatusCancelled:
		return nil, fmt.Errorf("%w: reservation %s was cancelled but order %s is paid",
			ErrConsistency, res.ID, reference)
	}

	// Final authoritative check before the money-backed transition. Two
	// pending reservations can both have reached payment; only the first
	// confirmation wins the dates.
	free, err := r.Availability.IsAvailableFor(ctx, res.ID, res.CheckIn, res.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("confirmation availability check: %w", err)
	}
	if !free {
		if _, err := r.Repo.Transition(ctx, res.ID, models.StatusPending, models.StatusCancelled, time.Now().UTC()); err != nil {
			logger.Error("failed to cancel conflicting paid reservation",
				zap.String("reservationID", res.ID), zap.Error(err))
		}
		r.releaseHolds(ctx, res)
		logger.Error("paid reservation conflicts with existing booking",
			zap.String("reservationID", res.ID), zap.String("reference", reference))
		return nil, fmt.Errorf("%w: reservation %s", ErrConfirmConflict, res.ID)
	}

	now := time.Now().UTC()
	promoted, err := r.Repo.Transition(ctx, res.ID, models.StatusPending, models.StatusConfirmed, now)
	if err != nil {
		return nil, fmt.Errorf("confirm reservation %s: %w", res.ID, err)
	}
	if !promoted {
		// Lost the race to another delivery of the same confirmation.
		current, err := r.Repo.GetByID(ctx, res.ID)
		if err == nil && current.Status == models.StatusConfirmed {
			return current, nil
		}
		return nil, fmt.Errorf("%w: reservation %s left pending state unexpectedly", ErrConsistency, res.ID)
	}

	res.Status = models.StatusConfirmed
	res.ConfirmedAt = &now

	// The confirmed record is visible to the availability index from this
	// point; the holds have done their job.
	r.releaseHolds(ctx, res)

	// Notification failures never roll back a provider-verified payment.
	if r.Notifier != nil {
		if err := r.Notifier.ReservationConfirmed(ctx, *res); err != nil {
			logger.Warn("post-confirmation notices failed",
				zap.String("reservationID", res.ID), zap.Error(err))
		}
	}

	logger.Info("reservation confirmed",
		zap.String("reservationID", res.ID),
		zap.String("provider", string(kind)),
		zap.String("reference", reference))
	return res, nil
}

func (r *DefaultReconciler) releaseHolds(ctx context.Context, res *models.Reservation) {
	if r.Holds != nil {
		r.Holds.Release(ctx, res.ID, res.CheckIn, res.CheckOut)
	}
}

// reconstruct rebuilds a lost ledger record from the provider's stored order
// and writes it back as Pending; the caller then runs the normal transition.
func (r *DefaultReconciler) reconstruct(ctx context.Context, kind models.ProviderKind, order *models.ProviderOrder) (*models.Reservation, error) {
	logger := utils.GetLogger()

	if order.Draft.GuestEmail == "" || order.Draft.CheckIn.IsZero() {
		return nil, fmt.Errorf("%w: order %s carries no usable reservation metadata", ErrConsistency, order.Reference)
	}

	id := order.ReservationID
	if id == "" {
		return nil, fmt.Errorf("%w: order %s has no reservation id", ErrConsistency, order.Reference)
	}

	res := models.Reservation{
		ID:              id,
		CheckIn:         models.Day(order.Draft.CheckIn),
		CheckOut:        models.Day(order.Draft.CheckOut),
		GuestName:       order.Draft.GuestName,
		GuestEmail:      order.Draft.GuestEmail,
		GuestPhone:      order.Draft.GuestPhone,
		Adults:          order.Draft.Adults,
		Children:        order.Draft.Children,
		SpecialRequests: order.Draft.SpecialRequests,
		TotalAmount:     order.Amount,
		Currency:        order.Currency,
		Provider:        models.ProviderRef{Kind: kind, Reference: order.Reference},
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := r.Repo.Upsert(ctx, res); err != nil {
		return nil, fmt.Errorf("%w: rebuild of %s failed: %v", ErrConsistency, order.Reference, err)
	}

	logger.Warn("reservation reconstructed from provider records",
		zap.String("reservationID", res.ID),
		zap.String("provider", string(kind)),
		zap.String("reference", order.Reference))
	return &res, nil
}
