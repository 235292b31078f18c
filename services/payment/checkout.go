package payment

import (
	"context"
	"fmt"

	"casaluna/models"
	"casaluna/services/reservation"
	"casaluna/utils"

	"go.uber.org/zap"
)

// CheckoutService opens the candidate-then-commit sequence: availability is
// verified, a Pending reservation is opened with holds on its nights, and a
// provider order carrying the full reservation as metadata is created.
type CheckoutService interface {
	Begin(ctx context.Context, draft models.ReservationDraft, kind models.ProviderKind) (*models.Reservation, *models.Checkout, error)
}

// DefaultCheckoutService is the production implementation.
type DefaultCheckoutService struct {
	Reservations reservation.Service
	Gateways     map[models.ProviderKind]Gateway
}

func (s *DefaultCheckoutService) Begin(ctx context.Context, draft models.ReservationDraft, kind models.ProviderKind) (*models.Reservation, *models.Checkout, error) {
	gw, ok := s.Gateways[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProvider, kind)
	}

	res, err := s.Reservations.OpenPending(ctx, draft)
	if err != nil {
		return nil, nil, err
	}

	checkout, err := gw.CreateOrder(ctx, *res)
	if err != nil {
		// No provider order, no record: free the nights again.
		s.Reservations.ReleaseHolds(ctx, res)
		return nil, nil, fmt.Errorf("payment provider rejected order: %w", err)
	}

	res.Provider = models.ProviderRef{Kind: kind, Reference: checkout.Reference}
	if err := s.Reservations.Persist(ctx, res); err != nil {
		// The provider order exists but the ledger write failed everywhere.
		// The record remains reconstructable from the provider, so report
		// without inventing a rollback.
		utils.GetLogger().Error("pending reservation not persisted after order creation",
			zap.String("reservationID", res.ID), zap.String("reference", checkout.Reference), zap.Error(err))
		return nil, nil, fmt.Errorf("persist pending reservation: %w", err)
	}

	utils.GetLogger().Info("pending reservation opened",
		zap.String("reservationID", res.ID),
		zap.String("provider", string(kind)),
		zap.String("reference", checkout.Reference))
	return res, checkout, nil
}
