package reservation

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	reservationRepo "casaluna/database/repository/reservation"
	"casaluna/models"
	"casaluna/services/availability"
	"casaluna/services/notification"
	"casaluna/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns the reservation ledger lifecycle outside of payment-driven
// confirmation, which belongs to the payment reconciler.
type Service interface {
	Quote(draft models.ReservationDraft) (models.Quote, error)
	// OpenPending validates the draft, verifies availability, prices the
	// stay, places holds on its nights, and returns the not-yet-persisted
	// Pending record. Persist must be called once the payment order exists.
	OpenPending(ctx context.Context, draft models.ReservationDraft) (*models.Reservation, error)
	Persist(ctx context.Context, res *models.Reservation) error
	ReleaseHolds(ctx context.Context, res *models.Reservation)
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
	Get(ctx context.Context, id string) (*models.Reservation, error)
	GetByProviderRef(ctx context.Context, reference string) (*models.Reservation, error)
	ListConfirmed(ctx context.Context) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
}

// HoldStore is the hold surface the ledger service needs; satisfied by
// availability.HoldStore.
type HoldStore interface {
	Acquire(ctx context.Context, reservationID string, checkIn, checkOut time.Time) (bool, error)
	Release(ctx context.Context, reservationID string, checkIn, checkOut time.Time)
}

// DefaultService is the production implementation.
type DefaultService struct {
	Repo         reservationRepo.ReservationRepository
	Availability availability.Service
	Holds        HoldStore
	Pricing      models.PricingConfig
	Notifier     notification.Service
	MaxGuests    int
}

func (s *DefaultService) validate(draft models.ReservationDraft) error {
	in := models.Day(draft.CheckIn)
	out := models.Day(draft.CheckOut)
	switch {
	case !in.Before(out):
		return fmt.Errorf("%w: check-in must be before checkout", ErrInvalidStay)
	case in.Before(models.Day(time.Now())):
		return fmt.Errorf("%w: check-in is in the past", ErrInvalidStay)
	case draft.Adults < 1:
		return fmt.Errorf("%w: at least one adult is required", ErrInvalidStay)
	case draft.Children < 0:
		return fmt.Errorf("%w: negative child count", ErrInvalidStay)
	case s.MaxGuests > 0 && draft.Adults+draft.Children > s.MaxGuests:
		return fmt.Errorf("%w: party exceeds the %d guest maximum", ErrInvalidStay, s.MaxGuests)
	case strings.TrimSpace(draft.GuestName) == "":
		return fmt.Errorf("%w: guest name is required", ErrInvalidStay)
	}
	if _, err := mail.ParseAddress(draft.GuestEmail); err != nil {
		return fmt.Errorf("%w: invalid guest email", ErrInvalidStay)
	}
	return nil
}

func (s *DefaultService) Quote(draft models.ReservationDraft) (models.Quote, error) {
	if err := s.validate(draft); err != nil {
		return models.Quote{}, err
	}
	return QuoteStay(s.Pricing, draft.CheckIn, draft.CheckOut)
}

func (s *DefaultService) OpenPending(ctx context.Context, draft models.ReservationDraft) (*models.Reservation, error) {
	if err := s.validate(draft); err != nil {
		return nil, err
	}

	available, err := s.Availability.IsAvailable(ctx, draft.CheckIn, draft.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("availability check: %w", err)
	}
	if !available {
		return nil, ErrUnavailable
	}

	quote, err := QuoteStay(s.Pricing, draft.CheckIn, draft.CheckOut)
	if err != nil {
		return nil, err
	}

	res := &models.Reservation{
		ID:              uuid.New().String(),
		CheckIn:         models.Day(draft.CheckIn),
		CheckOut:        models.Day(draft.CheckOut),
		GuestName:       strings.TrimSpace(draft.GuestName),
		GuestEmail:      strings.TrimSpace(draft.GuestEmail),
		GuestPhone:      strings.TrimSpace(draft.GuestPhone),
		Adults:          draft.Adults,
		Children:        draft.Children,
		SpecialRequests: strings.TrimSpace(draft.SpecialRequests),
		TotalAmount:     quote.Total,
		Currency:        quote.Currency,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	// The hold closes the window between this availability check and
	// payment confirmation: a concurrent request for overlapping nights
	// cannot also proceed to payment.
	if s.Holds != nil {
		acquired, err := s.Holds.Acquire(ctx, res.ID, res.CheckIn, res.CheckOut)
		if err != nil {
			return nil, fmt.Errorf("acquire booking hold: %w", err)
		}
		if !acquired {
			return nil, ErrUnavailable
		}
	}
	return res, nil
}

func (s *DefaultService) Persist(ctx context.Context, res *models.Reservation) error {
	return s.Repo.Create(ctx, *res)
}

func (s *DefaultService) ReleaseHolds(ctx context.Context, res *models.Reservation) {
	if s.Holds != nil {
		s.Holds.Release(ctx, res.ID, res.CheckIn, res.CheckOut)
	}
}

// Cancel transitions a Pending or Confirmed reservation to Cancelled.
// Downstream effects (holds, notifications) are best-effort and never roll
// the cancellation back.
func (s *DefaultService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	logger := utils.GetLogger()

	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == models.StatusCancelled {
		return res, nil
	}

	ok, err := s.Repo.Transition(ctx, id, res.Status, models.StatusCancelled, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("cancel reservation %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s changed state concurrently", ErrInvalidTransition, id)
	}
	res.Status = models.StatusCancelled

	s.ReleaseHolds(ctx, res)
	if s.Notifier != nil {
		if err := s.Notifier.ReservationCancelled(ctx, *res); err != nil {
			logger.Warn("cancellation notices failed",
				zap.String("reservationID", id), zap.Error(err))
		}
	}
	logger.Info("reservation cancelled", zap.String("reservationID", id))
	return res, nil
}

func (s *DefaultService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultService) GetByProviderRef(ctx context.Context, reference string) (*models.Reservation, error) {
	return s.Repo.GetByProviderRef(ctx, reference)
}

func (s *DefaultService) ListConfirmed(ctx context.Context) ([]models.Reservation, error) {
	return s.Repo.ListConfirmed(ctx)
}

func (s *DefaultService) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return s.Repo.ListAll(ctx)
}
