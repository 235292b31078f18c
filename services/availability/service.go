package availability

import (
	"context"
	"fmt"
	"time"

	"casaluna/models"
)

// Service answers availability queries against the merged blocked set and
// the active booking holds.
type Service interface {
	IsAvailable(ctx context.Context, checkIn, checkOut time.Time) (bool, error)
	// IsAvailableFor is the authoritative re-check run while a reservation
	// is being confirmed; the reservation's own holds do not count against
	// it.
	IsAvailableFor(ctx context.Context, reservationID string, checkIn, checkOut time.Time) (bool, error)
}

// NightHolds is the slice of HoldStore the availability check needs.
type NightHolds interface {
	AnyHeld(ctx context.Context, excludeID string, checkIn, checkOut time.Time) (bool, error)
}

// DefaultService is the production implementation.
type DefaultService struct {
	Index *Index
	Holds NightHolds
}

func (s *DefaultService) IsAvailable(ctx context.Context, checkIn, checkOut time.Time) (bool, error) {
	return s.IsAvailableFor(ctx, "", checkIn, checkOut)
}

func (s *DefaultService) IsAvailableFor(ctx context.Context, reservationID string, checkIn, checkOut time.Time) (bool, error) {
	in := models.Day(checkIn)
	out := models.Day(checkOut)
	if !in.Before(out) {
		return false, fmt.Errorf("check-in %s must be before checkout %s",
			in.Format("2006-01-02"), out.Format("2006-01-02"))
	}

	blocked, err := s.Index.BlockedRanges(ctx)
	if err != nil {
		return false, err
	}
	if !IsAvailable(in, out, blocked) {
		return false, nil
	}

	if s.Holds != nil {
		held, err := s.Holds.AnyHeld(ctx, reservationID, in, out)
		if err != nil {
			return false, fmt.Errorf("check booking holds: %w", err)
		}
		if held {
			return false, nil
		}
	}
	return true, nil
}
