package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casaluna/models"
	"casaluna/utils"

	"go.uber.org/zap"
)

// rankedRepo fans every write out to a ranked list of stores and reads from
// the first store that answers.
//
// Fallback order:
//   - writes: every store is attempted; the operation succeeds if at least
//     one store accepts it, and a primary failure is logged, not fatal.
//   - reads: stores are tried in rank order. An unreachable store falls
//     through to the next; so does ErrNotFound, because the primary may have
//     been wiped while the mirror still holds the record.
type rankedRepo struct {
	stores []Store
}

// NewRankedRepository builds the ledger repository from stores listed in
// priority order (primary first).
func NewRankedRepository(stores ...Store) ReservationRepository {
	return &rankedRepo{stores: stores}
}

func (r *rankedRepo) writeAll(ctx context.Context, op string, fn func(Store) error) error {
	logger := utils.GetLogger()
	var firstErr error
	ok := false
	for _, s := range r.stores {
		if err := fn(s); err != nil {
			logger.Warn("ledger write failed on store",
				zap.String("op", op), zap.String("store", s.Name()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		ok = true
	}
	if !ok {
		return fmt.Errorf("ledger %s failed on every store: %w", op, firstErr)
	}
	return nil
}

func (r *rankedRepo) Create(ctx context.Context, res models.Reservation) error {
	return r.writeAll(ctx, "create", func(s Store) error {
		return s.Insert(ctx, res)
	})
}

func (r *rankedRepo) Upsert(ctx context.Context, res models.Reservation) error {
	return r.writeAll(ctx, "upsert", func(s Store) error {
		return s.Upsert(ctx, res)
	})
}

func (r *rankedRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return r.readFirst(ctx, func(s Store) (*models.Reservation, error) {
		return s.GetByID(ctx, id)
	})
}

func (r *rankedRepo) GetByProviderRef(ctx context.Context, reference string) (*models.Reservation, error) {
	return r.readFirst(ctx, func(s Store) (*models.Reservation, error) {
		return s.GetByProviderRef(ctx, reference)
	})
}

func (r *rankedRepo) readFirst(ctx context.Context, fn func(Store) (*models.Reservation, error)) (*models.Reservation, error) {
	logger := utils.GetLogger()
	for _, s := range r.stores {
		res, err := fn(s)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("ledger read failed on store, falling back",
				zap.String("store", s.Name()), zap.Error(err))
		}
	}
	return nil, ErrNotFound
}

func (r *rankedRepo) ListConfirmed(ctx context.Context) ([]models.Reservation, error) {
	return r.listFirst(ctx, func(s Store) ([]models.Reservation, error) {
		return s.ListByStatus(ctx, models.StatusConfirmed)
	})
}

func (r *rankedRepo) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return r.listFirst(ctx, func(s Store) ([]models.Reservation, error) {
		return s.ListAll(ctx)
	})
}

func (r *rankedRepo) listFirst(ctx context.Context, fn func(Store) ([]models.Reservation, error)) ([]models.Reservation, error) {
	logger := utils.GetLogger()
	var lastErr error
	for _, s := range r.stores {
		out, err := fn(s)
		if err == nil {
			return out, nil
		}
		lastErr = err
		logger.Warn("ledger list failed on store, falling back",
			zap.String("store", s.Name()), zap.Error(err))
	}
	return nil, fmt.Errorf("ledger list failed on every store: %w", lastErr)
}

// Transition applies the conditional status flip on the first reachable
// store, then mirrors the outcome to the remaining stores so they converge.
func (r *rankedRepo) Transition(ctx context.Context, id string, from, to models.ReservationStatus, at time.Time) (bool, error) {
	logger := utils.GetLogger()
	decided := false
	matched := false
	var firstErr error
	for _, s := range r.stores {
		ok, err := s.Transition(ctx, id, from, to, at)
		if err != nil {
			logger.Warn("ledger transition failed on store",
				zap.String("store", s.Name()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !decided {
			decided = true
			matched = ok
		}
	}
	if !decided {
		return false, fmt.Errorf("ledger transition failed on every store: %w", firstErr)
	}
	return matched, nil
}
