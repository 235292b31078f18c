package reservationRepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"casaluna/models"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix = "reservation:"
	redisRefPrefix = "reservation:ref:"
	redisIndexKey  = "reservation:index"
)

type redisReservationStore struct {
	client *redis.Client
}

// NewRedisReservationStore returns the secondary reservation store. It
// mirrors every write so the ledger survives a primary outage; it is not
// the authoritative copy.
func NewRedisReservationStore(client *redis.Client) Store {
	return &redisReservationStore{client: client}
}

func (r *redisReservationStore) Name() string { return "redis" }

func (r *redisReservationStore) write(ctx context.Context, res models.Reservation) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+res.ID, data, 0)
	pipe.Set(ctx, redisRefPrefix+res.Provider.Reference, res.ID, 0)
	pipe.SAdd(ctx, redisIndexKey, res.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisReservationStore) Insert(ctx context.Context, res models.Reservation) error {
	return r.write(ctx, res)
}

func (r *redisReservationStore) Upsert(ctx context.Context, res models.Reservation) error {
	return r.write(ctx, res)
}

func (r *redisReservationStore) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var res models.Reservation
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *redisReservationStore) GetByProviderRef(ctx context.Context, reference string) (*models.Reservation, error) {
	id, err := r.client.Get(ctx, redisRefPrefix+reference).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *redisReservationStore) ListByStatus(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, res := range all {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *redisReservationStore) ListAll(ctx context.Context) ([]models.Reservation, error) {
	ids, err := r.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.Reservation, 0, len(ids))
	for _, id := range ids {
		res, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, nil
}

func (r *redisReservationStore) Transition(ctx context.Context, id string, from, to models.ReservationStatus, at time.Time) (bool, error) {
	res, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if res.Status != from {
		return false, nil
	}
	res.Status = to
	if to == models.StatusConfirmed {
		res.ConfirmedAt = &at
	}
	return true, r.write(ctx, *res)
}
