package availability

import (
	"context"
	"time"

	"casaluna/models"

	"github.com/go-redis/redis/v8"
)

// holdTTL bounds how long a Pending reservation keeps its nights exclusive
// while the guest completes payment.
const holdTTL = 30 * time.Minute

// HoldStore places short-lived exclusive holds on the nights of a candidate
// stay, created atomically alongside the Pending reservation. Holds close
// the check-then-act window between the availability check and payment
// confirmation: a second request for the same nights fails to acquire and is
// turned away before any money moves.
type HoldStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHoldStore(client *redis.Client) *HoldStore {
	return &HoldStore{client: client, ttl: holdTTL}
}

func holdKey(night time.Time) string {
	return "hold:" + night.Format("2006-01-02")
}

// Acquire takes one hold per night of [checkIn, checkOut). It either
// acquires every night or none: on the first night already held by another
// reservation it releases what it took and reports false.
func (h *HoldStore) Acquire(ctx context.Context, reservationID string, checkIn, checkOut time.Time) (bool, error) {
	var taken []time.Time
	for night := models.Day(checkIn); night.Before(models.Day(checkOut)); night = night.AddDate(0, 0, 1) {
		ok, err := h.client.SetNX(ctx, holdKey(night), reservationID, h.ttl).Result()
		if err != nil {
			h.release(ctx, reservationID, taken)
			return false, err
		}
		if !ok {
			holder, err := h.client.Get(ctx, holdKey(night)).Result()
			if err == nil && holder == reservationID {
				taken = append(taken, night)
				continue
			}
			h.release(ctx, reservationID, taken)
			return false, nil
		}
		taken = append(taken, night)
	}
	return true, nil
}

// Release frees the holds for a stay, regardless of which nights remain held.
func (h *HoldStore) Release(ctx context.Context, reservationID string, checkIn, checkOut time.Time) {
	var nights []time.Time
	for night := models.Day(checkIn); night.Before(models.Day(checkOut)); night = night.AddDate(0, 0, 1) {
		nights = append(nights, night)
	}
	h.release(ctx, reservationID, nights)
}

func (h *HoldStore) release(ctx context.Context, reservationID string, nights []time.Time) {
	for _, night := range nights {
		holder, err := h.client.Get(ctx, holdKey(night)).Result()
		if err != nil || holder != reservationID {
			continue
		}
		h.client.Del(ctx, holdKey(night))
	}
}

// AnyHeld reports whether any night of [checkIn, checkOut) is currently held
// by a reservation other than excludeID.
func (h *HoldStore) AnyHeld(ctx context.Context, excludeID string, checkIn, checkOut time.Time) (bool, error) {
	for night := models.Day(checkIn); night.Before(models.Day(checkOut)); night = night.AddDate(0, 0, 1) {
		holder, err := h.client.Get(ctx, holdKey(night)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return false, err
		}
		if holder != excludeID {
			return true, nil
		}
	}
	return false, nil
}
