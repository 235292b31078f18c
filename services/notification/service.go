package notification

import (
	"context"
	"fmt"
	"time"

	"casaluna/models"
	"casaluna/services/tasks"
	"casaluna/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Service fires the guest/owner notification triggers. Only the trigger
// points and payloads live here; message rendering and delivery are external
// collaborators consuming the queue.
type Service interface {
	ReservationConfirmed(ctx context.Context, res models.Reservation) error
	ReservationCancelled(ctx context.Context, res models.Reservation) error
}

// DefaultService enqueues notices on the asynq queue.
type DefaultService struct {
	Queue      *asynq.Client
	OwnerEmail string
	// PreArrivalLead is the window under which the pre-arrival notice is
	// dispatched immediately instead of being scheduled.
	PreArrivalLead time.Duration
}

func guestNotice(res models.Reservation) models.GuestNotice {
	return models.GuestNotice{
		ReservationID: res.ID,
		GuestName:     res.GuestName,
		GuestEmail:    res.GuestEmail,
		CheckIn:       res.CheckIn,
		CheckOut:      res.CheckOut,
		TotalAmount:   res.TotalAmount,
		Currency:      res.Currency,
	}
}

func ownerNotice(res models.Reservation, event string) models.OwnerNotice {
	return models.OwnerNotice{
		ReservationID: res.ID,
		GuestName:     res.GuestName,
		GuestEmail:    res.GuestEmail,
		GuestPhone:    res.GuestPhone,
		CheckIn:       res.CheckIn,
		CheckOut:      res.CheckOut,
		Adults:        res.Adults,
		Children:      res.Children,
		TotalAmount:   res.TotalAmount,
		Event:         event,
	}
}

// ReservationConfirmed fires the guest confirmation, the owner alert, and
// the pre-arrival notice. When check-in is within the lead window the
// pre-arrival notice goes out immediately rather than being deferred.
func (s *DefaultService) ReservationConfirmed(ctx context.Context, res models.Reservation) error {
	logger := utils.GetLogger()
	var firstErr error

	if task, err := tasks.NewGuestConfirmationTask(guestNotice(res)); err == nil {
		if _, err := s.Queue.EnqueueContext(ctx, task); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("enqueue guest confirmation: %w", err)
		}
	} else if firstErr == nil {
		firstErr = err
	}

	if task, err := tasks.NewOwnerAlertTask(ownerNotice(res, "confirmed")); err == nil {
		if _, err := s.Queue.EnqueueContext(ctx, task); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("enqueue owner alert: %w", err)
		}
	} else if firstErr == nil {
		firstErr = err
	}

	fireAt := res.CheckIn.Add(-s.PreArrivalLead)
	if time.Until(res.CheckIn) <= s.PreArrivalLead {
		fireAt = time.Time{} // inside the lead window: send now
	}
	if task, opts, err := tasks.NewPreArrivalTask(guestNotice(res), fireAt); err == nil {
		if _, err := s.Queue.EnqueueContext(ctx, task, opts...); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("enqueue pre-arrival notice: %w", err)
		}
	} else if firstErr == nil {
		firstErr = err
	}

	if firstErr != nil {
		logger.Warn("notification dispatch incomplete",
			zap.String("reservationID", res.ID), zap.Error(firstErr))
	}
	return firstErr
}

func (s *DefaultService) ReservationCancelled(ctx context.Context, res models.Reservation) error {
	var firstErr error
	if task, err := tasks.NewGuestCancellationTask(guestNotice(res)); err == nil {
		if _, err := s.Queue.EnqueueContext(ctx, task); err != nil {
			firstErr = fmt.Errorf("enqueue guest cancellation: %w", err)
		}
	} else {
		firstErr = err
	}
	if task, err := tasks.NewOwnerAlertTask(ownerNotice(res, "cancelled")); err == nil {
		if _, err := s.Queue.EnqueueContext(ctx, task); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("enqueue owner alert: %w", err)
		}
	} else if firstErr == nil {
		firstErr = err
	}
	return firstErr
}
