package tasks

import (
	"encoding/json"
	"time"

	"casaluna/models"

	"github.com/hibiken/asynq"
)

const (
	TypeGuestConfirmation = "notice:guest_confirmation"
	TypeGuestCancellation = "notice:guest_cancellation"
	TypeOwnerAlert        = "notice:owner_alert"
	TypePreArrival        = "notice:pre_arrival"
)

func NewGuestConfirmationTask(payload models.GuestNotice) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGuestConfirmation, b), nil
}

func NewGuestCancellationTask(payload models.GuestNotice) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGuestCancellation, b), nil
}

func NewOwnerAlertTask(payload models.OwnerNotice) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOwnerAlert, b), nil
}

// NewPreArrivalTask defers the pre-arrival notice to fireAt. Callers pass a
// zero fireAt for immediate dispatch when check-in is already inside the
// lead window.
func NewPreArrivalTask(payload models.GuestNotice, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePreArrival, b)
	var opts []asynq.Option
	if !fireAt.IsZero() {
		opts = append(opts, asynq.ProcessAt(fireAt))
	}
	return task, opts, nil
}
