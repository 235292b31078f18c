package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"casaluna/models"
)

func TestGuestConfirmationTaskPayload(t *testing.T) {
	notice := models.GuestNotice{
		ReservationID: "res-1",
		GuestName:     "Ana Pereira",
		GuestEmail:    "ana@example.com",
	}
	task, err := NewGuestConfirmationTask(notice)
	if err != nil {
		t.Fatal(err)
	}
	if task.Type() != TypeGuestConfirmation {
		t.Fatalf("type = %s, want %s", task.Type(), TypeGuestConfirmation)
	}
	var got models.GuestNotice
	if err := json.Unmarshal(task.Payload(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ReservationID != notice.ReservationID || got.GuestEmail != notice.GuestEmail {
		t.Fatalf("payload = %+v, want %+v", got, notice)
	}
}

func TestPreArrivalTaskScheduling(t *testing.T) {
	notice := models.GuestNotice{ReservationID: "res-1"}

	// Inside the lead window: no deferral option.
	task, opts, err := NewPreArrivalTask(notice, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if task.Type() != TypePreArrival {
		t.Fatalf("type = %s, want %s", task.Type(), TypePreArrival)
	}
	if len(opts) != 0 {
		t.Fatalf("opts = %v, want immediate dispatch", opts)
	}

	// Outside the lead window: deferred.
	_, opts, err = NewPreArrivalTask(notice, time.Now().Add(48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 1 {
		t.Fatalf("opts = %v, want one ProcessAt option", opts)
	}
}
