package models

import "time"

// Notification trigger payloads. Only the trigger points and their payloads
// are owned here; rendering and delivery of the actual messages is an
// external concern.

// GuestNotice is the payload for guest-facing triggers (confirmation,
// cancellation, pre-arrival).
type GuestNotice struct {
	ReservationID string    `json:"reservationId"`
	GuestName     string    `json:"guestName"`
	GuestEmail    string    `json:"guestEmail"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	TotalAmount   int64     `json:"totalAmountMinorUnits"`
	Currency      string    `json:"currency"`
}

// OwnerNotice is the payload for owner-facing triggers.
type OwnerNotice struct {
	ReservationID string    `json:"reservationId"`
	GuestName     string    `json:"guestName"`
	GuestEmail    string    `json:"guestEmail"`
	GuestPhone    string    `json:"guestPhone,omitempty"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	TotalAmount   int64     `json:"totalAmountMinorUnits"`
	Event         string    `json:"event"` // "confirmed" or "cancelled"
}
