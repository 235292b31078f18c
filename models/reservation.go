package models

import "time"

// ReservationStatus is the lifecycle state of a reservation. Transitions are
// monotonic: Pending -> Confirmed, Pending -> Cancelled, Confirmed ->
// Cancelled. Nothing ever returns to Pending.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// ProviderKind identifies which payment provider financed a reservation.
type ProviderKind string

const (
	ProviderStripe ProviderKind = "stripe"
	ProviderPayPal ProviderKind = "paypal"
)

// ProviderRef ties a reservation to the payment provider order or session
// created for it.
type ProviderRef struct {
	Kind      ProviderKind `bson:"kind" json:"kind"`
	Reference string       `bson:"reference" json:"reference"`
}

// Reservation is the authoritative ledger record for one stay.
// CheckIn/CheckOut are midnight-normalized; CheckOut is the departure day
// (exclusive), so the last occupied night is CheckOut minus one day.
type Reservation struct {
	ID              string            `bson:"id" json:"id"`
	CheckIn         time.Time         `bson:"checkIn" json:"checkIn"`
	CheckOut        time.Time         `bson:"checkOut" json:"checkOut"`
	GuestName       string            `bson:"guestName" json:"guestName"`
	GuestEmail      string            `bson:"guestEmail" json:"guestEmail"`
	GuestPhone      string            `bson:"guestPhone,omitempty" json:"guestPhone,omitempty"`
	Adults          int               `bson:"adults" json:"adults"`
	Children        int               `bson:"children" json:"children"`
	SpecialRequests string            `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	TotalAmount     int64             `bson:"totalAmount" json:"totalAmount"` // minor units, never user-supplied
	Currency        string            `bson:"currency" json:"currency"`
	Provider        ProviderRef       `bson:"provider" json:"provider"`
	Status          ReservationStatus `bson:"status" json:"status"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	ConfirmedAt     *time.Time        `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
}

// ReservationDraft carries the guest-supplied fields of a stay request. The
// price is always computed server-side from the pricing configuration.
type ReservationDraft struct {
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	GuestName       string    `json:"guestName"`
	GuestEmail      string    `json:"guestEmail"`
	GuestPhone      string    `json:"guestPhone,omitempty"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
}

// BlockedRange converts a confirmed reservation into the inclusive
// last-night form used by the availability index.
func (r Reservation) BlockedRange() DateRange {
	return DateRange{
		Start:      Day(r.CheckIn),
		End:        Day(r.CheckOut).AddDate(0, 0, -1),
		Source:     SourceDirect,
		ExternalID: r.ID,
		Label:      r.GuestName,
	}
}

// Nights returns the length of the stay.
func (r Reservation) Nights() int {
	return Nights(r.CheckIn, r.CheckOut)
}
