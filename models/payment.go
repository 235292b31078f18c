package models

// Checkout is what a payment gateway returns when an order or session is
// opened: the provider reference stored on the Pending reservation, plus the
// URL the guest is redirected to for approval.
type Checkout struct {
	Reference   string       `json:"reference"`
	ApprovalURL string       `json:"approvalUrl"`
	Kind        ProviderKind `json:"kind"`
}

// ProviderOrder is the payment provider's own stored copy of an order or
// session. Every reservation field is embedded as metadata at creation time,
// which makes the provider an implicit durable backup: when the local ledger
// has no record for a reference, the reservation is rebuilt from this.
type ProviderOrder struct {
	Reference string           `json:"reference"`
	Kind      ProviderKind     `json:"kind"`
	Paid      bool             `json:"paid"`
	Amount    int64            `json:"amountMinorUnits"`
	Currency  string           `json:"currency"`
	Draft     ReservationDraft `json:"draft"`
	// ReservationID is the ledger id embedded at creation time.
	ReservationID string `json:"reservationId"`
}
