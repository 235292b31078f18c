package models

import "time"

// Range sources. External feeds use their configured label; ranges derived
// from confirmed reservations use SourceDirect.
const SourceDirect = "direct"

// DateRange is one occupied stretch of the property. Start and End are
// midnight-normalized; End is the last occupied night (inclusive), not the
// departure day. Incoming calendar events carry an exclusive end and are
// converted on parse; the outbound feed converts back on export.
type DateRange struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Source     string    `json:"source"`
	ExternalID string    `json:"externalId,omitempty"`
	Label      string    `json:"label,omitempty"`
}

// Day truncates t to midnight in UTC so time-of-day never affects
// availability decisions.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights in a stay with the given check-in and
// checkout days.
func Nights(checkIn, checkOut time.Time) int {
	return int(Day(checkOut).Sub(Day(checkIn)).Hours() / 24)
}

// CheckoutDay returns the departure day for a range stored in inclusive
// last-night form.
func (r DateRange) CheckoutDay() time.Time {
	return Day(r.End).AddDate(0, 0, 1)
}
