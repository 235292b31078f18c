package payment

import (
	"fmt"
	"strconv"
	"time"

	"casaluna/models"
)

const dayFormat = "2006-01-02"

// orderMetadata flattens a reservation into the string map embedded on the
// provider order at creation time. Every field needed to rebuild the record
// after ledger loss must be present here.
func orderMetadata(res models.Reservation) map[string]string {
	return map[string]string{
		"reservationId":   res.ID,
		"checkIn":         res.CheckIn.Format(dayFormat),
		"checkOut":        res.CheckOut.Format(dayFormat),
		"guestName":       res.GuestName,
		"guestEmail":      res.GuestEmail,
		"guestPhone":      res.GuestPhone,
		"adults":          strconv.Itoa(res.Adults),
		"children":        strconv.Itoa(res.Children),
		"specialRequests": res.SpecialRequests,
	}
}

// draftFromMetadata is the inverse of orderMetadata.
func draftFromMetadata(meta map[string]string) (string, models.ReservationDraft, error) {
	checkIn, err := time.Parse(dayFormat, meta["checkIn"])
	if err != nil {
		return "", models.ReservationDraft{}, fmt.Errorf("metadata checkIn: %w", err)
	}
	checkOut, err := time.Parse(dayFormat, meta["checkOut"])
	if err != nil {
		return "", models.ReservationDraft{}, fmt.Errorf("metadata checkOut: %w", err)
	}
	adults, err := strconv.Atoi(meta["adults"])
	if err != nil {
		return "", models.ReservationDraft{}, fmt.Errorf("metadata adults: %w", err)
	}
	children, _ := strconv.Atoi(meta["children"])

	return meta["reservationId"], models.ReservationDraft{
		CheckIn:         models.Day(checkIn),
		CheckOut:        models.Day(checkOut),
		GuestName:       meta["guestName"],
		GuestEmail:      meta["guestEmail"],
		GuestPhone:      meta["guestPhone"],
		Adults:          adults,
		Children:        children,
		SpecialRequests: meta["specialRequests"],
	}, nil
}

// minorToDecimal renders a minor-unit amount as the decimal string PayPal
// expects, e.g. 148600 -> "1486.00".
func minorToDecimal(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

// decimalToMinor parses a provider decimal amount back into minor units.
func decimalToMinor(value string) (int64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return int64(f*100 + 0.5), nil
}
