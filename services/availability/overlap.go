package availability

import (
	"time"

	"casaluna/models"
)

// Overlaps reports whether a candidate stay conflicts with one blocked range.
//
// The candidate follows the half-open [checkIn, checkOut) convention and the
// blocked range stores its inclusive last night, so the two conflict exactly
// when the candidate's check-in falls on or before the blocked last night AND
// the candidate's checkout falls after the blocked first night. Same-day
// turnover is therefore never a conflict: a check-in equal to another stay's
// checkout, or a checkout equal to another stay's check-in, is allowed.
func Overlaps(checkIn, checkOut time.Time, blocked models.DateRange) bool {
	in := models.Day(checkIn)
	out := models.Day(checkOut)
	return in.Before(models.Day(blocked.End).AddDate(0, 0, 1)) && out.After(models.Day(blocked.Start))
}

// IsAvailable reports whether the candidate stay conflicts with none of the
// blocked ranges.
func IsAvailable(checkIn, checkOut time.Time, blocked []models.DateRange) bool {
	for _, b := range blocked {
		if Overlaps(checkIn, checkOut, b) {
			return false
		}
	}
	return true
}
