package availability

import (
	"time"

	"casaluna/models"
	"casaluna/utils"

	"github.com/emersion/go-ical"
	"go.uber.org/zap"
)

// Parse converts a calendar document's events into normalized date ranges.
//
// Calendar events carry an exclusive DTEND (the departure day), while the
// engine stores the last occupied night, so one day is subtracted on the way
// in. Events entirely in the past are dropped. A malformed event is skipped
// and logged; it never aborts the rest of the document.
func Parse(cal *ical.Calendar, sourceLabel string, now time.Time) []models.DateRange {
	logger := utils.GetLogger()
	today := models.Day(now)

	var ranges []models.DateRange
	for _, event := range cal.Events() {
		start, err := event.DateTimeStart(time.UTC)
		if err != nil || start.IsZero() {
			logger.Warn("skipping calendar event without a usable start",
				zap.String("source", sourceLabel), zap.Error(err))
			continue
		}
		startDay := models.Day(start)

		// Exclusive end -> inclusive last night. A missing or nonsensical
		// end is treated as a single-night block.
		endDay := startDay
		if end, err := event.DateTimeEnd(time.UTC); err == nil && !end.IsZero() {
			if d := models.Day(end).AddDate(0, 0, -1); !d.Before(startDay) {
				endDay = d
			}
		}

		if endDay.Before(today) {
			continue
		}

		r := models.DateRange{
			Start:  startDay,
			End:    endDay,
			Source: sourceLabel,
		}
		if prop := event.Props.Get(ical.PropUID); prop != nil {
			r.ExternalID = prop.Value
		}
		if prop := event.Props.Get(ical.PropSummary); prop != nil {
			r.Label = prop.Value
		}
		ranges = append(ranges, r)
	}

	if len(ranges) == 0 && len(cal.Events()) > 0 {
		logger.Warn("calendar document yielded no usable ranges",
			zap.String("source", sourceLabel), zap.Int("events", len(cal.Events())))
	}
	return ranges
}
