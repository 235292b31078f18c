package availability

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"casaluna/models"

	"github.com/emersion/go-ical"
)

// Publisher serializes the current occupancy into an outbound calendar
// document for third-party calendars to subscribe to.
type Publisher struct {
	Index        *Index
	PropertyName string
	// IncludeExternal passes feed-sourced blocks through to the export in
	// addition to confirmed reservations.
	IncludeExternal bool
}

// Export builds one VEVENT per blocked range. Internal ranges store the last
// occupied night, so the published DTEND is pushed one day later to restore
// the exclusive-end convention subscribers expect.
func (p *Publisher) Export(ctx context.Context) (*ical.Calendar, error) {
	blocked, err := p.Index.BlockedRanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute blocked ranges: %w", err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//casaluna//EN")
	cal.Props.SetText("X-WR-CALNAME", p.PropertyName)

	for _, r := range blocked {
		if !p.IncludeExternal && r.Source != models.SourceDirect {
			continue
		}
		event := ical.NewComponent(ical.CompEvent)
		event.Props.SetText(ical.PropUID, eventUID(r))
		event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, models.Day(r.Start))
		event.Props.SetDateTime(ical.PropDateTimeEnd, r.CheckoutDay())
		event.Props.SetText(ical.PropSummary, p.PropertyName+" - Reserved")
		cal.Children = append(cal.Children, event)
	}
	return cal, nil
}

// ExportICS renders the export as raw iCalendar bytes.
func (p *Publisher) ExportICS(ctx context.Context) ([]byte, error) {
	cal, err := p.Export(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// eventUID derives a stable identifier from the range itself, so repeated
// exports of the same underlying state carry identical UIDs and subscribing
// clients recognize the events as unchanged.
func eventUID(r models.DateRange) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s",
		r.Source, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))))
	return hex.EncodeToString(sum[:]) + "@casaluna"
}
