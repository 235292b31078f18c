package availability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"casaluna/models"

	"github.com/emersion/go-ical"
)

func publisherFixture(confirmed []models.Reservation, external map[string][]models.DateRange, includeExternal bool) *Publisher {
	ix := NewIndex(NewFetcher(time.Second), &fakeLedger{confirmed: confirmed}, nil, nil)
	if external != nil {
		ix.lastGood = external
	}
	return &Publisher{Index: ix, PropertyName: "Casa Luna", IncludeExternal: includeExternal}
}

func futureReservation(id string, startOffset, nights int) models.Reservation {
	in := models.Day(time.Now().UTC()).AddDate(0, 0, startOffset)
	return models.Reservation{
		ID:       id,
		CheckIn:  in,
		CheckOut: in.AddDate(0, 0, nights),
		Status:   models.StatusConfirmed,
	}
}

func TestExportRestoresExclusiveEnd(t *testing.T) {
	res := futureReservation("res-1", 30, 5)
	pub := publisherFixture([]models.Reservation{res}, nil, false)

	cal, err := pub.Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	start, err := events[0].DateTimeStart(time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	end, err := events[0].DateTimeEnd(time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !models.Day(start).Equal(res.CheckIn) {
		t.Fatalf("DTSTART = %s, want %s", start, res.CheckIn)
	}
	// The stored range ends on the last night; the published DTEND is the
	// departure day.
	if !models.Day(end).Equal(res.CheckOut) {
		t.Fatalf("DTEND = %s, want exclusive end %s", end, res.CheckOut)
	}
}

func TestExportRoundTripsThroughParse(t *testing.T) {
	res := futureReservation("res-1", 30, 5)
	pub := publisherFixture([]models.Reservation{res}, nil, false)

	raw, err := pub.ExportICS(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	cal, err := ical.NewDecoder(bytes.NewReader(raw)).Decode()
	if err != nil {
		t.Fatal(err)
	}

	ranges := Parse(cal, "subscriber", time.Now())
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	want := res.BlockedRange()
	if !ranges[0].Start.Equal(want.Start) || !ranges[0].End.Equal(want.End) {
		t.Fatalf("round trip gave %s..%s, want %s..%s",
			ranges[0].Start, ranges[0].End, want.Start, want.End)
	}
}

func TestExportUIDsAreStableAcrossExports(t *testing.T) {
	pub := publisherFixture([]models.Reservation{futureReservation("res-1", 30, 5)}, nil, false)

	uid := func() string {
		cal, err := pub.Export(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		prop := cal.Events()[0].Props.Get(ical.PropUID)
		if prop == nil {
			t.Fatal("event must carry a UID")
		}
		return prop.Value
	}

	first := uid()
	second := uid()
	if first == "" || first != second {
		t.Fatalf("UIDs differ across exports: %q vs %q", first, second)
	}
}

func TestExportFiltersExternalRangesByDefault(t *testing.T) {
	base := models.Day(time.Now().UTC())
	external := map[string][]models.DateRange{
		"airbnb": {{Start: base.AddDate(0, 0, 10), End: base.AddDate(0, 0, 14), Source: "airbnb"}},
	}
	confirmed := []models.Reservation{futureReservation("res-1", 30, 5)}

	pub := publisherFixture(confirmed, external, false)
	cal, err := pub.Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cal.Events()) != 1 {
		t.Fatalf("got %d events, want confirmed reservations only", len(cal.Events()))
	}

	pub = publisherFixture(confirmed, external, true)
	cal, err = pub.Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cal.Events()) != 2 {
		t.Fatalf("got %d events with passthrough enabled, want 2", len(cal.Events()))
	}
}

func TestExportCarriesCalendarHeaders(t *testing.T) {
	pub := publisherFixture(nil, nil, false)
	cal, err := pub.Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if prop := cal.Props.Get("X-WR-CALNAME"); prop == nil || prop.Value != "Casa Luna" {
		t.Fatal("export must name the property calendar")
	}
	if prop := cal.Props.Get(ical.PropVersion); prop == nil || prop.Value != "2.0" {
		t.Fatal("export must declare iCalendar version 2.0")
	}
}
