package availability

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
)

func feedCalendar(events ...*ical.Component) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//test//EN")
	cal.Children = append(cal.Children, events...)
	return cal
}

func feedEvent(uid, summary string, start, end time.Time) *ical.Component {
	e := ical.NewComponent(ical.CompEvent)
	e.Props.SetText(ical.PropUID, uid)
	e.Props.SetDateTime(ical.PropDateTimeStamp, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	e.Props.SetDateTime(ical.PropDateTimeStart, start)
	if !end.IsZero() {
		e.Props.SetDateTime(ical.PropDateTimeEnd, end)
	}
	if summary != "" {
		e.Props.SetText(ical.PropSummary, summary)
	}
	return e
}

func TestParseConvertsExclusiveEndToLastNight(t *testing.T) {
	cal := feedCalendar(feedEvent("abc@airbnb", "Reserved", day(2027, 3, 10), day(2027, 3, 15)))

	ranges := Parse(cal, "airbnb", day(2027, 1, 1))
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	r := ranges[0]
	if !r.Start.Equal(day(2027, 3, 10)) {
		t.Fatalf("start = %s, want 2027-03-10", r.Start)
	}
	if !r.End.Equal(day(2027, 3, 14)) {
		t.Fatalf("end = %s, want last night 2027-03-14", r.End)
	}
	if r.Source != "airbnb" {
		t.Fatalf("source = %s, want airbnb", r.Source)
	}
	if r.ExternalID != "abc@airbnb" || r.Label != "Reserved" {
		t.Fatalf("identity = (%s, %s), want (abc@airbnb, Reserved)", r.ExternalID, r.Label)
	}
}

func TestParseMissingEndIsSingleNight(t *testing.T) {
	cal := feedCalendar(feedEvent("u1", "", day(2027, 3, 10), time.Time{}))

	ranges := Parse(cal, "airbnb", day(2027, 1, 1))
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if !ranges[0].End.Equal(day(2027, 3, 10)) {
		t.Fatalf("end = %s, want the single night 2027-03-10", ranges[0].End)
	}
}

func TestParseNonsensicalEndIsSingleNight(t *testing.T) {
	// DTEND equal to DTSTART would imply a zero-night event.
	cal := feedCalendar(feedEvent("u1", "", day(2027, 3, 10), day(2027, 3, 10)))

	ranges := Parse(cal, "airbnb", day(2027, 1, 1))
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if !ranges[0].End.Equal(day(2027, 3, 10)) {
		t.Fatalf("end = %s, want 2027-03-10", ranges[0].End)
	}
}

func TestParseDropsPastEvents(t *testing.T) {
	cal := feedCalendar(
		feedEvent("past", "", day(2027, 2, 1), day(2027, 2, 5)),
		feedEvent("endsToday", "", day(2027, 5, 30), day(2027, 6, 2)), // last night 06-01
		feedEvent("future", "", day(2027, 7, 1), day(2027, 7, 8)),
	)

	ranges := Parse(cal, "vrbo", day(2027, 6, 1))
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2 (past event dropped)", len(ranges))
	}
	for _, r := range ranges {
		if r.ExternalID == "past" {
			t.Fatal("fully past event must be dropped")
		}
	}
}

func TestParseSkipsMalformedEventWithoutAbort(t *testing.T) {
	broken := ical.NewComponent(ical.CompEvent)
	broken.Props.SetText(ical.PropUID, "no-start")
	cal := feedCalendar(
		broken,
		feedEvent("good", "", day(2027, 7, 1), day(2027, 7, 8)),
	)

	ranges := Parse(cal, "vrbo", day(2027, 1, 1))
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want the well-formed event only", len(ranges))
	}
	if ranges[0].ExternalID != "good" {
		t.Fatalf("kept %s, want the well-formed event", ranges[0].ExternalID)
	}
}

func TestParseEmptyCalendar(t *testing.T) {
	if ranges := Parse(feedCalendar(), "airbnb", day(2027, 1, 1)); len(ranges) != 0 {
		t.Fatalf("got %d ranges from an empty document, want 0", len(ranges))
	}
}
