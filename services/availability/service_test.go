package availability

import (
	"context"
	"testing"
	"time"

	"casaluna/models"
)

type fakeNightHolds struct {
	heldBy string // reservation id holding the nights, "" for none
}

func (f *fakeNightHolds) AnyHeld(_ context.Context, excludeID string, _, _ time.Time) (bool, error) {
	return f.heldBy != "" && f.heldBy != excludeID, nil
}

func availabilityFixture(blocked []models.DateRange, holds NightHolds) *DefaultService {
	ix := NewIndex(NewFetcher(time.Second), &fakeLedger{}, nil, nil)
	if blocked != nil {
		ix.lastGood = map[string][]models.DateRange{"airbnb": blocked}
	}
	return &DefaultService{Index: ix, Holds: holds}
}

func TestIsAvailableAgainstBlockedSet(t *testing.T) {
	svc := availabilityFixture([]models.DateRange{
		{Start: day(2027, 7, 5), End: day(2027, 7, 9), Source: "airbnb"},
	}, nil)

	free, err := svc.IsAvailable(context.Background(), day(2027, 7, 10), day(2027, 7, 15))
	if err != nil {
		t.Fatal(err)
	}
	if !free {
		t.Fatal("adjacent stay must be available")
	}

	free, err = svc.IsAvailable(context.Background(), day(2027, 7, 8), day(2027, 7, 12))
	if err != nil {
		t.Fatal(err)
	}
	if free {
		t.Fatal("overlapping stay must not be available")
	}
}

func TestIsAvailableRespectsActiveHolds(t *testing.T) {
	holds := &fakeNightHolds{heldBy: "res-other"}
	svc := availabilityFixture(nil, holds)

	free, err := svc.IsAvailable(context.Background(), day(2027, 7, 10), day(2027, 7, 15))
	if err != nil {
		t.Fatal(err)
	}
	if free {
		t.Fatal("nights held by a concurrent request must not be available")
	}
}

func TestIsAvailableForIgnoresOwnHolds(t *testing.T) {
	holds := &fakeNightHolds{heldBy: "res-self"}
	svc := availabilityFixture(nil, holds)

	free, err := svc.IsAvailableFor(context.Background(), "res-self", day(2027, 7, 10), day(2027, 7, 15))
	if err != nil {
		t.Fatal(err)
	}
	if !free {
		t.Fatal("a reservation's own holds must not block its confirmation check")
	}
}

func TestIsAvailableRejectsInvertedRange(t *testing.T) {
	svc := availabilityFixture(nil, nil)
	if _, err := svc.IsAvailable(context.Background(), day(2027, 7, 15), day(2027, 7, 10)); err == nil {
		t.Fatal("inverted range must be rejected")
	}
}
