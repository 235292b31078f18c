package availability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	reservationRepo "casaluna/database/repository/reservation"
	"casaluna/models"

	"github.com/emersion/go-ical"
)

type fakeLedger struct {
	mu        sync.Mutex
	confirmed []models.Reservation
	err       error
}

func (f *fakeLedger) Create(_ context.Context, _ models.Reservation) error { return nil }
func (f *fakeLedger) Upsert(_ context.Context, _ models.Reservation) error { return nil }

func (f *fakeLedger) GetByID(_ context.Context, _ string) (*models.Reservation, error) {
	return nil, reservationRepo.ErrNotFound
}

func (f *fakeLedger) GetByProviderRef(_ context.Context, _ string) (*models.Reservation, error) {
	return nil, reservationRepo.ErrNotFound
}

func (f *fakeLedger) ListConfirmed(_ context.Context) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Reservation(nil), f.confirmed...), f.err
}

func (f *fakeLedger) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return f.ListConfirmed(ctx)
}

func (f *fakeLedger) Transition(_ context.Context, _ string, _, _ models.ReservationStatus, _ time.Time) (bool, error) {
	return false, nil
}

// feedServer serves the given calendar and can be flipped into an outage.
type feedServer struct {
	mu   sync.Mutex
	body []byte
	fail bool
	srv  *httptest.Server
}

func newFeedServer(t *testing.T, cal *ical.Calendar) *feedServer {
	t.Helper()
	fs := &feedServer{}
	fs.setCalendar(t, cal)
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		if fs.fail {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		w.Write(fs.body)
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *feedServer) setCalendar(t *testing.T, cal *ical.Calendar) {
	t.Helper()
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		t.Fatal(err)
	}
	fs.mu.Lock()
	fs.body = buf.Bytes()
	fs.mu.Unlock()
}

func (fs *feedServer) setFailing(fail bool) {
	fs.mu.Lock()
	fs.fail = fail
	fs.mu.Unlock()
}

func futureEvent(uid string, startOffset, nights int) *ical.Component {
	start := models.Day(time.Now().UTC()).AddDate(0, 0, startOffset)
	return feedEvent(uid, "Reserved", start, start.AddDate(0, 0, nights))
}

func TestRefreshFeedsMergesWithConfirmedReservations(t *testing.T) {
	airbnb := newFeedServer(t, feedCalendar(futureEvent("a1", 30, 5)))
	ledger := &fakeLedger{confirmed: []models.Reservation{{
		ID:       "res-1",
		CheckIn:  models.Day(time.Now().UTC()).AddDate(0, 0, 60),
		CheckOut: models.Day(time.Now().UTC()).AddDate(0, 0, 63),
		Status:   models.StatusConfirmed,
	}}}

	ix := NewIndex(NewFetcher(2*time.Second), ledger, nil, map[string]string{"airbnb": airbnb.srv.URL})
	ix.RefreshFeeds(context.Background())

	blocked, err := ix.BlockedRanges(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(blocked) != 2 {
		t.Fatalf("got %d blocked ranges, want feed + confirmed", len(blocked))
	}

	var sources []string
	for _, r := range blocked {
		sources = append(sources, r.Source)
	}
	foundFeed, foundDirect := false, false
	for _, s := range sources {
		if s == "airbnb" {
			foundFeed = true
		}
		if s == models.SourceDirect {
			foundDirect = true
		}
	}
	if !foundFeed || !foundDirect {
		t.Fatalf("sources = %v, want both airbnb and direct", sources)
	}
}

func TestFailingSourceKeepsPreviousParse(t *testing.T) {
	airbnb := newFeedServer(t, feedCalendar(futureEvent("a1", 30, 5)))
	ix := NewIndex(NewFetcher(2*time.Second), &fakeLedger{}, nil, map[string]string{"airbnb": airbnb.srv.URL})

	ix.RefreshFeeds(context.Background())
	if got := len(ix.ExternalRanges()); got != 1 {
		t.Fatalf("got %d external ranges after first refresh, want 1", got)
	}

	// The source goes down; the blocked set must not empty out.
	airbnb.setFailing(true)
	ix.RefreshFeeds(context.Background())
	if got := len(ix.ExternalRanges()); got != 1 {
		t.Fatalf("got %d external ranges after outage, want the previous parse retained", got)
	}
}

func TestRefreshFeedsIsolatesSources(t *testing.T) {
	healthy := newFeedServer(t, feedCalendar(futureEvent("h1", 30, 5)))
	broken := newFeedServer(t, feedCalendar(futureEvent("b1", 30, 5)))
	broken.setFailing(true)

	ix := NewIndex(NewFetcher(2*time.Second), &fakeLedger{}, nil, map[string]string{
		"vrbo":    healthy.srv.URL,
		"booking": broken.srv.URL,
	})
	ix.RefreshFeeds(context.Background())

	ranges := ix.ExternalRanges()
	if len(ranges) != 1 || ranges[0].Source != "vrbo" {
		t.Fatalf("ranges = %v, want the healthy source's parse despite the broken one", ranges)
	}

	// The healthy source updates; the broken one still contributes nothing.
	healthy.setCalendar(t, feedCalendar(futureEvent("h1", 30, 5), futureEvent("h2", 40, 3)))
	ix.RefreshFeeds(context.Background())
	if got := len(ix.ExternalRanges()); got != 2 {
		t.Fatalf("got %d ranges after update, want 2", got)
	}
}

func TestRefreshFeedsRejectsNonCalendarResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a calendar</html>"))
	}))
	t.Cleanup(srv.Close)

	ix := NewIndex(NewFetcher(2*time.Second), &fakeLedger{}, nil, map[string]string{"bad": srv.URL})
	ix.RefreshFeeds(context.Background())
	if got := len(ix.ExternalRanges()); got != 0 {
		t.Fatalf("got %d ranges from a non-calendar response, want 0", got)
	}
}

func TestBlockedRangesIsDeterministic(t *testing.T) {
	base := models.Day(time.Now().UTC())
	ix := NewIndex(NewFetcher(time.Second), &fakeLedger{}, nil, nil)
	ix.lastGood = map[string][]models.DateRange{
		"vrbo":   {{Start: base.AddDate(0, 0, 20), End: base.AddDate(0, 0, 24), Source: "vrbo"}},
		"airbnb": {{Start: base.AddDate(0, 0, 10), End: base.AddDate(0, 0, 14), Source: "airbnb"}},
	}

	first, err := ix.BlockedRanges(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 || first[0].Source != "airbnb" {
		t.Fatalf("blocked = %v, want sorted by start date", first)
	}
	for i := 0; i < 10; i++ {
		again, err := ix.BlockedRanges(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("ordering changed between calls: %v vs %v", again, first)
			}
		}
	}
}

func TestFetchDegradesToEmptyCalendar(t *testing.T) {
	f := NewFetcher(500 * time.Millisecond)
	cal := f.Fetch(context.Background(), "http://127.0.0.1:1/nowhere.ics")
	if cal == nil {
		t.Fatal("Fetch must never return nil")
	}
	if len(cal.Events()) != 0 {
		t.Fatalf("got %d events from an unreachable feed, want 0", len(cal.Events()))
	}
}
