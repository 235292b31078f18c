package availability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"casaluna/utils"

	"github.com/emersion/go-ical"
	"go.uber.org/zap"
)

// maxFeedBytes bounds how much of a remote feed is read.
const maxFeedBytes = 4 << 20

// Fetcher retrieves remote calendar documents. One misbehaving source must
// never break an availability check, so the public Fetch degrades every
// failure to an empty calendar.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the calendar at url, or an empty calendar on any transport,
// status, or format failure. It never returns an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) *ical.Calendar {
	cal, err := f.tryFetch(ctx, url)
	if err != nil {
		utils.GetLogger().Warn("calendar feed unavailable, substituting empty document",
			zap.String("url", url), zap.Error(err))
		return emptyCalendar()
	}
	return cal
}

// tryFetch is the error-reporting variant used by the index so it can keep
// the previous good parse when a source fails.
func (f *Fetcher) tryFetch(ctx context.Context, url string) (*ical.Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "casaluna/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if !bytes.Contains(body, []byte("BEGIN:VCALENDAR")) {
		return nil, fmt.Errorf("response is not a calendar document")
	}

	cal, err := ical.NewDecoder(bytes.NewReader(body)).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	return cal, nil
}

func emptyCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//casaluna//EN")
	return cal
}
