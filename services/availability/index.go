package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	reservationRepo "casaluna/database/repository/reservation"
	"casaluna/models"
	"casaluna/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const snapshotKeyPrefix = "feed:snapshot:"

// Index merges externally sourced blocked ranges with confirmed ledger
// reservations into one queryable set. It keeps the latest successful parse
// per configured source; a failing source retains its previous good parse so
// stale-but-known blocks are never silently unblocked by an outage.
type Index struct {
	fetcher *Fetcher
	repo    reservationRepo.ReservationRepository
	cache   *redis.Client
	sources map[string]string // label -> url

	mu       sync.RWMutex
	lastGood map[string][]models.DateRange
}

func NewIndex(fetcher *Fetcher, repo reservationRepo.ReservationRepository, cache *redis.Client, sources map[string]string) *Index {
	ix := &Index{
		fetcher:  fetcher,
		repo:     repo,
		cache:    cache,
		sources:  sources,
		lastGood: make(map[string][]models.DateRange),
	}
	ix.loadSnapshots(context.Background())
	return ix
}

// RefreshFeeds fetches every configured source concurrently. Each source is
// isolated: one slow or failing feed neither delays nor fails the others.
func (ix *Index) RefreshFeeds(ctx context.Context) {
	logger := utils.GetLogger()

	type result struct {
		label  string
		ranges []models.DateRange
		err    error
	}

	results := make([]result, 0, len(ix.sources))
	resultCh := make(chan result, len(ix.sources))

	var wg sync.WaitGroup
	for label, url := range ix.sources {
		wg.Add(1)
		go func(label, url string) {
			defer wg.Done()
			cal, err := ix.fetcher.tryFetch(ctx, url)
			if err != nil {
				resultCh <- result{label: label, err: err}
				return
			}
			resultCh <- result{label: label, ranges: Parse(cal, label, time.Now())}
		}(label, url)
	}
	wg.Wait()
	close(resultCh)

	for r := range resultCh {
		results = append(results, r)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, r := range results {
		if r.err != nil {
			logger.Warn("feed refresh failed, keeping previous parse",
				zap.String("source", r.label), zap.Error(r.err))
			continue
		}
		ix.lastGood[r.label] = r.ranges
		ix.saveSnapshot(ctx, r.label, r.ranges)
	}
}

// BlockedRanges recomputes the merged blocked set: the latest good parse of
// every external feed plus every confirmed reservation. The result is sorted
// so it is stable regardless of input ordering.
func (ix *Index) BlockedRanges(ctx context.Context) ([]models.DateRange, error) {
	confirmed, err := ix.repo.ListConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list confirmed reservations: %w", err)
	}

	ix.mu.RLock()
	var blocked []models.DateRange
	for _, ranges := range ix.lastGood {
		blocked = append(blocked, ranges...)
	}
	ix.mu.RUnlock()

	for _, res := range confirmed {
		blocked = append(blocked, res.BlockedRange())
	}

	sort.Slice(blocked, func(i, j int) bool {
		if !blocked[i].Start.Equal(blocked[j].Start) {
			return blocked[i].Start.Before(blocked[j].Start)
		}
		if !blocked[i].End.Equal(blocked[j].End) {
			return blocked[i].End.Before(blocked[j].End)
		}
		return blocked[i].Source < blocked[j].Source
	})
	return blocked, nil
}

// ExternalRanges returns only the feed-sourced blocks, for the optional
// passthrough on the outbound feed.
func (ix *Index) ExternalRanges() []models.DateRange {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []models.DateRange
	for _, ranges := range ix.lastGood {
		out = append(out, ranges...)
	}
	return out
}

// Snapshots survive a restart so availability answers do not regress to
// "everything free" before the first poll completes.
func (ix *Index) saveSnapshot(ctx context.Context, label string, ranges []models.DateRange) {
	if ix.cache == nil {
		return
	}
	data, err := json.Marshal(ranges)
	if err != nil {
		return
	}
	if err := ix.cache.Set(ctx, snapshotKeyPrefix+label, data, 0).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache feed snapshot",
			zap.String("source", label), zap.Error(err))
	}
}

func (ix *Index) loadSnapshots(ctx context.Context) {
	if ix.cache == nil {
		return
	}
	for label := range ix.sources {
		data, err := ix.cache.Get(ctx, snapshotKeyPrefix+label).Result()
		if err != nil {
			continue
		}
		var ranges []models.DateRange
		if err := json.Unmarshal([]byte(data), &ranges); err != nil {
			continue
		}
		ix.lastGood[label] = ranges
	}
}
