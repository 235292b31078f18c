package reservation

import (
	"testing"
	"time"

	"casaluna/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testPricing() models.PricingConfig {
	return models.PricingConfig{
		BaseNightlyMin: 180,
		ServiceFeeMin:  60,
		Currency:       "EUR",
		Seasons: []models.Season{
			{Name: "high", Start: day(2025, 7, 1), End: day(2025, 8, 31), NightlyMin: 260},
			{Name: "shoulder", Start: day(2025, 9, 1), End: day(2025, 10, 15), NightlyMin: 210},
		},
		DiscountTiers: []models.DiscountTier{
			{MinNights: 7, Percent: 12},
			{MinNights: 14, Percent: 20},
		},
	}
}

func TestQuoteStayNineNightsWithTier(t *testing.T) {
	// 9 nights at base rate: subtotal 1620, 12% tier applies,
	// discount round(194.4) = 194, total 1620 - 194 + 60 = 1486.
	q, err := QuoteStay(testPricing(), day(2025, 3, 1), day(2025, 3, 10))
	if err != nil {
		t.Fatal(err)
	}
	if q.Nights != 9 {
		t.Fatalf("nights = %d, want 9", q.Nights)
	}
	if q.Subtotal != 1620 {
		t.Fatalf("subtotal = %d, want 1620", q.Subtotal)
	}
	if q.Discount != 194 {
		t.Fatalf("discount = %d, want 194", q.Discount)
	}
	if q.Total != 1486 {
		t.Fatalf("total = %d, want 1486", q.Total)
	}
	if q.TierApplied != 7 {
		t.Fatalf("tier = %d, want 7", q.TierApplied)
	}
	if q.Currency != "EUR" {
		t.Fatalf("currency = %q, want EUR", q.Currency)
	}
}

func TestQuoteStayUsesSeasonRates(t *testing.T) {
	// 2 nights entirely in the high season: 2*260 + 60.
	q, err := QuoteStay(testPricing(), day(2025, 7, 10), day(2025, 7, 12))
	if err != nil {
		t.Fatal(err)
	}
	if q.Subtotal != 520 || q.Total != 580 {
		t.Fatalf("subtotal/total = %d/%d, want 520/580", q.Subtotal, q.Total)
	}
}

func TestQuoteStaySpansSeasonBoundary(t *testing.T) {
	// Aug 30, Aug 31 at 260; Sep 1, Sep 2 at 210. No tier at 4 nights.
	q, err := QuoteStay(testPricing(), day(2025, 8, 30), day(2025, 9, 3))
	if err != nil {
		t.Fatal(err)
	}
	want := int64(2*260 + 2*210)
	if q.Subtotal != want {
		t.Fatalf("subtotal = %d, want %d", q.Subtotal, want)
	}
	if q.Discount != 0 || q.TierApplied != 0 {
		t.Fatalf("unexpected discount %d (tier %d) for a 4-night stay", q.Discount, q.TierApplied)
	}
}

func TestQuoteStayGapNightsFallBackToBaseRate(t *testing.T) {
	// Oct 15 is the last shoulder night, Oct 16 is uncovered.
	q, err := QuoteStay(testPricing(), day(2025, 10, 15), day(2025, 10, 17))
	if err != nil {
		t.Fatal(err)
	}
	if q.Subtotal != 210+180 {
		t.Fatalf("subtotal = %d, want %d", q.Subtotal, 210+180)
	}
}

func TestQuoteStayTiersDoNotStack(t *testing.T) {
	// 14 nights: only the 20% tier applies, never 32%.
	q, err := QuoteStay(testPricing(), day(2025, 3, 1), day(2025, 3, 15))
	if err != nil {
		t.Fatal(err)
	}
	subtotal := int64(14 * 180)
	wantDiscount := subtotal * 20 / 100
	if q.Discount != wantDiscount {
		t.Fatalf("discount = %d, want %d", q.Discount, wantDiscount)
	}
	if q.TierApplied != 14 {
		t.Fatalf("tier = %d, want 14", q.TierApplied)
	}
}

func TestQuoteStayRejectsEmptyStay(t *testing.T) {
	if _, err := QuoteStay(testPricing(), day(2025, 3, 1), day(2025, 3, 1)); err == nil {
		t.Fatal("zero-night stay must be rejected")
	}
	if _, err := QuoteStay(testPricing(), day(2025, 3, 5), day(2025, 3, 1)); err == nil {
		t.Fatal("inverted stay must be rejected")
	}
}

func TestQuoteStayNormalizesTimeOfDay(t *testing.T) {
	late := time.Date(2025, 3, 1, 23, 45, 0, 0, time.UTC)
	early := time.Date(2025, 3, 3, 2, 0, 0, 0, time.UTC)
	q, err := QuoteStay(testPricing(), late, early)
	if err != nil {
		t.Fatal(err)
	}
	if q.Nights != 2 {
		t.Fatalf("nights = %d, want 2", q.Nights)
	}
}
