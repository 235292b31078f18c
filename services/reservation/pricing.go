package reservation

import (
	"fmt"
	"math"
	"time"

	"casaluna/models"
)

// QuoteStay computes the deterministic price of a stay from an injected
// pricing configuration. The total is never user-supplied:
//
//	total = sum(nightly season price per night) - round(subtotal * bestTier%) + serviceFee
//
// where bestTier is the single highest-percentage discount tier whose
// minimum-nights threshold the stay meets. Tiers do not stack.
func QuoteStay(cfg models.PricingConfig, checkIn, checkOut time.Time) (models.Quote, error) {
	in := models.Day(checkIn)
	out := models.Day(checkOut)
	nights := models.Nights(in, out)
	if nights < 1 {
		return models.Quote{}, fmt.Errorf("stay must cover at least one night")
	}

	var subtotal int64
	for night := in; night.Before(out); night = night.AddDate(0, 0, 1) {
		subtotal += nightlyRate(cfg, night)
	}

	tier, pct := bestDiscount(cfg, nights)
	discount := int64(math.Round(float64(subtotal) * pct / 100))

	return models.Quote{
		Nights:      nights,
		Subtotal:    subtotal,
		Discount:    discount,
		ServiceFee:  cfg.ServiceFeeMin,
		Total:       subtotal - discount + cfg.ServiceFeeMin,
		Currency:    cfg.Currency,
		TierApplied: tier,
	}, nil
}

// nightlyRate looks the night up in the season table and falls back to the
// base rate for nights no season covers.
func nightlyRate(cfg models.PricingConfig, night time.Time) int64 {
	for _, s := range cfg.Seasons {
		if !night.Before(models.Day(s.Start)) && !night.After(models.Day(s.End)) {
			return s.NightlyMin
		}
	}
	return cfg.BaseNightlyMin
}

// bestDiscount returns the threshold and percentage of the single best
// applicable tier, or (0, 0) when none applies.
func bestDiscount(cfg models.PricingConfig, nights int) (int, float64) {
	tier := 0
	pct := 0.0
	for _, t := range cfg.DiscountTiers {
		if nights >= t.MinNights && t.Percent > pct {
			tier = t.MinNights
			pct = t.Percent
		}
	}
	return tier, pct
}
