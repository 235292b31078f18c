package models

import "time"

// Season prices a stretch of the year per night, in minor units.
type Season struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"` // inclusive
	NightlyMin int64     `json:"nightlyMinorUnits"`
}

// DiscountTier grants a percentage off the nightly subtotal once a stay
// reaches MinNights. Tiers are not cumulative; only the best one applies.
type DiscountTier struct {
	MinNights int     `json:"minNights"`
	Percent   float64 `json:"percent"` // e.g. 12 for 12% off
}

// PricingConfig is the explicitly constructed pricing table injected into
// the price calculation. There is no mutable global.
type PricingConfig struct {
	Seasons        []Season       `json:"seasons"`
	DiscountTiers  []DiscountTier `json:"discountTiers"`
	BaseNightlyMin int64          `json:"baseNightlyMinorUnits"` // nights outside every season
	ServiceFeeMin  int64          `json:"serviceFeeMinorUnits"`
	Currency       string         `json:"currency"`
}

// Quote is the deterministic price breakdown for a stay.
type Quote struct {
	Nights      int    `json:"nights"`
	Subtotal    int64  `json:"subtotalMinorUnits"`
	Discount    int64  `json:"discountMinorUnits"`
	ServiceFee  int64  `json:"serviceFeeMinorUnits"`
	Total       int64  `json:"totalMinorUnits"`
	Currency    string `json:"currency"`
	TierApplied int    `json:"tierMinNights,omitempty"`
}
