package config

import (
	"log"
	"time"

	"casaluna/models"

	"github.com/spf13/viper"
)

// pricingFile mirrors pricing.yaml; dates are parsed into the injected
// models.PricingConfig.
type pricingFile struct {
	Seasons []struct {
		Name       string `mapstructure:"name"`
		Start      string `mapstructure:"start"`
		End        string `mapstructure:"end"`
		NightlyMin int64  `mapstructure:"nightlyMinorUnits"`
	} `mapstructure:"seasons"`
	DiscountTiers []struct {
		MinNights int     `mapstructure:"minNights"`
		Percent   float64 `mapstructure:"percent"`
	} `mapstructure:"discountTiers"`
	BaseNightlyMin int64 `mapstructure:"baseNightlyMinorUnits"`
	ServiceFeeMin  int64 `mapstructure:"serviceFeeMinorUnits"`
}

// LoadPricing builds the pricing configuration from pricing.yaml, falling
// back to defaults when no file is present. The result is an explicit value
// passed into the pricing calculation, not a shared global.
func LoadPricing() models.PricingConfig {
	v := viper.New()
	v.SetConfigName("pricing")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("baseNightlyMinorUnits", 18000)
	v.SetDefault("serviceFeeMinorUnits", 6000)

	cfg := models.PricingConfig{
		BaseNightlyMin: 18000,
		ServiceFeeMin:  6000,
		Currency:       AppConfig.Currency,
		DiscountTiers: []models.DiscountTier{
			{MinNights: 7, Percent: 12},
			{MinNights: 14, Percent: 20},
		},
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("No pricing file found, using default pricing table")
		return cfg
	}

	var file pricingFile
	if err := v.Unmarshal(&file); err != nil {
		log.Printf("Failed to parse pricing file, using defaults: %v", err)
		return cfg
	}

	cfg.BaseNightlyMin = file.BaseNightlyMin
	cfg.ServiceFeeMin = file.ServiceFeeMin
	if len(file.DiscountTiers) > 0 {
		cfg.DiscountTiers = nil
		for _, t := range file.DiscountTiers {
			cfg.DiscountTiers = append(cfg.DiscountTiers, models.DiscountTier{
				MinNights: t.MinNights,
				Percent:   t.Percent,
			})
		}
	}
	for _, s := range file.Seasons {
		start, err1 := time.Parse("2006-01-02", s.Start)
		end, err2 := time.Parse("2006-01-02", s.End)
		if err1 != nil || err2 != nil {
			log.Printf("Skipping season %q with unparseable dates", s.Name)
			continue
		}
		cfg.Seasons = append(cfg.Seasons, models.Season{
			Name:       s.Name,
			Start:      start,
			End:        end,
			NightlyMin: s.NightlyMin,
		})
	}
	return cfg
}
