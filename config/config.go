package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisHoldDB   int    `mapstructure:"REDIS_HOLD_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment providers.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PayPalClientID      string `mapstructure:"PAYPAL_CLIENT_ID"`
	PayPalSecret        string `mapstructure:"PAYPAL_SECRET"`
	PayPalLive          bool   `mapstructure:"PAYPAL_LIVE"`

	// External calendar feeds, comma-separated "label=url" pairs.
	CalendarFeeds    string `mapstructure:"CALENDAR_FEEDS"`
	FeedPollMinutes  int    `mapstructure:"FEED_POLL_MINUTES"`
	FeedFetchTimeout int    `mapstructure:"FEED_FETCH_TIMEOUT_SECONDS"`

	// Property.
	PropertyName string `mapstructure:"PROPERTY_NAME"`
	Currency     string `mapstructure:"CURRENCY"`
	MaxGuests    int    `mapstructure:"MAX_GUESTS"`
	OwnerEmail   string `mapstructure:"OWNER_EMAIL"`

	// Base URL used for payment redirect links.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// Shared admin credential.
	AdminToken string `mapstructure:"ADMIN_TOKEN"`

	// Hours before check-in under which the pre-arrival notice fires
	// immediately instead of being scheduled.
	PreArrivalLeadHours int `mapstructure:"PRE_ARRIVAL_LEAD_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_HOLD_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("CALENDAR_FEEDS", "")
	viper.SetDefault("FEED_POLL_MINUTES", 30)
	viper.SetDefault("FEED_FETCH_TIMEOUT_SECONDS", 8)
	viper.SetDefault("PROPERTY_NAME", "Casa Luna")
	viper.SetDefault("CURRENCY", "EUR")
	viper.SetDefault("MAX_GUESTS", 6)
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("PRE_ARRIVAL_LEAD_HOURS", 48)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// FeedSources parses CALENDAR_FEEDS into label -> URL pairs. Entries without
// an explicit label are named after their position.
func FeedSources() map[string]string {
	sources := make(map[string]string)
	if AppConfig.CalendarFeeds == "" {
		return sources
	}
	for i, entry := range strings.Split(AppConfig.CalendarFeeds, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if label, url, ok := strings.Cut(entry, "="); ok {
			sources[strings.TrimSpace(label)] = strings.TrimSpace(url)
		} else {
			sources[fmt.Sprintf("feed-%d", i+1)] = entry
		}
	}
	return sources
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
