package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Policy names for the change detector
const (
	PolicyBest   = "best"
	PolicySniper = "sniper"
)

// Scan mode names
const (
	ScanModeCards = "cards"
	ScanModePage  = "page"
)

// State backend names
const (
	StateBackendFile   = "file"
	StateBackendSqlite = "sqlite"
)

// Config represents the application configuration
type Config struct {
	// Target page
	TargetURL string
	BaseURL   string

	// Engine tuning
	NotifyThreshold  int
	PriceFloor       int
	MinTitleLength   int
	NoiseKeywords    []string
	YearBlocklist    []int
	MaxDealsReported int
	Policy           string
	ScanMode         string

	// Selectors for the results page
	CardSelector   string
	TitleSelectors []string
	PriceSelectors []string
	DateSelectors  []string
	LinkFilter     string

	// Scheduling
	ScanInterval time.Duration

	// State store
	StateBackend string
	StateFile    string
	StateDBPath  string

	// Notification sinks
	DiscordWebhookURL string
	TelegramBotToken  string
	TelegramChatID    int64
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int

	// Rendering
	ChromeDBAddr string
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with
// defaults. A value that fails to parse is an error, not a silent zero.
func LoadConfig() (Config, error) {
	var parseErrs []error
	intEnv := func(key string, def int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return v
	}

	threshold := intEnv("NOTIFY_THRESHOLD", 1000)
	floor := intEnv("PRICE_FLOOR", 200)
	minTitle := intEnv("MIN_TITLE_LENGTH", 5)
	maxDeals := intEnv("MAX_DEALS_REPORTED", 3)
	scanInterval := intEnv("SCAN_INTERVAL_MINUTES", 60)
	redisDB := intEnv("REDIS_DB", 0)
	redisMaxLen := intEnv("REDIS_STREAM_MAXLEN", 100)

	chatID, err := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)
	if err != nil {
		parseErrs = append(parseErrs, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err))
	}

	if len(parseErrs) > 0 {
		return Config{}, errors.Join(parseErrs...)
	}

	return Config{
		TargetURL: getEnv("TARGET_URL", "https://www.ncl.com/vacations?cruise-destination=asia&sortBy=price&autoPopulate=f&from=resultpage"),
		BaseURL:   getEnv("BASE_URL", "https://www.ncl.com"),

		NotifyThreshold:  threshold,
		PriceFloor:       floor,
		MinTitleLength:   minTitle,
		NoiseKeywords:    getEnvList("NOISE_KEYWORDS", ",", "save,off,discount,節省,割引,avg,day"),
		YearBlocklist:    getEnvIntList("YEAR_BLOCKLIST", "2025,2026,2027,2028"),
		MaxDealsReported: maxDeals,
		Policy:           getEnv("POLICY", PolicySniper),
		ScanMode:         getEnv("SCAN_MODE", ScanModeCards),

		CardSelector:   getEnv("CARD_SELECTOR", "article, li.slide"),
		TitleSelectors: getEnvList("TITLE_SELECTORS", "|", "h2|.c729_body_title|.headline-2"),
		PriceSelectors: getEnvList("PRICE_SELECTORS", "|", ".headline-3|span[data-code='price']"),
		DateSelectors:  getEnvList("DATE_SELECTORS", "|", ".c282_list_item|.e34"),
		LinkFilter:     getEnv("LINK_FILTER", "/cruises/"),

		ScanInterval: time.Duration(scanInterval) * time.Minute,

		StateBackend: getEnv("STATE_BACKEND", StateBackendFile),
		StateFile:    getEnv("STATE_FILE", "last_seen.txt"),
		StateDBPath:  getEnv("STATE_DB_PATH", "cruisewatch.db"),

		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:    chatID,
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisDB:           redisDB,
		RedisStream:       getEnv("REDIS_STREAM", "cruise_alerts"),
		RedisStreamMaxLen: redisMaxLen,

		ChromeDBAddr: getEnv("CHROMEDB_ADDR", ""),
		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		Environment: getEnv("CRUISE_ENVIRONMENT", "development"),
	}, nil
}

// Validate checks the configuration for values the engine cannot run with
func (c Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("TARGET_URL is required")
	}
	if c.NotifyThreshold <= 0 {
		return fmt.Errorf("NOTIFY_THRESHOLD must be a positive integer, got %d", c.NotifyThreshold)
	}
	if c.PriceFloor < 0 {
		return fmt.Errorf("PRICE_FLOOR must not be negative, got %d", c.PriceFloor)
	}
	if c.MinTitleLength < 1 {
		return fmt.Errorf("MIN_TITLE_LENGTH must be at least 1, got %d", c.MinTitleLength)
	}
	if c.MaxDealsReported < 1 {
		return fmt.Errorf("MAX_DEALS_REPORTED must be at least 1, got %d", c.MaxDealsReported)
	}
	if c.Policy != PolicyBest && c.Policy != PolicySniper {
		return fmt.Errorf("POLICY must be %q or %q, got %q", PolicyBest, PolicySniper, c.Policy)
	}
	if c.ScanMode != ScanModeCards && c.ScanMode != ScanModePage {
		return fmt.Errorf("SCAN_MODE must be %q or %q, got %q", ScanModeCards, ScanModePage, c.ScanMode)
	}
	if c.StateBackend != StateBackendFile && c.StateBackend != StateBackendSqlite {
		return fmt.Errorf("STATE_BACKEND must be %q or %q, got %q", StateBackendFile, StateBackendSqlite, c.StateBackend)
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL_MINUTES must be positive")
	}
	if c.CardSelector == "" || len(c.TitleSelectors) == 0 {
		return fmt.Errorf("card and title selectors must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList retrieves a separated list from an environment variable
func getEnvList(key, sep, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var items []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// getEnvIntList retrieves a comma-separated integer list from an environment variable
func getEnvIntList(key, defaultValue string) []int {
	var values []int
	for _, part := range getEnvList(key, ",", defaultValue) {
		if v, err := strconv.Atoi(part); err == nil {
			values = append(values, v)
		}
	}
	return values
}
