package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 1000, cfg.NotifyThreshold)
	assert.Equal(t, 200, cfg.PriceFloor)
	assert.Equal(t, 5, cfg.MinTitleLength)
	assert.Equal(t, 3, cfg.MaxDealsReported)
	assert.Equal(t, PolicySniper, cfg.Policy)
	assert.Equal(t, ScanModeCards, cfg.ScanMode)
	assert.Equal(t, StateBackendFile, cfg.StateBackend)
	assert.Equal(t, 60*time.Minute, cfg.ScanInterval)
	assert.Equal(t, "article, li.slide", cfg.CardSelector)
	assert.Equal(t, []string{"h2", ".c729_body_title", ".headline-2"}, cfg.TitleSelectors)
	assert.Contains(t, cfg.NoiseKeywords, "save")
	assert.Contains(t, cfg.NoiseKeywords, "day")
	assert.Equal(t, []int{2025, 2026, 2027, 2028}, cfg.YearBlocklist)

	// Test with environment variables
	os.Setenv("NOTIFY_THRESHOLD", "800")
	os.Setenv("PRICE_FLOOR", "100")
	os.Setenv("POLICY", "best")
	os.Setenv("SCAN_MODE", "page")
	os.Setenv("STATE_BACKEND", "sqlite")
	os.Setenv("SCAN_INTERVAL_MINUTES", "15")
	os.Setenv("TITLE_SELECTORS", "h3|.title")
	os.Setenv("YEAR_BLOCKLIST", "2026,2027")

	cfg, err = LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 800, cfg.NotifyThreshold)
	assert.Equal(t, 100, cfg.PriceFloor)
	assert.Equal(t, PolicyBest, cfg.Policy)
	assert.Equal(t, ScanModePage, cfg.ScanMode)
	assert.Equal(t, StateBackendSqlite, cfg.StateBackend)
	assert.Equal(t, 15*time.Minute, cfg.ScanInterval)
	assert.Equal(t, []string{"h3", ".title"}, cfg.TitleSelectors)
	assert.Equal(t, []int{2026, 2027}, cfg.YearBlocklist)

	// Clean up
	os.Unsetenv("NOTIFY_THRESHOLD")
	os.Unsetenv("PRICE_FLOOR")
	os.Unsetenv("POLICY")
	os.Unsetenv("SCAN_MODE")
	os.Unsetenv("STATE_BACKEND")
	os.Unsetenv("SCAN_INTERVAL_MINUTES")
	os.Unsetenv("TITLE_SELECTORS")
	os.Unsetenv("YEAR_BLOCKLIST")
}

func TestLoadConfig_MalformedNumbersAreErrors(t *testing.T) {
	// A number that does not parse must fail loudly, not become 0
	os.Setenv("PRICE_FLOOR", "abc")
	defer os.Unsetenv("PRICE_FLOOR")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PRICE_FLOOR")

	os.Setenv("MAX_DEALS_REPORTED", "three")
	defer os.Unsetenv("MAX_DEALS_REPORTED")

	_, err = LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_DEALS_REPORTED")
}

func TestLoadConfig_MalformedChatIDIsError(t *testing.T) {
	os.Setenv("TELEGRAM_CHAT_ID", "not-a-chat")
	defer os.Unsetenv("TELEGRAM_CHAT_ID")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
}

func TestValidate(t *testing.T) {
	valid, err := LoadConfig()
	assert.NoError(t, err)
	assert.NoError(t, valid.Validate())

	noURL := valid
	noURL.TargetURL = ""
	assert.Error(t, noURL.Validate())

	badThreshold := valid
	badThreshold.NotifyThreshold = 0
	assert.Error(t, badThreshold.Validate())

	badPolicy := valid
	badPolicy.Policy = "aggressive"
	assert.Error(t, badPolicy.Validate())

	badMode := valid
	badMode.ScanMode = "grid"
	assert.Error(t, badMode.Validate())

	badBackend := valid
	badBackend.StateBackend = "postgres"
	assert.Error(t, badBackend.Validate())

	badFloor := valid
	badFloor.PriceFloor = -1
	assert.Error(t, badFloor.Validate())

	badMaxDeals := valid
	badMaxDeals.MaxDealsReported = 0
	assert.Error(t, badMaxDeals.Validate())
}
