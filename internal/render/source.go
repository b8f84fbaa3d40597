package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"cruisewatch/logger"
	"cruisewatch/pkg/errors"
	"cruisewatch/services/cache"
)

// Source supplies a rendered snapshot of the results page. The engine
// requires nothing else from the rendering side.
type Source interface {
	Snapshot(ctx context.Context) (*goquery.Document, error)
}

// chromeStrategy is one way of asking the headless-chrome sidecar for a page
type chromeStrategy struct {
	name      string
	waitUntil string
	timeoutMs int
}

// ChromeSource fetches the target page through a headless-chrome sidecar
// (POST /content), falling back to a plain HTTP GET when no sidecar is
// configured or every sidecar strategy fails.
type ChromeSource struct {
	targetURL  string
	chromeAddr string
	guard      cache.Guard
	guardKey   string
	coolDown   time.Duration
	limiter    *rate.Limiter
	client     *http.Client
	log        *logger.Logger
}

// NewChromeSource creates a page source. chromeAddr and guard may be empty/nil.
func NewChromeSource(targetURL, chromeAddr string, guard cache.Guard) *ChromeSource {
	return &ChromeSource{
		targetURL:  targetURL,
		chromeAddr: chromeAddr,
		guard:      guard,
		guardKey:   "page_fetch_cooldown",
		coolDown:   60 * time.Second,
		// One fetch per 10s at most, regardless of how often a run fires
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     logger.ForRender(),
	}
}

// Snapshot fetches and parses the target page
func (c *ChromeSource) Snapshot(ctx context.Context) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewFetch("render", "rate limiter interrupted", err)
	}

	if c.guard != nil && c.guard.Blocked(c.guardKey) {
		return nil, errors.NewFetch("render", "fetch is cooling down after a recent failure", nil)
	}

	body, err := c.fetch(ctx)
	if err != nil {
		if c.guard != nil {
			if blockErr := c.guard.Block(c.guardKey, c.coolDown); blockErr != nil {
				c.log.Warn().Err(blockErr).Msg("Failed to set fetch cool-down")
			}
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing("render", "failed to parse page HTML", err)
	}
	return doc, nil
}

// fetch tries the sidecar strategies first, then the direct GET
func (c *ChromeSource) fetch(ctx context.Context) (io.Reader, error) {
	if c.chromeAddr != "" {
		strategies := []chromeStrategy{
			// Network idle handles the lazily populated results grid
			{name: "networkidle-content", waitUntil: "networkidle0", timeoutMs: 45000},
			// Basic load is faster and good enough when the grid is server-rendered
			{name: "basic-content", waitUntil: "load", timeoutMs: 20000},
		}

		for i, strategy := range strategies {
			reader, err := c.fetchWithChrome(ctx, strategy)
			if err == nil {
				c.log.Debug().Str("strategy", strategy.name).Msg("Sidecar fetch succeeded")
				return reader, nil
			}
			c.log.Debug().
				Str("strategy", strategy.name).
				Err(err).
				Msg("Sidecar strategy failed")
			if i < len(strategies)-1 {
				time.Sleep(1 * time.Second)
			}
		}
		c.log.Warn().Msg("All sidecar strategies failed, falling back to direct fetch")
	}

	return fetchDirect(ctx, c.client, c.targetURL)
}

// fetchWithChrome asks the sidecar to render the page and return its HTML
func (c *ChromeSource) fetchWithChrome(ctx context.Context, strategy chromeStrategy) (io.Reader, error) {
	payload := map[string]interface{}{
		"url": c.targetURL,
		"gotoOptions": map[string]interface{}{
			"waitUntil": strategy.waitUntil,
			"timeout":   strategy.timeoutMs,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chromeAddr+"/content", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sidecar returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
