package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"cruisewatch/internal/detector"
	"cruisewatch/internal/render"
	"cruisewatch/internal/scanner"
	"cruisewatch/services/notifier"
	"cruisewatch/services/state"
	"cruisewatch/services/worker"
)

const fixturePage = `<html><body>
	<article>
		<h2>10-Day Grand Asia</h2>
		<span class="headline-3">$1,200</span>
		<span class="sail-date">Jan 2027</span>
		<a href="/cruises/grand-asia">View</a>
	</article>
	<article>
		<h2>7-Day Asia Explorer</h2>
		<span class="headline-3">$880</span>
		<span class="sail-date">Oct 2026</span>
		<a href="/cruises/asia-explorer">View</a>
	</article>
	<article>
		<h2>5-Day Vietnam Coast</h2>
		<p>SAVE $500 on select sailings</p>
		<p>From $650 per person</p>
		<a href="/cruises/vietnam-coast">View</a>
	</article>
	<article>
		<h2>Ship photo gallery</h2>
	</article>
</body></html>`

func scanConfigFor(baseURL string) scanner.Config {
	return scanner.Config{
		Selectors: scanner.Selectors{
			CardList:   "article",
			Title:      []string{"h2"},
			Price:      []string{".headline-3"},
			Date:       []string{".sail-date"},
			LinkFilter: "/cruises/",
		},
		BaseURL:         baseURL,
		NotifyThreshold: 1000,
		PriceFloor:      200,
		MinTitleLength:  5,
		NoiseKeywords:   []string{"save", "off", "discount"},
		YearBlocklist:   []int{2025, 2026, 2027, 2028},
	}
}

func TestPipeline_SniperPolicy(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, fixturePage)
	}))
	defer site.Close()

	var webhookBodies [][]byte
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		webhookBodies = append(webhookBodies, body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()

	source := render.NewChromeSource(site.URL, "", nil)
	agg := scanner.NewAggregator(scanConfigFor(site.URL))
	notif := notifier.NewMultiNotifier(notifier.NewDiscordNotifier(webhook.URL))

	w := worker.NewWorker(source, agg, detector.NewSniperDetector(3), notif, 3, 1000, 60)
	assert.NoError(t, w.RunOnce(context.Background()))

	assert.Len(t, webhookBodies, 1)

	var msg struct {
		Embeds []struct {
			Title  string `json:"title"`
			Fields []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	assert.NoError(t, json.Unmarshal(webhookBodies[0], &msg))
	assert.Len(t, msg.Embeds, 1)

	// The promo-only card parses through the text-scan tier at $650, the
	// gallery card is rejected, and the $1200 offer is not a deal
	assert.Len(t, msg.Embeds[0].Fields, 2)
	assert.Contains(t, msg.Embeds[0].Fields[0].Name, "$650")
	assert.Contains(t, msg.Embeds[0].Fields[0].Name, "5-Day Vietnam Coast")
	assert.Contains(t, msg.Embeds[0].Fields[1].Name, "$880")
	assert.Contains(t, msg.Embeds[0].Fields[1].Value, site.URL+"/cruises/asia-explorer")
}

func TestPipeline_BestPolicy(t *testing.T) {
	var mu sync.Mutex
	price := "$880"
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		p := price
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<html><body><article><h2>7-Day Asia Explorer</h2><span class="headline-3">`+p+`</span></article></body></html>`)
	}))
	defer site.Close()

	var webhookBodies [][]byte
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		webhookBodies = append(webhookBodies, body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()

	store := state.NewFileStore(filepath.Join(t.TempDir(), "last_seen.txt"))
	notif := notifier.NewMultiNotifier(notifier.NewDiscordNotifier(webhook.URL))

	newRun := func() *worker.Worker {
		return worker.NewWorker(
			render.NewChromeSource(site.URL, "", nil),
			scanner.NewAggregator(scanConfigFor(site.URL)),
			detector.NewBestDetector(store, 1000),
			notif,
			3, 1000, 60,
		)
	}

	// First discovery alerts
	assert.NoError(t, newRun().RunOnce(context.Background()))
	assert.Len(t, webhookBodies, 1)

	// Unchanged page stays silent
	assert.NoError(t, newRun().RunOnce(context.Background()))
	assert.Len(t, webhookBodies, 1)

	// A price drop alerts again with the previous price in the description
	mu.Lock()
	price = "$799"
	mu.Unlock()
	assert.NoError(t, newRun().RunOnce(context.Background()))
	assert.Len(t, webhookBodies, 2)
	assert.Contains(t, string(webhookBodies[1]), "$799")
	assert.Contains(t, string(webhookBodies[1]), "was $880")
}
