package scanner

import (
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cruisewatch/logger"
)

// Aggregator collects offers across all cards on a page and ranks them
type Aggregator struct {
	cfg       Config
	extractor *Extractor
	log       *logger.Logger
}

// NewAggregator creates an aggregator over the given extraction config
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{
		cfg:       cfg,
		extractor: NewExtractor(cfg),
		log:       logger.ForScanner(),
	}
}

// Scan produces the run result for one page snapshot. ModeCards walks every
// result card; ModePage reads the whole page as a single pre-sorted result.
// Zero valid offers is a valid outcome, not an error.
func (a *Aggregator) Scan(doc *goquery.Document) RunResult {
	if a.cfg.Mode == ModePage {
		return a.scanPage(doc)
	}

	result := RunResult{ScannedAt: time.Now()}

	cards := doc.Find(a.cfg.Selectors.CardList)
	cards.Each(func(i int, s *goquery.Selection) {
		candidate := a.extractor.ExtractCard(s)
		if candidate.Rejected() {
			a.log.Debug().
				Int("card", i).
				Str("reason", string(candidate.Reject)).
				Msg("Card rejected")
			return
		}
		result.Offers = append(result.Offers, *candidate.Offer)
	})

	// Ascending by price; the stable sort keeps encounter order for ties
	sort.SliceStable(result.Offers, func(i, j int) bool {
		return result.Offers[i].Price < result.Offers[j].Price
	})

	for _, o := range result.Offers {
		if o.Price < a.cfg.NotifyThreshold {
			result.Deals = append(result.Deals, o)
		}
	}

	a.log.Info().
		Int("cards", cards.Length()).
		Int("offers", len(result.Offers)).
		Int("deals", len(result.Deals)).
		Msg("Scan complete")

	return result
}

// scanPage extracts the single cheapest offer from the whole page, for sites
// whose results are already sorted cheapest-first and card boundaries are
// unreliable
func (a *Aggregator) scanPage(doc *goquery.Document) RunResult {
	result := RunResult{ScannedAt: time.Now()}

	candidate := a.extractor.ExtractPage(doc, a.cfg.PageURL)
	if candidate.Rejected() {
		a.log.Info().
			Str("reason", string(candidate.Reject)).
			Msg("Page yielded no offer")
		return result
	}

	result.Offers = []Offer{*candidate.Offer}
	if candidate.Offer.Price < a.cfg.NotifyThreshold {
		result.Deals = result.Offers
	}

	a.log.Info().
		Str("title", candidate.Offer.Title).
		Int("price", candidate.Offer.Price).
		Int("deals", len(result.Deals)).
		Msg("Page scan complete")

	return result
}
