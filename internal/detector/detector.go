package detector

import (
	"cruisewatch/internal/scanner"
	"cruisewatch/logger"
	"cruisewatch/pkg/errors"
	"cruisewatch/services/state"
)

// ChangeKind classifies the outcome of one scan against prior state
type ChangeKind string

const (
	// KindNoData means the scan produced no valid offers
	KindNoData ChangeKind = "no_data"
	// KindAboveThreshold means nothing on the page was cheap enough to alert
	KindAboveThreshold ChangeKind = "above_threshold"
	// KindNoChange means the best offer matches the remembered one exactly
	KindNoChange ChangeKind = "no_change"
	// KindNewItinerary means a different itinerary is now the cheapest deal
	KindNewItinerary ChangeKind = "new_itinerary"
	// KindPriceChanged means the remembered itinerary changed price
	KindPriceChanged ChangeKind = "price_changed"
	// KindDealsFound means the stateless policy found offers below threshold
	KindDealsFound ChangeKind = "deals_found"
)

// Decision is the detector's verdict for one run
type Decision struct {
	Notify    bool
	Kind      ChangeKind
	Current   scanner.Offer
	PrevPrice int
	Deals     []scanner.Offer
}

// Detector decides whether a run result is new information worth surfacing.
// Detect never mutates state; Commit persists the decision and must be
// called only after the alert dispatch has been attempted.
type Detector interface {
	Detect(result scanner.RunResult) (Decision, error)
	Commit(decision Decision) error
}

// BestDetector is the stateful single-best policy: it tracks only the
// overall-cheapest offer and alerts when its identity changes.
type BestDetector struct {
	store     state.Store
	threshold int
	log       *logger.Logger
}

// NewBestDetector creates the stateful single-best detector
func NewBestDetector(store state.Store, threshold int) *BestDetector {
	return &BestDetector{
		store:     store,
		threshold: threshold,
		log:       logger.ForDetector(),
	}
}

// Detect compares the current best offer against the remembered one.
// Comparison is exact string/integer equality; no fuzzy matching.
func (d *BestDetector) Detect(result scanner.RunResult) (Decision, error) {
	best, ok := result.OverallMin()
	if !ok {
		return Decision{Kind: KindNoData}, nil
	}

	if best.Price >= d.threshold {
		return Decision{Kind: KindAboveThreshold, Current: best}, nil
	}

	last, err := d.store.Get()
	if err != nil {
		return Decision{}, errors.NewState("detector", "failed to read last-seen record", err)
	}

	if best.Title == last.Title && best.Price == last.Price {
		return Decision{Kind: KindNoChange, Current: best, PrevPrice: last.Price}, nil
	}

	kind := KindNewItinerary
	if best.Title == last.Title {
		kind = KindPriceChanged
	}

	d.log.Info().
		Str("kind", string(kind)).
		Str("title", best.Title).
		Int("price", best.Price).
		Int("prev_price", last.Price).
		Msg("Change detected")

	return Decision{
		Notify:    true,
		Kind:      kind,
		Current:   best,
		PrevPrice: last.Price,
	}, nil
}

// Commit remembers the alerted offer. Called after the dispatch attempt;
// dispatch failure does not prevent the write.
func (d *BestDetector) Commit(decision Decision) error {
	if !decision.Notify {
		return nil
	}
	err := d.store.Set(state.Record{
		Title: decision.Current.Title,
		Price: decision.Current.Price,
	})
	if err != nil {
		return errors.NewState("detector", "failed to persist last-seen record", err)
	}
	return nil
}

// SniperDetector is the stateless multi-deal policy: it alerts whenever any
// offer sits below the threshold, repeat alerts included.
type SniperDetector struct {
	maxDeals int
}

// NewSniperDetector creates the stateless threshold-only detector
func NewSniperDetector(maxDeals int) *SniperDetector {
	return &SniperDetector{maxDeals: maxDeals}
}

// Detect alerts on any run with at least one deal; prior runs are irrelevant
func (d *SniperDetector) Detect(result scanner.RunResult) (Decision, error) {
	best, ok := result.OverallMin()
	if !ok {
		return Decision{Kind: KindNoData}, nil
	}
	if len(result.Deals) == 0 {
		return Decision{Kind: KindAboveThreshold, Current: best}, nil
	}
	return Decision{
		Notify:  true,
		Kind:    KindDealsFound,
		Current: best,
		Deals:   result.TopDeals(d.maxDeals),
	}, nil
}

// Commit is a no-op; the sniper policy persists nothing
func (d *SniperDetector) Commit(Decision) error {
	return nil
}
