package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"cruisewatch/internal/detector"
	"cruisewatch/internal/render"
	"cruisewatch/internal/scanner"
	"cruisewatch/logger"
	"cruisewatch/services/notifier"
)

// Worker drives one scan run end to end: snapshot, scan, detect, notify,
// commit. Runs are independent and never overlap.
type Worker struct {
	source    render.Source
	agg       *scanner.Aggregator
	det       detector.Detector
	notif     notifier.Notifier
	maxDeals  int
	threshold int
	interval  string
	log       *logger.Logger
	running   atomic.Bool
}

// NewWorker creates a worker over the assembled services
func NewWorker(
	source render.Source,
	agg *scanner.Aggregator,
	det detector.Detector,
	notif notifier.Notifier,
	maxDeals int,
	threshold int,
	intervalMinutes int,
) *Worker {
	return &Worker{
		source:    source,
		agg:       agg,
		det:       det,
		notif:     notif,
		maxDeals:  maxDeals,
		threshold: threshold,
		interval:  fmt.Sprintf("@every %dm", intervalMinutes),
		log:       logger.ForWorker(),
	}
}

// Start schedules recurring runs and blocks until the context is cancelled.
// The first run fires immediately.
func (w *Worker) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(w.interval, func() {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Error().Err(err).Msg("Scan run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	c.Start()
	w.log.Info().Str("schedule", w.interval).Msg("Worker started")

	go func() {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Error().Err(err).Msg("Initial scan run failed")
		}
	}()

	<-ctx.Done()
	c.Stop()
	w.log.Info().Msg("Worker stopped")
	return nil
}

// RunOnce performs a single run-to-completion scan. A run already in
// flight makes this a no-op.
func (w *Worker) RunOnce(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		w.log.Warn().Msg("Previous run still in flight, skipping")
		return nil
	}
	defer w.running.Store(false)

	doc, err := w.source.Snapshot(ctx)
	if err != nil {
		return err
	}

	result := w.agg.Scan(doc)
	if result.Empty() {
		w.log.Info().Msg("No valid offers found on page")
		return nil
	}

	decision, err := w.det.Detect(result)
	if err != nil {
		return err
	}

	w.logReport(result, decision)

	if !decision.Notify {
		return nil
	}

	// Delivery failure is logged and swallowed; the state write below
	// happens either way.
	if err := w.dispatch(ctx, result, decision); err != nil {
		w.log.Error().Err(err).Msg("Alert delivery failed")
	}

	return w.det.Commit(decision)
}

// dispatch sends the alert matching the decision kind
func (w *Worker) dispatch(ctx context.Context, result scanner.RunResult, decision detector.Decision) error {
	if decision.Kind == detector.KindDealsFound {
		return w.notif.SendDeals(ctx, notifier.DealsAlert{
			DealCount: len(result.Deals),
			TopDeals:  decision.Deals,
			ScannedAt: result.ScannedAt,
			Threshold: w.threshold,
		})
	}

	return w.notif.SendBest(ctx, notifier.BestAlert{
		Title:        decision.Current.Title,
		Price:        decision.Current.Price,
		PriceDisplay: fmt.Sprintf("$%d", decision.Current.Price),
		Link:         decision.Current.Link,
		OldPrice:     decision.PrevPrice,
	})
}

// logReport writes the per-run analysis summary
func (w *Worker) logReport(result scanner.RunResult, decision detector.Decision) {
	event := w.log.Info().
		Int("offers", len(result.Offers)).
		Int("deals", len(result.Deals)).
		Int("threshold", w.threshold).
		Str("kind", string(decision.Kind)).
		Bool("notify", decision.Notify)

	if min, ok := result.OverallMin(); ok {
		event = event.
			Str("cheapest_title", min.Title).
			Int("cheapest_price", min.Price).
			Str("extraction_method", string(min.Method))
	}
	event.Msg("Scan report")
}
