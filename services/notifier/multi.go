package notifier

import (
	"context"
	"errors"

	"cruisewatch/logger"
)

// MultiNotifier fans one alert out to every configured sink. Every sink is
// attempted; failures are joined into a single error for the caller.
type MultiNotifier struct {
	sinks []Notifier
	log   *logger.Logger
}

// NewMultiNotifier creates a fan-out notifier
func NewMultiNotifier(sinks ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		sinks: sinks,
		log:   logger.ForNotifier(),
	}
}

// SendBest delivers a single-offer alert to all sinks
func (n *MultiNotifier) SendBest(ctx context.Context, alert BestAlert) error {
	var errs []error
	for _, sink := range n.sinks {
		if err := sink.SendBest(ctx, alert); err != nil {
			n.log.Warn().Err(err).Msg("Sink delivery failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendDeals delivers a multi-deal alert to all sinks
func (n *MultiNotifier) SendDeals(ctx context.Context, alert DealsAlert) error {
	var errs []error
	for _, sink := range n.sinks {
		if err := sink.SendDeals(ctx, alert); err != nil {
			n.log.Warn().Err(err).Msg("Sink delivery failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink
func (n *MultiNotifier) Close() error {
	var errs []error
	for _, sink := range n.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
