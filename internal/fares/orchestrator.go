// Package fares runs fare searches against the catalog provider and selects
// the single best itinerary to present.
package fares

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tazaticket/flight-concierge/internal/flight"
	"github.com/tazaticket/flight-concierge/internal/observability/metrics"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

var (
	// ErrIncompleteQuery means a search was attempted before every required
	// slot was filled. This is a programming error in the caller, never a
	// user-facing condition.
	ErrIncompleteQuery = errors.New("fares: query is incomplete")
	// ErrNoItineraries means the provider answered but had nothing priced.
	ErrNoItineraries = errors.New("fares: no itineraries found")
	// ErrProviderUnavailable wraps transport and provider failures.
	ErrProviderUnavailable = errors.New("fares: provider unavailable")
)

const defaultSearchTimeout = 45 * time.Second

// Provider returns raw itineraries for a complete query.
type Provider interface {
	Search(ctx context.Context, query flight.Query) ([]flight.Itinerary, error)
}

// Orchestrator guards the provider behind the completeness gate, bounds the
// search with a timeout and reduces the result set to one best offer.
type Orchestrator struct {
	provider Provider
	timeout  time.Duration
	logger   *logging.Logger
	metrics  *metrics.ConversationMetrics
}

func NewOrchestrator(provider Provider, timeout time.Duration, logger *logging.Logger, m *metrics.ConversationMetrics) *Orchestrator {
	if provider == nil {
		panic("fares: provider cannot be nil")
	}
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		metrics:  m,
	}
}

// Search runs a single provider attempt for a complete query and returns the
// best priced itinerary. There are no retries: a slow provider already ate
// the user's patience once.
func (o *Orchestrator) Search(ctx context.Context, query flight.Query) (*flight.Itinerary, error) {
	if !query.Complete() {
		return nil, ErrIncompleteQuery
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	itineraries, err := o.provider.Search(ctx, query)
	if err != nil {
		o.metrics.ObserveSearch("provider_error")
		o.logger.Error("fare search failed",
			"origin", query.Origin,
			"destination", query.Destination,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	priced := itineraries[:0:0]
	for _, it := range itineraries {
		if it.Priced() {
			priced = append(priced, it)
		}
	}
	if len(priced) == 0 {
		o.metrics.ObserveSearch("empty")
		return nil, ErrNoItineraries
	}

	best := SelectBest(priced)
	o.metrics.ObserveSearch("success")
	o.logger.Info("fare search completed",
		"origin", query.Origin,
		"destination", query.Destination,
		"candidates", len(priced),
		"price", best.Price,
		"currency", best.Currency,
	)
	return &best, nil
}

// SelectBest orders by lowest price, then fewest stops, then earliest
// departure, and returns the winner.
func SelectBest(itineraries []flight.Itinerary) flight.Itinerary {
	sorted := make([]flight.Itinerary, len(itineraries))
	copy(sorted, itineraries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Price != sorted[j].Price {
			return sorted[i].Price < sorted[j].Price
		}
		if sorted[i].Stops != sorted[j].Stops {
			return sorted[i].Stops < sorted[j].Stops
		}
		return sorted[i].DepartureTime.Before(sorted[j].DepartureTime)
	})
	return sorted[0]
}
