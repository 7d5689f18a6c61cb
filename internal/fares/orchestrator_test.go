package fares

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazaticket/flight-concierge/internal/flight"
)

type stubProvider struct {
	itineraries []flight.Itinerary
	err         error
	calls       int
}

func (s *stubProvider) Search(ctx context.Context, query flight.Query) ([]flight.Itinerary, error) {
	s.calls++
	return s.itineraries, s.err
}

func completeQuery() flight.Query {
	return flight.Query{
		Origin:        "LHE",
		Destination:   "ATH",
		DepartureDate: "2026-09-15",
		TripType:      flight.TripTypeOneWay,
		Passengers:    1,
	}
}

func TestSearchRejectsIncompleteQuery(t *testing.T) {
	provider := &stubProvider{}
	o := NewOrchestrator(provider, time.Second, nil, nil)

	_, err := o.Search(context.Background(), flight.Query{Origin: "LHE"})

	assert.ErrorIs(t, err, ErrIncompleteQuery)
	assert.Equal(t, 0, provider.calls)
}

func TestSearchSingleAttempt(t *testing.T) {
	provider := &stubProvider{err: errors.New("gateway timeout")}
	o := NewOrchestrator(provider, time.Second, nil, nil)

	_, err := o.Search(context.Background(), completeQuery())

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 1, provider.calls)
}

func TestSearchNoItineraries(t *testing.T) {
	provider := &stubProvider{}
	o := NewOrchestrator(provider, time.Second, nil, nil)

	_, err := o.Search(context.Background(), completeQuery())

	assert.ErrorIs(t, err, ErrNoItineraries)
}

func TestSearchFiltersUnpriced(t *testing.T) {
	provider := &stubProvider{itineraries: []flight.Itinerary{
		{Price: 0, Currency: "EUR"},
		{Price: 300, Currency: "EUR", Stops: 1},
	}}
	o := NewOrchestrator(provider, time.Second, nil, nil)

	best, err := o.Search(context.Background(), completeQuery())

	require.NoError(t, err)
	assert.Equal(t, 300.0, best.Price)
}

func TestSelectBestOrdering(t *testing.T) {
	early := time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)
	late := time.Date(2026, 9, 15, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		itineraries []flight.Itinerary
		want        flight.Itinerary
	}{
		{
			name: "lowest price wins",
			itineraries: []flight.Itinerary{
				{Price: 500, Stops: 0, DepartureTime: early},
				{Price: 300, Stops: 2, DepartureTime: late},
			},
			want: flight.Itinerary{Price: 300, Stops: 2, DepartureTime: late},
		},
		{
			name: "fewest stops breaks price tie",
			itineraries: []flight.Itinerary{
				{Price: 300, Stops: 2, DepartureTime: early},
				{Price: 300, Stops: 0, DepartureTime: late},
			},
			want: flight.Itinerary{Price: 300, Stops: 0, DepartureTime: late},
		},
		{
			name: "earliest departure breaks full tie",
			itineraries: []flight.Itinerary{
				{Price: 300, Stops: 1, DepartureTime: late},
				{Price: 300, Stops: 1, DepartureTime: early},
			},
			want: flight.Itinerary{Price: 300, Stops: 1, DepartureTime: early},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBest(tt.itineraries)
			assert.Equal(t, tt.want, got)
		})
	}
}
