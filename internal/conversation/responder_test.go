package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tazaticket/flight-concierge/internal/flight"
)

func TestResponderEnglishSkipsTranslation(t *testing.T) {
	client := &cannedLLM{text: "translated"}
	r := NewResponder(client, "model-id", nil)

	got := r.Greeting(context.Background(), "en-US")

	assert.Contains(t, got, "TazaTicket")
	assert.Equal(t, 0, client.calls)
}

func TestResponderTranslatesNonEnglish(t *testing.T) {
	client := &cannedLLM{text: "سلام! میں TazaTicket کا اسسٹنٹ ہوں"}
	r := NewResponder(client, "model-id", nil)

	got := r.Greeting(context.Background(), "ur-PK")

	assert.Equal(t, "سلام! میں TazaTicket کا اسسٹنٹ ہوں", got)
	assert.Equal(t, 1, client.calls)
}

func TestResponderFallsBackToEnglishOnTranslationFailure(t *testing.T) {
	client := &cannedLLM{err: errors.New("throttled")}
	r := NewResponder(client, "model-id", nil)

	got := r.AskSlot(context.Background(), "ur-PK", flight.SlotOrigin)

	assert.Contains(t, got, "flying from")
}

func TestResponderPresentOffer(t *testing.T) {
	r := NewResponder(nil, "", nil)
	query := flight.Query{Origin: "LHE", Destination: "ATH", Passengers: 2}
	offer := flight.Itinerary{
		Price:         412.5,
		Currency:      "EUR",
		Carrier:       "TK",
		Stops:         1,
		DepartureTime: time.Date(2026, 9, 15, 9, 30, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 9, 15, 16, 25, 0, 0, time.UTC),
	}

	got := r.PresentOffer(context.Background(), "en-US", query, offer)

	assert.Contains(t, got, "LHE → ATH")
	assert.Contains(t, got, "1 stop")
	assert.Contains(t, got, "412.50 EUR")
	assert.Contains(t, got, "Passengers: 2")
	assert.Contains(t, got, "Would you like to book this flight?")
}

func TestResponderDirectFlight(t *testing.T) {
	r := NewResponder(nil, "", nil)
	offer := flight.Itinerary{Price: 300, Currency: "EUR", DepartureTime: time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)}

	got := r.PresentOffer(context.Background(), "en-US", flight.Query{Origin: "LON", Destination: "NYC", Passengers: 1}, offer)

	assert.Contains(t, got, "Direct flight")
}

func TestResponderRejectDatesMessages(t *testing.T) {
	r := NewResponder(nil, "", nil)

	tests := []struct {
		err  error
		want string
	}{
		{flight.ErrPastDeparture, "That date has passed. Please give a current or future date."},
		{flight.ErrReturnBeforeDeparture, "Return date must be on or after departure date."},
		{flight.ErrInvalidDate, "Invalid date format. Please use a valid date."},
	}
	for _, tt := range tests {
		got := r.RejectDates(context.Background(), "en-US", tt.err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResponderChatFallsBackWhenModelEmpty(t *testing.T) {
	client := &cannedLLM{text: "   "}
	r := NewResponder(client, "model-id", nil)

	got := r.Chat(context.Background(), "en-US", "tell me a joke", nil)

	assert.Contains(t, got, "flights")
}

func TestResponderBookingConfirmedKeepsReference(t *testing.T) {
	client := &cannedLLM{text: "ٹھیک ہے TZT-AB12CD34"}
	r := NewResponder(client, "model-id", nil)

	got := r.BookingConfirmed(context.Background(), "ur-PK", "TZT-AB12CD34")

	assert.Contains(t, got, "TZT-AB12CD34")
}
