package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/tazaticket/flight-concierge/internal/flight"
	"github.com/tazaticket/flight-concierge/internal/llm"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

const chatSystemPrompt = `You are TazaTicket's friendly travel assistant on WhatsApp.
Keep replies short and conversational. You help people search and book flights,
but right now the user is just chatting. Reply in the language tagged %s.
Never invent fares, schedules or booking details.`

const translatePrompt = `Translate the following assistant message into the language tagged %s.
Keep all emojis, numbers, airport codes, dates, times, prices and booking references exactly as they are.
Return only the translated message.

%s`

var slotQuestions = map[flight.Slot]string{
	flight.SlotOrigin:        "🛫 Where will you be flying from?",
	flight.SlotDestination:   "🛬 Where would you like to fly to?",
	flight.SlotDepartureDate: "📅 What date would you like to depart?",
	flight.SlotTripType:      "🔁 Is this a round-trip or one-way? If round-trip, please also share your return date.",
	flight.SlotReturnDate:    "↩️ Noted it's round-trip. What's your return date?",
	flight.SlotPassengers:    "👥 How many passengers should I search for? (e.g., 1, 2)",
}

// Responder turns policy decisions into user-facing text. English is the
// canonical rendering; other languages go through a translation completion,
// and the English text stands when the model is unreachable.
type Responder struct {
	client llm.Client
	model  string
	logger *logging.Logger
}

func NewResponder(client llm.Client, model string, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{client: client, model: model, logger: logger}
}

func (r *Responder) Greeting(ctx context.Context, lang string) string {
	return r.deliver(ctx, lang, "👋 Hi! I'm TazaTicket's travel assistant. I can find and book flights for you — just tell me where you want to go.")
}

func (r *Responder) Capabilities(ctx context.Context, lang string) string {
	return r.deliver(ctx, lang, "I can search live fares, compare prices and book flights for you. Tell me your origin, destination and travel dates to get started.")
}

// Chat answers general conversation with the model, carrying recent history.
func (r *Responder) Chat(ctx context.Context, lang, message string, history []llm.ChatMessage) string {
	if r.client == nil {
		return r.deliver(ctx, lang, "I'm best at flights! Tell me where you'd like to travel and I'll find you a fare.")
	}

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{Role: llm.ChatRoleUser, Content: message})

	resp, err := r.client.Complete(ctx, llm.Request{
		Model:     r.model,
		System:    []string{fmt.Sprintf(chatSystemPrompt, langOrEnglish(lang))},
		Messages:  messages,
		MaxTokens: 300,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		if err != nil {
			r.logger.Warn("chat completion failed", "error", err.Error())
		}
		return r.deliver(ctx, lang, "I'm best at flights! Tell me where you'd like to travel and I'll find you a fare.")
	}
	return strings.TrimSpace(resp.Text)
}

func (r *Responder) AskSlot(ctx context.Context, lang string, slot flight.Slot) string {
	question, ok := slotQuestions[slot]
	if !ok {
		question = "Could you tell me more about your trip?"
	}
	return r.deliver(ctx, lang, question)
}

func (r *Responder) RejectDates(ctx context.Context, lang string, err error) string {
	var text string
	switch err {
	case flight.ErrPastDeparture:
		text = "That date has passed. Please give a current or future date."
	case flight.ErrReturnBeforeDeparture:
		text = "Return date must be on or after departure date."
	default:
		text = "Invalid date format. Please use a valid date."
	}
	return r.deliver(ctx, lang, text)
}

// PresentOffer renders the selected fare with the booking prompt.
func (r *Responder) PresentOffer(ctx context.Context, lang string, query flight.Query, offer flight.Itinerary) string {
	var b strings.Builder
	b.WriteString("✈️ Flight found!\n\n")
	fmt.Fprintf(&b, "🛫 %s → %s\n", query.Origin, query.Destination)
	fmt.Fprintf(&b, "📅 Departure: %s\n", offer.DepartureTime.Format("Mon, 2 Jan 2006 15:04"))
	if !offer.ArrivalTime.IsZero() {
		fmt.Fprintf(&b, "🛬 Arrival: %s\n", offer.ArrivalTime.Format("Mon, 2 Jan 2006 15:04"))
	}
	if offer.Carrier != "" {
		fmt.Fprintf(&b, "🏢 Airline: %s\n", offer.Carrier)
	}
	fmt.Fprintf(&b, "🔄 Stops: %s\n", describeStops(offer.Stops))
	fmt.Fprintf(&b, "💰 Price: %.2f %s\n", offer.Price, offer.Currency)
	if query.Passengers > 1 {
		fmt.Fprintf(&b, "👥 Passengers: %d\n", query.Passengers)
	}
	b.WriteString("\nWould you like to book this flight?")
	return r.deliver(ctx, lang, b.String())
}

func (r *Responder) NoResults(ctx context.Context, lang string, query flight.Query) string {
	text := fmt.Sprintf("😔 I couldn't find any flights from %s to %s on %s. Would you like to try different dates?",
		query.Origin, query.Destination, query.DepartureDate)
	return r.deliver(ctx, lang, text)
}

func (r *Responder) ProviderApology(ctx context.Context, lang string) string {
	return r.deliver(ctx, lang, "I'm sorry, I couldn't reach the fare search service just now. Please try again in a few minutes.")
}

func (r *Responder) UnintelligibleAudio(ctx context.Context, lang string) string {
	return r.deliver(ctx, lang, "🎤 Sorry, I couldn't make out that voice note. Could you try again, or type your message instead?")
}

func (r *Responder) BookingConfirmed(ctx context.Context, lang, bookingRef string) string {
	text := fmt.Sprintf("🎉 Your booking request is confirmed!\n\n🔖 Booking reference: %s\n\nOur team will contact you on WhatsApp shortly to finalize payment and ticketing.", bookingRef)
	return r.deliver(ctx, lang, text)
}

func describeStops(stops int) string {
	switch {
	case stops <= 0:
		return "Direct flight"
	case stops == 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}

// deliver translates canonical English into the user's language. English and
// unknown tags pass through untouched, as does anything the model mangles.
func (r *Responder) deliver(ctx context.Context, lang, english string) string {
	if r.client == nil || !needsTranslation(lang) {
		return english
	}

	resp, err := r.client.Complete(ctx, llm.Request{
		Model:     r.model,
		Messages:  []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: fmt.Sprintf(translatePrompt, lang, english)}},
		MaxTokens: 500,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		if err != nil {
			r.logger.Warn("translation failed, replying in English", "language", lang, "error", err.Error())
		}
		return english
	}
	return strings.TrimSpace(resp.Text)
}

func needsTranslation(lang string) bool {
	if lang == "" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(lang), "en")
}

func langOrEnglish(lang string) string {
	if lang == "" {
		return "en-US"
	}
	return lang
}
