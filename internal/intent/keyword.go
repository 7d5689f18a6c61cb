package intent

import (
	"regexp"
	"strings"

	"github.com/tazaticket/flight-concierge/internal/flight"
)

var strongFlightIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\bflights?\b`),
	regexp.MustCompile(`\bfly\b`),
	regexp.MustCompile(`\bbook\b.*\bflight\b`),
	regexp.MustCompile(`\bflight\b.*\bbook\b`),
	regexp.MustCompile(`\bairline\b`),
	regexp.MustCompile(`\bairport\b`),
	regexp.MustCompile(`\btickets?\b`),
	regexp.MustCompile(`\breservation\b`),
	regexp.MustCompile(`\bitinerary\b`),
	regexp.MustCompile(`\btravel\b.*\bplan\b`),
	regexp.MustCompile(`\btrip\b.*\bplan\b`),
}

var flightActionPhrases = []string{
	"fly to", "fly from", "flight to", "flight from", "book flight",
	"book a flight", "search flight", "find flight", "need flight",
	"want to fly", "going to", "traveling to", "travelling to", "trip to",
}

var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "salam": {}, "assalam o alaikum": {},
	"good morning": {}, "good afternoon": {}, "good evening": {},
}

var smallTalk = map[string]struct{}{
	"how are you": {}, "what's up": {}, "how's it going": {}, "thanks": {}, "thank you": {},
}

var capabilityPhrases = []string{
	"what can you do", "how can you help", "what do you do",
	"who are you", "what are you", "what services",
}

var affirmatives = map[string]struct{}{
	"yes": {}, "yeah": {}, "yep": {}, "sure": {}, "ok": {}, "okay": {},
	"confirm": {}, "book it": {}, "yes please": {}, "go ahead": {}, "proceed": {},
	"i want to book": {}, "book this": {}, "book this flight": {},
}

var iataToken = regexp.MustCompile(`\b[A-Z]{3}\b`)

// KeywordClassifier is the fast deterministic tier. It answers decisively for
// canonical phrasings and defers ambiguous messages to the LLM tier.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify returns the intent for the message and whether the verdict is
// decisive. afterBookingPrompt is true when the previous assistant turn
// offered to book a presented fare; a short affirmative then confirms it.
func (c *KeywordClassifier) Classify(text string, afterBookingPrompt bool) (Intent, bool) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	bare := strings.Trim(lower, ".,!?")

	if bare == "" {
		return IntentGeneralChat, true
	}

	if afterBookingPrompt {
		if _, ok := affirmatives[bare]; ok {
			return IntentBookingConfirmation, true
		}
	}

	// Greetings and small talk never start slot collection.
	if _, ok := greetings[bare]; ok {
		return IntentGreeting, true
	}
	if _, ok := smallTalk[bare]; ok {
		return IntentGeneralChat, true
	}

	for _, phrase := range capabilityPhrases {
		if strings.Contains(lower, phrase) {
			return IntentCapabilityQuestion, true
		}
	}

	for _, pattern := range strongFlightIndicators {
		if pattern.MatchString(lower) {
			return IntentFlightBooking, true
		}
	}
	for _, phrase := range flightActionPhrases {
		if strings.Contains(lower, phrase) {
			return IntentFlightBooking, true
		}
	}

	if mentionsPlace(trimmed, lower) && (containsWord(lower, "to") || containsWord(lower, "from")) {
		return IntentFlightBooking, true
	}

	return IntentGeneralChat, false
}

func mentionsPlace(original, lower string) bool {
	for _, place := range flight.KnownPlaces() {
		if strings.Contains(lower, place) {
			return true
		}
	}
	return iataToken.MatchString(original)
}

func containsWord(lower, word string) bool {
	for _, field := range strings.Fields(lower) {
		if strings.Trim(field, ".,!?") == word {
			return true
		}
	}
	return false
}
