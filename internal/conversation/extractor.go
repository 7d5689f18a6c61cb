package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tazaticket/flight-concierge/internal/flight"
	"github.com/tazaticket/flight-concierge/internal/llm"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

const extractionPrompt = `Today's date is %s. Extract any available flight information from this message: "%s"
%s
Return ONLY a JSON object with these fields (use null for missing information):
{
    "from_city": "3-letter airport code or city name or null",
    "to_city": "3-letter airport code or city name or null",
    "departure_date": "YYYY-MM-DD format or null",
    "return_date": "YYYY-MM-DD format or null",
    "passengers": "number or null",
    "trip_type": "one-way or round-trip or null"
}

Rules:
- Parse relative dates: "tomorrow" = %s, "next week" = 7 days from today
- If the user mentions "return", "round trip", or a return date, set trip_type: "round-trip"
- If trip_type is "round-trip" but return_date is not specified, keep return_date as null
- If passengers is not specified, leave it null (we will ask)
- Use the previous conversation to resolve references like "from there"`

var (
	numericOnly      = regexp.MustCompile(`^\d+$`)
	isoDatePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	passengerPhrase  = regexp.MustCompile(`(\d+)\s*(?:passengers?|people|persons?|adults?|travell?ers?)`)
	roundTripPhrases = []string{"round trip", "round-trip", "return trip", "returning", "two way", "2-way"}
	oneWayPhrases    = []string{"one way", "one-way", "oneway"}
)

// SlotExtractor pulls structured booking slots out of free-form messages.
// Cheap deterministic paths run first; the LLM handles everything else, and a
// heuristic scan covers LLM outages.
type SlotExtractor struct {
	client llm.Client
	model  string
	logger *logging.Logger
	now    func() time.Time
}

func NewSlotExtractor(client llm.Client, model string, logger *logging.Logger) *SlotExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &SlotExtractor{
		client: client,
		model:  model,
		logger: logger,
		now:    time.Now,
	}
}

// Extract returns the slots present in the message. Missing slots are left at
// their zero value; merging into existing state is the caller's concern.
func (e *SlotExtractor) Extract(ctx context.Context, message string, history []llm.ChatMessage) flight.Query {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return flight.Query{}
	}
	lower := strings.ToLower(trimmed)

	// Bare number during collection means passenger count.
	if numericOnly.MatchString(trimmed) {
		pax := 0
		fmt.Sscanf(trimmed, "%d", &pax)
		if pax < 1 {
			pax = 1
		}
		return flight.Query{Passengers: pax}
	}
	for _, kw := range roundTripPhrases {
		if strings.Contains(lower, kw) && !mentionsMoreThanTripType(lower) {
			return flight.Query{TripType: flight.TripTypeRoundTrip}
		}
	}
	for _, kw := range oneWayPhrases {
		if strings.Contains(lower, kw) && !mentionsMoreThanTripType(lower) {
			return flight.Query{TripType: flight.TripTypeOneWay}
		}
	}

	if e.client == nil {
		return e.heuristicExtract(trimmed, lower)
	}

	extracted, err := e.llmExtract(ctx, trimmed, history)
	if err != nil {
		e.logger.Warn("slot extraction LLM failed, using heuristics", "error", err.Error())
		return e.heuristicExtract(trimmed, lower)
	}
	return extracted
}

// mentionsMoreThanTripType guards the trip-type fast path: "round trip from
// Lahore to Dubai" or "one way, 1 passenger" carries more slots and must
// reach the full extractor.
func mentionsMoreThanTripType(lower string) bool {
	if strings.ContainsAny(lower, "0123456789") {
		return true
	}
	for _, kw := range []string{
		"passenger", "people", "person", "adult", "traveler", "traveller",
		"today", "tomorrow", "next week", "from ", " on ",
	} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, place := range flight.KnownPlaces() {
		if strings.Contains(lower, place) {
			return true
		}
	}
	return false
}

func (e *SlotExtractor) llmExtract(ctx context.Context, message string, history []llm.ChatMessage) (flight.Query, error) {
	now := e.now()
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	contextSection := ""
	if len(history) > 0 {
		var b strings.Builder
		b.WriteString("\nPrevious conversation:\n")
		for _, msg := range history {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
		contextSection = b.String()
	}

	prompt := fmt.Sprintf(extractionPrompt, today, message, contextSection, tomorrow)

	resp, err := e.client.Complete(ctx, llm.Request{
		Model:     e.model,
		Messages:  []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: prompt}},
		MaxTokens: 200,
	})
	if err != nil {
		return flight.Query{}, err
	}

	content := stripJSONFence(resp.Text)

	var raw struct {
		FromCity      *string `json:"from_city"`
		ToCity        *string `json:"to_city"`
		DepartureDate *string `json:"departure_date"`
		ReturnDate    *string `json:"return_date"`
		Passengers    any     `json:"passengers"`
		TripType      *string `json:"trip_type"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return flight.Query{}, fmt.Errorf("conversation: slot extraction parse: %w", err)
	}

	query := flight.Query{
		Origin:        e.normalizeLocation(raw.FromCity),
		Destination:   e.normalizeLocation(raw.ToCity),
		DepartureDate: e.normalizeDate(raw.DepartureDate, now),
		ReturnDate:    e.normalizeDate(raw.ReturnDate, now),
		Passengers:    coercePassengers(raw.Passengers),
		TripType:      normalizeTripType(raw.TripType),
	}
	return query, nil
}

// heuristicExtract is the degraded path when no LLM is reachable. It only
// understands known place names, obvious date phrases and passenger counts.
func (e *SlotExtractor) heuristicExtract(message, lower string) flight.Query {
	var query flight.Query

	// KnownPlaces iterates in map order; sort hits by message position so
	// "lahore athens" always reads origin first.
	type placeHit struct {
		place string
		idx   int
	}
	var found []placeHit
	for _, place := range flight.KnownPlaces() {
		if idx := strings.Index(lower, place); idx >= 0 {
			found = append(found, placeHit{place: place, idx: idx})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].idx < found[j].idx })
	for _, hit := range found {
		code, ok := flight.ResolveLocation(hit.place)
		if !ok {
			continue
		}
		before := lower[:hit.idx]
		switch {
		case strings.HasSuffix(strings.TrimSpace(before), "from"):
			query.Origin = code
		case strings.HasSuffix(strings.TrimSpace(before), "to"):
			query.Destination = code
		case query.Origin == "":
			query.Origin = code
		case query.Destination == "" && code != query.Origin:
			query.Destination = code
		}
	}

	if date, ok := e.findDate(message, lower); ok {
		query.DepartureDate = date
	}
	if m := passengerPhrase.FindStringSubmatch(lower); m != nil {
		pax := 0
		fmt.Sscanf(m[1], "%d", &pax)
		if pax >= 1 {
			query.Passengers = pax
		}
	}
	for _, kw := range roundTripPhrases {
		if strings.Contains(lower, kw) {
			query.TripType = flight.TripTypeRoundTrip
		}
	}
	for _, kw := range oneWayPhrases {
		if strings.Contains(lower, kw) {
			query.TripType = flight.TripTypeOneWay
		}
	}
	return query
}

// findDate looks for a date anywhere in the message: the message itself, an
// embedded ISO date, or a relative phrase.
func (e *SlotExtractor) findDate(message, lower string) (string, bool) {
	if date, ok := flight.NormalizeDate(message, e.now()); ok {
		return date, true
	}
	if m := isoDatePattern.FindString(message); m != "" {
		return flight.NormalizeDate(m, e.now())
	}
	for _, phrase := range []string{"day after tomorrow", "tomorrow", "today", "next week"} {
		if strings.Contains(lower, phrase) {
			return flight.NormalizeDate(phrase, e.now())
		}
	}
	return "", false
}

func (e *SlotExtractor) normalizeLocation(raw *string) string {
	if raw == nil {
		return ""
	}
	value := strings.TrimSpace(*raw)
	if value == "" || strings.EqualFold(value, "null") {
		return ""
	}
	if code, ok := flight.ResolveLocation(value); ok {
		return code
	}
	// Unresolvable places stay empty so the slot gets asked again rather
	// than guessed.
	return ""
}

func (e *SlotExtractor) normalizeDate(raw *string, now time.Time) string {
	if raw == nil {
		return ""
	}
	value := strings.TrimSpace(*raw)
	if value == "" || strings.EqualFold(value, "null") {
		return ""
	}
	if date, ok := flight.NormalizeDate(value, now); ok {
		return date
	}
	return ""
}

func coercePassengers(raw any) int {
	switch v := raw.(type) {
	case float64:
		if v >= 1 {
			return int(v)
		}
	case string:
		pax := 0
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &pax); err == nil && pax >= 1 {
			return pax
		}
	}
	return 0
}

func normalizeTripType(raw *string) flight.TripType {
	if raw == nil {
		return flight.TripTypeUnknown
	}
	switch strings.ToLower(strings.TrimSpace(*raw)) {
	case "one-way", "one way", "oneway":
		return flight.TripTypeOneWay
	case "round-trip", "round trip", "roundtrip", "return":
		return flight.TripTypeRoundTrip
	}
	return flight.TripTypeUnknown
}

// stripJSONFence removes a markdown code fence and any prose around the JSON
// object the model returned.
func stripJSONFence(text string) string {
	content := strings.TrimSpace(text)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}
	return content
}
