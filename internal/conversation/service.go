package conversation

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tazaticket/flight-concierge/internal/fares"
	"github.com/tazaticket/flight-concierge/internal/flight"
	"github.com/tazaticket/flight-concierge/internal/intent"
	"github.com/tazaticket/flight-concierge/internal/language"
	"github.com/tazaticket/flight-concierge/internal/observability/metrics"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

// Modality is the channel form of an inbound message.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityVoice Modality = "voice"
)

// TurnRequest is one inbound user message.
type TurnRequest struct {
	UserID    string   `json:"user_id"`
	Text      string   `json:"text,omitempty"`
	MediaURL  string   `json:"media_url,omitempty"`
	MediaType string   `json:"media_type,omitempty"`
	Modality  Modality `json:"modality"`
}

// TurnResponse is the assistant's answer for one turn.
type TurnResponse struct {
	Text     string `json:"text"`
	VoiceURL string `json:"voice_url,omitempty"`
	Language string `json:"language"`
	Phase    Phase  `json:"phase"`
}

// FareSearcher runs a fare search for a complete query.
type FareSearcher interface {
	Search(ctx context.Context, query flight.Query) (*flight.Itinerary, error)
}

// Transcriber converts an inbound voice note into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL, mediaType string) (string, error)
}

// Synthesizer renders reply text as speech and returns a fetchable URL.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (string, error)
}

// Classifier assigns a routing intent to a message.
type Classifier interface {
	Classify(ctx context.Context, text string, afterBookingPrompt bool) intent.Intent
}

// Service runs the full turn pipeline. Turns for the same user are
// serialized; turns for different users proceed concurrently.
type Service struct {
	store        *StateStore
	classifier   Classifier
	extractor    *SlotExtractor
	policy       *Policy
	responder    *Responder
	searcher     FareSearcher
	transcriber  Transcriber
	synthesizer  Synthesizer
	metrics      *metrics.ConversationMetrics
	logger       *logging.Logger
	historyLimit int
	now          func() time.Time

	locks [64]sync.Mutex
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Store        *StateStore
	Classifier   Classifier
	Extractor    *SlotExtractor
	Responder    *Responder
	Searcher     FareSearcher
	Transcriber  Transcriber
	Synthesizer  Synthesizer
	Metrics      *metrics.ConversationMetrics
	Logger       *logging.Logger
	HistoryLimit int
}

func NewService(p ServiceParams) *Service {
	if p.Store == nil {
		panic("conversation: state store cannot be nil")
	}
	if p.Classifier == nil {
		panic("conversation: classifier cannot be nil")
	}
	if p.Extractor == nil {
		panic("conversation: slot extractor cannot be nil")
	}
	if p.Responder == nil {
		panic("conversation: responder cannot be nil")
	}
	if p.Searcher == nil {
		panic("conversation: fare searcher cannot be nil")
	}
	if p.Logger == nil {
		p.Logger = logging.Default()
	}
	if p.HistoryLimit <= 0 {
		p.HistoryLimit = 20
	}
	return &Service{
		store:        p.Store,
		classifier:   p.Classifier,
		extractor:    p.Extractor,
		policy:       NewPolicy(),
		responder:    p.Responder,
		searcher:     p.Searcher,
		transcriber:  p.Transcriber,
		synthesizer:  p.Synthesizer,
		metrics:      p.Metrics,
		logger:       p.Logger,
		historyLimit: p.HistoryLimit,
		now:          time.Now,
	}
}

// HandleTurn processes one inbound message end to end and returns the reply.
func (s *Service) HandleTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return TurnResponse{}, errors.New("conversation: user id is required")
	}
	if req.Modality == "" {
		req.Modality = ModalityText
	}
	started := s.now()

	lock := s.userLock(req.UserID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.store.Load(ctx, req.UserID)
	if err != nil {
		return TurnResponse{}, err
	}

	text := req.Text
	if req.Modality == ModalityVoice {
		text, err = s.transcribe(ctx, req)
		if err != nil || strings.TrimSpace(text) == "" {
			return s.answerUnintelligible(ctx, req, &state, started)
		}
	}

	// Language is detected every turn regardless of modality.
	state.Language = language.Detect(text).String()

	afterBookingPrompt := state.Phase == PhaseAwaitingBookingRef
	verdict := s.classifier.Classify(ctx, text, afterBookingPrompt)

	var update flight.Query
	switch {
	case verdict == intent.IntentFlightBooking:
		update = s.extractor.Extract(ctx, text, state.History)
	case verdict == intent.IntentGeneralChat && state.Phase == PhaseCollectingSlots:
		// Mid-collection answers like "tomorrow" or "2" read as chat to the
		// classifier; if they carry slots, they continue the booking flow.
		update = s.extractor.Extract(ctx, text, state.History)
		if !update.IsZero() {
			verdict = intent.IntentFlightBooking
		}
	}

	decision := s.policy.Decide(&state, verdict, update, s.now())
	reply := s.execute(ctx, &state, decision, text)

	state.AppendTurn(text, reply, s.historyLimit)
	if err := s.store.Save(ctx, state); err != nil {
		return TurnResponse{}, err
	}

	resp := TurnResponse{
		Text:     reply,
		Language: state.Language,
		Phase:    state.Phase,
	}
	if req.Modality == ModalityVoice && s.synthesizer != nil {
		voiceURL, synthErr := s.synthesizer.Synthesize(ctx, reply, state.Language)
		if synthErr != nil {
			s.logger.Warn("voice synthesis failed, replying with text only",
				"user_id", req.UserID, "error", synthErr.Error())
		} else {
			resp.VoiceURL = voiceURL
		}
	}

	s.metrics.ObserveTurn(string(req.Modality), string(decision.Action), s.now().Sub(started).Seconds())
	s.logger.Info("turn processed",
		"user_id", req.UserID,
		"modality", string(req.Modality),
		"intent", string(verdict),
		"action", string(decision.Action),
		"phase", string(state.Phase),
		"language", state.Language,
	)
	return resp, nil
}

// execute performs the decided action, including the fare search when the
// policy reached a complete query.
func (s *Service) execute(ctx context.Context, state *State, decision Decision, text string) string {
	switch decision.Action {
	case ActionGreet:
		return s.responder.Greeting(ctx, state.Language)
	case ActionCapabilities:
		return s.responder.Capabilities(ctx, state.Language)
	case ActionChat:
		return s.responder.Chat(ctx, state.Language, text, state.History)
	case ActionAskSlot:
		return s.responder.AskSlot(ctx, state.Language, decision.AskSlot)
	case ActionRejectDates:
		return s.responder.RejectDates(ctx, state.Language, decision.DateErr)
	case ActionConfirmBooking:
		state.BookingRef = newBookingRef()
		state.LastOffer = nil
		return s.responder.BookingConfirmed(ctx, state.Language, state.BookingRef)
	case ActionSearch:
		return s.search(ctx, state)
	}
	return s.responder.Chat(ctx, state.Language, text, state.History)
}

func (s *Service) search(ctx context.Context, state *State) string {
	query := state.Slots
	offer, err := s.searcher.Search(ctx, query)
	if errors.Is(err, fares.ErrNoItineraries) {
		offer, err = nil, nil
	}

	s.policy.ApplySearchOutcome(state, offer, err)

	switch {
	case err != nil:
		return s.responder.ProviderApology(ctx, state.Language)
	case offer == nil:
		return s.responder.NoResults(ctx, state.Language, query)
	default:
		return s.responder.PresentOffer(ctx, state.Language, query, *offer)
	}
}

func (s *Service) transcribe(ctx context.Context, req TurnRequest) (string, error) {
	if s.transcriber == nil {
		return "", errors.New("conversation: no transcriber configured")
	}
	text, err := s.transcriber.Transcribe(ctx, req.MediaURL, req.MediaType)
	if err != nil {
		s.logger.Warn("voice transcription failed", "user_id", req.UserID, "error", err.Error())
		return "", err
	}
	return text, nil
}

// answerUnintelligible replies to a voice note that could not be transcribed.
// The stored language is reused since this turn produced no detectable text.
func (s *Service) answerUnintelligible(ctx context.Context, req TurnRequest, state *State, started time.Time) (TurnResponse, error) {
	reply := s.responder.UnintelligibleAudio(ctx, state.Language)
	if err := s.store.Save(ctx, *state); err != nil {
		return TurnResponse{}, err
	}
	s.metrics.ObserveTurn(string(req.Modality), "unintelligible_audio", s.now().Sub(started).Seconds())
	return TurnResponse{
		Text:     reply,
		Language: state.Language,
		Phase:    state.Phase,
	}, nil
}

func (s *Service) userLock(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

func newBookingRef() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("TZT-%s", id[:8])
}
