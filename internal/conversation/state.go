// Package conversation implements the multi-turn dialogue engine: per-user
// state, slot extraction, the turn policy and reply rendering.
package conversation

import (
	"time"

	"github.com/tazaticket/flight-concierge/internal/flight"
	"github.com/tazaticket/flight-concierge/internal/llm"
)

// Phase is the dialogue position for a user.
type Phase string

const (
	// PhaseIdle means no booking request is in progress.
	PhaseIdle Phase = "idle"
	// PhaseCollectingSlots means a booking request exists but is incomplete.
	PhaseCollectingSlots Phase = "collecting_slots"
	// PhaseReadyToSearch means every required slot is filled and a fare
	// search runs this turn. The phase never survives a turn boundary.
	PhaseReadyToSearch Phase = "ready_to_search"
	// PhaseAwaitingBookingRef means a fare was presented and the user was
	// asked whether to book it.
	PhaseAwaitingBookingRef Phase = "awaiting_booking_ref"
	// PhaseChatting means the user is in general conversation.
	PhaseChatting Phase = "chatting"
)

// State is everything remembered about a user between turns.
type State struct {
	UserID     string            `json:"user_id"`
	Phase      Phase             `json:"phase"`
	Language   string            `json:"language,omitempty"`
	Slots      flight.Query      `json:"slots"`
	History    []llm.ChatMessage `json:"history,omitempty"`
	LastOffer  *flight.Itinerary `json:"last_offer,omitempty"`
	BookingRef string            `json:"booking_ref,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewState returns the initial state for a user who has never written before.
func NewState(userID string) State {
	return State{
		UserID: userID,
		Phase:  PhaseIdle,
	}
}

// AppendTurn records a user/assistant exchange, keeping at most limit
// messages. Zero or negative limit keeps everything.
func (s *State) AppendTurn(userText, assistantText string, limit int) {
	s.History = append(s.History,
		llm.ChatMessage{Role: llm.ChatRoleUser, Content: userText},
		llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: assistantText},
	)
	if limit > 0 && len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}

// LastAssistantMessage returns the most recent assistant turn, or empty.
func (s *State) LastAssistantMessage() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == llm.ChatRoleAssistant {
			return s.History[i].Content
		}
	}
	return ""
}
