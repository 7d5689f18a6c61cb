package conversation

import (
	"time"

	"github.com/tazaticket/flight-concierge/internal/flight"
	"github.com/tazaticket/flight-concierge/internal/intent"
)

// Action is what the service must do to answer the current turn.
type Action string

const (
	ActionGreet          Action = "greet"
	ActionChat           Action = "chat"
	ActionCapabilities   Action = "capabilities"
	ActionAskSlot        Action = "ask_slot"
	ActionSearch         Action = "search"
	ActionConfirmBooking Action = "confirm_booking"
	ActionRejectDates    Action = "reject_dates"
)

// Decision is the policy verdict for one turn.
type Decision struct {
	Action  Action
	AskSlot flight.Slot
	DateErr error
}

// Policy is the dialogue state machine. It mutates state (phase and slots)
// and tells the service what to do, but never performs I/O itself: searches,
// booking references and rendering happen in the service layer.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// Decide advances the state machine for one inbound message. update holds the
// slots extracted from the message, possibly none.
func (p *Policy) Decide(state *State, verdict intent.Intent, update flight.Query, now time.Time) Decision {
	switch verdict {
	case intent.IntentBookingConfirmation:
		if state.Phase == PhaseAwaitingBookingRef {
			state.Phase = PhaseIdle
			state.Slots = flight.Query{}
			return Decision{Action: ActionConfirmBooking}
		}
		// A stray "yes" outside an offer is just chat.
		return p.chatDecision(state, ActionChat)

	case intent.IntentGreeting:
		return p.chatDecision(state, ActionGreet)
	case intent.IntentCapabilityQuestion:
		return p.chatDecision(state, ActionCapabilities)
	case intent.IntentGeneralChat:
		return p.chatDecision(state, ActionChat)
	}

	// Flight booking intent from here on.
	if startsFreshRequest(state.Slots, update) {
		state.Slots = update
	} else {
		state.Slots = flight.Merge(state.Slots, update)
	}

	if state.Slots.DepartureDate != "" {
		if err := flight.ValidateDates(state.Slots.DepartureDate, state.Slots.ReturnDate, now); err != nil {
			p.clearRejectedDates(state, err)
			state.Phase = PhaseCollectingSlots
			return Decision{Action: ActionRejectDates, DateErr: err}
		}
	}

	if state.Slots.Complete() {
		state.Phase = PhaseReadyToSearch
		return Decision{Action: ActionSearch}
	}

	state.Phase = PhaseCollectingSlots
	return Decision{Action: ActionAskSlot, AskSlot: state.Slots.Missing()[0]}
}

// chatDecision handles every non-booking intent. Chat never clears collected
// slots: the user can digress mid-collection and resume where they left off.
func (p *Policy) chatDecision(state *State, action Action) Decision {
	if state.Phase == PhaseIdle {
		state.Phase = PhaseChatting
	}
	return Decision{Action: action}
}

// startsFreshRequest reports whether the update names a full new city pair,
// which replaces any in-progress request instead of merging into it.
func startsFreshRequest(current, update flight.Query) bool {
	if update.Origin == "" || update.Destination == "" {
		return false
	}
	if current.IsZero() {
		return false
	}
	return update.Origin != current.Origin || update.Destination != current.Destination
}

func (p *Policy) clearRejectedDates(state *State, err error) {
	switch err {
	case flight.ErrReturnBeforeDeparture:
		state.Slots.ReturnDate = ""
	case flight.ErrPastDeparture:
		state.Slots.DepartureDate = ""
	default:
		state.Slots.DepartureDate = ""
		state.Slots.ReturnDate = ""
	}
}

// ApplySearchOutcome moves the state machine past a completed fare search.
// A priced offer awaits the user's booking decision; an empty result resumes
// collection so the user can adjust dates; a provider failure returns to idle
// with the query intact so a retry can search again without re-collecting.
func (p *Policy) ApplySearchOutcome(state *State, offer *flight.Itinerary, err error) {
	switch {
	case err != nil:
		state.Phase = PhaseIdle
		state.LastOffer = nil
	case offer == nil:
		state.Phase = PhaseCollectingSlots
		state.LastOffer = nil
	default:
		state.Phase = PhaseAwaitingBookingRef
		state.LastOffer = offer
	}
}
