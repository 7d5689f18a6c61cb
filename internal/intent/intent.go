// Package intent classifies inbound messages so the conversation layer can
// decide between the booking flow and plain chat.
package intent

// Intent is the routing category assigned to a user message.
type Intent string

const (
	IntentGreeting            Intent = "greeting"
	IntentGeneralChat         Intent = "general_chat"
	IntentCapabilityQuestion  Intent = "capability_question"
	IntentFlightBooking       Intent = "flight_booking"
	IntentBookingConfirmation Intent = "booking_confirmation"
)

// Valid reports whether the value is one of the known categories.
func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentGeneralChat, IntentCapabilityQuestion, IntentFlightBooking, IntentBookingConfirmation:
		return true
	}
	return false
}
