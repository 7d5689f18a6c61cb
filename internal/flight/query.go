package flight

// TripType distinguishes one-way from round-trip requests.
type TripType string

const (
	TripTypeUnknown   TripType = ""
	TripTypeOneWay    TripType = "one-way"
	TripTypeRoundTrip TripType = "round-trip"
)

// Slot identifies one structured field of a flight request.
type Slot string

const (
	SlotOrigin        Slot = "origin"
	SlotDestination   Slot = "destination"
	SlotDepartureDate Slot = "departure_date"
	SlotTripType      Slot = "trip_type"
	SlotReturnDate    Slot = "return_date"
	SlotPassengers    Slot = "passengers"
)

// Query is the accumulated shape of a flight search request. Origin and
// Destination hold resolved IATA codes; dates are ISO YYYY-MM-DD strings.
type Query struct {
	Origin        string   `json:"origin,omitempty"`
	Destination   string   `json:"destination,omitempty"`
	DepartureDate string   `json:"departure_date,omitempty"`
	ReturnDate    string   `json:"return_date,omitempty"`
	Passengers    int      `json:"passengers,omitempty"`
	TripType      TripType `json:"trip_type,omitempty"`
}

// Missing returns the unfilled slots in the order the dialogue should ask
// for them: origin, destination, departure date, trip type, return date
// (round-trip only), passengers.
func (q Query) Missing() []Slot {
	var missing []Slot
	if q.Origin == "" {
		missing = append(missing, SlotOrigin)
	}
	if q.Destination == "" {
		missing = append(missing, SlotDestination)
	}
	if q.DepartureDate == "" {
		missing = append(missing, SlotDepartureDate)
	}
	if q.TripType == TripTypeUnknown {
		missing = append(missing, SlotTripType)
	} else if q.TripType == TripTypeRoundTrip && q.ReturnDate == "" {
		missing = append(missing, SlotReturnDate)
	}
	if q.Passengers < 1 {
		missing = append(missing, SlotPassengers)
	}
	return missing
}

// Complete reports whether the query can be sent to the fare provider:
// origin, destination, and departure date are set, the trip type is known,
// the passenger count is positive, and a round trip carries a return date.
func (q Query) Complete() bool {
	return len(q.Missing()) == 0
}

// IsZero reports whether no slot has been filled yet.
func (q Query) IsZero() bool {
	return q == Query{}
}

// Merge folds the filled slots of update into q and returns the result.
// A filled incoming slot always overwrites the existing value (corrections
// replace, they never append); empty incoming slots leave q untouched.
// Switching to a one-way trip clears any previously captured return date.
func Merge(q, update Query) Query {
	if update.Origin != "" {
		q.Origin = update.Origin
	}
	if update.Destination != "" {
		q.Destination = update.Destination
	}
	if update.DepartureDate != "" {
		q.DepartureDate = update.DepartureDate
	}
	if update.ReturnDate != "" {
		q.ReturnDate = update.ReturnDate
		if q.TripType == TripTypeUnknown {
			q.TripType = TripTypeRoundTrip
		}
	}
	if update.Passengers > 0 {
		q.Passengers = update.Passengers
	}
	if update.TripType != TripTypeUnknown {
		q.TripType = update.TripType
		if update.TripType == TripTypeOneWay {
			q.ReturnDate = ""
		}
	}
	return q
}
