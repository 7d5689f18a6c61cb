package flight

import "time"

// Itinerary is one priced flight option returned by a fare search.
type Itinerary struct {
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Carrier       string    `json:"carrier"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Stops         int       `json:"stops"`
}

// Priced reports whether the itinerary carries a usable price.
func (it Itinerary) Priced() bool {
	return it.Price > 0 && it.Currency != ""
}
