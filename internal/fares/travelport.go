package fares

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tazaticket/flight-concierge/internal/flight"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

// Carriers asked for by default when the user expresses no preference.
var defaultPreferredCarriers = []string{
	"AA", "DL", "UA", "LH", "BA", "AF", "KL", "EK", "QR", "SQ",
	"CX", "TK", "AC", "NH", "JL", "AZ", "LX", "OS", "SN", "SK",
	"EY", "GF", "SV", "MS", "RJ", "WY", "TG", "CI", "BR", "PR",
	"FR", "U2", "WN", "B6", "NK", "F9", "G4", "SY", "PC", "XY",
	"IB", "AY", "KE", "ZH", "MU", "CA", "CZ", "FM", "HU", "9W",
}

const defaultPassengerAge = 25

// TravelportConfig carries the credentials and endpoints for the catalog API.
type TravelportConfig struct {
	CatalogURL   string
	OAuthURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	AccessGroup  string
}

// TravelportProvider searches the Travelport catalog offerings API. OAuth
// password-grant tokens are cached until shortly before expiry.
type TravelportProvider struct {
	cfg        TravelportConfig
	httpClient *http.Client
	logger     *logging.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewTravelportProvider(cfg TravelportConfig, httpClient *http.Client, logger *logging.Logger) *TravelportProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TravelportProvider{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Search posts a catalog query for the trip and flattens the response into
// priced itineraries.
func (p *TravelportProvider) Search(ctx context.Context, query flight.Query) ([]flight.Itinerary, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := buildCatalogPayload(query)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("fares: failed to marshal catalog request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.CatalogURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fares: failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("XAUTH_TRAVELPORT_ACCESSGROUP", p.cfg.AccessGroup)
	req.Header.Set("Accept-Version", "11")
	req.Header.Set("Content-Version", "11")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fares: catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fares: catalog search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("fares: failed to decode catalog response: %w", err)
	}

	return flattenCatalogResponse(decoded), nil
}

// accessToken returns a cached OAuth token, refreshing it when it is within a
// minute of expiry.
func (p *TravelportProvider) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry.Add(-time.Minute)) {
		return p.token, nil
	}

	form := url.Values{
		"grant_type":    {"password"},
		"username":      {p.cfg.Username},
		"password":      {p.cfg.Password},
		"client_id":     {p.cfg.ClientID},
		"client_secret": {p.cfg.ClientSecret},
		"scope":         {"openid"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.OAuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("fares: failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fares: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fares: token endpoint returned status %d", resp.StatusCode)
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("fares: failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("fares: token response had no access token")
	}

	p.token = token.AccessToken
	if token.ExpiresIn > 0 {
		p.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	} else {
		p.tokenExpiry = time.Now().Add(10 * time.Minute)
	}
	return p.token, nil
}

// buildCatalogPayload mirrors the catalog offerings query shape: one search
// criteria leg for one-way trips, a reversed second leg for round trips.
func buildCatalogPayload(query flight.Query) map[string]any {
	searchCriteria := []map[string]any{{
		"@type":         "SearchCriteriaFlight",
		"departureDate": query.DepartureDate,
		"From":          map[string]any{"value": query.Origin},
		"To":            map[string]any{"value": query.Destination},
	}}
	if query.TripType == flight.TripTypeRoundTrip && query.ReturnDate != "" {
		searchCriteria = append(searchCriteria, map[string]any{
			"@type":         "SearchCriteriaFlight",
			"departureDate": query.ReturnDate,
			"From":          map[string]any{"value": query.Destination},
			"To":            map[string]any{"value": query.Origin},
		})
	}

	passengers := query.Passengers
	if passengers < 1 {
		passengers = 1
	}

	return map[string]any{
		"@type": "CatalogProductOfferingsQueryRequest",
		"CatalogProductOfferingsRequest": map[string]any{
			"@type":                      "CatalogProductOfferingsRequestAir",
			"maxNumberOfUpsellsToReturn": 1,
			"contentSourceList":          []string{"GDS"},
			"PassengerCriteria": []map[string]any{{
				"@type":             "PassengerCriteria",
				"number":            passengers,
				"age":               defaultPassengerAge,
				"passengerTypeCode": "ADT",
			}},
			"SearchCriteriaFlight": searchCriteria,
			"SearchModifiersAir": map[string]any{
				"@type": "SearchModifiersAir",
				"CarrierPreference": []map[string]any{{
					"@type":          "CarrierPreference",
					"preferenceType": "Preferred",
					"carriers":       defaultPreferredCarriers,
				}},
			},
			"CustomResponseModifiersAir": map[string]any{
				"@type":                "CustomResponseModifiersAir",
				"SearchRepresentation": "Journey",
			},
		},
	}
}

type catalogResponse struct {
	CatalogProductOfferingsResponse struct {
		CatalogProductOfferings struct {
			CatalogProductOffering []catalogOffering `json:"CatalogProductOffering"`
		} `json:"CatalogProductOfferings"`
		ReferenceList []referenceList `json:"ReferenceList"`
	} `json:"CatalogProductOfferingsResponse"`
}

type catalogOffering struct {
	ProductBrandOptions []struct {
		FlightRefs           []string `json:"flightRefs"`
		ProductBrandOffering []struct {
			BestCombinablePrice struct {
				TotalPrice   float64 `json:"TotalPrice"`
				CurrencyCode struct {
					Value string `json:"value"`
				} `json:"CurrencyCode"`
			} `json:"BestCombinablePrice"`
		} `json:"ProductBrandOffering"`
	} `json:"ProductBrandOptions"`
}

type referenceList struct {
	Type   string          `json:"@type"`
	Flight []flightSegment `json:"Flight"`
}

type flightSegment struct {
	ID        string      `json:"id"`
	Carrier   string      `json:"carrier"`
	Number    json.Number `json:"number"`
	Departure segmentStop `json:"Departure"`
	Arrival   segmentStop `json:"Arrival"`
}

type segmentStop struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// flattenCatalogResponse produces one itinerary per priced brand offering,
// resolving flight references against the segment reference list.
func flattenCatalogResponse(decoded catalogResponse) []flight.Itinerary {
	segmentsByID := make(map[string]flightSegment)
	for _, list := range decoded.CatalogProductOfferingsResponse.ReferenceList {
		if list.Type != "ReferenceListFlight" {
			continue
		}
		for _, seg := range list.Flight {
			segmentsByID[seg.ID] = seg
		}
	}

	var itineraries []flight.Itinerary
	for _, offering := range decoded.CatalogProductOfferingsResponse.CatalogProductOfferings.CatalogProductOffering {
		for _, option := range offering.ProductBrandOptions {
			segments := resolveSegments(option.FlightRefs, segmentsByID)
			for _, brand := range option.ProductBrandOffering {
				if brand.BestCombinablePrice.TotalPrice <= 0 {
					continue
				}
				itinerary := flight.Itinerary{
					Price:    brand.BestCombinablePrice.TotalPrice,
					Currency: brand.BestCombinablePrice.CurrencyCode.Value,
				}
				if itinerary.Currency == "" {
					itinerary.Currency = "EUR"
				}
				applySegments(&itinerary, segments)
				itineraries = append(itineraries, itinerary)
			}
		}
	}
	return itineraries
}

func resolveSegments(refs []string, byID map[string]flightSegment) []flightSegment {
	segments := make([]flightSegment, 0, len(refs))
	for _, ref := range refs {
		if seg, ok := byID[ref]; ok {
			segments = append(segments, seg)
		}
	}
	// Order by departure so the first and last segments bound the journey.
	for i := 1; i < len(segments); i++ {
		for j := i; j > 0 && segmentDepartsBefore(segments[j], segments[j-1]); j-- {
			segments[j], segments[j-1] = segments[j-1], segments[j]
		}
	}
	return segments
}

func segmentDepartsBefore(a, b flightSegment) bool {
	if a.Departure.Date != b.Departure.Date {
		return a.Departure.Date < b.Departure.Date
	}
	return a.Departure.Time < b.Departure.Time
}

func applySegments(itinerary *flight.Itinerary, segments []flightSegment) {
	if len(segments) == 0 {
		return
	}
	itinerary.Stops = len(segments) - 1
	itinerary.Carrier = segments[0].Carrier

	if t, ok := parseSegmentTime(segments[0].Departure); ok {
		itinerary.DepartureTime = t
	}
	if t, ok := parseSegmentTime(segments[len(segments)-1].Arrival); ok {
		itinerary.ArrivalTime = t
	}
}

func parseSegmentTime(stop segmentStop) (time.Time, bool) {
	if stop.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		value := strings.TrimSpace(stop.Date + " " + stop.Time)
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
