package flight

import "strings"

// metroAreaCodes maps city names to metro-area IATA codes, preferred over
// single airports so searches cover every airport in the area.
var metroAreaCodes = map[string]string{
	"london":        "LON", // LHR/LGW/STN/LCY/LTN
	"new york":      "NYC", // JFK/LGA/EWR
	"paris":         "PAR", // CDG/ORY/BVA
	"tokyo":         "TYO", // NRT/HND
	"moscow":        "MOW", // SVO/DME/VKO
	"milan":         "MIL", // MXP/LIN/BGY
	"rome":          "ROM", // FCO/CIA
	"stockholm":     "STO", // ARN/BMA/NYO
	"berlin":        "BER",
	"chicago":       "CHI", // ORD/MDW
	"washington":    "WAS", // DCA/IAD/BWI
	"los angeles":   "LAX",
	"san francisco": "SFO",
	"dubai":         "DXB",
	"istanbul":      "IST",
	"cairo":         "CAI",
	"mumbai":        "BOM",
	"delhi":         "DEL",
	"bangkok":       "BKK",
	"singapore":     "SIN",
	"sydney":        "SYD",
	"melbourne":     "MEL",
	"toronto":       "YYZ",
	"montreal":      "YUL",
	"vancouver":     "YVR",
}

// airportCodes maps specific airport names and codes to their IATA code.
var airportCodes = map[string]string{
	"heathrow":          "LHR",
	"gatwick":           "LGW",
	"stansted":          "STN",
	"luton":             "LTN",
	"jfk":               "JFK",
	"laguardia":         "LGA",
	"lga":               "LGA",
	"newark":            "EWR",
	"ewr":               "EWR",
	"charles de gaulle": "CDG",
	"cdg":               "CDG",
	"orly":              "ORY",
	"schiphol":          "AMS",
	"amsterdam":         "AMS",
	"ams":               "AMS",
	"frankfurt":         "FRA",
	"fra":               "FRA",
	"munich":            "MUC",
	"muc":               "MUC",
	"zurich":            "ZRH",
	"zrh":               "ZRH",
	"madrid":            "MAD",
	"mad":               "MAD",
	"barcelona":         "BCN",
	"bcn":               "BCN",
	"arlanda":           "ARN",
	"arn":               "ARN",
	"karachi":           "KHI",
	"khi":               "KHI",
	"lahore":            "LHE",
	"lhe":               "LHE",
	"islamabad":         "ISB",
	"isb":               "ISB",
	"peshawar":          "PEW",
	"pew":               "PEW",
	"quetta":            "UET",
	"uet":               "UET",
	"multan":            "MUX",
	"mux":               "MUX",
	"athens":            "ATH",
	"ath":               "ATH",
}

// ResolveLocation normalizes a city or airport mention to an IATA code.
// Metro-area codes win over specific airports; a bare 3-letter token is
// passed through uppercased. Returns false when the place is unknown, which
// the dialogue surfaces as a clarifying question rather than a guess.
func ResolveLocation(name string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", false
	}

	if len(normalized) == 3 && isAlpha(normalized) {
		if _, known := airportCodes[normalized]; !known {
			return strings.ToUpper(normalized), true
		}
	}

	if code, ok := metroAreaCodes[normalized]; ok {
		return code, true
	}
	if code, ok := airportCodes[normalized]; ok {
		return code, true
	}

	// Tolerate qualifiers like "london please" or "the city of paris".
	for city, code := range metroAreaCodes {
		if strings.Contains(normalized, city) {
			return code, true
		}
	}
	for airport, code := range airportCodes {
		if strings.Contains(normalized, airport) {
			return code, true
		}
	}

	return "", false
}

// KnownPlaces returns every city and airport token the resolver recognizes.
// The keyword intent tier uses it to spot location pairs in free text.
func KnownPlaces() []string {
	places := make([]string, 0, len(metroAreaCodes)+len(airportCodes))
	for city := range metroAreaCodes {
		places = append(places, city)
	}
	for airport := range airportCodes {
		places = append(places, airport)
	}
	return places
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
