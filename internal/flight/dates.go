package flight

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// Date validation failures, surfaced to the user as clarifying questions.
var (
	ErrPastDeparture         = errors.New("flight: departure date has already passed")
	ErrReturnBeforeDeparture = errors.New("flight: return date is before the departure date")
	ErrInvalidDate           = errors.New("flight: invalid date")
)

var ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)

// NormalizeDate resolves a date mention to ISO YYYY-MM-DD relative to now.
// It handles ISO input, the common relative words, and "March 15th"-style
// phrasings; when the year is omitted and the date has passed this year, the
// next year is assumed. Anything it cannot resolve deterministically returns
// false so the caller can fall back to the completion capability.
func NormalizeDate(raw string, now time.Time) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", false
	}

	switch cleaned {
	case "today":
		return now.Format(isoDate), true
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(isoDate), true
	case "day after tomorrow":
		return now.AddDate(0, 0, 2).Format(isoDate), true
	case "next week":
		return now.AddDate(0, 0, 7).Format(isoDate), true
	}

	if parsed, err := time.Parse(isoDate, cleaned); err == nil {
		return parsed.Format(isoDate), true
	}

	cleaned = ordinalSuffix.ReplaceAllString(cleaned, "$1")
	cleaned = strings.ReplaceAll(cleaned, ",", " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	withYear := []string{"January 2 2006", "2 January 2006", "2006 January 2"}
	for _, layout := range withYear {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format(isoDate), true
		}
	}

	withoutYear := []string{"January 2", "2 January"}
	for _, layout := range withoutYear {
		parsed, err := time.Parse(layout, cleaned)
		if err != nil {
			continue
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		candidate := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		if candidate.Before(today) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate.Format(isoDate), true
	}

	return "", false
}

// ValidateDates checks a departure/return pair against the current time:
// the departure must not be in the past, and the return, when present, must
// be on or after the departure.
func ValidateDates(departureDate, returnDate string, now time.Time) error {
	depart, err := time.Parse(isoDate, departureDate)
	if err != nil {
		return ErrInvalidDate
	}

	// Parsed dates are UTC midnight; compare against the same construction.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if depart.Before(today) {
		return ErrPastDeparture
	}

	if returnDate != "" {
		ret, err := time.Parse(isoDate, returnDate)
		if err != nil {
			return ErrInvalidDate
		}
		if ret.Before(depart) {
			return ErrReturnBeforeDeparture
		}
	}

	return nil
}
