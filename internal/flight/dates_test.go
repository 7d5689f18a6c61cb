package flight

import (
	"errors"
	"testing"
	"time"
)

var clock = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"iso passthrough", "2026-03-15", "2026-03-15", true},
		{"today", "today", "2026-01-10", true},
		{"tomorrow", "Tomorrow", "2026-01-11", true},
		{"next week", "next week", "2026-01-17", true},
		{"month day with ordinal", "March 15th", "2026-03-15", true},
		{"day month", "15 march", "2026-03-15", true},
		{"passed this year rolls over", "January 2nd", "2027-01-02", true},
		{"explicit year", "March 15 2027", "2027-03-15", true},
		{"unresolvable phrase", "sometime in spring", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input, clock)
			if ok != tt.ok {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateDates(t *testing.T) {
	tests := []struct {
		name      string
		departure string
		ret       string
		wantErr   error
	}{
		{"future one way", "2026-03-15", "", nil},
		{"today departs fine", "2026-01-10", "", nil},
		{"past departure", "2025-12-31", "", ErrPastDeparture},
		{"return before departure", "2026-03-15", "2026-03-10", ErrReturnBeforeDeparture},
		{"same day return", "2026-03-15", "2026-03-15", nil},
		{"garbage departure", "soon", "", ErrInvalidDate},
		{"garbage return", "2026-03-15", "later", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDates(tt.departure, tt.ret, clock)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDates() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
