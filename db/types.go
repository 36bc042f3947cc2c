package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/gilby125/weekend-trip-api/pkg/presets"
)

// ErrNotFound is returned when a saved search does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected field of a saved search.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var iataCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// SavedSearch is a search form the user chose to keep. Presets are resolved
// against the current date whenever the search is run, so a saved "weekend"
// search always targets the coming weekend.
type SavedSearch struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	DepartureAirport     string    `json:"departure_airport"`
	Presets              []string  `json:"presets"`
	BudgetMax            int       `json:"budget_max"`
	Currency             string    `json:"currency"`
	ExcludedDestinations []string  `json:"excluded_destinations"`
	CreatedAt            time.Time `json:"created_at"`
}

// Normalize upper-cases codes, lower-cases preset keys and fills defaults.
func (s *SavedSearch) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.DepartureAirport = strings.ToUpper(strings.TrimSpace(s.DepartureAirport))
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = "EUR"
	}
	for i, p := range s.Presets {
		s.Presets[i] = strings.ToLower(strings.TrimSpace(p))
	}
	excluded := make([]string, 0, len(s.ExcludedDestinations))
	for _, code := range s.ExcludedDestinations {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			excluded = append(excluded, code)
		}
	}
	s.ExcludedDestinations = excluded
}

// Validate checks a normalized saved search.
func (s *SavedSearch) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if !iataCodeRe.MatchString(s.DepartureAirport) {
		return &ValidationError{Field: "departure_airport", Reason: "must be a 3-letter IATA code"}
	}
	if len(s.Presets) == 0 {
		return &ValidationError{Field: "presets", Reason: "at least one preset is required"}
	}
	if _, err := presets.ParseKeys(s.Presets); err != nil {
		return &ValidationError{Field: "presets", Reason: err.Error()}
	}
	if s.BudgetMax <= 0 {
		return &ValidationError{Field: "budget_max", Reason: "must be positive"}
	}
	if _, err := currency.ParseISO(s.Currency); err != nil {
		return &ValidationError{Field: "currency", Reason: "must be an ISO 4217 code"}
	}
	for _, code := range s.ExcludedDestinations {
		if !iataCodeRe.MatchString(code) {
			return &ValidationError{Field: "excluded_destinations", Reason: fmt.Sprintf("invalid IATA code %q", code)}
		}
		if code == s.DepartureAirport {
			return &ValidationError{Field: "excluded_destinations", Reason: "cannot exclude the departure airport"}
		}
	}
	return nil
}
