package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/weekend-trip-api/pkg/dates"
)

func validFavorite() Favorite {
	return Favorite{
		DepartureAirport: "bva",
		DestinationCode:  " opo ",
		DestinationName:  " Porto ",
		OutboundDate:     dates.MustNew(2026, time.January, 9),
		ReturnDate:       dates.MustNew(2026, time.January, 11),
		TotalPrice:       74.5,
	}
}

func TestFavorite_Normalize(t *testing.T) {
	f := validFavorite()
	f.Normalize()

	assert.Equal(t, "BVA", f.DepartureAirport)
	assert.Equal(t, "OPO", f.DestinationCode)
	assert.Equal(t, "Porto", f.DestinationName)
	assert.Equal(t, "EUR", f.Currency)
	require.NoError(t, f.Validate())
}

func TestFavorite_Validate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(f *Favorite)
	}{
		{"departure_airport", func(f *Favorite) { f.DepartureAirport = "PARIS" }},
		{"destination_code", func(f *Favorite) { f.DestinationCode = "1AB" }},
		{"destination_code", func(f *Favorite) { f.DestinationCode = "BVA" }},
		{"outbound_date", func(f *Favorite) { f.OutboundDate = dates.CalendarDate{} }},
		{"return_date", func(f *Favorite) { f.ReturnDate = dates.CalendarDate{} }},
		{"return_date", func(f *Favorite) { f.ReturnDate = dates.MustNew(2026, time.January, 8) }},
		{"total_price", func(f *Favorite) { f.TotalPrice = 0 }},
		{"currency", func(f *Favorite) { f.Currency = "EURO" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := validFavorite()
			f.Normalize()
			tt.mutate(&f)

			err := f.Validate()
			var invalid *ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestFavorite_SameDayTripIsValid(t *testing.T) {
	f := validFavorite()
	f.ReturnDate = f.OutboundDate
	f.Normalize()
	assert.NoError(t, f.Validate())
}

func TestFavorite_Weekend(t *testing.T) {
	tests := []struct {
		name     string
		outbound dates.CalendarDate
		inbound  dates.CalendarDate
		want     bool
	}{
		{"friday to sunday", dates.MustNew(2026, time.January, 9), dates.MustNew(2026, time.January, 11), true},
		{"saturday to sunday", dates.MustNew(2026, time.January, 10), dates.MustNew(2026, time.January, 11), true},
		{"thursday start", dates.MustNew(2026, time.January, 8), dates.MustNew(2026, time.January, 11), false},
		{"monday return", dates.MustNew(2026, time.January, 9), dates.MustNew(2026, time.January, 12), false},
		{"two weekends", dates.MustNew(2026, time.January, 9), dates.MustNew(2026, time.January, 18), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Favorite{OutboundDate: tt.outbound, ReturnDate: tt.inbound}
			window, ok := f.Weekend()
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, time.Friday, window.Start.Weekday())
				assert.True(t, window.Contains(tt.outbound))
			}
		})
	}
}
